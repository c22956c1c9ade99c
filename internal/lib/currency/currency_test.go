package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConvertUSDToRUB(t *testing.T) {
	rate := decimal.NewFromInt(DefaultUSDRUBRate)

	tests := []struct {
		name   string
		amount string
		want   int64
	}{
		{name: "whole dollars", amount: "10", want: 95000},
		{name: "zero", amount: "0", want: 0},
		{name: "cents", amount: "10.55", want: 100225},
		{name: "sub-kopeck part is truncated", amount: "0.011", want: 104},
		{name: "large amount", amount: "12345.67", want: 117283865},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertUSDToRUB(decimal.RequireFromString(tt.amount), rate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertUSDToRUB_CustomRate(t *testing.T) {
	got := ConvertUSDToRUB(decimal.NewFromInt(2), decimal.RequireFromString("90.5"))
	assert.Equal(t, int64(18100), got)
}
