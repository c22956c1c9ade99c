// Package currency пересчитывает суммы из долларов США в рубли по
// фиксированному курсу, без обращения к внешним источникам.
package currency

import "github.com/shopspring/decimal"

// DefaultUSDRUBRate — курс по умолчанию, если в конфиге не задан другой.
const DefaultUSDRUBRate = 95

var hundred = decimal.NewFromInt(100)

// ConvertUSDToRUB возвращает сумму в копейках: amountUSD * rate * 100,
// дробная часть копеек отбрасывается.
func ConvertUSDToRUB(amountUSD, rate decimal.Decimal) int64 {
	return amountUSD.Mul(rate).Mul(hundred).IntPart()
}
