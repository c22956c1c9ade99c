package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod — способ оплаты.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid сообщает, является ли значение допустимым способом оплаты.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentTransfer
}

// Payment — неизменяемая запись об оплате курса либо урока.
// SessionID и PaymentURL заполнены, только если при создании была открыта
// checkout-сессия у платёжного провайдера.
type Payment struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaidCourseID  *int64          `json:"paid_course"`
	PaidLessonID  *int64          `json:"paid_lesson"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	SessionID     *string         `json:"session_id,omitempty"`
	PaymentURL    *string         `json:"payment_url,omitempty"`
}

// OwnerID возвращает плательщика.
func (p *Payment) OwnerID() int64 { return p.UserID }

// PaymentInput — тело POST /payments/. Amount задаётся в долларах США
// с двумя знаками после запятой; при Checkout=true создаётся сессия оплаты.
type PaymentInput struct {
	PaidCourseID  *int64          `json:"paid_course" validate:"omitempty,gt=0"`
	PaidLessonID  *int64          `json:"paid_lesson" validate:"omitempty,gt=0"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method" validate:"required,oneof=cash transfer"`
	Checkout      bool            `json:"checkout"`
}

// PaymentFilter — фильтры и сортировка списка платежей.
// UserID == nil означает «все пользователи» (только для модераторов).
type PaymentFilter struct {
	UserID        *int64
	PaidCourseID  *int64
	PaidLessonID  *int64
	PaymentMethod *PaymentMethod
	Ordering      string
	ListParams
}

// CheckoutSession — ответ провайдера на создание сессии оплаты.
type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"payment_url"`
}
