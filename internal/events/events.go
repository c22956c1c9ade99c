// Package events публикует доменные события LMS во внешний брокер.
// Ошибка публикации не отменяет уже выполненную операцию: вызывающий
// код только логирует её.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Ключи маршрутизации событий.
const (
	SubscriptionToggled = "subscription.toggled"
	PaymentCreated      = "payment.created"
)

// Publisher отправляет событие payload с ключом routingKey.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// SubscriptionToggledEvent — подписка пользователя на курс добавлена или удалена.
type SubscriptionToggledEvent struct {
	UserID     int64               `json:"user_id"`
	CourseID   int64               `json:"course_id"`
	Result     models.ToggleResult `json:"result"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// PaymentCreatedEvent — создан платёж.
type PaymentCreatedEvent struct {
	PaymentID     int64                `json:"payment_id"`
	UserID        int64                `json:"user_id"`
	PaidCourseID  *int64               `json:"paid_course,omitempty"`
	PaidLessonID  *int64               `json:"paid_lesson,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	SessionID     *string              `json:"session_id,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewPaymentCreated собирает событие из сохранённого платежа.
func NewPaymentCreated(p *models.Payment) PaymentCreatedEvent {
	return PaymentCreatedEvent{
		PaymentID:     p.ID,
		UserID:        p.UserID,
		PaidCourseID:  p.PaidCourseID,
		PaidLessonID:  p.PaidLessonID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		SessionID:     p.SessionID,
		OccurredAt:    p.PaymentDate,
	}
}

// Noop — публикатор для окружений без брокера.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(context.Context, string, any) error { return nil }
