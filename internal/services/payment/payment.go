// Package payment записывает платежи за курсы и уроки и при необходимости
// открывает checkout-сессию у платёжного провайдера.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/events"
	"github.com/magabrotheeeer/lms-platform/internal/lib/currency"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Repository — операции хранилища, нужные для платежей.
type Repository interface {
	CreatePayment(ctx context.Context, p *models.Payment) (*models.Payment, error)
	GetPayment(ctx context.Context, id int64) (*models.Payment, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
}

// Provider — платёжный провайдер.
type Provider interface {
	CreateProduct(ctx context.Context, name, description string) (string, error)
	CreatePrice(ctx context.Context, productID string, amountRUB int64) (string, error)
	CreateCheckoutSession(ctx context.Context, priceID string) (*models.CheckoutSession, error)
}

// NUMERIC(12, 2)
var maxAmount = decimal.RequireFromString("9999999999.99")

// Service — бизнес-логика платежей.
type Service struct {
	repo      Repository
	provider  Provider
	publisher events.Publisher
	rate      decimal.Decimal
	log       *slog.Logger
}

// New создаёт Service. provider == nil отключает создание checkout-сессий.
func New(repo Repository, provider Provider, publisher events.Publisher, rate decimal.Decimal, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		rate:      rate,
		log:       log,
	}
}

// Create сохраняет платёж actor. При in.Checkout сначала создаются продукт,
// цена и checkout-сессия у провайдера, и только после этого пишется строка
// платежа. Ошибка провайдера не оставляет записи в базе.
func (s *Service) Create(ctx context.Context, actor *access.Actor, in models.PaymentInput) (*models.Payment, error) {
	const op = "payment.Create"
	if err := access.CheckPayment(actor, access.ActionCreate, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateInput(in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	name, description, err := s.target(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := &models.Payment{
		UserID:        actor.ID,
		PaidCourseID:  in.PaidCourseID,
		PaidLessonID:  in.PaidLessonID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
	}

	log := s.log.With(slog.String("op", op), slog.Int64("user_id", actor.ID))

	if in.Checkout {
		sess, err := s.checkout(ctx, name, description, in.Amount)
		if err != nil {
			log.Error("checkout session failed", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.SessionID = &sess.ID
		p.PaymentURL = &sess.URL
	}

	created, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("payment created", slog.Int64("payment_id", created.ID), slog.String("amount", created.Amount.StringFixed(2)))

	if err := s.publisher.Publish(ctx, events.PaymentCreated, events.NewPaymentCreated(created)); err != nil {
		log.Warn("failed to publish event", sl.Err(err))
	}
	return created, nil
}

// List возвращает платежи actor, модератору — платежи всех пользователей.
func (s *Service) List(ctx context.Context, actor *access.Actor, filter models.PaymentFilter) ([]*models.Payment, error) {
	const op = "payment.List"
	if err := access.CheckPayment(actor, access.ActionList, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if filter.PaymentMethod != nil && !filter.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%s: %w", op, apperrors.Validation("payment_method must be one of: cash, transfer"))
	}
	filter.UserID = access.OwnerScope(actor)
	list, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает платёж плательщику или модератору.
func (s *Service) Get(ctx context.Context, actor *access.Actor, id int64) (*models.Payment, error) {
	const op = "payment.Get"
	if err := access.CheckPayment(actor, access.ActionRetrieve, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := access.CheckPayment(actor, access.ActionRetrieve, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func validateInput(in models.PaymentInput) error {
	if (in.PaidCourseID == nil) == (in.PaidLessonID == nil) {
		return apperrors.Validation("exactly one of paid_course or paid_lesson must be set")
	}
	if !in.Amount.IsPositive() {
		return apperrors.Validation("amount must be positive")
	}
	if !in.Amount.Equal(in.Amount.Truncate(2)) {
		return apperrors.Validation("amount: ensure that there are no more than 2 decimal places")
	}
	if in.Amount.GreaterThan(maxAmount) {
		return apperrors.Validation("amount is too large")
	}
	if !in.PaymentMethod.Valid() {
		return apperrors.Validation("payment_method must be one of: cash, transfer")
	}
	return nil
}

// target возвращает название и описание оплачиваемого курса или урока.
func (s *Service) target(ctx context.Context, in models.PaymentInput) (string, string, error) {
	if in.PaidCourseID != nil {
		c, err := s.repo.GetCourse(ctx, *in.PaidCourseID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", "", apperrors.Validation("course does not exist")
		}
		if err != nil {
			return "", "", err
		}
		return c.Title, c.Description, nil
	}
	l, err := s.repo.GetLesson(ctx, *in.PaidLessonID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", "", apperrors.Validation("lesson does not exist")
	}
	if err != nil {
		return "", "", err
	}
	return l.Title, l.Description, nil
}

func (s *Service) checkout(ctx context.Context, name, description string, amountUSD decimal.Decimal) (*models.CheckoutSession, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("%w: payment provider is not configured", apperrors.ErrExternalService)
	}
	amountRUB := currency.ConvertUSDToRUB(amountUSD, s.rate)

	productID, err := s.provider.CreateProduct(ctx, name, description)
	if err != nil {
		return nil, err
	}
	priceID, err := s.provider.CreatePrice(ctx, productID, amountRUB)
	if err != nil {
		return nil, err
	}
	return s.provider.CreateCheckoutSession(ctx, priceID)
}
