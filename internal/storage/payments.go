package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

const paymentColumns = `p.id, p.user_id, p.payment_date, p.paid_course_id, p.paid_lesson_id,
	p.amount, p.payment_method, p.session_id, p.payment_url`

// DefaultPaymentOrdering — самые свежие платежи первыми.
const DefaultPaymentOrdering = "-payment_date"

var paymentOrderings = map[string]string{
	"payment_date":  "p.payment_date ASC, p.id ASC",
	"-payment_date": "p.payment_date DESC, p.id DESC",
	"amount":        "p.amount ASC, p.id ASC",
	"-amount":       "p.amount DESC, p.id DESC",
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.PaymentDate, &p.PaidCourseID, &p.PaidLessonID,
		&p.Amount, &p.PaymentMethod, &p.SessionID, &p.PaymentURL); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment сохраняет платёж. Дата платежа назначается базой.
func (s *Storage) CreatePayment(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	created, err := scanPayment(s.DB.QueryRowContext(ctx, `INSERT INTO payments AS p
			  (user_id, paid_course_id, paid_lesson_id, amount, payment_method, session_id, payment_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING `+paymentColumns,
		p.UserID, p.PaidCourseID, p.PaidLessonID, p.Amount, string(p.PaymentMethod), p.SessionID, p.PaymentURL))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// GetPayment возвращает платёж по id без ограничения по плательщику.
func (s *Storage) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	const op = "storage.GetPayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPayment(s.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(mapError(err), "payment not found"))
	}
	return p, nil
}

// ListPayments возвращает платежи по фильтру. Пустой Ordering означает DefaultPaymentOrdering.
func (s *Storage) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	ordering := filter.Ordering
	if ordering == "" {
		ordering = DefaultPaymentOrdering
	}
	orderBy, ok := paymentOrderings[ordering]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op,
			apperrors.Validation("ordering must be one of: payment_date, -payment_date, amount, -amount"))
	}

	b := psql.Select(paymentColumns).From("payments p").OrderBy(orderBy)
	if filter.UserID != nil {
		b = b.Where(sq.Eq{"p.user_id": *filter.UserID})
	}
	if filter.PaidCourseID != nil {
		b = b.Where(sq.Eq{"p.paid_course_id": *filter.PaidCourseID})
	}
	if filter.PaidLessonID != nil {
		b = b.Where(sq.Eq{"p.paid_lesson_id": *filter.PaidLessonID})
	}
	if filter.PaymentMethod != nil {
		b = b.Where(sq.Eq{"p.payment_method": string(*filter.PaymentMethod)})
	}
	query, args, err := applyPage(b, filter.Limit, filter.Offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]*models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
