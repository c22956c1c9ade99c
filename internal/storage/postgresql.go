// Package storage реализует хранилище LMS на PostgreSQL: пользователей и группы,
// курсы и уроки, подписки на курсы и платежи. Ошибки драйвера переводятся
// в сентинел-ошибки apperrors.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// New открывает подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady проверяет, что миграции применены.
func CheckDatabaseReady(ctx context.Context, storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscriptions'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("storage.CheckDatabaseReady: %w", err)
	}
	if !exists {
		return errors.New("storage.CheckDatabaseReady: required table subscriptions missing")
	}
	return nil
}

// Сообщения для нарушений известных ограничений схемы.
var constraintMessages = map[string]string{
	"users_email_key":               "user with this email already exists",
	"groups_name_key":               "group already exists",
	"uq_subscriptions_user_course":  "subscription already exists",
	"lessons_course_id_fkey":        "course does not exist",
	"subscriptions_course_id_fkey":  "course does not exist",
	"payments_paid_course_id_fkey":  "course does not exist",
	"payments_paid_lesson_id_fkey":  "lesson does not exist",
	"payments_amount_check":         "amount must be positive",
	"payments_payment_method_check": "payment_method must be one of: cash, transfer",
}

// mapError переводит ошибки database/sql и pgconn в таксономию apperrors.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	msg, known := constraintMessages[pgErr.ConstraintName]
	switch pgErr.Code {
	case "23505":
		if known {
			return apperrors.Conflict(msg)
		}
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.Detail)
	case "23503", "23514":
		if known {
			return apperrors.Validation(msg)
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, pgErr.Detail)
	}
	return err
}

// applyPage добавляет к запросу LIMIT/OFFSET, если они заданы.
func applyPage(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

// notFound уточняет голую ErrNotFound сообщением msg.
func notFound(err error, msg string) error {
	if err == apperrors.ErrNotFound {
		return apperrors.NotFound(msg)
	}
	return err
}
