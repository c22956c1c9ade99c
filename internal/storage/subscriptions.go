package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// ToggleSubscription удаляет подписку userID на courseID, если она есть, иначе создаёт.
//
// Строка пользователя блокируется на время транзакции, поэтому параллельные
// переключения одного пользователя выполняются по очереди и каждое видит
// результат предыдущего. Строка курса держится FOR KEY SHARE, так что
// параллельное удаление курса ждёт конца транзакции. Ограничение
// uq_subscriptions_user_course не даёт появиться дублю даже при обходе
// этой функции.
func (s *Storage) ToggleSubscription(ctx context.Context, userID, courseID int64) (models.ToggleResult, error) {
	const op = "storage.ToggleSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var lockedID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR NO KEY UPDATE`, userID).Scan(&lockedID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, notFound(mapError(err), "user not found"))
	}

	var lockedCourse int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM courses WHERE id = $1 FOR KEY SHARE`, courseID).Scan(&lockedCourse)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, notFound(mapError(err), "course not found"))
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	result := models.SubscriptionRemoved
	if deleted == 0 {
		if _, err = tx.ExecContext(ctx, `INSERT INTO subscriptions (user_id, course_id) VALUES ($1, $2)`,
			userID, courseID); err != nil {
			return "", fmt.Errorf("%s: %w", op, mapError(err))
		}
		result = models.SubscriptionAdded
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
