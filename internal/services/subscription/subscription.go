// Package subscription переключает подписку пользователя на курс.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/events"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Repository атомарно переключает подписку.
type Repository interface {
	ToggleSubscription(ctx context.Context, userID, courseID int64) (models.ToggleResult, error)
}

// Service — переключатель подписок.
type Service struct {
	repo      Repository
	publisher events.Publisher
	log       *slog.Logger
}

// New создаёт Service.
func New(repo Repository, publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, log: log}
}

// Toggle удаляет подписку actor на курс, если она есть, иначе создаёт.
// Несуществующий курс даёт ErrNotFound.
func (s *Service) Toggle(ctx context.Context, actor *access.Actor, courseID int64) (models.ToggleResult, error) {
	const op = "subscription.Toggle"
	if actor == nil {
		return "", fmt.Errorf("%s: %w", op, apperrors.ErrUnauthenticated)
	}
	if courseID <= 0 {
		return "", fmt.Errorf("%s: %w", op, apperrors.Validation("course_id: this field is required"))
	}

	result, err := s.repo.ToggleSubscription(ctx, actor.ID, courseID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.Int64("user_id", actor.ID), slog.Int64("course_id", courseID))
	log.Info("subscription toggled", slog.String("result", string(result)))

	err = s.publisher.Publish(ctx, events.SubscriptionToggled, events.SubscriptionToggledEvent{
		UserID:     actor.ID,
		CourseID:   courseID,
		Result:     result,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warn("failed to publish event", sl.Err(err))
	}
	return result, nil
}
