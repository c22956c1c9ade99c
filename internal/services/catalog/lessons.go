package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// AuthorizeLesson — то же, что AuthorizeCourse, для уроков.
func (s *Service) AuthorizeLesson(ctx context.Context, actor *access.Actor, action access.Action, id int64) error {
	const op = "catalog.AuthorizeLesson"
	if id == 0 {
		if err := access.CheckLesson(actor, action, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	if _, err := s.loadLesson(ctx, actor, action, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateLesson создаёт урок, владельцем становится actor. Владеть курсом не требуется.
func (s *Service) CreateLesson(ctx context.Context, actor *access.Actor, in models.LessonInput) (*models.Lesson, error) {
	const op = "catalog.CreateLesson"
	if err := access.CheckLesson(actor, access.ActionCreate, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	l, err := s.repo.CreateLesson(ctx, actor.ID, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("lesson created", slog.String("op", op), slog.Int64("lesson_id", l.ID), slog.Int64("course_id", l.CourseID))
	return l, nil
}

// ListLessons возвращает уроки actor, а модератору — все уроки.
func (s *Service) ListLessons(ctx context.Context, actor *access.Actor, params models.ListParams) ([]*models.Lesson, error) {
	const op = "catalog.ListLessons"
	if err := access.CheckLesson(actor, access.ActionList, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	list, err := s.repo.ListLessons(ctx, models.LessonFilter{OwnerID: access.OwnerScope(actor), ListParams: params})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// GetLesson возвращает урок владельцу или модератору.
func (s *Service) GetLesson(ctx context.Context, actor *access.Actor, id int64) (*models.Lesson, error) {
	const op = "catalog.GetLesson"
	l, err := s.loadLesson(ctx, actor, access.ActionRetrieve, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// UpdateLesson перезаписывает урок целиком.
func (s *Service) UpdateLesson(ctx context.Context, actor *access.Actor, id int64, in models.LessonInput) (*models.Lesson, error) {
	const op = "catalog.UpdateLesson"
	if _, err := s.loadLesson(ctx, actor, access.ActionUpdate, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	l, err := s.repo.UpdateLesson(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// PatchLesson меняет только переданные поля урока.
func (s *Service) PatchLesson(ctx context.Context, actor *access.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error) {
	const op = "catalog.PatchLesson"
	cur, err := s.loadLesson(ctx, actor, access.ActionPartialUpdate, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	in := models.LessonInput{
		CourseID:    cur.CourseID,
		Title:       cur.Title,
		Description: cur.Description,
		Preview:     cur.Preview,
		VideoURL:    cur.VideoURL,
	}
	if patch.CourseID != nil {
		in.CourseID = *patch.CourseID
	}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Preview != nil {
		in.Preview = patch.Preview
	}
	if patch.VideoURL != nil {
		in.VideoURL = patch.VideoURL
	}
	l, err := s.repo.UpdateLesson(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// DeleteLesson удаляет урок. Модератор удалять не может, только владелец.
func (s *Service) DeleteLesson(ctx context.Context, actor *access.Actor, id int64) error {
	const op = "catalog.DeleteLesson"
	if _, err := s.loadLesson(ctx, actor, access.ActionDestroy, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteLesson(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("lesson deleted", slog.String("op", op), slog.Int64("lesson_id", id), slog.Int64("by", actor.ID))
	return nil
}

func (s *Service) loadLesson(ctx context.Context, actor *access.Actor, action access.Action, id int64) (*models.Lesson, error) {
	if err := access.CheckLesson(actor, action, nil); err != nil {
		return nil, err
	}
	l, err := s.repo.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckLesson(actor, action, l); err != nil {
		return nil, err
	}
	return l, nil
}
