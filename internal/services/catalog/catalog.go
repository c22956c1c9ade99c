// Package catalog — курсы и уроки с проверкой прав доступа.
//
// Каждая операция проверяет права дважды: до обращения к хранилищу
// (уровень коллекции) и после загрузки объекта (уровень объекта).
// Списки немодераторов сужаются до собственных записей.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Repository — операции хранилища над курсами и уроками.
type Repository interface {
	CreateCourse(ctx context.Context, ownerID int64, in models.CourseInput) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetCourseDetail(ctx context.Context, id, viewerID int64) (*models.CourseDetail, error)
	ListCourses(ctx context.Context, ownerID *int64, params models.ListParams) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, in models.CourseInput) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error

	CreateLesson(ctx context.Context, ownerID int64, in models.LessonInput) (*models.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessons(ctx context.Context, filter models.LessonFilter) ([]*models.Lesson, error)
	UpdateLesson(ctx context.Context, id int64, in models.LessonInput) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
}

// Service — бизнес-логика каталога.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// AuthorizeCourse проверяет право actor на action до разбора тела запроса.
// id == 0 означает проверку уровня коллекции, иначе курс загружается
// и проверяется на уровне объекта.
func (s *Service) AuthorizeCourse(ctx context.Context, actor *access.Actor, action access.Action, id int64) error {
	const op = "catalog.AuthorizeCourse"
	if id == 0 {
		if err := access.CheckCourse(actor, action, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	if _, err := s.loadCourse(ctx, actor, action, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateCourse создаёт курс, владельцем становится actor. Модераторам запрещено.
func (s *Service) CreateCourse(ctx context.Context, actor *access.Actor, in models.CourseInput) (*models.Course, error) {
	const op = "catalog.CreateCourse"
	if err := access.CheckCourse(actor, access.ActionCreate, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.repo.CreateCourse(ctx, actor.ID, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("course created", slog.String("op", op), slog.Int64("course_id", c.ID), slog.Int64("owner", actor.ID))
	return c, nil
}

// ListCourses возвращает курсы actor, а модератору — все курсы.
func (s *Service) ListCourses(ctx context.Context, actor *access.Actor, params models.ListParams) ([]*models.Course, error) {
	const op = "catalog.ListCourses"
	if err := access.CheckCourse(actor, access.ActionList, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	list, err := s.repo.ListCourses(ctx, access.OwnerScope(actor), params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// GetCourse возвращает курс с уроками и признаком подписки actor.
func (s *Service) GetCourse(ctx context.Context, actor *access.Actor, id int64) (*models.CourseDetail, error) {
	const op = "catalog.GetCourse"
	if err := access.CheckCourse(actor, access.ActionRetrieve, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d, err := s.repo.GetCourseDetail(ctx, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := access.CheckCourse(actor, access.ActionRetrieve, &d.Course); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// UpdateCourse перезаписывает курс целиком.
func (s *Service) UpdateCourse(ctx context.Context, actor *access.Actor, id int64, in models.CourseInput) (*models.Course, error) {
	const op = "catalog.UpdateCourse"
	if _, err := s.loadCourse(ctx, actor, access.ActionUpdate, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.repo.UpdateCourse(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// PatchCourse меняет только переданные поля курса.
func (s *Service) PatchCourse(ctx context.Context, actor *access.Actor, id int64, patch models.CoursePatch) (*models.Course, error) {
	const op = "catalog.PatchCourse"
	cur, err := s.loadCourse(ctx, actor, access.ActionPartialUpdate, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	in := models.CourseInput{Title: cur.Title, Description: cur.Description, Preview: cur.Preview}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Preview != nil {
		in.Preview = patch.Preview
	}
	c, err := s.repo.UpdateCourse(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteCourse удаляет курс вместе с уроками. Разрешено только владельцу.
func (s *Service) DeleteCourse(ctx context.Context, actor *access.Actor, id int64) error {
	const op = "catalog.DeleteCourse"
	if _, err := s.loadCourse(ctx, actor, access.ActionDestroy, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("course deleted", slog.String("op", op), slog.Int64("course_id", id), slog.Int64("by", actor.ID))
	return nil
}

func (s *Service) loadCourse(ctx context.Context, actor *access.Actor, action access.Action, id int64) (*models.Course, error) {
	if err := access.CheckCourse(actor, action, nil); err != nil {
		return nil, err
	}
	c, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckCourse(actor, action, c); err != nil {
		return nil, err
	}
	return c, nil
}
