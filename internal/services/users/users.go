// Package users управляет учётными записями: эндпоинты /users/ и /users/me/.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/lib/password"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Repository — операции хранилища над пользователями.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, params models.ListParams) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Service проверяет права и выполняет операции над пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List возвращает всех пользователей модератору и только собственную запись остальным.
func (s *Service) List(ctx context.Context, actor *access.Actor, params models.ListParams) ([]*models.User, error) {
	const op = "users.List"
	if err := access.CheckUserResource(actor, access.ActionList, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if scope := access.OwnerScope(actor); scope != nil {
		u, err := s.repo.GetUserByID(ctx, *scope)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if params.Offset > 0 {
			return []*models.User{}, nil
		}
		return []*models.User{u}, nil
	}
	list, err := s.repo.ListUsers(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Create создаёт пользователя. Модераторам запрещено.
func (s *Service) Create(ctx context.Context, actor *access.Actor, in models.UserInput) (*models.User, error) {
	const op = "users.Create"
	if err := access.CheckUserResource(actor, access.ActionCreate, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u, err := s.repo.CreateUser(ctx, &models.User{
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hashed,
		Phone:        in.Phone,
		City:         in.City,
		Avatar:       in.Avatar,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user created", slog.String("op", op), slog.Int64("user_id", u.ID), slog.Int64("by", actor.ID))
	return u, nil
}

// Authorize проверяет право actor на action до разбора тела запроса.
// id == 0 означает проверку уровня коллекции, иначе пользователь id
// загружается и проверяется на уровне объекта.
func (s *Service) Authorize(ctx context.Context, actor *access.Actor, action access.Action, id int64) error {
	const op = "users.Authorize"
	if id == 0 {
		if err := access.CheckUserResource(actor, action, nil); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	if _, err := s.load(ctx, actor, action, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает пользователя id, если actor — он сам или модератор.
func (s *Service) Get(ctx context.Context, actor *access.Actor, id int64) (*models.User, error) {
	const op = "users.Get"
	u, err := s.load(ctx, actor, access.ActionRetrieve, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Me возвращает текущего пользователя.
func (s *Service) Me(ctx context.Context, actor *access.Actor) (*models.User, error) {
	const op = "users.Me"
	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUnauthenticated)
	}
	u, err := s.repo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update полностью обновляет профиль: email обязателен.
func (s *Service) Update(ctx context.Context, actor *access.Actor, id int64, in models.UserPatch) (*models.User, error) {
	const op = "users.Update"
	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.Validation("email: this field is required"))
	}
	u, err := s.load(ctx, actor, access.ActionUpdate, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Phone, u.City, u.Avatar = in.Phone, in.City, in.Avatar
	return s.save(ctx, op, u, in)
}

// Patch меняет только переданные поля.
func (s *Service) Patch(ctx context.Context, actor *access.Actor, id int64, in models.UserPatch) (*models.User, error) {
	const op = "users.Patch"
	u, err := s.load(ctx, actor, access.ActionPartialUpdate, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if in.Phone != nil {
		u.Phone = in.Phone
	}
	if in.City != nil {
		u.City = in.City
	}
	if in.Avatar != nil {
		u.Avatar = in.Avatar
	}
	return s.save(ctx, op, u, in)
}

// Delete удаляет пользователя вместе со всеми его данными. Модератор может удалить только себя.
func (s *Service) Delete(ctx context.Context, actor *access.Actor, id int64) error {
	const op = "users.Delete"
	if _, err := s.load(ctx, actor, access.ActionDestroy, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.String("op", op), slog.Int64("user_id", id), slog.Int64("by", actor.ID))
	return nil
}

func (s *Service) load(ctx context.Context, actor *access.Actor, action access.Action, id int64) (*models.User, error) {
	if err := access.CheckUserResource(actor, action, nil); err != nil {
		return nil, err
	}
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckUserResource(actor, action, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) save(ctx context.Context, op string, u *models.User, in models.UserPatch) (*models.User, error) {
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Password != nil {
		hashed, err := password.GetHash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.PasswordHash = hashed
	}
	updated, err := s.repo.UpdateUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}
