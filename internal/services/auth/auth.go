// Package auth отвечает за регистрацию, вход, ротацию refresh-токенов
// и аутентификацию запросов по access-токену.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-platform/internal/lib/password"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
	"github.com/magabrotheeeer/lms-platform/internal/session"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionStore хранит выданные refresh-токены.
type SessionStore interface {
	Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error
	Consume(ctx context.Context, jti string) (int64, error)
}

var errInvalidCredentials = apperrors.Unauthenticated("invalid credentials")

// AuthService выпускает и проверяет токены.
type AuthService struct {
	users          UserRepository
	jwtMaker       jwt.Maker
	sessions       SessionStore
	moderatorGroup string
	log            *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, sessions SessionStore, moderatorGroup string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:          users,
		jwtMaker:       jwtMaker,
		sessions:       sessions,
		moderatorGroup: moderatorGroup,
		log:            log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
func (s *AuthService) Register(ctx context.Context, in models.UserInput) (*models.User, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, &models.User{
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hashed,
		Phone:        in.Phone,
		City:         in.City,
		Avatar:       in.Avatar,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Login проверяет пароль и выпускает пару токенов.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*jwt.Pair, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, errInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, errInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, errInvalidCredentials)
	}
	return s.issue(ctx, op, user)
}

// Refresh обменивает refresh-токен на новую пару. Каждый refresh-токен одноразовый.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwt.Pair, error) {
	const op = "auth.Refresh"

	claims, err := s.jwtMaker.ParseToken(refreshToken, jwt.Refresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w (%s)", op, apperrors.Unauthenticated("invalid or expired token"), err)
	}
	userID, err := s.sessions.Consume(ctx, claims.ID)
	if errors.Is(err, session.ErrNotFound) {
		s.log.Warn("refresh token reuse or expired session",
			slog.String("op", op), slog.Int64("user_id", claims.UserID))
		return nil, fmt.Errorf("%s: %w", op, apperrors.Unauthenticated("refresh token is invalid or already used"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if userID != claims.UserID {
		return nil, fmt.Errorf("%s: %w", op, apperrors.Unauthenticated("refresh token does not match session"))
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, errInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, errInvalidCredentials)
	}
	return s.issue(ctx, op, user)
}

// Authenticate проверяет access-токен и загружает пользователя вместе с признаком модератора.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*access.Actor, error) {
	const op = "auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(accessToken, jwt.Access)
	if err != nil {
		return nil, fmt.Errorf("%s: %w (%s)", op, apperrors.Unauthenticated("invalid or expired token"), err)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, apperrors.Unauthenticated("user not found"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, apperrors.Unauthenticated("user is inactive"))
	}
	return &access.Actor{
		ID:        user.ID,
		Email:     user.Email,
		Moderator: user.InGroup(s.moderatorGroup),
	}, nil
}

func (s *AuthService) issue(ctx context.Context, op string, user *models.User) (*jwt.Pair, error) {
	pair, err := s.jwtMaker.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sessions.Save(ctx, pair.RefreshID, user.ID, time.Until(pair.RefreshExpiresAt)); err != nil {
		s.log.Error("failed to save refresh session", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pair, nil
}
