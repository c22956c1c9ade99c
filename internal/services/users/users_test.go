package users

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/lib/password"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context, params models.ListParams) ([]*models.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	alice     = &access.Actor{ID: 1, Email: "alice@example.com"}
	bob       = &access.Actor{ID: 2, Email: "bob@example.com"}
	moderator = &access.Actor{ID: 3, Email: "mod@example.com", Moderator: true}
)

func strPtr(s string) *string { return &s }

func TestService_List(t *testing.T) {
	t.Run("regular user sees only self", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByID", mock.Anything, int64(1)).Return(&models.User{ID: 1}, nil).Once()

		list, err := New(repo, newNoopLogger()).List(context.Background(), alice, models.ListParams{Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(1), list[0].ID)
		repo.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
	})

	t.Run("moderator sees everyone", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListUsers", mock.Anything, models.ListParams{Limit: 10}).
			Return([]*models.User{{ID: 1}, {ID: 2}, {ID: 3}}, nil).Once()

		list, err := New(repo, newNoopLogger()).List(context.Background(), moderator, models.ListParams{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := New(new(RepoMock), newNoopLogger()).List(context.Background(), nil, models.ListParams{})
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})
}

func TestService_Create(t *testing.T) {
	t.Run("moderator cannot create", func(t *testing.T) {
		repo := new(RepoMock)
		_, err := New(repo, newNoopLogger()).Create(context.Background(), moderator,
			models.UserInput{Email: "new@example.com", Password: "password123"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("regular user creates", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "new@example.com" && password.CompareHash(u.PasswordHash, "password123") == nil
		})).Return(&models.User{ID: 9, Email: "new@example.com"}, nil).Once()

		u, err := New(repo, newNoopLogger()).Create(context.Background(), alice,
			models.UserInput{Email: "new@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, int64(9), u.ID)
	})
}

func TestService_ObjectRules(t *testing.T) {
	tests := []struct {
		name      string
		actor     *access.Actor
		call      func(s *Service, a *access.Actor) error
		wantErrIs error
	}{
		{
			name:  "owner retrieves self",
			actor: alice,
			call: func(s *Service, a *access.Actor) error {
				_, err := s.Get(context.Background(), a, 1)
				return err
			},
		},
		{
			name:  "stranger cannot retrieve",
			actor: bob,
			call: func(s *Service, a *access.Actor) error {
				_, err := s.Get(context.Background(), a, 1)
				return err
			},
			wantErrIs: apperrors.ErrForbidden,
		},
		{
			name:  "moderator retrieves anyone",
			actor: moderator,
			call: func(s *Service, a *access.Actor) error {
				_, err := s.Get(context.Background(), a, 1)
				return err
			},
		},
		{
			name:  "moderator patches anyone",
			actor: moderator,
			call: func(s *Service, a *access.Actor) error {
				_, err := s.Patch(context.Background(), a, 1, models.UserPatch{City: strPtr("Kazan")})
				return err
			},
		},
		{
			name:  "moderator cannot delete others",
			actor: moderator,
			call: func(s *Service, a *access.Actor) error {
				return s.Delete(context.Background(), a, 1)
			},
			wantErrIs: apperrors.ErrForbidden,
		},
		{
			name:  "owner deletes self",
			actor: alice,
			call: func(s *Service, a *access.Actor) error {
				return s.Delete(context.Background(), a, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			target := &models.User{ID: 1, Email: "alice@example.com", IsActive: true}
			repo.On("GetUserByID", mock.Anything, int64(1)).Return(target, nil)
			repo.On("UpdateUser", mock.Anything, mock.Anything).Return(target, nil)
			repo.On("DeleteUser", mock.Anything, int64(1)).Return(nil)

			err := tt.call(New(repo, newNoopLogger()), tt.actor)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
				repo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_Update(t *testing.T) {
	t.Run("email is required", func(t *testing.T) {
		_, err := New(new(RepoMock), newNoopLogger()).Update(context.Background(), alice, 1, models.UserPatch{})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("replaces profile and rehashes password", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("GetUserByID", mock.Anything, int64(1)).
			Return(&models.User{ID: 1, Email: "alice@example.com", City: strPtr("Omsk"), PasswordHash: "old"}, nil).Once()
		repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "alice@new.example.com" &&
				u.City == nil &&
				password.CompareHash(u.PasswordHash, "new-password") == nil
		})).Return(&models.User{ID: 1, Email: "alice@new.example.com"}, nil).Once()

		u, err := New(repo, newNoopLogger()).Update(context.Background(), alice, 1, models.UserPatch{
			Email:    strPtr("alice@new.example.com"),
			Password: strPtr("new-password"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@new.example.com", u.Email)
		repo.AssertExpectations(t)
	})
}

func TestService_Me(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetUserByID", mock.Anything, int64(2)).Return(&models.User{ID: 2}, nil).Once()

	u, err := New(repo, newNoopLogger()).Me(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.ID)

	_, err = New(repo, newNoopLogger()).Me(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestService_Authorize(t *testing.T) {
	tests := []struct {
		name      string
		actor     *access.Actor
		action    access.Action
		id        int64
		wantErrIs error
	}{
		{"user creates", alice, access.ActionCreate, 0, nil},
		{"moderator cannot create", moderator, access.ActionCreate, 0, apperrors.ErrForbidden},
		{"owner updates self", alice, access.ActionUpdate, 1, nil},
		{"moderator patches", moderator, access.ActionPartialUpdate, 1, nil},
		{"stranger cannot update", bob, access.ActionUpdate, 1, apperrors.ErrForbidden},
		{"anonymous", nil, access.ActionUpdate, 1, apperrors.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("GetUserByID", mock.Anything, int64(1)).Return(&models.User{ID: 1, Email: "alice@example.com"}, nil)

			err := New(repo, newNoopLogger()).Authorize(context.Background(), tt.actor, tt.action, tt.id)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
		})
	}
}
