package list

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListLessons(ctx context.Context, actor *access.Actor, params models.ListParams) ([]*models.Lesson, error) {
	args := m.Called(ctx, actor, params)
	l, _ := args.Get(0).([]*models.Lesson)
	return l, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	actor := &access.Actor{ID: 2, Moderator: true}

	svc := new(MockService)
	svc.On("ListLessons", mock.Anything, actor, models.ListParams{Limit: 20}).
		Return([]*models.Lesson{{ID: 1, CourseID: 1, Title: "A", Owner: 1}, {ID: 2, CourseID: 1, Title: "B", Owner: 5}}, nil).Once()
	svc.On("ListLessons", mock.Anything, (*access.Actor)(nil), models.ListParams{Limit: 20}).
		Return(nil, apperrors.ErrUnauthenticated).Once()

	req := httptest.NewRequest(http.MethodGet, "/lessons/", nil)
	req = req.WithContext(access.WithActor(req.Context(), actor))
	w := httptest.NewRecorder()
	New(logger, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"B"`)

	w = httptest.NewRecorder()
	New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lessons/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertExpectations(t)
}
