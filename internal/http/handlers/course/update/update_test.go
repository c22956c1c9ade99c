package update

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) AuthorizeCourse(ctx context.Context, actor *access.Actor, action access.Action, id int64) error {
	args := m.Called(ctx, actor, action, id)
	return args.Error(0)
}

func (m *MockService) UpdateCourse(ctx context.Context, actor *access.Actor, id int64, in models.CourseInput) (*models.Course, error) {
	args := m.Called(ctx, actor, id, in)
	c, _ := args.Get(0).(*models.Course)
	return c, args.Error(1)
}

func (m *MockService) PatchCourse(ctx context.Context, actor *access.Actor, id int64, patch models.CoursePatch) (*models.Course, error) {
	args := m.Called(ctx, actor, id, patch)
	c, _ := args.Get(0).(*models.Course)
	return c, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	actor := &access.Actor{ID: 2, Moderator: true}
	title := "Go 2"

	tests := []struct {
		name       string
		method     string
		wantAction access.Action
		body       string
		authErr    error
		setupMock  func(m *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "put",
			method:     http.MethodPut,
			wantAction: access.ActionUpdate,
			body:       `{"title":"Go 2","description":"Advanced"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateCourse", mock.Anything, actor, int64(4), models.CourseInput{Title: "Go 2", Description: "Advanced"}).
					Return(&models.Course{ID: 4, Title: "Go 2", Description: "Advanced", Owner: 1}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"title":"Go 2"`,
		},
		{
			name:       "put requires description",
			method:     http.MethodPut,
			wantAction: access.ActionUpdate,
			body:       `{"title":"Go 2"}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"error":"field description is a required field"`,
		},
		{
			name:       "patch title only",
			method:     http.MethodPatch,
			wantAction: access.ActionPartialUpdate,
			body:       `{"title":"Go 2"}`,
			setupMock: func(m *MockService) {
				m.On("PatchCourse", mock.Anything, actor, int64(4), models.CoursePatch{Title: &title}).
					Return(&models.Course{ID: 4, Title: "Go 2", Description: "Basics", Owner: 1}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"description":"Basics"`,
		},
		{
			name:       "not owner",
			method:     http.MethodPatch,
			wantAction: access.ActionPartialUpdate,
			body:       `{"title":"Go 2"}`,
			authErr:    apperrors.ErrForbidden,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusForbidden,
			wantBody:   `"error":"permission denied"`,
		},
		{
			name:       "not owner with invalid body",
			method:     http.MethodPut,
			wantAction: access.ActionUpdate,
			body:       `{"title":"Go 2"}`,
			authErr:    apperrors.ErrForbidden,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusForbidden,
			wantBody:   `"error":"permission denied"`,
		},
		{
			name:       "unknown course",
			method:     http.MethodPut,
			wantAction: access.ActionUpdate,
			body:       `{}`,
			authErr:    apperrors.NotFound("course not found"),
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusNotFound,
			wantBody:   `"error":"course not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("AuthorizeCourse", mock.Anything, actor, tt.wantAction, int64(4)).Return(tt.authErr)
			tt.setupMock(svc)

			req := httptest.NewRequest(tt.method, "/courses/4", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "4")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(access.WithActor(ctx, actor))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
