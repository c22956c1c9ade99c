// Package list реализует HTTP-обработчик списка уроков.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/http/request"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Handler обрабатывает GET /lessons/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение списка уроков.
type Service interface {
	ListLessons(ctx context.Context, actor *access.Actor, params models.ListParams) ([]*models.Lesson, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список уроков
// @Tags Lessons
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.Lesson}
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры пагинации"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Router /lessons/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := request.Page(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	lessons, err := h.service.ListLessons(r.Context(), access.ActorFrom(r.Context()), page)
	if err != nil {
		log.Error("failed to list lessons", sl.Err(err))
		response.FromError(w, r, err)
		return
	}
	if lessons == nil {
		lessons = []*models.Lesson{}
	}

	log.Debug("lessons listed", slog.Int("count", len(lessons)))
	render.JSON(w, r, response.OKWithData(lessons))
}
