// Package read реализует HTTP-обработчик получения курса по ID.
//
// Ответ содержит уроки курса, их количество и признак подписки
// текущего пользователя.
package read

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

// Handler обрабатывает GET /courses/{id}/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение курса.
type Service interface {
	GetCourse(ctx context.Context, actor *access.Actor, id int64) (*models.CourseDetail, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Курс по ID
// @Tags Courses
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response{data=models.CourseDetail}
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id}/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	course, err := h.service.GetCourse(r.Context(), access.ActorFrom(r.Context()), id)
	if err != nil {
		log.Info("failed to read course", slog.Int64("course_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(course))
}
