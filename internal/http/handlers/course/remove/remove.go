// Package remove реализует HTTP-обработчик удаления курса.
//
// Удалить курс может только владелец; уроки и подписки удаляются каскадно.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/http/request"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
)

// Handler обрабатывает DELETE /courses/{id}/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление курса.
type Service interface {
	DeleteCourse(ctx context.Context, actor *access.Actor, id int64) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление курса
// @Tags Courses
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Success 204 "Курс удалён"
// @Failure 403 {object} response.ErrorResponse "Удалять может только владелец"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id}/ [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	if err := h.service.DeleteCourse(r.Context(), access.ActorFrom(r.Context()), id); err != nil {
		log.Info("failed to delete course", slog.Int64("course_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("course deleted", slog.Int64("course_id", id))
	w.WriteHeader(http.StatusNoContent)
}
