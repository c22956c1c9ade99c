// Package remove реализует HTTP-обработчик удаления урока. Удалить урок может только владелец.
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

// Handler обрабатывает DELETE /lessons/{id}/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление урока.
type Service interface {
	DeleteLesson(ctx context.Context, actor *access.Actor, id int64) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление урока
// @Tags Lessons
// @Security BearerAuth
// @Param id path int true "ID урока"
// @Success 204 "Урок удалён"
// @Failure 403 {object} response.ErrorResponse "Удалять может только владелец"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Router /lessons/{id}/ [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	if err := h.service.DeleteLesson(r.Context(), access.ActorFrom(r.Context()), id); err != nil {
		log.Info("failed to delete lesson", slog.Int64("lesson_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("lesson deleted", slog.Int64("lesson_id", id))
	w.WriteHeader(http.StatusNoContent)
}
