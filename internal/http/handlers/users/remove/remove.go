// Package remove реализует HTTP-обработчик удаления пользователя.
// Вместе с пользователем удаляются его курсы, уроки, подписки и платежи.
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

// Handler обрабатывает DELETE /users/{id}/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление пользователя.
type Service interface {
	Delete(ctx context.Context, actor *access.Actor, id int64) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление пользователя
// @Tags Users
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Success 204 "Пользователь удалён"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Router /users/{id}/ [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	h.Serve(w, r, id)
}

// Serve удаляет пользователя id; используется и для /users/me/.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, id int64) {
	const op = "handlers.users.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Delete(r.Context(), access.ActorFrom(r.Context()), id); err != nil {
		log.Info("failed to delete user", slog.Int64("user_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
