// Package me реализует эндпоинт текущего пользователя /users/me/:
// GET возвращает профиль, PUT и PATCH обновляют его, DELETE удаляет учётную запись.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/apperrors"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/users/remove"
	"github.com/magabrotheeeer/lms-platform/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Service описывает операции над текущим пользователем.
type Service interface {
	Me(ctx context.Context, actor *access.Actor) (*models.User, error)
	update.Service
	remove.Service
}

// Handler обрабатывает /users/me/.
type Handler struct {
	log     *slog.Logger
	service Service
	update  *update.Handler
	remove  *remove.Handler
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		update:  update.New(log, service),
		remove:  remove.New(log, service),
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description GET — профиль, PUT/PATCH — обновление, DELETE — удаление учётной записи.
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.User}
// @Success 204 "Учётная запись удалена"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Router /users/me/ [get]
// @Router /users/me/ [put]
// @Router /users/me/ [patch]
// @Router /users/me/ [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.me"

	actor := access.ActorFrom(r.Context())
	if actor == nil {
		response.FromError(w, r, apperrors.ErrUnauthenticated)
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		h.update.Serve(w, r, actor.ID)
	case http.MethodDelete:
		h.remove.Serve(w, r, actor.ID)
	default:
		user, err := h.service.Me(r.Context(), actor)
		if err != nil {
			h.log.Error("failed to load current user",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err),
			)
			response.FromError(w, r, err)
			return
		}
		render.JSON(w, r, response.OKWithData(user))
	}
}
