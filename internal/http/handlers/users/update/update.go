// Package update реализует HTTP-обработчик обновления профиля пользователя:
// PUT заменяет профиль (email обязателен), PATCH меняет переданные поля.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/lms-platform/internal/access"
	"github.com/magabrotheeeer/lms-platform/internal/http/request"
	"github.com/magabrotheeeer/lms-platform/internal/http/response"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/lib/validate"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// Handler обрабатывает PUT и PATCH /users/{id}/.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает обновление профиля.
type Service interface {
	Authorize(ctx context.Context, actor *access.Actor, action access.Action, id int64) error
	Update(ctx context.Context, actor *access.Actor, id int64, in models.UserPatch) (*models.User, error)
	Patch(ctx context.Context, actor *access.Actor, id int64, in models.UserPatch) (*models.User, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновление пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Param request body models.UserPatch true "Профиль"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Router /users/{id}/ [put]
// @Router /users/{id}/ [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	h.Serve(w, r, id)
}

// Serve обновляет пользователя id; используется и для /users/me/.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, id int64) {
	const op = "handlers.users.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := access.ActorFrom(r.Context())
	action := access.ActionUpdate
	if r.Method == http.MethodPatch {
		action = access.ActionPartialUpdate
	}
	if err := h.service.Authorize(r.Context(), actor, action, id); err != nil {
		log.Info("user update denied", slog.Int64("user_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	var req models.UserPatch
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	var (
		user *models.User
		err  error
	)
	if r.Method == http.MethodPatch {
		user, err = h.service.Patch(r.Context(), actor, id, req)
	} else {
		user, err = h.service.Update(r.Context(), actor, id, req)
	}
	if err != nil {
		log.Info("failed to update user", slog.Int64("user_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("user updated", slog.Int64("user_id", id))
	render.JSON(w, r, response.OKWithData(user))
}
