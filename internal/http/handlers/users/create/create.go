// Package create реализует HTTP-обработчик создания пользователя через /users/.
// Модератору создание пользователей запрещено.
package create

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

// Handler обрабатывает POST /users/.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание пользователя.
type Service interface {
	Authorize(ctx context.Context, actor *access.Actor, action access.Action, id int64) error
	Create(ctx context.Context, actor *access.Actor, in models.UserInput) (*models.User, error)
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
// @Summary Создание пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.UserInput true "Пользователь"
// @Success 201 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Модератору запрещено"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Router /users/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := access.ActorFrom(r.Context())
	if err := h.service.Authorize(r.Context(), actor, access.ActionCreate, 0); err != nil {
		log.Info("user creation denied", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	var req models.UserInput
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, err)
		return
	}

	user, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		log.Error("failed to create user", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(user))
}
