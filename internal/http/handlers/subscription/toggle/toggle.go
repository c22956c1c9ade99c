// Package toggle реализует HTTP-обработчик переключения подписки на курс.
//
// Если подписки текущего пользователя на курс не было, она создаётся
// (message "added"), иначе удаляется (message "removed").
package toggle

import (
	"context"
	"errors"
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

// Handler обрабатывает POST /subscriptions/toggle/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает переключение подписки.
type Service interface {
	Toggle(ctx context.Context, actor *access.Actor, courseID int64) (models.ToggleResult, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключение подписки на курс
// @Description Создаёт подписку, если её нет, иначе удаляет. Повторный запрос отменяет предыдущий.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ToggleRequest true "Идентификатор курса"
// @Success 200 {object} response.Response "message: added | removed"
// @Failure 400 {object} response.ErrorResponse "course_id не передан"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /subscriptions/toggle/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.toggle"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ToggleRequest
	if err := request.DecodeJSON(r, &req); err != nil && !errors.Is(err, request.ErrEmptyBody) {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r, err.Error())
		return
	}

	var courseID int64
	if req.CourseID != nil {
		courseID = *req.CourseID
	}

	res, err := h.service.Toggle(r.Context(), access.ActorFrom(r.Context()), courseID)
	if err != nil {
		log.Info("failed to toggle subscription", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("subscription toggled", slog.Int64("course_id", courseID), slog.String("result", string(res)))
	render.JSON(w, r, response.OKWithMessage(string(res)))
}
