// Package update реализует HTTP-обработчик полного (PUT) и частичного (PATCH)
// обновления урока. Изменять урок может владелец или модератор.
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

// Handler обрабатывает PUT и PATCH /lessons/{id}/.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает обновление урока.
type Service interface {
	AuthorizeLesson(ctx context.Context, actor *access.Actor, action access.Action, id int64) error
	UpdateLesson(ctx context.Context, actor *access.Actor, id int64, in models.LessonInput) (*models.Lesson, error)
	PatchLesson(ctx context.Context, actor *access.Actor, id int64, patch models.LessonPatch) (*models.Lesson, error)
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
// @Summary Обновление урока
// @Description PUT заменяет все поля, PATCH меняет только переданные.
// @Tags Lessons
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID урока"
// @Param request body models.LessonInput true "Урок"
// @Success 200 {object} response.Response{data=models.Lesson}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Router /lessons/{id}/ [put]
// @Router /lessons/{id}/ [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	actor := access.ActorFrom(r.Context())

	action := access.ActionUpdate
	if r.Method == http.MethodPatch {
		action = access.ActionPartialUpdate
	}
	if err := h.service.AuthorizeLesson(r.Context(), actor, action, id); err != nil {
		log.Info("lesson update denied", slog.Int64("lesson_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	var lesson *models.Lesson
	if r.Method == http.MethodPatch {
		var req models.LessonPatch
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			response.Invalid(w, r, err)
			return
		}
		lesson, err = h.service.PatchLesson(r.Context(), actor, id, req)
	} else {
		var req models.LessonInput
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			response.Invalid(w, r, err)
			return
		}
		lesson, err = h.service.UpdateLesson(r.Context(), actor, id, req)
	}
	if err != nil {
		log.Info("failed to update lesson", slog.Int64("lesson_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("lesson updated", slog.Int64("lesson_id", id))
	render.JSON(w, r, response.OKWithData(lesson))
}
