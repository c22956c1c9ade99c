// Package update реализует HTTP-обработчик полного (PUT) и частичного (PATCH)
// обновления курса. Изменять курс может владелец или модератор.
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

// Handler обрабатывает PUT и PATCH /courses/{id}/.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает обновление курса.
type Service interface {
	AuthorizeCourse(ctx context.Context, actor *access.Actor, action access.Action, id int64) error
	UpdateCourse(ctx context.Context, actor *access.Actor, id int64, in models.CourseInput) (*models.Course, error)
	PatchCourse(ctx context.Context, actor *access.Actor, id int64, patch models.CoursePatch) (*models.Course, error)
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
// @Summary Обновление курса
// @Description PUT заменяет все поля, PATCH меняет только переданные.
// @Tags Courses
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Param request body models.CourseInput true "Курс"
// @Success 200 {object} response.Response{data=models.Course}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Router /courses/{id}/ [put]
// @Router /courses/{id}/ [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.update"

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
	if err := h.service.AuthorizeCourse(r.Context(), actor, action, id); err != nil {
		log.Info("course update denied", slog.Int64("course_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	var course *models.Course
	if r.Method == http.MethodPatch {
		var req models.CoursePatch
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			response.Invalid(w, r, err)
			return
		}
		course, err = h.service.PatchCourse(r.Context(), actor, id, req)
	} else {
		var req models.CourseInput
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}
		if err := h.validate.Struct(req); err != nil {
			response.Invalid(w, r, err)
			return
		}
		course, err = h.service.UpdateCourse(r.Context(), actor, id, req)
	}
	if err != nil {
		log.Info("failed to update course", slog.Int64("course_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("course updated", slog.Int64("course_id", id))
	render.JSON(w, r, response.OKWithData(course))
}
