// Package create реализует HTTP-обработчик создания курса.
//
// Владельцем курса становится текущий пользователь; модератору создание запрещено.
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

// Handler обрабатывает POST /courses/.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис каталога курсов
	validate *validator.Validate // Валидатор входных данных
}

// Service описывает создание курса.
type Service interface {
	AuthorizeCourse(ctx context.Context, actor *access.Actor, action access.Action, id int64) error
	CreateCourse(ctx context.Context, actor *access.Actor, in models.CourseInput) (*models.Course, error)
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
// @Summary Создание курса
// @Tags Courses
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CourseInput true "Курс"
// @Success 201 {object} response.Response{data=models.Course}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Модератору создание запрещено"
// @Router /courses/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := access.ActorFrom(r.Context())
	if err := h.service.AuthorizeCourse(r.Context(), actor, access.ActionCreate, 0); err != nil {
		log.Info("course creation denied", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	var req models.CourseInput
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.BadRequest(w, r, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, err)
		return
	}

	course, err := h.service.CreateCourse(r.Context(), actor, req)
	if err != nil {
		log.Error("failed to create course", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("course created", slog.Int64("course_id", course.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(course))
}
