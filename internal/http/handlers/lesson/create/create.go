// Package create реализует HTTP-обработчик создания урока.
//
// Владельцем урока становится автор запроса, курс должен существовать.
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

// Handler обрабатывает POST /lessons/.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис каталога
	validate *validator.Validate // Валидатор входных данных
}

// Service описывает создание урока.
type Service interface {
	AuthorizeLesson(ctx context.Context, actor *access.Actor, action access.Action, id int64) error
	CreateLesson(ctx context.Context, actor *access.Actor, in models.LessonInput) (*models.Lesson, error)
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
// @Summary Создание урока
// @Description Ссылка на видео допускается только на youtube.com.
// @Tags Lessons
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.LessonInput true "Урок"
// @Success 201 {object} response.Response{data=models.Lesson}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Модератору создание запрещено"
// @Router /lessons/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lesson.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor := access.ActorFrom(r.Context())
	if err := h.service.AuthorizeLesson(r.Context(), actor, access.ActionCreate, 0); err != nil {
		log.Info("lesson creation denied", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	var req models.LessonInput
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

	lesson, err := h.service.CreateLesson(r.Context(), actor, req)
	if err != nil {
		log.Error("failed to create lesson", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("lesson created", slog.Int64("lesson_id", lesson.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(lesson))
}
