// Package list реализует HTTP-обработчик списка курсов.
//
// Модератор видит все курсы, остальные пользователи только свои.
package list

import (
	"context"
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

// Handler обрабатывает GET /courses/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение списка курсов.
type Service interface {
	ListCourses(ctx context.Context, actor *access.Actor, params models.ListParams) ([]*models.Course, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список курсов
// @Tags Courses
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.Course}
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры пагинации"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Router /courses/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := request.Page(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	courses, err := h.service.ListCourses(r.Context(), access.ActorFrom(r.Context()), page)
	if err != nil {
		log.Error("failed to list courses", sl.Err(err))
		response.FromError(w, r, err)
		return
	}
	if courses == nil {
		courses = []*models.Course{}
	}

	log.Debug("courses listed", slog.Int("count", len(courses)))
	render.JSON(w, r, response.OKWithData(courses))
}
