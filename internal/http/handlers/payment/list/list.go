// Package list реализует HTTP-обработчик списка платежей с фильтрами
// paid_course, paid_lesson, payment_method и сортировкой ordering.
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

// Handler обрабатывает GET /payments/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку платежей.
type Service interface {
	List(ctx context.Context, actor *access.Actor, filter models.PaymentFilter) ([]*models.Payment, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Description Пользователь видит свои платежи, модератор все. По умолчанию сначала новые.
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param paid_course query int false "ID оплаченного курса"
// @Param paid_lesson query int false "ID оплаченного урока"
// @Param payment_method query string false "cash | transfer"
// @Param ordering query string false "payment_date | -payment_date | amount | -amount"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.Payment}
// @Failure 400 {object} response.ErrorResponse "Некорректный фильтр"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Router /payments/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := parseFilter(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	payments, err := h.service.List(r.Context(), access.ActorFrom(r.Context()), filter)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.FromError(w, r, err)
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}

	render.JSON(w, r, response.OKWithData(payments))
}

func parseFilter(r *http.Request) (models.PaymentFilter, error) {
	var f models.PaymentFilter
	var err error

	if f.ListParams, err = request.Page(r); err != nil {
		return f, err
	}
	if f.PaidCourseID, err = request.OptionalID(r, "paid_course"); err != nil {
		return f, err
	}
	if f.PaidLessonID, err = request.OptionalID(r, "paid_lesson"); err != nil {
		return f, err
	}

	q := r.URL.Query()
	if raw := q.Get("payment_method"); raw != "" {
		m := models.PaymentMethod(raw)
		f.PaymentMethod = &m
	}
	f.Ordering = q.Get("ordering")
	return f, nil
}
