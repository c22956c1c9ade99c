// Package create реализует HTTP-обработчик регистрации платежа.
//
// Сумма передаётся в долларах США. При "checkout": true перед записью платежа
// у провайдера создаётся сессия оплаты, и в ответе возвращаются
// session_id и payment_url. Ошибка провайдера даёт 502 без записи в базе.
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

// Handler обрабатывает POST /payments/.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис платежей
	validate *validator.Validate // Валидатор входных данных
}

// Service описывает создание платежа.
type Service interface {
	Create(ctx context.Context, actor *access.Actor, in models.PaymentInput) (*models.Payment, error)
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
// @Summary Создание платежа
// @Description Нужно указать ровно одно из paid_course / paid_lesson. Сумма в USD, не больше двух знаков после запятой.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.PaymentInput true "Платёж"
// @Success 201 {object} response.Response{data=models.Payment}
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payments/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PaymentInput
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

	payment, err := h.service.Create(r.Context(), access.ActorFrom(r.Context()), req)
	if err != nil {
		log.Error("failed to create payment", sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	log.Info("payment created", slog.Int64("payment_id", payment.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(payment))
}
