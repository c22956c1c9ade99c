// Package read реализует HTTP-обработчик получения платежа по ID.
package read

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

// Handler обрабатывает GET /payments/{id}/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение платежа.
type Service interface {
	Get(ctx context.Context, actor *access.Actor, id int64) (*models.Payment, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Платёж по ID
// @Tags Payments
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response{data=models.Payment}
// @Failure 403 {object} response.ErrorResponse "Чужой платёж"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Router /payments/{id}/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	payment, err := h.service.Get(r.Context(), access.ActorFrom(r.Context()), id)
	if err != nil {
		log.Info("failed to read payment", slog.Int64("payment_id", id), sl.Err(err))
		response.FromError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(payment))
}
