// Package payment реализует HTTP-обработчики платежного потока
// клиентского портала.
package payment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/bizvenue/billing-console/internal/http/httperr"
	"github.com/bizvenue/billing-console/internal/http/response"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/models"
	"github.com/bizvenue/billing-console/internal/services/payment"
)

// Handler управляет HTTP-запросами платежного потока.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики платежей.
type Service interface {
	CreateOrder(ctx context.Context, form models.CreateOrderRequest) (*payment.Order, error)
	Verify(ctx context.Context, form models.PaymentVerification) (*payment.Verification, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// CreateOrder godoc
// @Summary Создать платежный ордер
// @Description Создает ордер платежного шлюза на указанную сумму.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body models.CreateOrderRequest true "Сумма платежа"
// @Success 200 {object} response.Response "Ордер"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/payment/create-order [post]
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create_order"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateOrderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		log.Error("failed to create payment order", sl.Err(err))
		httperr.Render(w, r, err, "could not create payment order")
		return
	}

	log.Info("created payment order", slog.String("order_id", order.ID))
	render.JSON(w, r, response.OKWithData(order))
}

// Verify godoc
// @Summary Проверить платеж
// @Description Проверяет подпись завершенного платежа на бэкенде.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body models.PaymentVerification true "Данные платежа"
// @Success 200 {object} response.Response "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 402 {object} response.ErrorResponse "Подпись не подтверждена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/payment/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PaymentVerification
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	result, err := h.service.Verify(r.Context(), req)
	if err != nil {
		log.Error("failed to verify payment", sl.Err(err))
		httperr.Render(w, r, err, "could not verify payment")
		return
	}
	if !result.Valid {
		log.Warn("payment signature rejected", slog.String("order_id", req.OrderID))
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("payment verification failed"))
		return
	}

	log.Info("payment verified", slog.String("order_id", req.OrderID))
	render.JSON(w, r, response.OKWithData(result))
}
