// Package paymentmethods реализует HTTP-обработчики способов оплаты
// клиентского портала.
package paymentmethods

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/bizvenue/billing-console/internal/http/httperr"
	"github.com/bizvenue/billing-console/internal/http/response"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/models"
	"github.com/bizvenue/billing-console/internal/normalize"
)

// Handler управляет HTTP-запросами способов оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики способов оплаты.
type Service interface {
	List(ctx context.Context) ([]normalize.PaymentMethod, error)
	Create(ctx context.Context, form models.PaymentMethodForm) (*normalize.PaymentMethod, error)
	Remove(ctx context.Context, id int64) error
	SetDefault(ctx context.Context, id int64) (*normalize.PaymentMethod, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// List godoc
// @Summary Список способов оплаты
// @Tags PaymentMethods
// @Produce json
// @Success 200 {object} response.Response "Способы оплаты"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/payment-methods [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentmethods.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list payment methods", sl.Err(err))
		httperr.Render(w, r, err, "could not list payment methods")
		return
	}

	log.Info("listed payment methods", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}

// Create godoc
// @Summary Добавить способ оплаты
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Param request body models.PaymentMethodForm true "Новый способ оплаты"
// @Success 200 {object} response.Response "Добавленный способ оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/payment-methods [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentmethods.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PaymentMethodForm
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	method, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to add payment method", sl.Err(err))
		httperr.Render(w, r, err, "could not add payment method")
		return
	}

	log.Info("added payment method", slog.Int64("id", method.Key))
	render.JSON(w, r, response.OKWithData(method))
}

// Remove godoc
// @Summary Удалить способ оплаты
// @Tags PaymentMethods
// @Produce json
// @Param id path int true "ID способа оплаты"
// @Success 200 {object} response.Response "Способ оплаты удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/payment-methods/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentmethods.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		log.Error("failed to remove payment method", sl.Err(err))
		httperr.Render(w, r, err, "could not remove payment method")
		return
	}

	log.Info("removed payment method", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// SetDefault godoc
// @Summary Сделать способ оплаты основным
// @Tags PaymentMethods
// @Produce json
// @Param id path int true "ID способа оплаты"
// @Success 200 {object} response.Response "Обновленный способ оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/payment-methods/{id}/set-default [post]
func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentmethods.set_default"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	method, err := h.service.SetDefault(r.Context(), id)
	if err != nil {
		log.Error("failed to set default payment method", sl.Err(err))
		httperr.Render(w, r, err, "could not set default payment method")
		return
	}

	log.Info("set default payment method", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(method))
}
