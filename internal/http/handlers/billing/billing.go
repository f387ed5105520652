// Package billing реализует HTTP-обработчики истории платежей
// клиентского портала.
package billing

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

// Handler управляет HTTP-запросами истории платежей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики истории платежей.
type Service interface {
	History(ctx context.Context) ([]normalize.Transaction, error)
	Transaction(ctx context.Context, id int64) (*normalize.Transaction, error)
	RequestRefund(ctx context.Context, id int64, form models.RefundRequest) (*normalize.Transaction, error)
	DownloadReceipt(ctx context.Context, id int64) ([]byte, string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// History godoc
// @Summary История платежей
// @Tags Billing
// @Produce json
// @Success 200 {object} response.Response "Транзакции"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/billing/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.history"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.History(r.Context())
	if err != nil {
		log.Error("failed to load billing history", sl.Err(err))
		httperr.Render(w, r, err, "could not load billing history")
		return
	}

	log.Info("loaded billing history", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}

// Transaction godoc
// @Summary Карточка транзакции
// @Tags Billing
// @Produce json
// @Param id path int true "ID транзакции"
// @Success 200 {object} response.Response "Транзакция"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/billing/transactions/{id} [get]
func (h *Handler) Transaction(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.transaction"
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

	tx, err := h.service.Transaction(r.Context(), id)
	if err != nil {
		log.Error("failed to get transaction", sl.Err(err))
		httperr.Render(w, r, err, "could not get transaction")
		return
	}

	render.JSON(w, r, response.OKWithData(tx))
}

// RequestRefund godoc
// @Summary Запросить возврат
// @Tags Billing
// @Accept json
// @Produce json
// @Param id path int true "ID транзакции"
// @Param request body models.RefundRequest true "Причина возврата"
// @Success 200 {object} response.Response "Обновленная транзакция"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/billing/transactions/{id}/refund [post]
func (h *Handler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.request_refund"
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

	var req models.RefundRequest
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

	tx, err := h.service.RequestRefund(r.Context(), id, req)
	if err != nil {
		log.Error("failed to request refund", sl.Err(err))
		httperr.Render(w, r, err, "could not request refund")
		return
	}

	log.Info("requested refund", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(tx))
}

// DownloadReceipt godoc
// @Summary Скачать квитанцию
// @Tags Billing
// @Produce application/pdf
// @Param id path int true "ID транзакции"
// @Success 200 {file} file "Квитанция"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /client/billing/transactions/{id}/receipt [get]
func (h *Handler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.download_receipt"
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

	body, contentType, err := h.service.DownloadReceipt(r.Context(), id)
	if err != nil {
		log.Error("failed to download receipt", sl.Err(err))
		httperr.Render(w, r, err, "could not download receipt")
		return
	}
	if contentType == "" {
		contentType = "application/pdf"
	}

	log.Info("downloaded receipt", slog.Int64("id", id), slog.Int("size", len(body)))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+strconv.FormatInt(id, 10)+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}
