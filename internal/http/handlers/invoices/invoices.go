// Package invoices реализует HTTP-обработчики раздела счетов.
//
// Кроме CRUD счет можно отправить клиенту, оплатить и скачать в PDF.
// Выгрузка отдает бинарное тело как есть, без JSON-конверта.
package invoices

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
	"github.com/bizvenue/billing-console/internal/session"
)

// Handler управляет HTTP-запросами раздела счетов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики счетов.
type Service interface {
	List(ctx context.Context, companyID int64) ([]normalize.Invoice, error)
	Get(ctx context.Context, id int64) (*normalize.Invoice, error)
	Create(ctx context.Context, form models.InvoiceForm) (*normalize.Invoice, error)
	Update(ctx context.Context, id int64, form models.InvoiceForm) (*normalize.Invoice, error)
	Remove(ctx context.Context, id int64) error
	Send(ctx context.Context, id int64) (*normalize.Invoice, error)
	Pay(ctx context.Context, id int64) (*normalize.Invoice, error)
	Download(ctx context.Context, id int64) ([]byte, string, error)
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
// @Summary Список счетов
// @Tags Invoices
// @Produce json
// @Success 200 {object} response.Response "Список счетов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoices.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context(), session.CompanyScope(r.Context()))
	if err != nil {
		log.Error("failed to list invoices", sl.Err(err))
		httperr.Render(w, r, err, "could not list invoices")
		return
	}

	log.Info("listed invoices", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}

// Get godoc
// @Summary Карточка счета
// @Tags Invoices
// @Produce json
// @Param id path int true "ID счета"
// @Success 200 {object} response.Response "Счет"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoices.get"
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

	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get invoice", sl.Err(err))
		httperr.Render(w, r, err, "could not get invoice")
		return
	}

	render.JSON(w, r, response.OKWithData(inv))
}

// Create godoc
// @Summary Создать счет
// @Description Счет без выбранного клиента отклоняется валидацией.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body models.InvoiceForm true "Данные нового счета"
// @Success 200 {object} response.Response "Созданный счет"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoices.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.InvoiceForm
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

	inv, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create invoice", sl.Err(err))
		httperr.Render(w, r, err, "could not create invoice")
		return
	}

	log.Info("created new invoice", slog.Int64("id", inv.Key))
	render.JSON(w, r, response.OKWithData(inv))
}

// Update godoc
// @Summary Обновить счет
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path int true "ID счета"
// @Param request body models.InvoiceForm true "Новые данные счета"
// @Success 200 {object} response.Response "Обновленный счет"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoices.update"
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

	var req models.InvoiceForm
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

	inv, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update invoice", sl.Err(err))
		httperr.Render(w, r, err, "could not update invoice")
		return
	}

	log.Info("updated invoice", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(inv))
}

// Remove godoc
// @Summary Удалить счет
// @Tags Invoices
// @Produce json
// @Param id path int true "ID счета"
// @Success 200 {object} response.Response "Счет удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoices.remove"
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
		log.Error("failed to remove invoice", sl.Err(err))
		httperr.Render(w, r, err, "could not remove invoice")
		return
	}

	log.Info("removed invoice", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Send godoc
// @Summary Отправить счет клиенту
// @Tags Invoices
// @Produce json
// @Param id path int true "ID счета"
// @Success 200 {object} response.Response "Обновленный счет"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices/{id}/send [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "handlers.invoices.send", h.service.Send)
}

// Pay godoc
// @Summary Оплатить счет
// @Tags Invoices
// @Produce json
// @Param id path int true "ID счета"
// @Success 200 {object} response.Response "Обновленный счет"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices/{id}/pay [post]
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "handlers.invoices.pay", h.service.Pay)
}

// Download godoc
// @Summary Скачать счет в PDF
// @Tags Invoices
// @Produce application/pdf
// @Param id path int true "ID счета"
// @Success 200 {file} file "PDF счета"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices/{id}/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoices.download"
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

	body, contentType, err := h.service.Download(r.Context(), id)
	if err != nil {
		log.Error("failed to download invoice", sl.Err(err))
		httperr.Render(w, r, err, "could not download invoice")
		return
	}
	if contentType == "" {
		contentType = "application/pdf"
	}

	log.Info("downloaded invoice", slog.Int64("id", id), slog.Int("size", len(body)))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+strconv.FormatInt(id, 10)+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

// action обрабатывает однотипные действия над счетом без тела запроса.
func (h *Handler) action(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, int64) (*normalize.Invoice, error)) {
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

	inv, err := fn(r.Context(), id)
	if err != nil {
		log.Error("failed to apply invoice action", sl.Err(err))
		httperr.Render(w, r, err, "could not apply invoice action")
		return
	}

	log.Info("applied invoice action", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(inv))
}
