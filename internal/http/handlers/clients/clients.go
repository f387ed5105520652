// Package clients реализует HTTP-обработчики раздела клиентов.
//
// Handler принимает JSON-запросы, валидирует их и делегирует операции
// сервису клиентов. Выборки компании ограничиваются её областью
// видимости из сессии.
package clients

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

// Handler управляет HTTP-запросами раздела клиентов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики клиентов.
type Service interface {
	List(ctx context.Context, companyID int64) ([]normalize.Client, error)
	Get(ctx context.Context, id int64) (*normalize.Client, error)
	Create(ctx context.Context, form models.ClientForm) (*normalize.Client, error)
	Update(ctx context.Context, id int64, form models.ClientForm) (*normalize.Client, error)
	Remove(ctx context.Context, id int64) error
	Suspend(ctx context.Context, id int64) (*normalize.Client, error)
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
// @Summary Список клиентов
// @Description Возвращает клиентов в области видимости текущей компании.
// @Tags Clients
// @Produce json
// @Success 200 {object} response.Response "Список клиентов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context(), session.CompanyScope(r.Context()))
	if err != nil {
		log.Error("failed to list clients", sl.Err(err))
		httperr.Render(w, r, err, "could not list clients")
		return
	}

	log.Info("listed clients", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}

// Get godoc
// @Summary Карточка клиента
// @Description Возвращает клиента по идентификатору.
// @Tags Clients
// @Produce json
// @Param id path int true "ID клиента"
// @Success 200 {object} response.Response "Клиент"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.get"
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

	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get client", sl.Err(err))
		httperr.Render(w, r, err, "could not get client")
		return
	}

	render.JSON(w, r, response.OKWithData(client))
}

// Create godoc
// @Summary Создать клиента
// @Description Создает клиента с учетной записью по умолчанию.
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body models.ClientForm true "Данные нового клиента"
// @Success 200 {object} response.Response "Созданный клиент"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ClientForm
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

	client, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create client", sl.Err(err))
		httperr.Render(w, r, err, "could not create client")
		return
	}

	log.Info("created new client", slog.Int64("id", client.Key))
	render.JSON(w, r, response.OKWithData(client))
}

// Update godoc
// @Summary Обновить клиента
// @Description Обновляет данные клиента по идентификатору.
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "ID клиента"
// @Param request body models.ClientForm true "Новые данные клиента"
// @Success 200 {object} response.Response "Обновленный клиент"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.update"
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

	var req models.ClientForm
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

	client, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update client", sl.Err(err))
		httperr.Render(w, r, err, "could not update client")
		return
	}

	log.Info("updated client", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(client))
}

// Remove godoc
// @Summary Удалить клиента
// @Description Удаляет клиента по идентификатору.
// @Tags Clients
// @Produce json
// @Param id path int true "ID клиента"
// @Success 200 {object} response.Response "Клиент удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.remove"
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
		log.Error("failed to remove client", sl.Err(err))
		httperr.Render(w, r, err, "could not remove client")
		return
	}

	log.Info("removed client", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Suspend godoc
// @Summary Приостановить клиента
// @Description Переводит клиента в статус suspended.
// @Tags Clients
// @Produce json
// @Param id path int true "ID клиента"
// @Success 200 {object} response.Response "Обновленный клиент"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/suspend [put]
func (h *Handler) Suspend(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.clients.suspend"
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

	client, err := h.service.Suspend(r.Context(), id)
	if err != nil {
		log.Error("failed to suspend client", sl.Err(err))
		httperr.Render(w, r, err, "could not suspend client")
		return
	}

	log.Info("suspended client", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(client))
}
