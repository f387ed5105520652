// Package products реализует HTTP-обработчики каталога продуктов.
package products

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

// Handler управляет HTTP-запросами каталога продуктов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики продуктов.
type Service interface {
	List(ctx context.Context, companyID int64) ([]normalize.Product, error)
	Get(ctx context.Context, id int64) (*normalize.Product, error)
	Create(ctx context.Context, form models.ProductForm) (*normalize.Product, error)
	Update(ctx context.Context, id int64, form models.ProductForm) (*normalize.Product, error)
	Remove(ctx context.Context, id int64) error
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
// @Summary Список продуктов
// @Tags Products
// @Produce json
// @Success 200 {object} response.Response "Список продуктов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context(), session.CompanyScope(r.Context()))
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		httperr.Render(w, r, err, "could not list products")
		return
	}

	log.Info("listed products", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}

// Get godoc
// @Summary Карточка продукта
// @Tags Products
// @Produce json
// @Param id path int true "ID продукта"
// @Success 200 {object} response.Response "Продукт"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.get"
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

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get product", sl.Err(err))
		httperr.Render(w, r, err, "could not get product")
		return
	}

	render.JSON(w, r, response.OKWithData(product))
}

// Create godoc
// @Summary Создать продукт
// @Tags Products
// @Accept json
// @Produce json
// @Param request body models.ProductForm true "Данные нового продукта"
// @Success 200 {object} response.Response "Созданный продукт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ProductForm
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

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		httperr.Render(w, r, err, "could not create product")
		return
	}

	log.Info("created new product", slog.Int64("id", product.Key))
	render.JSON(w, r, response.OKWithData(product))
}

// Update godoc
// @Summary Обновить продукт
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "ID продукта"
// @Param request body models.ProductForm true "Новые данные продукта"
// @Success 200 {object} response.Response "Обновленный продукт"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.update"
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

	var req models.ProductForm
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

	product, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update product", sl.Err(err))
		httperr.Render(w, r, err, "could not update product")
		return
	}

	log.Info("updated product", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(product))
}

// Remove godoc
// @Summary Удалить продукт
// @Tags Products
// @Produce json
// @Param id path int true "ID продукта"
// @Success 200 {object} response.Response "Продукт удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.products.remove"
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
		log.Error("failed to remove product", sl.Err(err))
		httperr.Render(w, r, err, "could not remove product")
		return
	}

	log.Info("removed product", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
