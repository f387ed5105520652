// Package plans реализует HTTP-обработчики тарифных планов.
//
// Помимо CRUD план можно активировать и архивировать переключением
// статуса отдельным PATCH-запросом.
package plans

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

// Handler управляет HTTP-запросами тарифных планов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики планов.
type Service interface {
	List(ctx context.Context, companyID int64) ([]normalize.Plan, error)
	Get(ctx context.Context, id int64) (*normalize.Plan, error)
	Create(ctx context.Context, form models.PlanForm) (*normalize.Plan, error)
	Update(ctx context.Context, id int64, form models.PlanForm) (*normalize.Plan, error)
	Remove(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status string) (*normalize.Plan, error)
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
// @Summary Список тарифных планов
// @Tags Plans
// @Produce json
// @Success 200 {object} response.Response "Список планов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context(), session.CompanyScope(r.Context()))
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		httperr.Render(w, r, err, "could not list plans")
		return
	}

	log.Info("listed plans", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}

// Get godoc
// @Summary Карточка тарифного плана
// @Tags Plans
// @Produce json
// @Param id path int true "ID плана"
// @Success 200 {object} response.Response "План"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.get"
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

	plan, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get plan", sl.Err(err))
		httperr.Render(w, r, err, "could not get plan")
		return
	}

	render.JSON(w, r, response.OKWithData(plan))
}

// Create godoc
// @Summary Создать тарифный план
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body models.PlanForm true "Данные нового плана"
// @Success 200 {object} response.Response "Созданный план"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PlanForm
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

	plan, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create plan", sl.Err(err))
		httperr.Render(w, r, err, "could not create plan")
		return
	}

	log.Info("created new plan", slog.Int64("id", plan.Key))
	render.JSON(w, r, response.OKWithData(plan))
}

// Update godoc
// @Summary Обновить тарифный план
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path int true "ID плана"
// @Param request body models.PlanForm true "Новые данные плана"
// @Success 200 {object} response.Response "Обновленный план"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.update"
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

	var req models.PlanForm
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

	plan, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update plan", sl.Err(err))
		httperr.Render(w, r, err, "could not update plan")
		return
	}

	log.Info("updated plan", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(plan))
}

// Remove godoc
// @Summary Удалить тарифный план
// @Tags Plans
// @Produce json
// @Param id path int true "ID плана"
// @Success 200 {object} response.Response "План удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.remove"
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
		log.Error("failed to remove plan", sl.Err(err))
		httperr.Render(w, r, err, "could not remove plan")
		return
	}

	log.Info("removed plan", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// SetStatus godoc
// @Summary Переключить статус плана
// @Description Активирует или архивирует тарифный план.
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path int true "ID плана"
// @Param request body models.PlanStatusRequest true "Новый статус"
// @Success 200 {object} response.Response "Обновленный план"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/{id}/status [patch]
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.set_status"
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

	var req models.PlanStatusRequest
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

	plan, err := h.service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		log.Error("failed to set plan status", sl.Err(err))
		httperr.Render(w, r, err, "could not set plan status")
		return
	}

	log.Info("set plan status", slog.Int64("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(plan))
}
