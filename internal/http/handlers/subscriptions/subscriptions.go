// Package subscriptions реализует HTTP-обработчики раздела подписок.
//
// Кроме CRUD подписка поддерживает действия жизненного цикла: отмену,
// паузу, возобновление, смену плана и немедленное продление.
package subscriptions

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

// Handler управляет HTTP-запросами раздела подписок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подписок.
type Service interface {
	List(ctx context.Context, companyID int64) ([]normalize.Subscription, error)
	Get(ctx context.Context, id int64) (*normalize.Subscription, error)
	Create(ctx context.Context, form models.SubscriptionForm) (*normalize.Subscription, error)
	Update(ctx context.Context, id int64, form models.SubscriptionForm) (*normalize.Subscription, error)
	Remove(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) (*normalize.Subscription, error)
	Pause(ctx context.Context, id int64) (*normalize.Subscription, error)
	Resume(ctx context.Context, id int64) (*normalize.Subscription, error)
	Renew(ctx context.Context, id int64) (*normalize.Subscription, error)
	ChangePlan(ctx context.Context, id, planID int64) (*normalize.Subscription, error)
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
// @Summary Список подписок
// @Description Возвращает подписки в области видимости текущей компании.
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response "Список подписок"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context(), session.CompanyScope(r.Context()))
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		httperr.Render(w, r, err, "could not list subscriptions")
		return
	}

	log.Info("listed subscriptions", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}

// Get godoc
// @Summary Карточка подписки
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response "Подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.get"
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

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get subscription", sl.Err(err))
		httperr.Render(w, r, err, "could not get subscription")
		return
	}

	render.JSON(w, r, response.OKWithData(sub))
}

// Create godoc
// @Summary Создать подписку
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body models.SubscriptionForm true "Данные новой подписки"
// @Success 200 {object} response.Response "Созданная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SubscriptionForm
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

	sub, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Error("failed to create subscription", sl.Err(err))
		httperr.Render(w, r, err, "could not create subscription")
		return
	}

	log.Info("created new subscription", slog.Int64("id", sub.Key))
	render.JSON(w, r, response.OKWithData(sub))
}

// Update godoc
// @Summary Обновить подписку
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path int true "ID подписки"
// @Param request body models.SubscriptionForm true "Новые данные подписки"
// @Success 200 {object} response.Response "Обновленная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.update"
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

	var req models.SubscriptionForm
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

	sub, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		log.Error("failed to update subscription", sl.Err(err))
		httperr.Render(w, r, err, "could not update subscription")
		return
	}

	log.Info("updated subscription", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(sub))
}

// Remove godoc
// @Summary Удалить подписку
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response "Подписка удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.remove"
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
		log.Error("failed to remove subscription", sl.Err(err))
		httperr.Render(w, r, err, "could not remove subscription")
		return
	}

	log.Info("removed subscription", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}

// Cancel godoc
// @Summary Отменить подписку
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response "Обновленная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "handlers.subscriptions.cancel", h.service.Cancel)
}

// Pause godoc
// @Summary Приостановить подписку
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response "Обновленная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/pause [post]
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "handlers.subscriptions.pause", h.service.Pause)
}

// Resume godoc
// @Summary Возобновить подписку
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response "Обновленная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/resume [post]
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "handlers.subscriptions.resume", h.service.Resume)
}

// Renew godoc
// @Summary Продлить подписку
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response "Обновленная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/renew [post]
func (h *Handler) Renew(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "handlers.subscriptions.renew", h.service.Renew)
}

// ChangePlan godoc
// @Summary Сменить план подписки
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path int true "ID подписки"
// @Param request body models.ChangePlanRequest true "Новый план"
// @Success 200 {object} response.Response "Обновленная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/change-plan [post]
func (h *Handler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriptions.change_plan"
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

	var req models.ChangePlanRequest
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

	sub, err := h.service.ChangePlan(r.Context(), id, req.PlanID)
	if err != nil {
		log.Error("failed to change subscription plan", sl.Err(err))
		httperr.Render(w, r, err, "could not change subscription plan")
		return
	}

	log.Info("changed subscription plan", slog.Int64("id", id), slog.Int64("plan_id", req.PlanID))
	render.JSON(w, r, response.OKWithData(sub))
}

// action обрабатывает однотипные действия жизненного цикла без тела запроса.
func (h *Handler) action(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, int64) (*normalize.Subscription, error)) {
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

	sub, err := fn(r.Context(), id)
	if err != nil {
		log.Error("failed to apply subscription action", sl.Err(err))
		httperr.Render(w, r, err, "could not apply subscription action")
		return
	}

	log.Info("applied subscription action", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(sub))
}
