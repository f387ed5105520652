// Package analytics реализует HTTP-обработчики аналитических страниц.
//
// Агрегаты приходят из сервиса аналитики готовыми к отрисовке и
// прокидываются клиенту без трансформации.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bizvenue/billing-console/internal/http/httperr"
	"github.com/bizvenue/billing-console/internal/http/response"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/services/analytics"
	"github.com/bizvenue/billing-console/internal/session"
)

// Handler управляет HTTP-запросами аналитики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики аналитики.
type Service interface {
	Dashboard(ctx context.Context, companyID int64) (json.RawMessage, error)
	Page(ctx context.Context, page string, companyID int64) (json.RawMessage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Dashboard godoc
// @Summary Сводные показатели
// @Description Возвращает агрегаты для главной страницы компании.
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Response "Агрегаты"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /analytics/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.dashboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data, err := h.service.Dashboard(r.Context(), session.CompanyScope(r.Context()))
	if err != nil {
		log.Error("failed to load dashboard analytics", sl.Err(err))
		httperr.Render(w, r, err, "could not load analytics")
		return
	}

	render.JSON(w, r, response.OKWithData(data))
}

// Page godoc
// @Summary Аналитическая страница
// @Description Возвращает агрегаты страницы revenue, subscriptions, churn или clients.
// @Tags Analytics
// @Produce json
// @Param page path string true "Имя страницы"
// @Success 200 {object} response.Response "Агрегаты"
// @Failure 400 {object} response.ErrorResponse "Неизвестная страница"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /analytics/{page} [get]
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.page"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page := chi.URLParam(r, "page")
	data, err := h.service.Page(r.Context(), page, session.CompanyScope(r.Context()))
	if errors.Is(err, analytics.ErrUnknownPage) {
		log.Error("unknown analytics page requested", slog.String("page", page))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown analytics page"))
		return
	}
	if err != nil {
		log.Error("failed to load page analytics", slog.String("page", page), sl.Err(err))
		httperr.Render(w, r, err, "could not load analytics")
		return
	}

	render.JSON(w, r, response.OKWithData(data))
}
