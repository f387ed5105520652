// Package companies реализует HTTP-обработчики справочника компаний.
package companies

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bizvenue/billing-console/internal/http/httperr"
	"github.com/bizvenue/billing-console/internal/http/response"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/normalize"
)

// Handler управляет HTTP-запросами справочника компаний.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики компаний.
type Service interface {
	List(ctx context.Context) ([]normalize.Company, error)
	Get(ctx context.Context, id int64) (*normalize.Company, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// List godoc
// @Summary Список компаний
// @Tags Companies
// @Produce json
// @Success 200 {object} response.Response "Список компаний"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /companies [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.companies.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list companies", sl.Err(err))
		httperr.Render(w, r, err, "could not list companies")
		return
	}

	log.Info("listed companies", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}

// Get godoc
// @Summary Карточка компании
// @Tags Companies
// @Produce json
// @Param id path int true "ID компании"
// @Success 200 {object} response.Response "Компания"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /companies/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.companies.get"
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

	company, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get company", sl.Err(err))
		httperr.Render(w, r, err, "could not get company")
		return
	}

	render.JSON(w, r, response.OKWithData(company))
}
