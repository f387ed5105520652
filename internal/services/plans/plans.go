// Package plans реализует сервис тарифных планов поверх бэкенда.
package plans

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/bizvenue/billing-console/internal/audit"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/models"
	"github.com/bizvenue/billing-console/internal/normalize"
)

// Backend описывает используемые вызовы адаптера бэкенда.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Cache описывает кэш нормализованных записей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции над тарифными планами.
type Service struct {
	log      *slog.Logger
	api      Backend
	cache    Cache
	audit    audit.Publisher
	cacheTTL time.Duration
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, api Backend, cache Cache, auditor audit.Publisher, cacheTTL time.Duration) *Service {
	return &Service{
		log:      log,
		api:      api,
		cache:    cache,
		audit:    auditor,
		cacheTTL: cacheTTL,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("plan:%d", id)
}

// List возвращает планы, при ненулевом companyID выборка
// ограничивается компанией.
func (s *Service) List(ctx context.Context, companyID int64) ([]normalize.Plan, error) {
	query := url.Values{}
	if companyID != 0 {
		query.Set("companyId", strconv.FormatInt(companyID, 10))
	}
	var raws []normalize.RawPlan
	if err := s.api.Get(ctx, "/plans", query, &raws); err != nil {
		return nil, err
	}
	return normalize.PlansFromRaw(raws), nil
}

// Get возвращает план по первичному ключу, используя кэш.
func (s *Service) Get(ctx context.Context, id int64) (*normalize.Plan, error) {
	var cached normalize.Plan
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	var raw normalize.RawPlan
	if err := s.api.Get(ctx, fmt.Sprintf("/plans/%d", id), nil, &raw); err != nil {
		return nil, err
	}
	plan := normalize.PlanFromRaw(raw)
	s.storeCache(plan)
	return &plan, nil
}

// Create создает тарифный план.
func (s *Service) Create(ctx context.Context, form models.PlanForm) (*normalize.Plan, error) {
	payload := normalize.NewPlanPayload(form.Name, form.Description, form.Price, form.Interval, form.Features, form.IsPopular, form.Status)
	var raw normalize.RawPlan
	if err := s.api.Post(ctx, "/plans", payload, &raw); err != nil {
		return nil, err
	}
	plan := normalize.PlanFromRaw(raw)
	s.log.Info("created new plan", slog.Int64("id", plan.Key))

	s.storeCache(plan)
	s.publishAudit(ctx, "create", plan.Key)
	return &plan, nil
}

// Update обновляет план по первичному ключу.
func (s *Service) Update(ctx context.Context, id int64, form models.PlanForm) (*normalize.Plan, error) {
	payload := normalize.NewPlanPayload(form.Name, form.Description, form.Price, form.Interval, form.Features, form.IsPopular, form.Status)
	var raw normalize.RawPlan
	if err := s.api.Put(ctx, fmt.Sprintf("/plans/%d", id), payload, &raw); err != nil {
		return nil, err
	}
	plan := normalize.PlanFromRaw(raw)

	s.storeCache(plan)
	s.publishAudit(ctx, "update", id)
	return &plan, nil
}

// SetStatus переключает статус плана частичным обновлением.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*normalize.Plan, error) {
	body := map[string]string{"status": normalize.UpperEnum(status)}
	var raw normalize.RawPlan
	if err := s.api.Patch(ctx, fmt.Sprintf("/plans/%d/status", id), body, &raw); err != nil {
		return nil, err
	}
	plan := normalize.PlanFromRaw(raw)

	s.storeCache(plan)
	s.publishAudit(ctx, "set_status", id)
	return &plan, nil
}

// Remove удаляет план и инвалидирует кэш.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/plans/%d", id)); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	s.publishAudit(ctx, "delete", id)
	return nil
}

func (s *Service) storeCache(plan normalize.Plan) {
	key := cacheKey(plan.Key)
	if err := s.cache.Set(key, plan, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publishAudit(ctx context.Context, action string, key int64) {
	if err := s.audit.Publish(ctx, audit.NewEvent(ctx, "plan", action, key)); err != nil {
		s.log.Warn("failed to publish audit event", sl.Err(err))
	}
}
