// Package subscriptions реализует сервис подписок поверх бэкенда.
//
// Помимо CRUD у подписки есть действия жизненного цикла: cancel, pause,
// resume, change-plan и renew. Бэкенд на каждое действие возвращает
// обновленную запись, она перезаписывает кэш.
package subscriptions

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
	Delete(ctx context.Context, path string) error
}

// Cache описывает кэш нормализованных записей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции над подписками.
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
	return fmt.Sprintf("subscription:%d", id)
}

// List возвращает подписки, при ненулевом companyID выборка
// ограничивается компанией.
func (s *Service) List(ctx context.Context, companyID int64) ([]normalize.Subscription, error) {
	query := url.Values{}
	if companyID != 0 {
		query.Set("companyId", strconv.FormatInt(companyID, 10))
	}
	var raws []normalize.RawSubscription
	if err := s.api.Get(ctx, "/subscriptions", query, &raws); err != nil {
		return nil, err
	}
	return normalize.SubscriptionsFromRaw(raws), nil
}

// Get возвращает подписку по первичному ключу, используя кэш.
func (s *Service) Get(ctx context.Context, id int64) (*normalize.Subscription, error) {
	var cached normalize.Subscription
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	var raw normalize.RawSubscription
	if err := s.api.Get(ctx, fmt.Sprintf("/subscriptions/%d", id), nil, &raw); err != nil {
		return nil, err
	}
	sub := normalize.SubscriptionFromRaw(raw)
	s.storeCache(sub)
	return &sub, nil
}

// Create создает подписку.
func (s *Service) Create(ctx context.Context, form models.SubscriptionForm) (*normalize.Subscription, error) {
	payload := normalize.NewSubscriptionPayload(form.ClientID, form.PlanID, form.Amount, form.Status)
	var raw normalize.RawSubscription
	if err := s.api.Post(ctx, "/subscriptions", payload, &raw); err != nil {
		return nil, err
	}
	sub := normalize.SubscriptionFromRaw(raw)
	s.log.Info("created new subscription", slog.Int64("id", sub.Key))

	s.storeCache(sub)
	s.publishAudit(ctx, "create", sub.Key)
	return &sub, nil
}

// Update обновляет подписку по первичному ключу.
func (s *Service) Update(ctx context.Context, id int64, form models.SubscriptionForm) (*normalize.Subscription, error) {
	payload := normalize.NewSubscriptionPayload(form.ClientID, form.PlanID, form.Amount, form.Status)
	var raw normalize.RawSubscription
	if err := s.api.Put(ctx, fmt.Sprintf("/subscriptions/%d", id), payload, &raw); err != nil {
		return nil, err
	}
	sub := normalize.SubscriptionFromRaw(raw)

	s.storeCache(sub)
	s.publishAudit(ctx, "update", id)
	return &sub, nil
}

// Remove удаляет подписку и инвалидирует кэш.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/subscriptions/%d", id)); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	s.publishAudit(ctx, "delete", id)
	return nil
}

// Cancel отменяет подписку.
func (s *Service) Cancel(ctx context.Context, id int64) (*normalize.Subscription, error) {
	return s.action(ctx, id, "cancel", nil)
}

// Pause приостанавливает подписку.
func (s *Service) Pause(ctx context.Context, id int64) (*normalize.Subscription, error) {
	return s.action(ctx, id, "pause", nil)
}

// Resume возобновляет приостановленную подписку.
func (s *Service) Resume(ctx context.Context, id int64) (*normalize.Subscription, error) {
	return s.action(ctx, id, "resume", nil)
}

// Renew продлевает подписку немедленно.
func (s *Service) Renew(ctx context.Context, id int64) (*normalize.Subscription, error) {
	return s.action(ctx, id, "renew", nil)
}

// ChangePlan переводит подписку на другой план.
func (s *Service) ChangePlan(ctx context.Context, id, planID int64) (*normalize.Subscription, error) {
	return s.action(ctx, id, "change-plan", map[string]int64{"planId": planID})
}

// action выполняет POST-действие жизненного цикла, бэкенд возвращает
// обновленную запись.
func (s *Service) action(ctx context.Context, id int64, name string, body any) (*normalize.Subscription, error) {
	var raw normalize.RawSubscription
	if err := s.api.Post(ctx, fmt.Sprintf("/subscriptions/%d/%s", id, name), body, &raw); err != nil {
		return nil, err
	}
	sub := normalize.SubscriptionFromRaw(raw)

	s.storeCache(sub)
	s.publishAudit(ctx, name, id)
	return &sub, nil
}

func (s *Service) storeCache(sub normalize.Subscription) {
	key := cacheKey(sub.Key)
	if err := s.cache.Set(key, sub, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publishAudit(ctx context.Context, action string, key int64) {
	if err := s.audit.Publish(ctx, audit.NewEvent(ctx, "subscription", action, key)); err != nil {
		s.log.Warn("failed to publish audit event", sl.Err(err))
	}
}
