// Package clients реализует сервис записей клиентов поверх бэкенда,
// включая кэширование и события аудита.
package clients

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

// Service реализует операции над записями клиентов.
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
	return fmt.Sprintf("client:%d", id)
}

// List возвращает клиентов, при ненулевом companyID выборка
// ограничивается компанией.
func (s *Service) List(ctx context.Context, companyID int64) ([]normalize.Client, error) {
	query := url.Values{}
	if companyID != 0 {
		query.Set("companyId", strconv.FormatInt(companyID, 10))
	}
	var raws []normalize.RawClient
	if err := s.api.Get(ctx, "/clients", query, &raws); err != nil {
		return nil, err
	}
	return normalize.ClientsFromRaw(raws), nil
}

// Get возвращает клиента по первичному ключу, используя кэш.
func (s *Service) Get(ctx context.Context, id int64) (*normalize.Client, error) {
	var cached normalize.Client
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	var raw normalize.RawClient
	if err := s.api.Get(ctx, fmt.Sprintf("/clients/%d", id), nil, &raw); err != nil {
		return nil, err
	}
	client := normalize.ClientFromRaw(raw)
	s.storeCache(client)
	return &client, nil
}

// Create создает клиента: из консоли он регистрируется с ролью CLIENT
// и стартовым паролем.
func (s *Service) Create(ctx context.Context, form models.ClientForm) (*normalize.Client, error) {
	payload := normalize.NewClientCreatePayload(form.Name, form.Email, form.Company, form.Status)
	var raw normalize.RawClient
	if err := s.api.Post(ctx, "/clients", payload, &raw); err != nil {
		return nil, err
	}
	client := normalize.ClientFromRaw(raw)
	s.log.Info("created new client", slog.Int64("id", client.Key))

	s.storeCache(client)
	s.publishAudit(ctx, "create", client.Key)
	return &client, nil
}

// Update обновляет клиента по первичному ключу и перезаписывает кэш.
func (s *Service) Update(ctx context.Context, id int64, form models.ClientForm) (*normalize.Client, error) {
	payload := normalize.NewClientPayload(form.Name, form.Email, form.Company, form.Status)
	var raw normalize.RawClient
	if err := s.api.Put(ctx, fmt.Sprintf("/clients/%d", id), payload, &raw); err != nil {
		return nil, err
	}
	client := normalize.ClientFromRaw(raw)

	s.storeCache(client)
	s.publishAudit(ctx, "update", id)
	return &client, nil
}

// Remove удаляет клиента и инвалидирует кэш.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/clients/%d", id)); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	s.publishAudit(ctx, "delete", id)
	return nil
}

// Suspend приостанавливает клиента, бэкенд возвращает обновленную запись.
func (s *Service) Suspend(ctx context.Context, id int64) (*normalize.Client, error) {
	var raw normalize.RawClient
	if err := s.api.Put(ctx, fmt.Sprintf("/clients/%d/suspend", id), nil, &raw); err != nil {
		return nil, err
	}
	client := normalize.ClientFromRaw(raw)

	s.storeCache(client)
	s.publishAudit(ctx, "suspend", id)
	return &client, nil
}

func (s *Service) storeCache(client normalize.Client) {
	key := cacheKey(client.Key)
	if err := s.cache.Set(key, client, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publishAudit(ctx context.Context, action string, key int64) {
	if err := s.audit.Publish(ctx, audit.NewEvent(ctx, "client", action, key)); err != nil {
		s.log.Warn("failed to publish audit event", sl.Err(err))
	}
}
