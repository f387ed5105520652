// Package products реализует сервис каталога продуктов поверх бэкенда.
package products

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

// Service реализует операции над каталогом продуктов.
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
	return fmt.Sprintf("product:%d", id)
}

// List возвращает продукты, при ненулевом companyID выборка
// ограничивается компанией.
func (s *Service) List(ctx context.Context, companyID int64) ([]normalize.Product, error) {
	query := url.Values{}
	if companyID != 0 {
		query.Set("companyId", strconv.FormatInt(companyID, 10))
	}
	var raws []normalize.RawProduct
	if err := s.api.Get(ctx, "/products", query, &raws); err != nil {
		return nil, err
	}
	return normalize.ProductsFromRaw(raws), nil
}

// Get возвращает продукт по первичному ключу, используя кэш.
func (s *Service) Get(ctx context.Context, id int64) (*normalize.Product, error) {
	var cached normalize.Product
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	var raw normalize.RawProduct
	if err := s.api.Get(ctx, fmt.Sprintf("/products/%d", id), nil, &raw); err != nil {
		return nil, err
	}
	product := normalize.ProductFromRaw(raw)
	s.storeCache(product)
	return &product, nil
}

// Create создает продукт.
func (s *Service) Create(ctx context.Context, form models.ProductForm) (*normalize.Product, error) {
	payload := normalize.NewProductPayload(form.Name, form.Description, form.Status)
	var raw normalize.RawProduct
	if err := s.api.Post(ctx, "/products", payload, &raw); err != nil {
		return nil, err
	}
	product := normalize.ProductFromRaw(raw)
	s.log.Info("created new product", slog.Int64("id", product.Key))

	s.storeCache(product)
	s.publishAudit(ctx, "create", product.Key)
	return &product, nil
}

// Update обновляет продукт по первичному ключу.
func (s *Service) Update(ctx context.Context, id int64, form models.ProductForm) (*normalize.Product, error) {
	payload := normalize.NewProductPayload(form.Name, form.Description, form.Status)
	var raw normalize.RawProduct
	if err := s.api.Put(ctx, fmt.Sprintf("/products/%d", id), payload, &raw); err != nil {
		return nil, err
	}
	product := normalize.ProductFromRaw(raw)

	s.storeCache(product)
	s.publishAudit(ctx, "update", id)
	return &product, nil
}

// Remove удаляет продукт и инвалидирует кэш.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/products/%d", id)); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	s.publishAudit(ctx, "delete", id)
	return nil
}

func (s *Service) storeCache(product normalize.Product) {
	key := cacheKey(product.Key)
	if err := s.cache.Set(key, product, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publishAudit(ctx context.Context, action string, key int64) {
	if err := s.audit.Publish(ctx, audit.NewEvent(ctx, "product", action, key)); err != nil {
		s.log.Warn("failed to publish audit event", sl.Err(err))
	}
}
