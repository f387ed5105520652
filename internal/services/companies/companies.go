// Package companies реализует чтение справочника компаний.
// Компании создаются при регистрации, консоль их не изменяет.
package companies

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/normalize"
)

// Backend описывает используемые вызовы адаптера бэкенда.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// Cache описывает кэш нормализованных записей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service реализует операции над компаниями.
type Service struct {
	log      *slog.Logger
	api      Backend
	cache    Cache
	cacheTTL time.Duration
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, api Backend, cache Cache, cacheTTL time.Duration) *Service {
	return &Service{
		log:      log,
		api:      api,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("company:%d", id)
}

// List возвращает все компании.
func (s *Service) List(ctx context.Context) ([]normalize.Company, error) {
	var raws []normalize.RawCompany
	if err := s.api.Get(ctx, "/companies", nil, &raws); err != nil {
		return nil, err
	}
	return normalize.CompaniesFromRaw(raws), nil
}

// Get возвращает компанию по первичному ключу, используя кэш.
func (s *Service) Get(ctx context.Context, id int64) (*normalize.Company, error) {
	var cached normalize.Company
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	var raw normalize.RawCompany
	if err := s.api.Get(ctx, fmt.Sprintf("/companies/%d", id), nil, &raw); err != nil {
		return nil, err
	}
	company := normalize.CompanyFromRaw(raw)
	if err := s.cache.Set(cacheKey(id), company, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache company", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return &company, nil
}
