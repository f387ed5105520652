// Package analytics реализует прокси к сервису аналитики.
//
// Аналитика живет на отдельном базовом адресе и отдает готовые к
// отрисовке агрегаты, консоль их не трансформирует и прокидывает как есть.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/bizvenue/billing-console/internal/lib/sl"
)

// ErrUnknownPage возвращается при запросе несуществующей страницы.
var ErrUnknownPage = errors.New("unknown analytics page")

// Страницы аналитики, известные бэкенду.
const (
	PageRevenue       = "revenue"
	PageSubscriptions = "subscriptions"
	PageChurn         = "churn"
	PageClients       = "clients"
)

// Backend описывает используемые вызовы адаптера аналитики.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// Cache описывает кэш агрегатов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service реализует чтение аналитических агрегатов.
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

// Dashboard возвращает сводные показатели для главной страницы.
func (s *Service) Dashboard(ctx context.Context, companyID int64) (json.RawMessage, error) {
	return s.fetch(ctx, "/analytics/dashboard", fmt.Sprintf("analytics:dashboard:%d", companyID), companyID)
}

// Page возвращает агрегаты конкретной аналитической страницы.
func (s *Service) Page(ctx context.Context, page string, companyID int64) (json.RawMessage, error) {
	switch page {
	case PageRevenue, PageSubscriptions, PageChurn, PageClients:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	return s.fetch(ctx, "/analytics/"+page, fmt.Sprintf("analytics:%s:%d", page, companyID), companyID)
}

func (s *Service) fetch(ctx context.Context, path, key string, companyID int64) (json.RawMessage, error) {
	var cached json.RawMessage
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	query := url.Values{}
	if companyID != 0 {
		query.Set("companyId", strconv.FormatInt(companyID, 10))
	}
	var result json.RawMessage
	if err := s.api.Get(ctx, path, query, &result); err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, result, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache analytics", slog.String("key", key), sl.Err(err))
	}
	return result, nil
}
