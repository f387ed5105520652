// Package invoices реализует сервис счетов поверх бэкенда.
//
// Кроме CRUD счет можно отправить клиенту, оплатить и скачать в PDF.
package invoices

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
	Blob(ctx context.Context, path string) ([]byte, string, error)
}

// Cache описывает кэш нормализованных записей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции над счетами.
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
	return fmt.Sprintf("invoice:%d", id)
}

// List возвращает счета, при ненулевом companyID выборка ограничивается
// компанией.
func (s *Service) List(ctx context.Context, companyID int64) ([]normalize.Invoice, error) {
	query := url.Values{}
	if companyID != 0 {
		query.Set("companyId", strconv.FormatInt(companyID, 10))
	}
	var raws []normalize.RawInvoice
	if err := s.api.Get(ctx, "/invoices", query, &raws); err != nil {
		return nil, err
	}
	return normalize.InvoicesFromRaw(raws), nil
}

// Get возвращает счет по первичному ключу, используя кэш.
func (s *Service) Get(ctx context.Context, id int64) (*normalize.Invoice, error) {
	var cached normalize.Invoice
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	var raw normalize.RawInvoice
	if err := s.api.Get(ctx, fmt.Sprintf("/invoices/%d", id), nil, &raw); err != nil {
		return nil, err
	}
	inv := normalize.InvoiceFromRaw(raw)
	s.storeCache(inv)
	return &inv, nil
}

// Create создает счет.
func (s *Service) Create(ctx context.Context, form models.InvoiceForm) (*normalize.Invoice, error) {
	payload := normalize.NewInvoicePayload(form.ClientID, form.Amount, form.Status, form.Description, form.DueDate, form.Items)
	var raw normalize.RawInvoice
	if err := s.api.Post(ctx, "/invoices", payload, &raw); err != nil {
		return nil, err
	}
	inv := normalize.InvoiceFromRaw(raw)
	s.log.Info("created new invoice", slog.Int64("id", inv.Key))

	s.storeCache(inv)
	s.publishAudit(ctx, "create", inv.Key)
	return &inv, nil
}

// Update обновляет счет по первичному ключу.
func (s *Service) Update(ctx context.Context, id int64, form models.InvoiceForm) (*normalize.Invoice, error) {
	payload := normalize.NewInvoicePayload(form.ClientID, form.Amount, form.Status, form.Description, form.DueDate, form.Items)
	var raw normalize.RawInvoice
	if err := s.api.Put(ctx, fmt.Sprintf("/invoices/%d", id), payload, &raw); err != nil {
		return nil, err
	}
	inv := normalize.InvoiceFromRaw(raw)

	s.storeCache(inv)
	s.publishAudit(ctx, "update", id)
	return &inv, nil
}

// Remove удаляет счет и инвалидирует кэш.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/invoices/%d", id)); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	s.publishAudit(ctx, "delete", id)
	return nil
}

// Send отправляет счет клиенту по почте силами бэкенда.
func (s *Service) Send(ctx context.Context, id int64) (*normalize.Invoice, error) {
	return s.action(ctx, id, "send")
}

// Pay помечает счет оплаченным.
func (s *Service) Pay(ctx context.Context, id int64) (*normalize.Invoice, error) {
	return s.action(ctx, id, "pay")
}

// Download возвращает PDF счета как бинарный поток вместе с content-type.
func (s *Service) Download(ctx context.Context, id int64) ([]byte, string, error) {
	return s.api.Blob(ctx, fmt.Sprintf("/invoices/%d/download", id))
}

func (s *Service) action(ctx context.Context, id int64, name string) (*normalize.Invoice, error) {
	var raw normalize.RawInvoice
	if err := s.api.Post(ctx, fmt.Sprintf("/invoices/%d/%s", id, name), nil, &raw); err != nil {
		return nil, err
	}
	inv := normalize.InvoiceFromRaw(raw)

	s.storeCache(inv)
	s.publishAudit(ctx, name, id)
	return &inv, nil
}

func (s *Service) storeCache(inv normalize.Invoice) {
	key := cacheKey(inv.Key)
	if err := s.cache.Set(key, inv, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache invoice", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publishAudit(ctx context.Context, action string, key int64) {
	if err := s.audit.Publish(ctx, audit.NewEvent(ctx, "invoice", action, key)); err != nil {
		s.log.Warn("failed to publish audit event", sl.Err(err))
	}
}
