// Package paymentmethods реализует сервис способов оплаты клиента.
// Записи привязаны к текущему пользователю, кэш не используется.
package paymentmethods

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/bizvenue/billing-console/internal/audit"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/models"
	"github.com/bizvenue/billing-console/internal/normalize"
)

// Backend описывает используемые вызовы адаптера бэкенда.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Service реализует операции над способами оплаты.
type Service struct {
	log   *slog.Logger
	api   Backend
	audit audit.Publisher
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, api Backend, auditor audit.Publisher) *Service {
	return &Service{
		log:   log,
		api:   api,
		audit: auditor,
	}
}

// List возвращает способы оплаты текущего пользователя.
func (s *Service) List(ctx context.Context) ([]normalize.PaymentMethod, error) {
	var raws []normalize.RawPaymentMethod
	if err := s.api.Get(ctx, "/payment-methods", nil, &raws); err != nil {
		return nil, err
	}
	return normalize.PaymentMethodsFromRaw(raws), nil
}

// Create добавляет способ оплаты.
func (s *Service) Create(ctx context.Context, form models.PaymentMethodForm) (*normalize.PaymentMethod, error) {
	payload := normalize.NewPaymentMethodPayload(form.Type, form.Brand, form.Last4, form.ExpiryMonth, form.ExpiryYear)
	var raw normalize.RawPaymentMethod
	if err := s.api.Post(ctx, "/payment-methods", payload, &raw); err != nil {
		return nil, err
	}
	method := normalize.PaymentMethodFromRaw(raw)
	s.log.Info("added payment method", slog.Int64("id", method.Key))

	s.publishAudit(ctx, "create", method.Key)
	return &method, nil
}

// Remove удаляет способ оплаты.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/payment-methods/%d", id)); err != nil {
		return err
	}
	s.publishAudit(ctx, "delete", id)
	return nil
}

// SetDefault делает способ оплаты основным, остальные бэкенд
// переводит в обычные.
func (s *Service) SetDefault(ctx context.Context, id int64) (*normalize.PaymentMethod, error) {
	var raw normalize.RawPaymentMethod
	if err := s.api.Post(ctx, fmt.Sprintf("/payment-methods/%d/set-default", id), nil, &raw); err != nil {
		return nil, err
	}
	method := normalize.PaymentMethodFromRaw(raw)

	s.publishAudit(ctx, "set-default", id)
	return &method, nil
}

func (s *Service) publishAudit(ctx context.Context, action string, key int64) {
	if err := s.audit.Publish(ctx, audit.NewEvent(ctx, "payment-method", action, key)); err != nil {
		s.log.Warn("failed to publish audit event", sl.Err(err))
	}
}
