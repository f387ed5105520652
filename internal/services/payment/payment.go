// Package payment реализует прокси платежного шлюза.
//
// Ордер создается на бэкенде, оплату проводит платежный виджет в
// браузере, после чего подпись проверяется снова на бэкенде. Секретные
// ключи шлюза консоль не видит.
package payment

import (
	"context"
	"log/slog"

	"github.com/bizvenue/billing-console/internal/audit"
	"github.com/bizvenue/billing-console/internal/lib/sl"
	"github.com/bizvenue/billing-console/internal/models"
)

// Order платежный ордер, созданный шлюзом.
type Order struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"keyId"`
}

// Verification результат проверки подписи платежа.
type Verification struct {
	Valid bool `json:"valid"`
}

// Backend описывает используемые вызовы адаптера бэкенда.
type Backend interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Service реализует операции платежного потока.
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

// CreateOrder создает платежный ордер на указанную сумму.
func (s *Service) CreateOrder(ctx context.Context, form models.CreateOrderRequest) (*Order, error) {
	body := map[string]float64{"amount": form.Amount}
	var order Order
	if err := s.api.Post(ctx, "/payment/create-order", body, &order); err != nil {
		return nil, err
	}
	s.log.Info("created payment order", slog.String("order_id", order.ID))
	return &order, nil
}

// Verify проверяет подпись завершенного платежа на бэкенде.
func (s *Service) Verify(ctx context.Context, form models.PaymentVerification) (*Verification, error) {
	var result Verification
	if err := s.api.Post(ctx, "/payment/verify", form, &result); err != nil {
		return nil, err
	}
	if !result.Valid {
		s.log.Warn("payment verification failed", slog.String("order_id", form.OrderID))
		return &result, nil
	}

	if err := s.audit.Publish(ctx, audit.NewEvent(ctx, "payment", "verified", 0)); err != nil {
		s.log.Warn("failed to publish audit event", sl.Err(err))
	}
	return &result, nil
}
