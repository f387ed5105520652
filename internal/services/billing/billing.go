// Package billing реализует историю платежей клиентского портала.
//
// История и квитанции читаются напрямую из бэкенда, запрос возврата
// публикует событие аудита.
package billing

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
	Blob(ctx context.Context, path string) ([]byte, string, error)
}

// Service реализует операции биллинговой истории.
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

// History возвращает транзакции текущего пользователя.
func (s *Service) History(ctx context.Context) ([]normalize.Transaction, error) {
	var raws []normalize.RawTransaction
	if err := s.api.Get(ctx, "/billing/history", nil, &raws); err != nil {
		return nil, err
	}
	return normalize.TransactionsFromRaw(raws), nil
}

// Transaction возвращает транзакцию по первичному ключу.
func (s *Service) Transaction(ctx context.Context, id int64) (*normalize.Transaction, error) {
	var raw normalize.RawTransaction
	if err := s.api.Get(ctx, fmt.Sprintf("/billing/transactions/%d", id), nil, &raw); err != nil {
		return nil, err
	}
	tx := normalize.TransactionFromRaw(raw)
	return &tx, nil
}

// RequestRefund запрашивает возврат по транзакции.
func (s *Service) RequestRefund(ctx context.Context, id int64, form models.RefundRequest) (*normalize.Transaction, error) {
	body := map[string]string{"reason": form.Reason}
	var raw normalize.RawTransaction
	if err := s.api.Post(ctx, fmt.Sprintf("/billing/transactions/%d/refund", id), body, &raw); err != nil {
		return nil, err
	}
	tx := normalize.TransactionFromRaw(raw)
	s.log.Info("requested refund", slog.Int64("transaction_id", id))

	if err := s.audit.Publish(ctx, audit.NewEvent(ctx, "transaction", "refund-request", id)); err != nil {
		s.log.Warn("failed to publish audit event", sl.Err(err))
	}
	return &tx, nil
}

// DownloadReceipt возвращает квитанцию транзакции как бинарный поток.
func (s *Service) DownloadReceipt(ctx context.Context, id int64) ([]byte, string, error) {
	return s.api.Blob(ctx, fmt.Sprintf("/billing/transactions/%d/receipt", id))
}
