// Package console собирает приложение консоли: подключения, сервисы,
// маршруты и HTTP-сервер.
package console

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/bizvenue/billing-console/internal/audit"
	"github.com/bizvenue/billing-console/internal/backend"
	"github.com/bizvenue/billing-console/internal/cache"
	"github.com/bizvenue/billing-console/internal/config"
	"github.com/bizvenue/billing-console/internal/lib/jwt"
	"github.com/bizvenue/billing-console/internal/session"

	analyticsservice "github.com/bizvenue/billing-console/internal/services/analytics"
	authservice "github.com/bizvenue/billing-console/internal/services/auth"
	billingservice "github.com/bizvenue/billing-console/internal/services/billing"
	clientservice "github.com/bizvenue/billing-console/internal/services/clients"
	companyservice "github.com/bizvenue/billing-console/internal/services/companies"
	invoiceservice "github.com/bizvenue/billing-console/internal/services/invoices"
	paymentservice "github.com/bizvenue/billing-console/internal/services/payment"
	methodservice "github.com/bizvenue/billing-console/internal/services/paymentmethods"
	planservice "github.com/bizvenue/billing-console/internal/services/plans"
	productservice "github.com/bizvenue/billing-console/internal/services/products"
	subscriptionservice "github.com/bizvenue/billing-console/internal/services/subscriptions"
)

// App хранит HTTP-сервер и ресурсы, требующие корректного завершения.
type App struct {
	server *http.Server
	logger *slog.Logger
	audit  audit.Publisher
}

// New собирает приложение из конфигурации: redis для сессий и кэша,
// адаптеры бэкенда и аналитики, публикацию аудита и все сервисы разделов.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	sessions := session.NewRedisStore(cacheRedis.Db)
	cookies := jwt.NewMaker(cfg.CookieSecretKey, cfg.SessionTTL)

	api := backend.New(cfg.BackendBaseURL, cfg.TimeoutBackend, sessions, logger)
	analyticsAPI := backend.New(cfg.AnalyticsBaseURL, cfg.TimeoutBackend, sessions, logger)

	var auditor audit.Publisher = audit.Nop{}
	if cfg.AMQPURL != "" {
		publisher, err := audit.New(cfg.AMQP)
		if err != nil {
			return nil, err
		}
		auditor = publisher
	}

	deps := &services{
		auth:           authservice.NewService(logger, api),
		clients:        clientservice.NewService(logger, api, cacheRedis, auditor, cfg.CacheTTL),
		products:       productservice.NewService(logger, api, cacheRedis, auditor, cfg.CacheTTL),
		plans:          planservice.NewService(logger, api, cacheRedis, auditor, cfg.CacheTTL),
		subscriptions:  subscriptionservice.NewService(logger, api, cacheRedis, auditor, cfg.CacheTTL),
		invoices:       invoiceservice.NewService(logger, api, cacheRedis, auditor, cfg.CacheTTL),
		companies:      companyservice.NewService(logger, api, cacheRedis, cfg.CacheTTL),
		paymentmethods: methodservice.NewService(logger, api, auditor),
		billing:        billingservice.NewService(logger, api, auditor),
		analytics:      analyticsservice.NewService(logger, analyticsAPI, cacheRedis, cfg.CacheTTL),
		payment:        paymentservice.NewService(logger, api, auditor),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, deps, sessions, cookies)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		audit:  auditor,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closer, ok := a.audit.(interface{ Close() error }); ok {
			if cerr := closer.Close(); cerr != nil {
				a.logger.Warn("failed to close audit publisher")
			}
		}
		return err
	}
}
