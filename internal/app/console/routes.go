package console

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/bizvenue/billing-console/internal/config"
	analyticshandler "github.com/bizvenue/billing-console/internal/http/handlers/analytics"
	authhandler "github.com/bizvenue/billing-console/internal/http/handlers/auth"
	billinghandler "github.com/bizvenue/billing-console/internal/http/handlers/billing"
	clienthandler "github.com/bizvenue/billing-console/internal/http/handlers/clients"
	companyhandler "github.com/bizvenue/billing-console/internal/http/handlers/companies"
	invoicehandler "github.com/bizvenue/billing-console/internal/http/handlers/invoices"
	paymenthandler "github.com/bizvenue/billing-console/internal/http/handlers/payment"
	methodhandler "github.com/bizvenue/billing-console/internal/http/handlers/paymentmethods"
	planhandler "github.com/bizvenue/billing-console/internal/http/handlers/plans"
	producthandler "github.com/bizvenue/billing-console/internal/http/handlers/products"
	subscriptionhandler "github.com/bizvenue/billing-console/internal/http/handlers/subscriptions"
	"github.com/bizvenue/billing-console/internal/http/middlewarectx"
	"github.com/bizvenue/billing-console/internal/lib/jwt"
	"github.com/bizvenue/billing-console/internal/metrics"
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

// services собирает сервисы всех разделов консоли.
type services struct {
	auth           *authservice.Service
	clients        *clientservice.Service
	products       *productservice.Service
	plans          *planservice.Service
	subscriptions  *subscriptionservice.Service
	invoices       *invoiceservice.Service
	companies      *companyservice.Service
	paymentmethods *methodservice.Service
	billing        *billingservice.Service
	analytics      *analyticsservice.Service
	payment        *paymentservice.Service
}

// RegisterRoutes регистрирует все маршруты консоли.
//
// Открытые конечные точки: вход, выход и регистрация. Портал компании
// закрыт ролью COMPANY, клиентский портал под /client ролью CLIENT.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps *services, sessions session.Store, cookies jwt.Maker) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	authH := authhandler.New(logger, deps.auth, sessions, cookies, cfg.SessionTTL)
	clientsH := clienthandler.New(logger, deps.clients)
	productsH := producthandler.New(logger, deps.products)
	plansH := planhandler.New(logger, deps.plans)
	subsH := subscriptionhandler.New(logger, deps.subscriptions)
	invoicesH := invoicehandler.New(logger, deps.invoices)
	companiesH := companyhandler.New(logger, deps.companies)
	methodsH := methodhandler.New(logger, deps.paymentmethods)
	billingH := billinghandler.New(logger, deps.billing)
	analyticsH := analyticshandler.New(logger, deps.analytics)
	paymentH := paymenthandler.New(logger, deps.payment)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.Post("/signup", authH.Register)

		// Портал компании
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RoleGate(logger, sessions, cookies, session.RoleCompany))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/clients", clientsH.List)
			r.Post("/clients", clientsH.Create)
			r.Get("/clients/{id}", clientsH.Get)
			r.Put("/clients/{id}", clientsH.Update)
			r.Delete("/clients/{id}", clientsH.Remove)
			r.Put("/clients/{id}/suspend", clientsH.Suspend)

			r.Get("/products", productsH.List)
			r.Post("/products", productsH.Create)
			r.Get("/products/{id}", productsH.Get)
			r.Put("/products/{id}", productsH.Update)
			r.Delete("/products/{id}", productsH.Remove)

			r.Get("/plans", plansH.List)
			r.Post("/plans", plansH.Create)
			r.Get("/plans/{id}", plansH.Get)
			r.Put("/plans/{id}", plansH.Update)
			r.Delete("/plans/{id}", plansH.Remove)
			r.Patch("/plans/{id}/status", plansH.SetStatus)

			r.Get("/subscriptions", subsH.List)
			r.Post("/subscriptions", subsH.Create)
			r.Get("/subscriptions/{id}", subsH.Get)
			r.Put("/subscriptions/{id}", subsH.Update)
			r.Delete("/subscriptions/{id}", subsH.Remove)
			r.Post("/subscriptions/{id}/cancel", subsH.Cancel)
			r.Post("/subscriptions/{id}/pause", subsH.Pause)
			r.Post("/subscriptions/{id}/resume", subsH.Resume)
			r.Post("/subscriptions/{id}/renew", subsH.Renew)
			r.Post("/subscriptions/{id}/change-plan", subsH.ChangePlan)

			r.Get("/invoices", invoicesH.List)
			r.Post("/invoices", invoicesH.Create)
			r.Get("/invoices/{id}", invoicesH.Get)
			r.Put("/invoices/{id}", invoicesH.Update)
			r.Delete("/invoices/{id}", invoicesH.Remove)
			r.Post("/invoices/{id}/send", invoicesH.Send)
			r.Post("/invoices/{id}/pay", invoicesH.Pay)
			r.Get("/invoices/{id}/download", invoicesH.Download)

			r.Get("/companies", companiesH.List)
			r.Get("/companies/{id}", companiesH.Get)

			r.Get("/analytics/dashboard", analyticsH.Dashboard)
			r.Get("/analytics/{page}", analyticsH.Page)
		})

		// Клиентский портал
		r.Route("/client", func(r chi.Router) {
			r.Use(middlewarectx.RoleGate(logger, sessions, cookies, session.RoleClient))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/subscriptions", subsH.List)
			r.Get("/subscriptions/{id}", subsH.Get)
			r.Post("/subscriptions/{id}/cancel", subsH.Cancel)
			r.Post("/subscriptions/{id}/change-plan", subsH.ChangePlan)

			r.Get("/invoices", invoicesH.List)
			r.Get("/invoices/{id}", invoicesH.Get)
			r.Post("/invoices/{id}/pay", invoicesH.Pay)
			r.Get("/invoices/{id}/download", invoicesH.Download)

			r.Get("/payment-methods", methodsH.List)
			r.Post("/payment-methods", methodsH.Create)
			r.Delete("/payment-methods/{id}", methodsH.Remove)
			r.Post("/payment-methods/{id}/set-default", methodsH.SetDefault)

			r.Get("/billing/history", billingH.History)
			r.Get("/billing/transactions/{id}", billingH.Transaction)
			r.Post("/billing/transactions/{id}/refund", billingH.RequestRefund)
			r.Get("/billing/transactions/{id}/receipt", billingH.DownloadReceipt)

			r.Post("/payment/create-order", paymentH.CreateOrder)
			r.Post("/payment/verify", paymentH.Verify)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
