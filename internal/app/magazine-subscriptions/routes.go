// Package magazinesubscriptions собирает HTTP-приложение сервиса подписок на журналы.
package magazinesubscriptions

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/magazine-subscriptions/docs"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/config"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/health"
	magazinecreate "github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/magazine/create"
	magazinelist "github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/magazine/list"
	plancreate "github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/plan/create"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/subscription/cancel"
	subscriptioncreate "github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/subscription/create"
	subscriptionlist "github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/handlers/subscription/renew"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/middlewarectx"
)

// AuthService регистрация и проверка учётных данных.
type AuthService interface {
	register.Service
	login.Service
}

// CatalogService журналы и планы.
type CatalogService interface {
	magazinecreate.Service
	magazinelist.Service
	plancreate.Service
}

// SubscriptionService жизненный цикл подписок.
type SubscriptionService interface {
	subscriptioncreate.Service
	subscriptionlist.Service
	renew.Service
	cancel.Service
}

// Services зависимости обработчиков.
type Services struct {
	Auth          AuthService
	Catalog       CatalogService
	Subscriptions SubscriptionService
	DB            health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
// Метрики пишутся в reg и отдаются на /metrics.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, limits config.RateLimit, reg *prometheus.Registry) {
	metrics := middlewarectx.NewMetrics(reg)

	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		metrics.Middleware,
	)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limits.RPS, limits.Burst))

		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)

		r.Post("/magazines", magazinecreate.New(logger, svc.Catalog).ServeHTTP)
		r.Get("/magazines", magazinelist.New(logger, svc.Catalog).ServeHTTP)
		r.Post("/plans", plancreate.New(logger, svc.Catalog).ServeHTTP)

		r.Post("/subscriptions", subscriptioncreate.New(logger, svc.Subscriptions).ServeHTTP)
		// GET принимает ID пользователя, PUT и DELETE принимают ID подписки.
		r.Get("/subscriptions/{id}", subscriptionlist.New(logger, svc.Subscriptions).ServeHTTP)
		r.Put("/subscriptions/{id}", renew.New(logger, svc.Subscriptions).ServeHTTP)
		r.Delete("/subscriptions/{id}", cancel.New(logger, svc.Subscriptions).ServeHTTP)
	})

	r.Get("/health", health.New(logger, svc.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
