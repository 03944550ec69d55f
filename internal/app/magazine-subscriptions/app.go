package magazinesubscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/cache"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/config"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/events"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/sl"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/migrations"
	authservice "github.com/magabrotheeeer/magazine-subscriptions/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/magazine-subscriptions/internal/services/catalog"
	subservice "github.com/magabrotheeeer/magazine-subscriptions/internal/services/subscription"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage/repository"
)

const auditWorkers = 4

type App struct {
	server       *http.Server
	logger       *slog.Logger
	cfg          *config.Config
	db           *repository.Storage
	cache        *cache.Cache
	amqpConn     *amqp.Connection
	consumerWait func()
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	pool, err := repository.Connect(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db := repository.New(pool)
	logger.Info("database is ready")

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{
		logger: logger,
		cfg:    cfg,
		db:     db,
		cache:  cacheRedis,
	}

	publisher, err := app.setupEvents(ctx)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	catalog := catalogservice.NewService(db, cacheRedis, cfg.Cache.TTL, logger)
	services := Services{
		Auth:          authservice.NewService(db),
		Catalog:       catalog,
		Subscriptions: subservice.NewService(db, catalog, cacheRedis, publisher, cfg.Cache.TTL, logger),
		DB:            db,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, cfg.RateLimit, reg)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// setupEvents подключает брокер, если он включён, и запускает потребителя очереди аудита.
func (a *App) setupEvents(ctx context.Context) (events.Publisher, error) {
	cfg := a.cfg.RabbitMQ
	if !cfg.Enabled {
		a.logger.Info("rabbitmq is disabled, lifecycle events are not published")
		return events.Noop{}, nil
	}

	conn, err := rabbitmq.Connect(ctx, cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.amqpConn = conn

	queues := rabbitmq.GetSubscriptionQueues()
	publishCh, err := rabbitmq.SetupChannel(conn, cfg.Exchange, queues)
	if err != nil {
		return nil, err
	}

	consumeCh, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	wait, err := rabbitmq.Consume(ctx, a.logger, consumeCh, queues[0].QueueName, auditWorkers, events.AuditHandler(a.logger))
	if err != nil {
		return nil, err
	}
	a.consumerWait = wait

	a.logger.Info("rabbitmq connected", slog.String("exchange", cfg.Exchange))
	return events.NewAMQPPublisher(publishCh, cfg.Exchange), nil
}

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
		a.closeResources()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeResources()
		return err
	}
}

func (a *App) closeResources() {
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if a.consumerWait != nil {
		a.consumerWait()
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close redis client", sl.Err(err))
	}
	a.db.Close()
}
