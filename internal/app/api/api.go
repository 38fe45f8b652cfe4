// Package api собирает HTTP-сервер консультационного сервиса: хранилище,
// кеш каталога, объектное хранилище, платёжный провайдер, публикацию событий
// и политику доступа.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/mining-consultancy/internal/access"
	"github.com/magabrotheeeer/mining-consultancy/internal/cache"
	"github.com/magabrotheeeer/mining-consultancy/internal/config"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/handlers/health"
	"github.com/magabrotheeeer/mining-consultancy/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/jwt"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/metrics"
	"github.com/magabrotheeeer/mining-consultancy/internal/migrations"
	"github.com/magabrotheeeer/mining-consultancy/internal/paymentprovider"
	"github.com/magabrotheeeer/mining-consultancy/internal/rabbitmq"
	accountservice "github.com/magabrotheeeer/mining-consultancy/internal/services/account"
	ebookservice "github.com/magabrotheeeer/mining-consultancy/internal/services/ebook"
	adviceservice "github.com/magabrotheeeer/mining-consultancy/internal/services/legaladvice"
	planservice "github.com/magabrotheeeer/mining-consultancy/internal/services/miningplan"
	subservice "github.com/magabrotheeeer/mining-consultancy/internal/services/subscription"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage/objectstore"
	"github.com/magabrotheeeer/mining-consultancy/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-приложение со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	limiter *middlewarectx.Limiter
	idle    time.Duration
	db      *repository.Storage
	cache   *cache.Cache
	conn    *amqp.Connection
	ch      *amqp.Channel
}

// New подключает зависимости, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.api.New"
	log := logger.With(slog.String("op", op))

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	var presigner ebookservice.Presigner
	if cfg.S3.Bucket != "" {
		store, err := objectstore.New(ctx, cfg.S3)
		if err != nil {
			_ = ch.Close()
			_ = conn.Close()
			_ = cacheRedis.Close()
			_ = db.Close()
			return nil, err
		}
		presigner = store
	} else {
		log.Warn("s3 bucket is not configured, e-book downloads use stored urls")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(registry)

	tokens := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	limiter := newLimiter(cfg.HTTPServer)
	evaluator := access.NewEvaluator(db, logger, access.WithEvents(publisher))
	gate := access.NewGate(access.NewVerifier(tokens, db), evaluator)

	deps := Deps{
		Logger:    logger,
		Gate:      gate,
		Metrics:   rec,
		Registry:  registry,
		Limiter:   limiter,
		Origins:   cfg.HTTPServer.CORSOrigins,
		Accounts:  accountservice.NewService(db, tokens, publisher, logger, cfg.Subscription.TrialDays),
		Subs:      subservice.NewSubscriptionService(db, paymentprovider.NewClient(cfg.Razorpay), publisher, logger, cfg.Razorpay.Currency),
		Ebooks:    ebookservice.NewEbookService(db, cacheRedis, presigner, logger),
		Plans:     planservice.NewMiningPlanService(db),
		Advice:    adviceservice.NewLegalAdviceService(db, db, publisher, logger),
		Readiness: map[string]health.Pinger{"postgres": db, "redis": cacheRedis},
	}

	router := chi.NewRouter()
	RegisterRoutes(router, deps)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		limiter: limiter,
		idle:    cfg.HTTPServer.RateLimitIdle,
		db:      db,
		cache:   cacheRedis,
		conn:    conn,
		ch:      ch,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	if a.idle > 0 {
		go a.limiter.Run(ctx, a.logger, a.idle)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	a.close()
	return err
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
