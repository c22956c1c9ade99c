package lms

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/lms-platform/internal/config"
	"github.com/magabrotheeeer/lms-platform/internal/events"
	"github.com/magabrotheeeer/lms-platform/internal/grpc/health"
	"github.com/magabrotheeeer/lms-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/lms-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/migrations"
	"github.com/magabrotheeeer/lms-platform/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/lms-platform/internal/services/auth"
	"github.com/magabrotheeeer/lms-platform/internal/services/catalog"
	paymentservice "github.com/magabrotheeeer/lms-platform/internal/services/payment"
	subservice "github.com/magabrotheeeer/lms-platform/internal/services/subscription"
	userservice "github.com/magabrotheeeer/lms-platform/internal/services/users"
	"github.com/magabrotheeeer/lms-platform/internal/session"
	"github.com/magabrotheeeer/lms-platform/internal/storage"
)

const (
	healthInterval  = 15 * time.Second
	shutdownTimeout = 15 * time.Second
	amqpRetries     = 5
	amqpRetryDelay  = 2 * time.Second
)

// App — HTTP API вместе с gRPC health-сервером.
type App struct {
	server   *http.Server
	health   *health.Server
	grpcAddr string
	logger   *slog.Logger
	closers  []io.Closer
}

// New подключает хранилище, применяет миграции, поднимает Redis, издателя
// событий и клиента Stripe и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger, grpcAddr: cfg.AddressGRPC}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db)

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, err
	}

	sessions, err := session.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		app.close()
		return nil, err
	}
	app.closers = append(app.closers, sessions)

	publisher, err := app.newPublisher(cfg.RabbitMQ)
	if err != nil {
		app.close()
		return nil, err
	}

	var provider paymentservice.Provider
	if cfg.StripeSecretKey != "" {
		provider = paymentprovider.NewClient(paymentprovider.Config{
			SecretKey:  cfg.StripeSecretKey,
			APIURL:     cfg.StripeAPIURL,
			SuccessURL: cfg.SuccessURL,
			CancelURL:  cfg.CancelURL,
			Timeout:    cfg.TimeoutPayment,
		}, logger)
	} else {
		logger.Warn("stripe secret key is not set, checkout sessions are disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.AccessTTL, cfg.RefreshTTL)
	services := Services{
		Auth:         authservice.NewAuthService(db, jwtMaker, sessions, cfg.ModeratorGroup, logger),
		Users:        userservice.New(db, logger),
		Catalog:      catalog.New(db, logger),
		Subscription: subservice.New(db, publisher, logger),
		Payment:      paymentservice.New(db, provider, publisher, decimal.NewFromFloat(cfg.USDRUBRate), logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.RateLimit, middlewarectx.NewMetrics(prometheus.DefaultRegisterer), services)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	if cfg.AddressGRPC != "" {
		app.health = health.New(func(ctx context.Context) error {
			return storage.CheckDatabaseReady(ctx, db)
		}, healthInterval, logger)
	}
	return app, nil
}

func (a *App) newPublisher(cfg config.RabbitMQ) (events.Publisher, error) {
	if !cfg.EnabledRabbitMQ {
		a.logger.Info("rabbitmq is disabled, domain events are not published")
		return events.Noop{}, nil
	}
	conn, err := events.Connect(cfg.URLRabbitMQ, amqpRetries, amqpRetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn)

	publisher, err := events.NewAMQPPublisher(conn, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, publisher)
	return publisher, nil
}

// Run обслуживает HTTP (и gRPC health, если задан адрес) до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	var lis net.Listener
	if a.health != nil {
		var err error
		if lis, err = net.Listen("tcp", a.grpcAddr); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if a.health != nil {
		g.Go(func() error {
			return a.health.Serve(ctx, lis)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	})

	return g.Wait()
}

// close освобождает ресурсы в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
