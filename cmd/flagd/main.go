package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/flagkit/modules/flags"
	"github.com/dmitrymomot/flagkit/pkg/config"
	"github.com/dmitrymomot/flagkit/pkg/eventstore"
	"github.com/dmitrymomot/flagkit/pkg/experiment"
	"github.com/dmitrymomot/flagkit/pkg/flagstore"
	"github.com/dmitrymomot/flagkit/pkg/httpserver"
	"github.com/dmitrymomot/flagkit/pkg/jwt"
	"github.com/dmitrymomot/flagkit/pkg/logger"
	"github.com/dmitrymomot/flagkit/pkg/notifier"
	"github.com/dmitrymomot/flagkit/pkg/pg"
	"github.com/dmitrymomot/flagkit/pkg/redis"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	HTTP     httpserver.Config
	Redis    redis.Config
	Postgres pg.Config
	Notifier notifier.Config
	Recorder experiment.RecorderConfig
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("flagd exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.WithEnvironment(cfg.Environment, "flagd"))
	logger.SetAsDefault(log)

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, eventstore.Migrations, cfg.Postgres, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	store := flagstore.NewRedisStore(redisClient)
	archive := eventstore.NewPostgres(pool)

	recorder := experiment.NewRecorder(archive, cfg.Recorder, log)
	defer func() {
		if err := recorder.Close(context.WithoutCancel(ctx)); err != nil {
			log.Error("failed to drain exposure recorder", logger.Error(err))
		}
	}()

	jwtSvc, err := jwt.NewFromString(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("init jwt service: %w", err)
	}

	svc := flags.NewService(store, store,
		flags.WithLogger(log),
		flags.WithNotifier(notifier.New(store, cfg.Notifier, log)),
		flags.WithRecorder(recorder),
		flags.WithSummarizer(experiment.NewAggregator(archive)),
	)
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := svc.Close(drainCtx); err != nil {
			log.Error("failed to drain change event deliveries", logger.Error(err))
		}
	}()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/health", httpserver.HealthCheckHandler(log))
	router.Get("/ready", httpserver.HealthCheckHandler(log,
		redis.Healthcheck(redisClient),
		pg.Healthcheck(pool),
	))
	router.Mount("/api/v1", flags.Router(svc, jwt.Middleware(jwtSvc)))

	srv := httpserver.New(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("flagd listening", slog.String("addr", cfg.HTTP.Addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("flagd stopped")
		}),
	)

	if err := srv.Run(ctx, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
