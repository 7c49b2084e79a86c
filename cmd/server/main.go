package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/middleware"
	"github.com/anonto42/nano-midea/engagement/internal/realtime"
	"github.com/anonto42/nano-midea/engagement/internal/router"
	"github.com/anonto42/nano-midea/engagement/internal/services"
	"github.com/anonto42/nano-midea/engagement/pkg/config"
	"github.com/anonto42/nano-midea/engagement/pkg/firebase"
	"github.com/anonto42/nano-midea/engagement/pkg/logger"
	"github.com/anonto42/nano-midea/engagement/pkg/metrics"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const serviceName = "engagement"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.L()
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, ServiceName: serviceName})

	if err := run(cfg); err != nil {
		log := logger.L()
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log := logger.L()
	log.Info().Msg("Server stopped")
}

// run owns every resource it opens, so deferred closes happen before main
// decides how to exit.
func run(cfg *config.Config) error {
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize %s database: %w", cfg.StoreDriver, err)
	}
	defer db.CloseDB()

	verifier, err := newVerifier(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("initialize %s auth: %w", cfg.AuthProvider, err)
	}

	bus := events.NewBus(log)
	hub := realtime.NewHub(log, cfg.WSMaxConnsPerUser)

	var deliverer realtime.Deliverer = hub
	if cfg.RedisURL != "" {
		relay, closeRedis, err := newRelay(ctx, cfg.RedisURL, hub)
		if err != nil {
			return fmt.Errorf("start redis relay: %w", err)
		}
		defer closeRedis()
		deliverer = relay
		log.Info().Msg("Realtime delivery relayed through redis")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	config.SetupMiddleware(e, cfg)
	router.SetupRoutes(e, router.Deps{
		Store:          db.Store,
		Bus:            bus,
		Hub:            hub,
		Deliverer:      deliverer,
		Verifier:       verifier,
		Limits:         services.PageLimits{Default: cfg.DefaultPageLimit, Max: cfg.MaxPageLimit},
		AllowedOrigins: cfg.AllowedOrigins,
		Health:         db,
	})

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info().Str("port", cfg.MetricsPort).Msg("Metrics server listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(cfg.ShutdownTimeout, e, metricsSrv, bus, hub)
	})
	return g.Wait()
}

// shutdown stops intake first, then lets in-flight listeners finish before
// connections and the store go away.
func shutdown(timeout time.Duration, e *echo.Echo, metricsSrv *http.Server, bus *events.Bus, hub *realtime.Hub) error {
	log := logger.L()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := e.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := bus.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("Event handlers still running at shutdown")
	}
	if err := hub.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func newVerifier(ctx context.Context, cfg *config.Config, db *config.DB) (middleware.TokenVerifier, error) {
	if cfg.AuthProvider != config.AuthFirebase {
		return middleware.NewJWTVerifier(cfg.JWTSecret), nil
	}
	app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		return nil, err
	}
	return middleware.NewFirebaseVerifier(app.AuthClient, db.Store.Users), nil
}

func newRelay(ctx context.Context, url string, hub *realtime.Hub) (*realtime.RedisRelay, func(), error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	relay := realtime.NewRedisRelay(rdb, hub, logger.L())
	if err := relay.Start(ctx); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return relay, func() { _ = rdb.Close() }, nil
}
