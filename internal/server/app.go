// Package server wires the stores, services and transports of the lost &
// found backend and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/saga"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/details"
	"github.com/dmitrijs2005/lostfound/internal/server/metrics"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/lostfound/internal/server/grpc"
)

// TokenPurgeInterval is how often expired refresh tokens are deleted.
const TokenPurgeInterval = time.Hour

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	details     details.Store
	metrics     *metrics.Metrics
	grpc        *gs.GRPCServer
}

// NewApp opens the database, applies migrations, connects the detail store
// and builds the services. Call Close when done.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := newDetailStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("detail store init error: %w", err)
	}

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		details:     store,
		metrics:     metrics.New(),
	}
	app.grpc = app.newGRPCServer()
	return app, nil
}

func newDetailStore(ctx context.Context, c *config.Config) (details.Store, error) {
	var store details.Store
	switch c.DetailDriver {
	case config.DetailDriverMemory:
		store = details.NewMemoryStore()
	case config.DetailDriverS3:
		s3, err := details.NewS3Store(ctx, details.S3Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			Endpoint:        c.S3BaseEndpoint,
			AccessKeyID:     c.S3RootUser,
			SecretAccessKey: c.S3RootPassword,
			PathStyle:       c.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		store = s3
	default:
		return nil, fmt.Errorf("unknown detail driver %q", c.DetailDriver)
	}

	if c.DetailCacheSize <= 0 {
		return store, nil
	}
	cached, err := details.NewCachedStore(store, c.DetailCacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func (app *App) newGRPCServer() *gs.GRPCServer {
	runner := saga.NewRunner(app.logger.With("module", "saga"), app.metrics, app.config.CompensationTimeout)

	return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, gs.Services{
		Accounts:  services.NewUserService(app.db, app.repomanager, app.config, app.logger),
		Writer:    services.NewCoordinator(app.db, app.repomanager, app.details, runner, app.logger),
		Lifecycle: services.NewLifecycle(app.db, app.repomanager, app.metrics, app.logger),
		Reader:    services.NewQueryAggregator(app.db, app.repomanager, app.details, app.metrics, app.logger),
		Checks: map[string]gs.HealthCheck{
			"postgres": app.db.PingContext,
			"details":  app.details.Ping,
		},
	})
}

// Run serves gRPC and metrics until ctx is cancelled or the process gets
// SIGINT, SIGTERM or SIGQUIT. The first component to fail stops the rest.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.grpc.Run(ctx)
	})
	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			return app.runMetricsServer(ctx)
		})
	}
	g.Go(func() error {
		app.purgeRefreshTokens(ctx)
		return nil
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) runMetricsServer(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) purgeRefreshTokens(ctx context.Context) {
	ticker := time.NewTicker(TokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := app.repomanager.RefreshTokens(app.db).PurgeExpired(ctx, now)
			if err != nil {
				app.logger.Warn(ctx, "refresh token purge failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired refresh tokens purged", "count", n)
			}
		}
	}
}

// Close releases the database pool.
func (app *App) Close() error {
	return app.db.Close()
}

// NewLogger builds the process logger: JSON on stdout at the configured level.
func NewLogger(c *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewJSON(os.Stdout, level), nil
}
