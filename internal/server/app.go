// Package server initializes and runs the skywatch API server. It opens the
// database and applies migrations, builds the optional weather cache, wires
// the services and runs the HTTP server until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/dmitrijs2005/skywatch/internal/server/config"
	"github.com/dmitrijs2005/skywatch/internal/server/httpserver"
	"github.com/dmitrijs2005/skywatch/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/skywatch/internal/server/services"
	"github.com/dmitrijs2005/skywatch/internal/server/weather"
	"github.com/redis/go-redis/v9"
)

const startupTimeout = 10 * time.Second

// seams for tests
var (
	sqlOpen        = sql.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *httpserver.HTTPServer
}

// NewApp connects to the backing stores and wires the application.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	sctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if err := db.PingContext(sctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(sctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var cache services.WeatherCache = weather.NopCache{}
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := app.redis.Ping(sctx).Err(); err != nil {
			logger.Warn(ctx, "redis not reachable, weather cache will retry per request", "addr", c.RedisAddr, "err", err)
		}
		cache = weather.NewRedisCache(app.redis, c.WeatherCacheTTL)
	}

	wc := weather.NewClient(c.WeatherBaseURL, c.WeatherAPIKey, c.WeatherTimeout, nil, logger)

	us := services.NewUserService(db, rm, c, logger)
	as := services.NewAlertService(db, rm, c, logger)
	ws := services.NewWeatherService(wc, cache, logger)

	app.server = httpserver.NewHTTPServer(httpserver.Options{
		Address:      c.EndpointAddrHTTP,
		SecretKey:    c.SecretKey,
		CookieSecure: c.CookieSecure,
		CORSOrigin:   c.CORSOrigin,
	}, logger, us, as, ws)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "err", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives, then
// releases the database and cache connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close failed", "err", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "db close failed", "err", err)
		}
	}
}
