// Package server initializes and runs the SeNiko server: it validates the
// configuration, connects to the document store, applies migrations and
// serves the HTTP API until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/seniko/internal/logging"
	"github.com/dmitrijs2005/seniko/internal/server/auth"
	"github.com/dmitrijs2005/seniko/internal/server/config"
	"github.com/dmitrijs2005/seniko/internal/server/httpapi"
	"github.com/dmitrijs2005/seniko/internal/server/metrics"
	"github.com/dmitrijs2005/seniko/internal/server/ratelimit"
	"github.com/dmitrijs2005/seniko/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/seniko/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	userService *services.UserService
	httpServer  *httpapi.HTTPServer
}

// NewApp wires every component from c. It fails fast on an invalid
// configuration or an unreachable database.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	gin.SetMode(c.GinMode)

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		SecretKey: []byte(c.JWTSecretKey),
		Issuer:    c.JWTIssuer,
		Audience:  c.JWTAudience,
		Lifetime:  c.TokenLifetime,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := auth.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	us, err := services.NewUserService(db, rm, services.Options{Tokens: tokens, Hasher: hasher, Logger: logger})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	limiter, rdb, err := newLimiter(c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hs, err := httpapi.NewHTTPServer(c.HTTPAddr, logger, us, httpapi.Options{
		Limiter:        limiter,
		Metrics:        metrics.New(),
		AllowedOrigins: c.AllowedOrigins(),
		TrustedProxies: c.TrustedProxyList(),
	})
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = db.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, redis: rdb, userService: us, httpServer: hs}, nil
}

// newLimiter picks the Redis-backed limiter when a Redis URL is configured
// and the in-memory one otherwise. The returned client is nil for memory.
func newLimiter(c *config.Config) (ratelimit.Limiter, *redis.Client, error) {
	cfg := ratelimit.Config{Permits: c.RateLimitPermits, Window: c.RateLimitWindow}
	if c.RedisURL == "" {
		return ratelimit.NewMemoryLimiter(cfg), nil, nil
	}
	rdb, err := ratelimit.NewRedisClient(c.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return ratelimit.NewRedisLimiter(rdb, cfg), rdb, nil
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
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the database pool and the Redis client.
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
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "Redis close failed", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "Database close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
