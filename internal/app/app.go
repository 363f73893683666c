// Package app initializes and runs the service. It wires configuration,
// logging, the key-value store, the account and link services and the HTTP
// router, and handles graceful shutdown.
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mpetrenko/shortly/internal/accounts"
	"github.com/mpetrenko/shortly/internal/config"
	"github.com/mpetrenko/shortly/internal/kvstore"
	"github.com/mpetrenko/shortly/internal/kvstore/memstore"
	"github.com/mpetrenko/shortly/internal/kvstore/redisstore"
	"github.com/mpetrenko/shortly/internal/links"
	"github.com/mpetrenko/shortly/internal/logger"
	"github.com/mpetrenko/shortly/internal/router"
	"github.com/mpetrenko/shortly/internal/session"
)

const shutdownTimeout = 10 * time.Second

// App bundles the configuration, store and HTTP handler of a running
// service instance.
type App struct {
	cfg         *config.Config
	db          kvstore.Store
	httpHandler http.Handler
}

// New builds an App:
//   - loads configuration
//   - initializes the logger
//   - connects to the configured store (Redis, or in-memory when no
//     Redis address is set)
//   - wires the services, session manager and router
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	if err = logger.Init(app.cfg.LogLevel); err != nil {
		return nil, err
	}

	app.db, err = newStore(app.cfg)
	if err != nil {
		return nil, err
	}

	signingKey, err := base64.URLEncoding.DecodeString(app.cfg.SessionSigningSecretKey)
	if err != nil {
		return nil, fmt.Errorf("decoding session signing key: %w", err)
	}

	app.httpHandler = router.New(
		accounts.New(app.db),
		links.New(app.db, app.cfg.ShortCodeLength),
		session.New(app.cfg.SessionCookieName, signingKey, app.cfg.SessionTTL),
		app.db,
	)

	return app, nil
}

// Run starts the HTTP server and blocks until a shutdown signal arrives or
// the server fails. On shutdown it drains in-flight requests and closes the
// store.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infow("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing store and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func newStore(cfg *config.Config) (kvstore.Store, error) {
	if cfg.RedisAddr == "" {
		logger.Log.Infoln("No REDIS_ADDR configured, using in-memory storage")
		return memstore.New(), nil
	}

	return redisstore.New(
		context.Background(),
		cfg.RedisAddr,
		cfg.RedisPassword,
		cfg.RedisDB,
		cfg.StoreConnectionTimeout,
	)
}
