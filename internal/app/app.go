// Package app initializes and runs the memo service. It loads configuration,
// sets up logging, selects a storage backend, wires authentication and
// routing, and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/memoapp/internal/auth"
	"github.com/example/memoapp/internal/config"
	"github.com/example/memoapp/internal/db/jsondb"
	"github.com/example/memoapp/internal/db/memorystorage"
	"github.com/example/memoapp/internal/db/postgresdb"
	"github.com/example/memoapp/internal/db/storage"
	"github.com/example/memoapp/internal/logger"
	"github.com/example/memoapp/internal/models"
	"github.com/example/memoapp/internal/router"
	"github.com/example/memoapp/internal/service"
)

// App bundles the configuration, storage backend, and HTTP handler of the
// running service.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// New builds a ready-to-run App:
// - loading configuration (fatal on a missing signing secret)
// - initializing the logger
// - selecting and opening the storage backend
// - wiring the auth guard, the service, and the router
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(app.cfg.LogLevel); err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	theAuth := auth.New([]byte(app.cfg.JWTSigningSecret), app.cfg.TokenTTL)
	app.httpHandler = router.New(service.New(app.db, theAuth), theAuth)

	return app, nil
}

// Run starts the HTTP server and blocks until it fails or a termination
// signal arrives, in which case the server is shut down gracefully and the
// storage backend is closed.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

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
		logger.Log.Infoln("Received shutdown signal. Saving database and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
