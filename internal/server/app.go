// Package server wires the API server together: storage, password hashing,
// session tokens, the user service and the HTTP router. It also owns the
// process lifecycle with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/crtrstudio/internal/cryptox"
	"github.com/dmitrijs2005/crtrstudio/internal/logging"
	"github.com/dmitrijs2005/crtrstudio/internal/server/auth"
	"github.com/dmitrijs2005/crtrstudio/internal/server/config"
	"github.com/dmitrijs2005/crtrstudio/internal/server/httpapi"
	"github.com/dmitrijs2005/crtrstudio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/crtrstudio/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	handler http.Handler
}

// NewApp validates the config and builds every dependency. It fails instead
// of returning a half-configured server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, c.IsDevelopment()).With("service", "crtr-api")

	repos, err := newRepositoryManager(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	hasher := cryptox.NewPasswordHasher(c.BcryptCost)
	userService := services.NewUserService(repos.Users(), hasher, tokens, logger)

	handler := httpapi.NewRouter(httpapi.RouterConfig{
		Users:       userService,
		Tokens:      tokens,
		Logger:      logger,
		Environment: c.Environment,
		CORSOrigins: c.CORSOrigins(),
	})

	return &App{config: c, logger: logger, repos: repos, handler: handler}, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, using in-memory store; data is lost on restart")
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
}

// Handler returns the HTTP handler of the API.
func (app *App) Handler() http.Handler {
	return app.handler
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

// Run listens on the configured address and serves until ctx is cancelled or
// a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.Address, err)
	}

	return app.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is done, then drains in-flight requests
// for at most ShutdownTimeout and closes the store.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(context.Background(), "closing store", "error", err)
		}
	}()

	srv := &http.Server{
		Handler:           app.handler,
		ReadTimeout:       time.Minute,
		WriteTimeout:      2 * time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "addr", ln.Addr().String(), "environment", app.config.Environment)
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "Initiating shutdown process")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	app.logger.Info(context.Background(), "Shutdown completed")
	return nil
}
