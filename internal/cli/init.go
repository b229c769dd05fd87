// Package cli provides common initialization shared by cmd/expenses and
// cmd/expensectl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expenses/internal/amqp"
	"expenses/internal/backend"
	"expenses/internal/config"
	applog "expenses/internal/log"
	"expenses/internal/services"
	"expenses/internal/store"
)

// SetupLogger initializes structured logging for component and sets it as
// the default logger.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	lc := applog.DefaultConfig()
	lc.Component = component
	if cfg != nil {
		lc.Level = cfg.SlogLevel()
	}
	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App is the wired application: the mirror, its persistence backend and
// the service that sequences them.
type App struct {
	Config  *config.Config
	Logger  *applog.Logger
	Store   *store.ExpenseStore
	Service *services.ExpenseService

	backend *backend.BackendResult
}

// NewApp builds the backend selected by cfg, connects the event publisher
// when AMQP is configured, and wires the service. The mirror starts empty.
func NewApp(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Slog())
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger.WithComponent(applog.ComponentAMQP).Slog())
		if err != nil {
			// Events are optional; the service works without them.
			logger.Warn("AMQP unavailable, change events disabled", applog.FieldError, err)
		} else {
			publisher = p
		}
	}

	st := store.New()
	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		Service: services.NewExpenseService(st, res.Backend, publisher, logger),
		backend: res,
	}, nil
}

// Close releases the publisher and the backend.
func (a *App) Close() error {
	var errs []error
	if err := a.Service.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("backend: %w", err))
	}
	return errors.Join(errs...)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
