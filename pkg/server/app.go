package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PriceSigner/pkg/config"
	xhttp "PriceSigner/pkg/http"
	pkgkafka "PriceSigner/pkg/kafka"
	applogger "PriceSigner/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
)

// Drainer finishes background work started by requests.
type Drainer interface {
	Drain()
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	producer   *pkgkafka.Producer
	signer     common.Address
	drainer    Drainer
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	httpServer *xhttp.Server,
	producer *pkgkafka.Producer,
	signer common.Address,
	drainer Drainer,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		producer:   producer,
		signer:     signer,
		drainer:    drainer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done or the listener fails.
func (a *App) RunContext(ctx context.Context) error {
	a.logger.Info("signer loaded", applogger.String("address", a.signer.Hex()))
	a.logger.Info("oracle configured",
		applogger.String("feed", a.cfg.Pyth.PriceFeedID),
		applogger.Uint64("expiry_seconds", a.cfg.Oracle.ExpirySeconds),
		applogger.String("base_token", a.cfg.Oracle.BaseToken),
		applogger.String("quote_token", a.cfg.Oracle.QuoteToken),
		applogger.Bool("audit", a.cfg.Kafka.Enabled),
	)

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
	}

	a.shutdown()
	return runErr
}

// shutdown gracefully stops all services.
func (a *App) shutdown() {
	a.logger.Info("shutting down...")

	// Shutdown HTTP server first so no request publishes after the producer closes
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Let pending audit publishes reach the producer before it closes
	if a.drainer != nil {
		a.drainer.Drain()
	}

	// Flush aggregated error logs while the producer is still open
	a.logger.RemoveCollector()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
}
