package di

import (
	"fmt"

	"PriceSigner/internal/domain/models"
	"PriceSigner/internal/domain/repository"
	"PriceSigner/internal/handler/api"
	internalrepo "PriceSigner/internal/repository"
	"PriceSigner/internal/service/orderbook"
	"PriceSigner/internal/service/pyth"
	"PriceSigner/internal/service/signer"
	"PriceSigner/internal/usecase"
	"PriceSigner/pkg/config"
	xhttp "PriceSigner/pkg/http"
	pkgkafka "PriceSigner/pkg/kafka"
	xlogger "PriceSigner/pkg/logger"
	"PriceSigner/pkg/metrics"
	"PriceSigner/pkg/server"
)

// ProvideKafkaProducer creates a Kafka producer. It returns nil when neither
// the audit stream nor log collection is enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled && !cfg.Log.Collect.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithAutoCreateTopic(cfg.Kafka.AutoCreateTopic),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideLogger creates the application logger and attaches the error log
// collector when enabled.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if cfg.Log.Collect.Enabled && producer != nil {
		l.AddCollector(&xlogger.CollectionConfig{
			TimeInterval:   cfg.Log.Collect.Interval,
			CountThreshold: cfg.Log.Collect.CountThreshold,
			Topic:          cfg.Log.Collect.Topic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideAuditPublisher creates the Kafka audit stream, or nil when disabled.
func ProvideAuditPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AuditPublisher {
	if producer == nil || !cfg.Kafka.Enabled {
		return nil
	}
	return internalrepo.NewKafkaAuditPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSigner loads the signing key.
func ProvideSigner(cfg *config.Config) (*signer.Signer, error) {
	s, err := signer.New(cfg.Signer.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("signer: %w", err)
	}
	return s, nil
}

// ProvideOrderDecoder creates the request body decoder.
func ProvideOrderDecoder() (*orderbook.Decoder, error) {
	return orderbook.NewDecoder()
}

// ProvidePriceFeed creates the Hermes client.
func ProvidePriceFeed(cfg *config.Config) repository.PriceFeed {
	return pyth.New(cfg.Pyth.BaseURL, cfg.Pyth.Timeout)
}

// ProvideAttestor creates the signed context use case.
func ProvideAttestor(
	cfg *config.Config,
	decoder *orderbook.Decoder,
	feed repository.PriceFeed,
	s *signer.Signer,
	m repository.Metrics,
	l *xlogger.Logger,
	audit repository.AuditPublisher,
) (*usecase.Attestor, error) {
	direction, err := models.ParseDirection(cfg.Oracle.DefaultDirection)
	if err != nil {
		return nil, err
	}

	ac := usecase.AttestorConfig{
		FeedID:           cfg.Pyth.PriceFeedID,
		Expiry:           cfg.Expiry(),
		DefaultDirection: direction,
	}
	if cfg.HasTokenPair() {
		pair, err := models.NewTokenPair(cfg.Oracle.BaseToken, cfg.Oracle.QuoteToken)
		if err != nil {
			return nil, err
		}
		ac.Pair = &pair
	}

	var opts []usecase.AttestorOption
	if audit != nil {
		opts = append(opts,
			usecase.WithAuditPublisher(audit),
			usecase.WithAuditTimeout(cfg.Kafka.AuditTimeout),
		)
	}
	return usecase.NewAttestor(ac, decoder, feed, s, m, l, opts...), nil
}

// ProvideContextHandler creates the HTTP handler.
func ProvideContextHandler(l *xlogger.Logger, a *usecase.Attestor) *api.ContextEchoHandler {
	return api.NewContextEchoHandler(l, a)
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, h *api.ContextEchoHandler, l *xlogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithBodyLimit(cfg.Server.BodyLimit),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *xlogger.Logger,
	srv *xhttp.Server,
	producer *pkgkafka.Producer,
	s *signer.Signer,
	a *usecase.Attestor,
) *server.App {
	return server.New(cfg, l, srv, producer, s.Address(), a)
}
