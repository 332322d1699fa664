package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"PriceSigner/internal/domain/models"
	drepo "PriceSigner/internal/domain/repository"
	xlogger "PriceSigner/pkg/logger"

	"github.com/shopspring/decimal"
)

// AttestorConfig is fixed at startup.
type AttestorConfig struct {
	FeedID string
	Expiry time.Duration
	// Pair is nil for the reduced deployment: request bodies are ignored
	// and DefaultDirection is always used.
	Pair             *models.TokenPair
	DefaultDirection models.PriceDirection
}

const defaultAuditTimeout = 5 * time.Second

// Attestor turns an order request into a signed [price, expiry] context.
// It is safe for concurrent use.
type Attestor struct {
	cfg          AttestorConfig
	decoder      drepo.OrderDecoder
	feed         drepo.PriceFeed
	signer       drepo.ContextSigner
	audit        drepo.AuditPublisher
	auditTimeout time.Duration
	metrics      drepo.Metrics
	logger       *xlogger.Logger
	now          func() time.Time

	// in-flight audit publishes
	pending sync.WaitGroup
}

// AttestorOption configures optional collaborators.
type AttestorOption func(*Attestor)

// WithAuditPublisher sends every attestation to p after it is signed.
func WithAuditPublisher(p drepo.AuditPublisher) AttestorOption {
	return func(a *Attestor) { a.audit = p }
}

// WithAuditTimeout bounds each background audit publish.
func WithAuditTimeout(d time.Duration) AttestorOption {
	return func(a *Attestor) {
		if d > 0 {
			a.auditTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) AttestorOption {
	return func(a *Attestor) { a.now = now }
}

// NewAttestor creates a new Attestor instance.
func NewAttestor(
	cfg AttestorConfig,
	decoder drepo.OrderDecoder,
	feed drepo.PriceFeed,
	signer drepo.ContextSigner,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	opts ...AttestorOption,
) *Attestor {
	a := &Attestor{
		cfg:          cfg,
		decoder:      decoder,
		feed:         feed,
		signer:       signer,
		auditTimeout: defaultAuditTimeout,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SignedContext decodes body, resolves the direction, fetches the price,
// and returns the signed context.
func (a *Attestor) SignedContext(ctx context.Context, body []byte) (*models.SignedContext, error) {
	direction, err := a.direction(body)
	if err != nil {
		a.recordError(err)
		return nil, err
	}
	return a.Sign(ctx, direction)
}

// Sign fetches the configured feed and signs it in the given direction.
func (a *Attestor) Sign(ctx context.Context, direction models.PriceDirection) (*models.SignedContext, error) {
	start := time.Now()

	sample, err := a.feed.FetchPrice(ctx, a.cfg.FeedID)
	a.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	if err != nil {
		a.recordError(err)
		return nil, fmt.Errorf("fetch price: %w", err)
	}
	a.metrics.RecordLastPrice(a.cfg.FeedID, priceFloat(sample))

	// one clock read per request
	signedAt := a.now()
	expiry := uint64(signedAt.Add(a.cfg.Expiry).Unix())

	values, err := BuildContext(sample, expiry, direction)
	if err != nil {
		a.recordError(err)
		return nil, fmt.Errorf("build context: %w", err)
	}

	signStart := time.Now()
	sig, err := a.signer.Sign(ctx, values)
	a.metrics.RecordLatency("sign", time.Since(signStart).Seconds())
	if err != nil {
		a.metrics.RecordError("sign")
		return nil, fmt.Errorf("sign context: %w", err)
	}

	sc := &models.SignedContext{
		Signer:    a.signer.Address(),
		Context:   values,
		Signature: sig,
	}

	a.metrics.RecordAttestation(direction.String())
	a.metrics.RecordLatency("total", time.Since(start).Seconds())
	a.logger.Debug("signed context",
		xlogger.String("direction", direction.String()),
		xlogger.String("price", sample.String()),
		xlogger.Any("expiry", expiry),
	)

	a.publish(ctx, &models.Attestation{
		SignedContext: *sc,
		Direction:     direction,
		Sample:        sample,
		Expiry:        expiry,
		SignedAt:      signedAt,
	})
	return sc, nil
}

func (a *Attestor) direction(body []byte) (models.PriceDirection, error) {
	if a.cfg.Pair == nil {
		return a.cfg.DefaultDirection, nil
	}

	order, err := a.decoder.Decode(body)
	if err != nil {
		return models.AsIs, err
	}

	direction, err := ResolveDirection(order.InputToken, order.OutputToken, *a.cfg.Pair)
	if err != nil {
		return models.AsIs, err
	}
	a.logger.Debug("oracle request",
		xlogger.String("input", order.InputToken.Hex()),
		xlogger.String("output", order.OutputToken.Hex()),
		xlogger.String("direction", direction.String()),
	)
	return direction, nil
}

// publish hands the attestation to the audit stream without delaying the
// response. The publish outlives the request but not auditTimeout.
func (a *Attestor) publish(ctx context.Context, att *models.Attestation) {
	if a.audit == nil {
		return
	}

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.auditTimeout)
		defer cancel()
		if err := a.audit.Publish(pubCtx, att); err != nil {
			a.metrics.RecordError("audit")
			a.logger.Warn("publish attestation", xlogger.Error(err))
		}
	}()
}

// Drain waits for in-flight audit publishes to finish.
func (a *Attestor) Drain() {
	a.pending.Wait()
}

func (a *Attestor) recordError(err error) {
	var reqErr *models.RequestError
	var encErr *models.EncodingError
	switch {
	case errors.As(err, &reqErr):
		a.metrics.RecordError(reqErr.Code())
	case errors.As(err, &encErr):
		a.metrics.RecordError("encoding")
	case errors.Is(err, models.ErrFeedMalformed):
		a.metrics.RecordError("feed_malformed")
	case errors.Is(err, models.ErrFeedUnavailable):
		a.metrics.RecordError("feed_unavailable")
	default:
		a.metrics.RecordError("internal")
	}
}

func priceFloat(s models.PriceSample) float64 {
	f, _ := decimal.New(s.Price, s.Expo).Float64()
	return f
}
