package repository

import (
	"context"

	"PriceSigner/internal/domain/models"
	"PriceSigner/pkg/decimalfloat"

	"github.com/ethereum/go-ethereum/common"
)

type PriceFeed interface {
	FetchPrice(ctx context.Context, feedID string) (models.PriceSample, error)
}

type OrderDecoder interface {
	Decode(body []byte) (models.OrderFields, error)
}

type ContextSigner interface {
	Address() common.Address
	Sign(ctx context.Context, values []decimalfloat.Float) ([]byte, error)
}

// AuditPublisher receives every produced attestation. Failures are logged, never returned to callers.
type AuditPublisher interface {
	Publish(ctx context.Context, a *models.Attestation) error
	Close() error
}

type Metrics interface {
	RecordAttestation(direction string)
	RecordError(kind string)
	RecordLastPrice(feed string, price float64)
	RecordLatency(op string, seconds float64)
}
