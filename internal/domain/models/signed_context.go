package models

import (
	"time"

	"PriceSigner/pkg/decimalfloat"

	"github.com/ethereum/go-ethereum/common"
)

// Context slot positions. The verifying contract reads them by index.
const (
	ContextPrice = iota
	ContextExpiry
	ContextLen
)

// SignedContext is the signed [price, expiry] pair returned to the caller.
type SignedContext struct {
	Signer    common.Address
	Context   []decimalfloat.Float
	Signature []byte
}

// Attestation is the audit view of one signed context.
type Attestation struct {
	SignedContext
	Direction PriceDirection
	Sample    PriceSample
	Expiry    uint64
	SignedAt  time.Time
}
