// Package signer produces EIP-191 signatures over packed context values.
package signer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	domrepo "PriceSigner/internal/domain/repository"
	"PriceSigner/pkg/decimalfloat"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is r || s || v.
const SignatureLength = crypto.SignatureLength

// recoveryOffset is added to the recovery id so v is 27 or 28.
const recoveryOffset = 27

var ErrInvalidSignature = errors.New("invalid signature")

// Signer holds the process signing key. It is safe for concurrent use.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

var _ domrepo.ContextSigner = (*Signer)(nil)

// New loads a hex private key, with or without a 0x prefix.
func New(hexKey string) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"), "0X")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		// the key material is deliberately left out of the message
		return nil, errors.New("invalid signer private key")
	}
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// Address is the account that recovers from every produced signature.
func (s *Signer) Address() common.Address {
	return s.address
}

// Sign signs the packed concatenation of values. The result is deterministic.
func (s *Signer) Sign(ctx context.Context, values []decimalfloat.Float) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.SignHash(ContextHash(values))
}

// SignHash signs hash as an EIP-191 personal message.
func (s *Signer) SignHash(hash []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(hash), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += recoveryOffset
	return sig, nil
}

// PackContext concatenates the raw 32 byte encodings with no separators.
func PackContext(values []decimalfloat.Float) []byte {
	packed := make([]byte, 0, len(values)*decimalfloat.Size)
	for _, v := range values {
		packed = append(packed, v[:]...)
	}
	return packed
}

// ContextHash is keccak256 of the packed context.
func ContextHash(values []decimalfloat.Float) []byte {
	return crypto.Keccak256(PackContext(values))
}

// RecoverAddress returns the signer of a context signature.
func RecoverAddress(values []decimalfloat.Float, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}
	if v := sig[crypto.RecoveryIDOffset]; v != recoveryOffset && v != recoveryOffset+1 {
		return common.Address{}, fmt.Errorf("%w: v=%d", ErrInvalidSignature, v)
	}

	raw := make([]byte, SignatureLength)
	copy(raw, sig)
	raw[crypto.RecoveryIDOffset] -= recoveryOffset

	pub, err := crypto.SigToPub(accounts.TextHash(ContextHash(values)), raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
