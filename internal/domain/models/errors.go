package models

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Feed collaborator failures. Both surface as internal errors.
var (
	ErrFeedUnavailable = errors.New("price feed unavailable")
	ErrFeedMalformed   = errors.New("price feed returned malformed data")
)

// ErrorKind classifies caller-side request failures.
type ErrorKind string

const (
	KindInvalidBody          ErrorKind = "invalid_body"
	KindInvalidIndex         ErrorKind = "invalid_index"
	KindUnsupportedTokenPair ErrorKind = "unsupported_token_pair"
)

// CodeInternal is reported for every failure that is not a RequestError.
const CodeInternal = "internal_error"

// RequestError is a rejected request. Only the fields relevant to Kind are set.
type RequestError struct {
	Kind ErrorKind

	// invalid_body
	Err error

	// invalid_index
	Side  string
	Index uint64
	Len   int

	// unsupported_token_pair
	Input  common.Address
	Output common.Address
	Pair   TokenPair
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindInvalidBody:
		if e.Err != nil {
			return fmt.Sprintf("invalid ABI-encoded body: %v", e.Err)
		}
		return "invalid ABI-encoded body"
	case KindInvalidIndex:
		return fmt.Sprintf("invalid %s IO index: %d (order has %d %ss)", e.Side, e.Index, e.Len, e.Side)
	case KindUnsupportedTokenPair:
		return fmt.Sprintf("unsupported token pair: input %s / output %s does not match configured pair (%s)",
			e.Input.Hex(), e.Output.Hex(), e.Pair)
	default:
		return string(e.Kind)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// Code is the machine readable error code.
func (e *RequestError) Code() string { return string(e.Kind) }

// InvalidBody wraps a payload decoding failure.
func InvalidBody(err error) *RequestError {
	return &RequestError{Kind: KindInvalidBody, Err: err}
}

// InvalidIndex reports an IO index outside its list.
func InvalidIndex(side string, index uint64, length int) *RequestError {
	return &RequestError{Kind: KindInvalidIndex, Side: side, Index: index, Len: length}
}

// UnsupportedTokenPair reports a request whose tokens do not match the configured pair.
func UnsupportedTokenPair(input, output common.Address, pair TokenPair) *RequestError {
	return &RequestError{Kind: KindUnsupportedTokenPair, Input: input, Output: output, Pair: pair}
}

// EncodingError is a failure turning a sample into context values.
type EncodingError struct {
	Op  string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Op, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
