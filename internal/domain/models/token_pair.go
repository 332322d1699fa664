package models

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// TokenPair maps token addresses to the feed's base/quote roles.
// The feed prices Base in units of Quote (ETH/USD: Base=WETH, Quote=USDC).
type TokenPair struct {
	Base  common.Address
	Quote common.Address
}

// NewTokenPair parses both addresses.
func NewTokenPair(base, quote string) (TokenPair, error) {
	if !common.IsHexAddress(base) {
		return TokenPair{}, fmt.Errorf("invalid base token address %q", base)
	}
	if !common.IsHexAddress(quote) {
		return TokenPair{}, fmt.Errorf("invalid quote token address %q", quote)
	}
	return TokenPair{Base: common.HexToAddress(base), Quote: common.HexToAddress(quote)}, nil
}

func (p TokenPair) String() string {
	return fmt.Sprintf("base=%s quote=%s", p.Base.Hex(), p.Quote.Hex())
}
