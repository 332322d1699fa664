package usecase

import (
	"PriceSigner/internal/domain/models"

	"github.com/ethereum/go-ethereum/common"
)

// ResolveDirection decides how the feed price must be presented for a trade
// that takes input and gives output. The first matching rule wins:
//
//	input == quote && output == base  -> AsIs
//	input == base  && output == quote -> Inverted
//
// Anything else is an unsupported_token_pair request error.
func ResolveDirection(input, output common.Address, pair models.TokenPair) (models.PriceDirection, error) {
	switch {
	case input == pair.Quote && output == pair.Base:
		return models.AsIs, nil
	case input == pair.Base && output == pair.Quote:
		return models.Inverted, nil
	default:
		return models.AsIs, models.UnsupportedTokenPair(input, output, pair)
	}
}
