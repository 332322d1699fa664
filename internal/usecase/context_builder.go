package usecase

import (
	"PriceSigner/internal/domain/models"
	"PriceSigner/pkg/decimalfloat"
)

// BuildContext encodes [price, expiry]. The order is read by index on chain.
// The price is the feed's (price, expo) pair repacked untouched, then
// inverted for the Inverted direction.
func BuildContext(sample models.PriceSample, expiry uint64, direction models.PriceDirection) ([]decimalfloat.Float, error) {
	price := decimalfloat.FromPythPrice(sample.Price, sample.Expo)

	if direction == models.Inverted {
		inv, err := price.Inv()
		if err != nil {
			return nil, &models.EncodingError{Op: "invert price " + sample.String(), Err: err}
		}
		price = inv
	}

	context := make([]decimalfloat.Float, models.ContextLen)
	context[models.ContextPrice] = price
	context[models.ContextExpiry] = decimalfloat.FromUint64(expiry)
	return context, nil
}
