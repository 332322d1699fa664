package models

import "fmt"

// PriceDirection tells whether the feed price is signed as-is or inverted.
type PriceDirection int

const (
	// AsIs: input is the quote token, output is the base token.
	// e.g. input=USDC output=WETH, "USDC per WETH" ~ 1900.
	AsIs PriceDirection = iota
	// Inverted: input is the base token, output is the quote token.
	// e.g. input=WETH output=USDC, "WETH per USDC" ~ 0.000526.
	Inverted
)

func (d PriceDirection) String() string {
	switch d {
	case AsIs:
		return "as_is"
	case Inverted:
		return "inverted"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses "as_is" or "inverted".
func ParseDirection(s string) (PriceDirection, error) {
	switch s {
	case "as_is", "":
		return AsIs, nil
	case "inverted":
		return Inverted, nil
	default:
		return AsIs, fmt.Errorf("unknown price direction %q", s)
	}
}
