package models

import (
	"strconv"
	"strings"
	"time"
)

// PriceSample is one upstream feed reading: Price * 10^Expo.
type PriceSample struct {
	FeedID      string
	Price       int64
	Expo        int32
	Conf        uint64
	PublishTime time.Time
}

// String renders the sample as a plain decimal, e.g. 310012345678e-8 as "3100.12345678".
func (p PriceSample) String() string {
	return FormatPythPrice(p.Price, p.Expo)
}

// FormatPythPrice renders price * 10^expo without exponent notation.
func FormatPythPrice(price int64, expo int32) string {
	if expo >= 0 {
		return strconv.FormatInt(price, 10) + strings.Repeat("0", int(expo))
	}

	negative := price < 0
	digits := strconv.FormatUint(absInt64(price), 10)
	scale := int(-expo)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	if len(digits) <= scale {
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", scale-len(digits)))
		b.WriteString(digits)
		return b.String()
	}
	split := len(digits) - scale
	b.WriteString(digits[:split])
	b.WriteByte('.')
	b.WriteString(digits[split:])
	return b.String()
}

func absInt64(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1
	}
	return uint64(v)
}
