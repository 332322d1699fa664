package decimalfloat

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Values whose leading digit sits at 10^m with m outside
// [minPlainMagnitude, maxPlainMagnitude) are rendered in exponent form.
const (
	minPlainMagnitude = -3
	maxPlainMagnitude = 9
)

var decimalPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

// Parse reads a base 10 string such as "3100.12345678", "-0.5" or "1.7e9".
// The result carries the minimal coefficient, so "2000.00", "2000" and "2e3"
// all parse to 2e3.
func Parse(s string) (Float, error) {
	if !decimalPattern.MatchString(s) {
		return Zero, fmt.Errorf("%w: malformed decimal %q", ErrParse, s)
	}

	// the exponent is read here because decimal limits it to 32 bits before
	// the mantissa shift is applied
	mantissa, shift := s, int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		v, err := strconv.ParseInt(s[i+1:], 10, 64)
		if err != nil {
			return Zero, fmt.Errorf("%w: %q: %v", ErrParse, s, ErrExponentOverflow)
		}
		mantissa, shift = s[:i], v
	}

	d, err := decimal.NewFromString(mantissa)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q: %v", ErrParse, s, err)
	}

	c, exp := d.Coefficient(), int64(d.Exponent())+shift
	if c.Sign() == 0 {
		return Zero, nil
	}
	c, exp = trimZeros(c, exp, math.MaxInt32)
	for exp > math.MaxInt32 && c.Cmp(maxCoefficient) <= 0 && c.Cmp(minCoefficient) >= 0 {
		c.Mul(c, bigTen)
		exp--
	}
	if exp > math.MaxInt32 || exp < math.MinInt32 {
		return Zero, fmt.Errorf("%w: %q: %v", ErrParse, s, ErrExponentOverflow)
	}

	f, err := Pack(c, int32(exp))
	if err != nil {
		return Zero, fmt.Errorf("%w: %q: %v", ErrParse, s, err)
	}
	return f, nil
}

// Format renders the value in canonical form: "3100.12345678", "5e-4",
// "1.7e9". The output always parses back to an equal Float.
func (f Float) Format() string {
	c, e := f.Unpack()
	if c.Sign() == 0 {
		return "0"
	}
	c, exp := trimZeros(c, int64(e), math.MaxInt64)

	digits := new(big.Int).Abs(c).String()
	magnitude := exp + int64(len(digits)) - 1
	if magnitude >= minPlainMagnitude && magnitude < maxPlainMagnitude {
		return decimal.NewFromBigInt(c, int32(exp)).String()
	}

	var b strings.Builder
	if c.Sign() < 0 {
		b.WriteByte('-')
	}
	b.WriteString(digits[:1])
	if len(digits) > 1 {
		b.WriteByte('.')
		b.WriteString(digits[1:])
	}
	b.WriteByte('e')
	b.WriteString(strconv.FormatInt(magnitude, 10))
	return b.String()
}
