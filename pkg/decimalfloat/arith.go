package decimalfloat

import "math/big"

// divisionDigits is the number of significant digits kept by Div. 10^66 is
// below 2^223, so a quotient of this width always fits the coefficient.
const divisionDigits = 65

// Div returns f / g truncated toward zero to divisionDigits significant
// digits.
func (f Float) Div(g Float) (Float, error) {
	b, eb := g.Unpack()
	if b.Sign() == 0 {
		return Zero, ErrDivisionByZero
	}
	a, ea := f.Unpack()
	if a.Sign() == 0 {
		return Zero, nil
	}

	exp := int64(ea) - int64(eb)
	num := new(big.Int).Set(a)
	if shift := divisionDigits - numDigits(a) + numDigits(b); shift > 0 {
		num.Mul(num, new(big.Int).Exp(bigTen, big.NewInt(int64(shift)), nil))
		exp -= int64(shift)
	}

	return packWide(num.Quo(num, b), exp)
}

// Inv returns 1 / f.
func (f Float) Inv() (Float, error) {
	return One.Div(f)
}

// Neg returns -f.
func (f Float) Neg() (Float, error) {
	c, e := f.Unpack()
	return Pack(c.Neg(c), e)
}
