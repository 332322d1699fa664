// Package decimalfloat implements the 32 byte decimal floating point layout
// used by on-chain contracts: a signed int32 exponent followed by a signed
// int224 coefficient, both big-endian. The encoded value is
// coefficient * 10^exponent.
package decimalfloat

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	ethmath "github.com/ethereum/go-ethereum/common/math"
)

// Size is the encoded width of a Float in bytes.
const Size = 32

const (
	exponentBytes   = 4
	coefficientBits = 224
)

var (
	ErrArithmetic          = errors.New("decimalfloat: arithmetic error")
	ErrParse               = errors.New("decimalfloat: parse error")
	ErrInvalidLength       = errors.New("decimalfloat: encoded value must be 32 bytes")
	ErrDivisionByZero      = fmt.Errorf("%w: division by zero", ErrArithmetic)
	ErrCoefficientOverflow = fmt.Errorf("%w: coefficient does not fit in int224", ErrArithmetic)
	ErrExponentOverflow    = fmt.Errorf("%w: exponent does not fit in int32", ErrArithmetic)
)

var (
	bigTen         = big.NewInt(10)
	twoPow224      = new(big.Int).Lsh(big.NewInt(1), coefficientBits)
	maxCoefficient = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), coefficientBits-1), big.NewInt(1))
	minCoefficient = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), coefficientBits-1))
)

// Float is a decimal float in its packed 32 byte form.
// Zero is always the all-zero byte string.
type Float [Size]byte

var (
	// Zero is the canonical zero value.
	Zero Float
	// One is 1 * 10^0.
	One = FromInt64(1, 0)
)

// Pack encodes coefficient * 10^exponent. A zero coefficient always packs
// to Zero regardless of the exponent.
func Pack(coefficient *big.Int, exponent int32) (Float, error) {
	var f Float
	if coefficient == nil || coefficient.Sign() == 0 {
		return f, nil
	}
	if coefficient.Cmp(maxCoefficient) > 0 || coefficient.Cmp(minCoefficient) < 0 {
		return f, ErrCoefficientOverflow
	}

	binary.BigEndian.PutUint32(f[:exponentBytes], uint32(exponent))

	// the low 28 bytes of the 256 bit two's complement are the sign extended int224
	word := ethmath.U256Bytes(new(big.Int).Set(coefficient))
	copy(f[exponentBytes:], word[exponentBytes:])
	return f, nil
}

// FromInt64 packs a 64 bit coefficient. It cannot overflow.
func FromInt64(coefficient int64, exponent int32) Float {
	f, _ := Pack(big.NewInt(coefficient), exponent)
	return f
}

// FromUint64 packs an unsigned integer with exponent 0.
func FromUint64(v uint64) Float {
	f, _ := Pack(new(big.Int).SetUint64(v), 0)
	return f
}

// FromPythPrice repacks a Pyth price (price * 10^expo) without rescaling.
func FromPythPrice(price int64, expo int32) Float {
	return FromInt64(price, expo)
}

// FromBytes copies a 32 byte encoding into a Float.
func FromBytes(b []byte) (Float, error) {
	var f Float
	if len(b) != Size {
		return f, fmt.Errorf("%w: got %d", ErrInvalidLength, len(b))
	}
	copy(f[:], b)
	return f, nil
}

// Unpack returns the coefficient and exponent.
func (f Float) Unpack() (*big.Int, int32) {
	exponent := int32(binary.BigEndian.Uint32(f[:exponentBytes]))
	c := new(big.Int).SetBytes(f[exponentBytes:])
	if f[exponentBytes]&0x80 != 0 {
		c.Sub(c, twoPow224)
	}
	return c, exponent
}

// Exponent returns the raw exponent.
func (f Float) Exponent() int32 {
	return int32(binary.BigEndian.Uint32(f[:exponentBytes]))
}

// Bytes returns the 32 byte encoding.
func (f Float) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, f[:])
	return b
}

// Hex returns the 0x-prefixed hex encoding.
func (f Float) Hex() string {
	return "0x" + hex.EncodeToString(f[:])
}

// IsZero reports whether the value is zero.
func (f Float) IsZero() bool {
	for _, b := range f[exponentBytes:] {
		if b != 0 {
			return false
		}
	}
	return true
}

// Normalize strips trailing decimal zeros from the coefficient.
func (f Float) Normalize() Float {
	c, e := f.Unpack()
	c, exp := trimZeros(c, int64(e), math.MaxInt32)
	n, _ := Pack(c, int32(exp))
	return n
}

// Equal reports numeric equality.
func (f Float) Equal(g Float) bool {
	return f.Normalize() == g.Normalize()
}

// String renders the value as a decimal string.
func (f Float) String() string {
	return f.Format()
}

// MarshalText encodes the Float as 0x-prefixed hex.
func (f Float) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

// UnmarshalText decodes 0x-prefixed (or bare) hex.
func (f *Float) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimPrefix(string(text), "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decimalfloat: decode hex: %w", err)
	}
	v, err := FromBytes(b)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// trimZeros divides out trailing zeros while the exponent stays <= limit.
func trimZeros(c *big.Int, exp int64, limit int64) (*big.Int, int64) {
	if c.Sign() == 0 {
		return c, 0
	}
	c = new(big.Int).Set(c)
	q, r := new(big.Int), new(big.Int)
	for exp < limit {
		q.QuoRem(c, bigTen, r)
		if r.Sign() != 0 {
			break
		}
		c.Set(q)
		exp++
	}
	return c, exp
}

// packWide normalizes an arbitrary precision result into the packed layout,
// truncating toward zero when the coefficient is too wide.
func packWide(c *big.Int, exp int64) (Float, error) {
	c, exp = trimZeros(c, exp, math.MaxInt64)
	for c.Cmp(maxCoefficient) > 0 || c.Cmp(minCoefficient) < 0 {
		c.Quo(c, bigTen)
		exp++
	}
	if c.Sign() == 0 {
		return Zero, nil
	}
	if exp > math.MaxInt32 || exp < math.MinInt32 {
		return Zero, ErrExponentOverflow
	}
	return Pack(c, int32(exp))
}

func numDigits(x *big.Int) int {
	return len(new(big.Int).Abs(x).String())
}
