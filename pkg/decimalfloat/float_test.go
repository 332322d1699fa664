package decimalfloat

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	testCases := []struct {
		desc        string
		coefficient *big.Int
		exponent    int32
	}{
		{"one", big.NewInt(1), 0},
		{"minus one", big.NewInt(-1), 0},
		{"pyth eth price", big.NewInt(310012345678), -8},
		{"negative pyth price", big.NewInt(-310012345678), -8},
		{"int64 bounds", big.NewInt(math.MaxInt64), math.MinInt32},
		{"int64 min", big.NewInt(math.MinInt64), math.MaxInt32},
		{"int224 max", new(big.Int).Set(maxCoefficient), 5},
		{"int224 min", new(big.Int).Set(minCoefficient), -5},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f, err := Pack(tc.coefficient, tc.exponent)
			require.NoError(t, err)

			c, e := f.Unpack()
			assert.Equal(t, 0, c.Cmp(tc.coefficient), "coefficient: got %s want %s", c, tc.coefficient)
			assert.Equal(t, tc.exponent, e)
			assert.Equal(t, tc.exponent, f.Exponent())
		})
	}
}

func TestZeroIsAllZeroBytes(t *testing.T) {
	f := FromInt64(0, 0)
	assert.Equal(t, Zero, f)
	assert.Equal(t, make([]byte, Size), f.Bytes())
	assert.True(t, f.IsZero())

	// any exponent collapses to the canonical zero
	assert.Equal(t, Zero, FromInt64(0, -8))
}

func TestByteLayout(t *testing.T) {
	f := FromInt64(-1, -8)
	assert.Equal(t, "fffffff8", hex.EncodeToString(f[:4]))
	for i := 4; i < Size; i++ {
		require.Equal(t, byte(0xff), f[i], "byte %d must be sign extended", i)
	}

	g := FromInt64(0x0102, 2)
	assert.Equal(t, "0x0000000200000000000000000000000000000000000000000000000000000102", g.Hex())

	lowest, err := Pack(minCoefficient, 0)
	require.NoError(t, err)
	assert.Equal(t, "0x0000000080000000000000000000000000000000000000000000000000000000", lowest.Hex())

	highest, err := Pack(maxCoefficient, -1)
	require.NoError(t, err)
	assert.Equal(t, "0xffffffff7fffffffffffffffffffffffffffffffffffffffffffffffffffffff", highest.Hex())

	h := FromUint64(1700000000)
	assert.Equal(t, int32(0), h.Exponent())
	c, _ := h.Unpack()
	assert.Equal(t, "1700000000", c.String())
}

func TestPackOverflow(t *testing.T) {
	tooBig := new(big.Int).Add(maxCoefficient, big.NewInt(1))
	_, err := Pack(tooBig, 0)
	require.ErrorIs(t, err, ErrCoefficientOverflow)
	require.ErrorIs(t, err, ErrArithmetic)

	tooSmall := new(big.Int).Sub(minCoefficient, big.NewInt(1))
	_, err = Pack(tooSmall, 0)
	require.ErrorIs(t, err, ErrCoefficientOverflow)
}

func TestFromBytes(t *testing.T) {
	f := FromPythPrice(310012345678, -8)
	g, err := FromBytes(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, f, g)

	_, err = FromBytes(make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestFromPythPriceIsRepack(t *testing.T) {
	f := FromPythPrice(200000000000, -8)
	c, e := f.Unpack()
	assert.Equal(t, "200000000000", c.String())
	assert.Equal(t, int32(-8), e)
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in          string
		coefficient string
		exponent    int32
	}{
		{"3100.12345678", "310012345678", -8},
		{"2000.00000000", "2", 3},
		{"-0.00031", "-31", -5},
		{"3100", "31", 2},
		{"1.7e9", "17", 8},
		{"5e-4", "5", -4},
		{"1700000000", "17", 8},
		{"1E+2", "1", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			f, err := Parse(tc.in)
			require.NoError(t, err)
			c, e := f.Unpack()
			assert.Equal(t, tc.coefficient, c.String())
			assert.Equal(t, tc.exponent, e)
		})
	}

	zero, err := Parse("-0.000")
	require.NoError(t, err)
	assert.Equal(t, Zero, zero)
}

func TestParseIsSpellingIndependent(t *testing.T) {
	want, err := Parse("1.7e9")
	require.NoError(t, err)
	for _, in := range []string{"1700000000", "1700000000.000", "17e8", "0.17e10"} {
		got, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "1.", ".5", "--1", "+1", "1e", "1.2.3", " 1", "0x10", "1e99999999999"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.ErrorIs(t, err, ErrParse)
		})
	}

	// 68 nines cannot be held by an int224 coefficient
	_, err := Parse("99999999999999999999999999999999999999999999999999999999999999999999")
	require.ErrorIs(t, err, ErrParse)
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		desc string
		in   Float
		want string
	}{
		{"zero", Zero, "0"},
		{"eth price", FromPythPrice(310012345678, -8), "3100.12345678"},
		{"trailing zeros", FromPythPrice(200000000000, -8), "2000"},
		{"expiry", FromUint64(1700000000), "1.7e9"},
		{"small", FromInt64(5, -4), "5e-4"},
		{"plain lower bound", FromInt64(1, -3), "0.001"},
		{"plain upper bound", FromInt64(123456789, 0), "123456789"},
		{"exponent form", FromInt64(1, 9), "1e9"},
		{"negative", FromInt64(-25, -1), "-2.5"},
		{"negative small", FromInt64(-125, -7), "-1.25e-5"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := tc.in.Format()
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, tc.in.String())

			back, err := Parse(got)
			require.NoError(t, err)
			assert.True(t, back.Equal(tc.in), "%s did not parse back to an equal value", got)
		})
	}
}

func TestFormatAtExponentLimits(t *testing.T) {
	testCases := []struct {
		in   Float
		want string
	}{
		{FromInt64(10, math.MaxInt32), "1e2147483648"},
		{FromInt64(-70, math.MaxInt32), "-7e2147483648"},
		{FromInt64(1, math.MaxInt32), "1e2147483647"},
		{FromInt64(123, math.MinInt32), "1.23e-2147483646"},
		{FromInt64(1, math.MinInt32), "1e-2147483648"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			got := tc.in.Format()
			assert.Equal(t, tc.want, got)

			back, err := Parse(got)
			require.NoError(t, err)
			assert.True(t, back.Equal(tc.in), "%s did not parse back to an equal value", got)
		})
	}
}

func TestNormalizeAndEqual(t *testing.T) {
	a := FromInt64(200000000000, -8)
	b := FromInt64(2000, 0)
	assert.NotEqual(t, a, b)
	assert.True(t, a.Equal(b))
	assert.Equal(t, FromInt64(2, 3), a.Normalize())
	assert.False(t, a.Equal(FromInt64(2001, 0)))
}

func TestInvert(t *testing.T) {
	inv, err := FromPythPrice(200000000000, -8).Inv()
	require.NoError(t, err)
	assert.Equal(t, "5e-4", inv.Format())

	c, e := inv.Unpack()
	assert.Equal(t, "5", c.String())
	assert.Equal(t, int32(-4), e)

	half, err := FromInt64(2, 0).Inv()
	require.NoError(t, err)
	assert.Equal(t, "0.5", half.Format())
}

func TestInvertZero(t *testing.T) {
	_, err := Zero.Inv()
	require.ErrorIs(t, err, ErrDivisionByZero)
	require.ErrorIs(t, err, ErrArithmetic)
}

func TestInvertTwiceIsIdentity(t *testing.T) {
	tolerance := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(60), nil))

	for _, x := range []Float{
		FromInt64(3, 0),
		FromPythPrice(310012345678, -8),
		FromInt64(7, -20),
		FromInt64(-42, 0),
		FromInt64(math.MaxInt64, -18),
	} {
		t.Run(x.Format(), func(t *testing.T) {
			once, err := x.Inv()
			require.NoError(t, err)
			twice, err := once.Inv()
			require.NoError(t, err)

			want, got := toRat(x), toRat(twice)
			diff := new(big.Rat).Sub(want, got)
			diff.Abs(diff)
			diff.Quo(diff, new(big.Rat).Abs(want))
			assert.True(t, diff.Cmp(tolerance) <= 0, "relative error %s too large", diff.FloatString(70))
		})
	}

	for _, x := range []Float{FromInt64(2, 0), FromInt64(4, 0), FromInt64(25, -2)} {
		once, err := x.Inv()
		require.NoError(t, err)
		twice, err := once.Inv()
		require.NoError(t, err)
		assert.True(t, twice.Equal(x), "%s -> %s", x, twice)
	}
}

func TestDiv(t *testing.T) {
	testCases := []struct {
		a, b Float
		want string
	}{
		{FromInt64(1, 0), FromInt64(4, 0), "0.25"},
		{FromInt64(10, 0), FromInt64(4, 0), "2.5"},
		{FromInt64(-9, 0), FromInt64(3, 0), "-3"},
		{Zero, FromInt64(3, 0), "0"},
		{FromInt64(1, 0), FromInt64(3, 0), "0.33333333333333333333333333333333333333333333333333333333333333333"},
	}

	for _, tc := range testCases {
		got, err := tc.a.Div(tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Format())
	}

	_, err := FromInt64(1, math.MinInt32).Div(FromInt64(1, math.MaxInt32))
	require.ErrorIs(t, err, ErrExponentOverflow)
}

func TestNeg(t *testing.T) {
	n, err := FromInt64(5, -4).Neg()
	require.NoError(t, err)
	assert.Equal(t, "-5e-4", n.Format())

	_, err = Float{0, 0, 0, 0, 0x80}.Neg()
	require.ErrorIs(t, err, ErrCoefficientOverflow)
}

func TestJSON(t *testing.T) {
	in := []Float{FromPythPrice(310012345678, -8), FromUint64(1700000000)}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t,
		`["0xfffffff80000000000000000000000000000000000000000000000482e2cfd4e",`+
			`"0x000000000000000000000000000000000000000000000000000000006553f100"]`,
		string(b))

	var out []Float
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	var f Float
	require.Error(t, json.Unmarshal([]byte(`"0xzz"`), &f))
	require.True(t, errors.Is(json.Unmarshal([]byte(`"0x00"`), &f), ErrInvalidLength))
}

func toRat(f Float) *big.Rat {
	c, e := f.Unpack()
	r := new(big.Rat).SetInt(c)
	abs := int64(e)
	if abs < 0 {
		abs = -abs
	}
	p := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(abs), nil))
	if e >= 0 {
		return r.Mul(r, p)
	}
	return r.Quo(r, p)
}
