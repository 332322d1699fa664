package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPythPrice(t *testing.T) {
	testCases := []struct {
		price int64
		expo  int32
		want  string
	}{
		{310012345678, -8, "3100.12345678"},
		{200000000000, -8, "2000.00000000"},
		{31, -5, "0.00031"},
		{31, 2, "3100"},
		{31, 0, "31"},
		{-310012345678, -8, "-3100.12345678"},
		{-31, -5, "-0.00031"},
		{0, -3, "0.000"},
		{math.MinInt64, -2, "-92233720368547758.08"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatPythPrice(tc.price, tc.expo))
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("inverted")
	assert.NoError(t, err)
	assert.Equal(t, Inverted, d)
	assert.Equal(t, "inverted", d.String())

	d, err = ParseDirection("")
	assert.NoError(t, err)
	assert.Equal(t, AsIs, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestNewTokenPair(t *testing.T) {
	p, err := NewTokenPair("0x4200000000000000000000000000000000000006", "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913")
	assert.NoError(t, err)
	assert.Equal(t, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", p.Quote.Hex())

	_, err = NewTokenPair("weth", "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913")
	assert.Error(t, err)
}
