package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstrumentKey(t *testing.T) {
	k, err := ParseInstrumentKey("rb.shfe")
	require.NoError(t, err)
	assert.Equal(t, InstrumentKey{Symbol: "RB", Venue: SHFE}, k)
	assert.Equal(t, "RB.SHFE", k.String())

	_, err = ParseInstrumentKey("RB")
	assert.Error(t, err)
	_, err = ParseInstrumentKey("RB.NYSE")
	assert.Error(t, err)
}

func TestFiniteAndMissing(t *testing.T) {
	assert.Equal(t, MissingValue, Finite(math.NaN()))
	assert.Equal(t, MissingValue, Finite(math.Inf(1)))
	assert.Equal(t, 0.0, Finite(0))
	assert.True(t, Bar{Close: MissingValue}.HasMissing())
	assert.False(t, Bar{}.HasMissing())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("20090327")
	require.NoError(t, err)
	assert.Equal(t, Date(2009, 3, 27), d)

	d, err = ParseDate("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, 12, 31), d)
}
