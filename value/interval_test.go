package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagrel/reachrel/value"
)

func TestInterval_Basics(t *testing.T) {
	iv, err := value.NewInterval(0.2, 0.6)
	require.NoError(t, err)
	comp := iv.Complement().(value.Interval)
	assert.InDelta(t, 0.4, comp.Lo, 1e-12)
	assert.InDelta(t, 0.8, comp.Hi, 1e-12)

	other, err := value.NewInterval(0.5, 0.5)
	require.NoError(t, err)
	prod := iv.Mul(other).(value.Interval)
	assert.InDelta(t, 0.1, prod.Lo, 1e-12)
	assert.InDelta(t, 0.3, prod.Hi, 1e-12)
}

func TestInterval_InvalidBounds(t *testing.T) {
	_, err := value.NewInterval(0.6, 0.2)
	assert.ErrorIs(t, err, value.ErrOutOfRange)
	_, err = value.NewInterval(-0.1, 0.5)
	assert.ErrorIs(t, err, value.ErrOutOfRange)
}

func TestInterval_AddClamps(t *testing.T) {
	a, _ := value.NewInterval(0.6, 0.8)
	b, _ := value.NewInterval(0.6, 0.8)
	sum := a.Add(b).(value.Interval)
	assert.Equal(t, 1.0, sum.Lo)
	assert.Equal(t, 1.0, sum.Hi)
}

func TestInterval_ZeroOne(t *testing.T) {
	assert.True(t, value.Zero(value.KindInterval).IsZero())
	assert.True(t, value.One(value.KindInterval).IsOne())
	assert.False(t, value.Zero(value.KindInterval).IsOne())
}
