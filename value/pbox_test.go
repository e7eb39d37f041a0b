package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dagrel/reachrel/value"
)

func TestPBox_ZeroOneNeutral(t *testing.T) {
	z := value.Zero(value.KindPBox)
	o := value.One(value.KindPBox)
	n := value.Neutral(value.KindPBox)

	assert.True(t, z.IsZero())
	assert.False(t, z.IsOne())
	assert.True(t, o.IsOne())
	assert.False(t, o.IsZero())
	assert.False(t, n.IsZero())
	assert.False(t, n.IsOne())
}

func TestPBox_ComplementOfZeroIsOne(t *testing.T) {
	z := value.Zero(value.KindPBox)
	comp := z.Complement()
	assert.True(t, comp.IsOne())
}

func TestPBox_ComplementOfOneIsZero(t *testing.T) {
	o := value.One(value.KindPBox)
	comp := o.Complement()
	assert.True(t, comp.IsZero())
}

func TestPBox_MulOfOnesIsOne(t *testing.T) {
	o := value.One(value.KindPBox)
	prod := o.Mul(o)
	assert.True(t, prod.IsOne())
}

func TestPBox_MulOfZeroAnnihilates(t *testing.T) {
	z := value.Zero(value.KindPBox)
	o := value.One(value.KindPBox)
	prod := z.Mul(o)
	assert.True(t, prod.IsZero())
}

func TestPBox_PreciseScalarMatchesScalarSemantics(t *testing.T) {
	p, err := value.NewPBox(constCDF(0.5), constCDF(0.5))
	assert.NoError(t, err)
	q, err := value.NewPBox(constCDF(0.5), constCDF(0.5))
	assert.NoError(t, err)
	prod := p.Mul(q).(value.PBox)
	// 0.5*0.5 = 0.25, which lands exactly on grid index 10 (step 0.025):
	// the resulting degenerate p-box's CDF jumps to 1 there.
	assert.Equal(t, 0.0, prod.Lower[9])
	assert.Equal(t, 1.0, prod.Lower[10])
	assert.Equal(t, 0.0, prod.Upper[9])
	assert.Equal(t, 1.0, prod.Upper[10])
}

// constCDF builds a degenerate CDF step function at p sampled on the
// 41-point shared grid used by the value package (see pboxGridSize).
func constCDF(p float64) []float64 {
	const n = 41
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		if x >= p-1e-9 {
			out[i] = 1
		}
	}

	return out
}

func TestPBox_NewPBoxRejectsBadShape(t *testing.T) {
	_, err := value.NewPBox([]float64{0, 1}, []float64{0, 1})
	assert.ErrorIs(t, err, value.ErrOutOfRange)

	bad := constCDF(0.5)
	bad[10] = 2
	_, err = value.NewPBox(bad, constCDF(0.5))
	assert.ErrorIs(t, err, value.ErrOutOfRange)
}
