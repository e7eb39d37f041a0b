package value

import "sort"

// pboxGridSize is the number of discretisation points used for every PBox
// in a run. All PBoxes share the same grid so that Mul/Add never need to
// resample; 41 points (step 0.025) balances fidelity against the O(n^2)
// cost of PBox.Mul's convolution.
const pboxGridSize = 41

// pboxGrid holds the shared grid points g_0=0 < g_1 < ... < g_{n-1}=1.
var pboxGrid = buildPBoxGrid()

func buildPBoxGrid() []float64 {
	grid := make([]float64, pboxGridSize)
	for i := range grid {
		grid[i] = float64(i) / float64(pboxGridSize-1)
	}

	return grid
}

// PBox is a discretised probability box: a pair of non-decreasing CDF
// step functions (Lower, Upper) on the shared grid, bounding an unknown
// true CDF of a probability value. Lower[i] <= Upper[i] for all i;
// Lower[pboxGridSize-1] == Upper[pboxGridSize-1] == 1.
type PBox struct {
	Lower []float64
	Upper []float64
}

func zeroPBox() PBox {
	// Degenerate at 0: CDF is 1 everywhere on [0,1] (the grid starts at 0).
	l := make([]float64, pboxGridSize)
	u := make([]float64, pboxGridSize)
	for i := range l {
		l[i] = 1
		u[i] = 1
	}

	return PBox{Lower: l, Upper: u}
}

func onePBox() PBox {
	return constantPBox(1)
}

// constantPBox returns the precise (Lower==Upper) p-box for a known scalar p.
func constantPBox(p float64) PBox {
	l := make([]float64, pboxGridSize)
	u := make([]float64, pboxGridSize)
	idx := sort.SearchFloat64s(pboxGrid, p)
	for i := idx; i < pboxGridSize; i++ {
		l[i] = 1
		u[i] = 1
	}

	return PBox{Lower: l, Upper: u}
}

// NewPBox validates and constructs a PBox from caller-supplied CDF bound
// arrays, which must already be sampled on the shared grid (pboxGridSize
// points). Returns ErrOutOfRange if bounds are malformed: wrong length,
// not non-decreasing, not in [0,1], or Lower[i] > Upper[i] anywhere.
func NewPBox(lower, upper []float64) (PBox, error) {
	if len(lower) != pboxGridSize || len(upper) != pboxGridSize {
		return PBox{}, ErrOutOfRange
	}
	prevL, prevU := -1.0, -1.0
	for i := 0; i < pboxGridSize; i++ {
		if lower[i] < 0 || upper[i] > 1 || lower[i] > upper[i] {
			return PBox{}, ErrOutOfRange
		}
		if lower[i] < prevL || upper[i] < prevU {
			return PBox{}, ErrOutOfRange
		}
		prevL, prevU = lower[i], upper[i]
	}
	l := make([]float64, pboxGridSize)
	u := make([]float64, pboxGridSize)
	copy(l, lower)
	copy(u, upper)

	return PBox{Lower: l, Upper: u}, nil
}

// Kind returns KindPBox.
func (p PBox) Kind() Kind { return KindPBox }

// IsZero reports that p is the degenerate p-box at 0.
func (p PBox) IsZero() bool {
	return p.Upper[0] == 1 && p.Lower[0] == 1
}

// IsOne reports that p is the degenerate p-box at 1.
func (p PBox) IsOne() bool {
	for i := 0; i < pboxGridSize-1; i++ {
		if p.Lower[i] != 0 || p.Upper[i] != 0 {
			return false
		}
	}

	return p.Lower[pboxGridSize-1] == 1 && p.Upper[pboxGridSize-1] == 1
}

// Complement reflects p about 1: a variable bounded by (Lower,Upper)
// becomes 1-X, whose CDF bounds are the reversed, swapped originals taken
// one grid step below the reflected point (P(1-X <= g_i) = 1 - P(X < g_{n-1-i})).
func (p PBox) Complement() Value {
	l := make([]float64, pboxGridSize)
	u := make([]float64, pboxGridSize)
	for i := 0; i < pboxGridSize; i++ {
		j := pboxGridSize - 2 - i
		if j < 0 {
			l[i] = 1
			u[i] = 1

			continue
		}
		l[i] = 1 - p.Upper[j]
		u[i] = 1 - p.Lower[j]
	}

	return PBox{Lower: l, Upper: u}
}

// Mul returns the independent product Z=X*Y. Each bound array is treated
// as an ordinary CDF and convolved separately under the independence
// assumption (Lower against Lower, Upper against Upper); this is a
// practical approximation of the exact Williamson-Downs p-box product
// (no p-box library exists in the grounding corpus to delegate to; see
// DESIGN.md), not a certified rigorous bound, but it is exact whenever
// either operand is a precise (Lower==Upper) p-box, including the Zero/
// One/Neutral sentinels.
func (p PBox) Mul(other Value) Value {
	o, ok := other.(PBox)
	if !ok {
		panic(ErrKindMismatch)
	}
	lowerPMF := convolvePMF(cdfToPMF(p.Lower), cdfToPMF(o.Lower), mulOp)
	upperPMF := convolvePMF(cdfToPMF(p.Upper), cdfToPMF(o.Upper), mulOp)

	return PBox{Lower: pmfToCDF(lowerPMF), Upper: pmfToCDF(upperPMF)}
}

// Add accumulates the probability mass of mutually-exclusive weighted
// outcomes: unlike Mul, this is not a convolution of independent
// variables but a bound-wise sum (the contributions are disjoint by
// construction at the call site), mirroring Interval.Add.
func (p PBox) Add(other Value) Value {
	o, ok := other.(PBox)
	if !ok {
		panic(ErrKindMismatch)
	}
	l := make([]float64, pboxGridSize)
	u := make([]float64, pboxGridSize)
	for i := 0; i < pboxGridSize; i++ {
		l[i] = clamp01(p.Lower[i] + o.Lower[i])
		u[i] = clamp01(p.Upper[i] + o.Upper[i])
	}

	return PBox{Lower: l, Upper: u}
}

func mulOp(a, b float64) float64 { return a * b }

// cdfToPMF converts a non-decreasing CDF sampled on pboxGrid into a
// per-grid-point probability mass function.
func cdfToPMF(cdf []float64) []float64 {
	pmf := make([]float64, len(cdf))
	prev := 0.0
	for i, c := range cdf {
		pmf[i] = c - prev
		prev = c
	}

	return pmf
}

// pmfToCDF is the inverse of cdfToPMF.
func pmfToCDF(pmf []float64) []float64 {
	cdf := make([]float64, len(pmf))
	acc := 0.0
	for i, m := range pmf {
		acc += m
		cdf[i] = acc
	}

	return cdf
}

// convolvePMF combines two grid-aligned PMFs under op (e.g. multiplication
// of the underlying random variables), re-binning each product onto the
// nearest grid point not exceeding it.
//
// Complexity: O(n^2) in pboxGridSize.
func convolvePMF(pmfX, pmfY []float64, op func(a, b float64) float64) []float64 {
	n := len(pboxGrid)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if pmfX[i] == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if pmfY[j] == 0 {
				continue
			}
			z := op(pboxGrid[i], pboxGrid[j])
			k := floorGridIndex(z)
			out[k] += pmfX[i] * pmfY[j]
		}
	}

	return out
}

// floorGridIndex returns the largest grid index k with pboxGrid[k] <= z,
// clamped to [0, pboxGridSize-1].
func floorGridIndex(z float64) int {
	idx := sort.SearchFloat64s(pboxGrid, z)
	if idx >= pboxGridSize {
		return pboxGridSize - 1
	}
	if pboxGrid[idx] > z {
		idx--
	}
	if idx < 0 {
		idx = 0
	}

	return idx
}
