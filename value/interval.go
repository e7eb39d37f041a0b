package value

// Interval is a closed real interval [Lo, Hi] subset of [0,1], representing
// an imprecise probability bounded above and below.
type Interval struct {
	Lo float64
	Hi float64
}

// NewInterval validates and constructs an Interval. Requires
// 0 <= Lo <= Hi <= 1, else ErrOutOfRange.
func NewInterval(lo, hi float64) (Interval, error) {
	if lo < 0 || hi > 1 || lo > hi {
		return Interval{}, ErrOutOfRange
	}

	return Interval{Lo: lo, Hi: hi}, nil
}

// Kind returns KindInterval.
func (iv Interval) Kind() Kind { return KindInterval }

// IsZero reports [Lo,Hi] == [0,0] exactly.
func (iv Interval) IsZero() bool { return iv.Lo == 0 && iv.Hi == 0 }

// IsOne reports [Lo,Hi] == [1,1] exactly.
func (iv Interval) IsOne() bool { return iv.Lo == 1 && iv.Hi == 1 }

// Complement returns [1-Hi, 1-Lo].
func (iv Interval) Complement() Value {
	return Interval{Lo: 1 - iv.Hi, Hi: 1 - iv.Lo}
}

// Mul returns [Lo*o.Lo, Hi*o.Hi] per section 4.2's interval product rule.
func (iv Interval) Mul(other Value) Value {
	o, ok := other.(Interval)
	if !ok {
		panic(ErrKindMismatch)
	}

	return Interval{Lo: iv.Lo * o.Lo, Hi: iv.Hi * o.Hi}
}

// Add returns the bound-wise sum of iv and other, clamped to [0,1]. Used
// to accumulate mutually-exclusive weighted outcomes: each bound sums
// independently because the underlying events are disjoint.
func (iv Interval) Add(other Value) Value {
	o, ok := other.(Interval)
	if !ok {
		panic(ErrKindMismatch)
	}
	lo := clamp01(iv.Lo + o.Lo)
	hi := clamp01(iv.Hi + o.Hi)

	return Interval{Lo: lo, Hi: hi}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}

	return x
}
