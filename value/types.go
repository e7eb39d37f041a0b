package value

import "errors"

// ErrOutOfRange indicates a probability value outside the closed
// interval [0,1], surfaced by collaborators as InvalidInput(bad_probability)
// per section 7; the core never constructs an out-of-range Value itself.
var ErrOutOfRange = errors.New("value: probability out of [0,1]")

// ErrKindMismatch indicates two Values of different concrete kinds were
// combined (Mul/Add); a single run must stay monomorphic in its Kind.
var ErrKindMismatch = errors.New("value: mismatched value kinds")

// Kind identifies which concrete representation a Value uses.
type Kind int

const (
	// KindScalar represents probabilities as a single float64 in [0,1].
	KindScalar Kind = iota
	// KindInterval represents probabilities as a closed interval [lo,hi] subset of [0,1].
	KindInterval
	// KindPBox represents probabilities as a discretised CDF bound pair.
	KindPBox
)

// String returns a human-readable name for k.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindInterval:
		return "interval"
	case KindPBox:
		return "pbox"
	default:
		return "unknown"
	}
}

// Value is the capability set every probability representation exposes.
// Implementations: Scalar, Interval, PBox.
type Value interface {
	// Kind reports the concrete representation.
	Kind() Kind
	// IsZero reports whether the value is exactly the zero element.
	IsZero() bool
	// IsOne reports whether the value is exactly the one element.
	IsOne() bool
	// Complement returns 1 - v.
	Complement() Value
	// Mul returns the product of v and other (independent combination).
	Mul(other Value) Value
	// Add returns the sum of v and other, used to accumulate the
	// probability mass of mutually-exclusive weighted outcomes (the
	// conditioning-enumeration sum of section 4.5). Implementations clamp
	// to the representation's valid range.
	Add(other Value) Value
}

// Zero returns the zero element ("never reached") for kind k.
func Zero(k Kind) Value {
	switch k {
	case KindInterval:
		return Interval{Lo: 0, Hi: 0}
	case KindPBox:
		return zeroPBox()
	default:
		return Scalar(0)
	}
}

// One returns the one element ("certainly reached") for kind k.
func One(k Kind) Value {
	switch k {
	case KindInterval:
		return Interval{Lo: 1, Hi: 1}
	case KindPBox:
		return onePBox()
	default:
		return Scalar(1)
	}
}

// Neutral returns the placeholder sentinel (~0.9) used for uninitialised
// sub-source priors inside DiamondComputationData (section 3, section 9's
// open question). It is never read at propagation time: the outer belief
// overwrites it before any arithmetic touches it. 0.9 is chosen simply
// because it is visually distinguishable from 0/1 in test fixtures and
// debug traces.
func Neutral(k Kind) Value {
	switch k {
	case KindInterval:
		return Interval{Lo: 0.9, Hi: 0.9}
	case KindPBox:
		return constantPBox(0.9)
	default:
		return Scalar(0.9)
	}
}
