// Package value implements the probability algebra of section 4.2: a
// single capability set (Zero, One, Neutral, IsZero, IsOne, Complement,
// Mul, Add) exposed polymorphically over three value kinds fixed per run:
//
//	Scalar   - a real number in [0,1].
//	Interval - a closed interval [lower, upper] subset of [0,1].
//	PBox     - a discretised probability box: a pair of non-decreasing
//	           CDF step functions bounding an unknown true CDF.
//
// Every downstream algorithm (diamond, diastore, propagate) is written
// against the Value interface and never type-switches on the concrete
// kind; the kind is selected once, at the start of a run, via the
// matching factory (NewScalar/NewInterval/NewPBox) and stays fixed
// thereafter (section 9: "the public API is monomorphic per run").
package value
