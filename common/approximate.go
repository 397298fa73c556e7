package common

import (
	"math"
	"math/big"
)

const ApproximateMaxDenominator = 10

type Approximation struct {
	Fraction Fraction `json:"fraction" msgpack:"F"`
	Error    float64  `json:"error" msgpack:"E"`
}

// LimitDenominator finds the closest fraction to f with a denominator of
// at most maxDenominator.
//
// For any real number x, a best upper approximation is a rational p/q with
// p/q >= x such that p/q > r/s >= x implies s > q for any rational r/s, and
// best lower approximations are defined similarly. A rational is a best
// upper or lower approximation to x if, and only if, it is a convergent or
// semiconvergent of the continued fraction of x.
//
// The best approximations from above and below with denominator at most
// maxDenominator are computed, and whichever is closer to f is returned.
// On a tie the bound with the smaller denominator is chosen. Both
// denominators can only be equal when maxDenominator is 1 and f lies midway
// between two integers, then the floor of f is returned.
func (f Fraction) LimitDenominator(maxDenominator int64) (r Fraction, err error) {
	defer recoverDomainError(&err)
	if maxDenominator < 1 {
		return Fraction{}, domainError(InvalidBound, "max denominator %d should be at least 1", maxDenominator)
	}
	if f.den <= maxDenominator {
		return f, nil
	}

	p0, q0, p1, q1 := int64(0), int64(1), int64(1), int64(0)
	n, d := f.num, f.den
	for d != 0 {
		a := floorDiv(n, d)
		aq, ok := tryMulInt64(a, q1)
		if !ok || aq > maxDenominator-q0 {
			break
		}
		q2 := q0 + aq
		p0, q0, p1, q1 = p1, q1, addInt64(p0, mulInt64(a, p1)), q2
		n, d = d, floorMod(n, d)
	}

	k := (maxDenominator - q0) / q1
	bound1, err := NewFraction(addInt64(p0, mulInt64(k, p1)), q0+k*q1)
	if err != nil {
		return Fraction{}, err
	}
	bound2, err := NewFraction(p1, q1)
	if err != nil {
		return Fraction{}, err
	}
	if cmpDistance(bound2, bound1, f) <= 0 {
		return bound2, nil
	}
	return bound1, nil
}

// FindApproximateAspectRatio returns the humane approximation of ratio,
// the closest fraction with a denominator of at most ten.
func FindApproximateAspectRatio(ratio Fraction) (Approximation, error) {
	limit, err := ratio.LimitDenominator(ApproximateMaxDenominator)
	if err != nil {
		return Approximation{}, err
	}
	return Approximation{
		Fraction: limit,
		Error:    approximationError(limit, ratio),
	}, nil
}

// approximationError is relativeError computed exactly, so it holds for
// operands whose difference does not fit in int64.
func approximationError(approx, exact Fraction) float64 {
	diff := crossDifference(approx, exact)
	if diff.Sign() == 0 {
		return 0
	}
	if exact.Sign() == 0 {
		return math.Inf(1)
	}
	den := new(big.Int).Mul(big.NewInt(approx.den), new(big.Int).Abs(big.NewInt(exact.num)))
	e, _ := new(big.Rat).SetFrac(diff, den).Float64()
	return e
}

func recoverDomainError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	de, ok := r.(*DomainError)
	if !ok {
		panic(r)
	}
	*err = de
}

// relativeError divides by the magnitude of exact so the result is never
// negative. A zero exact value has no relative scale: the error is zero on
// an exact hit and infinite otherwise.
func relativeError(diff, exact Fraction) float64 {
	if diff.Sign() == 0 {
		return 0
	}
	if exact.Sign() == 0 {
		return math.Inf(1)
	}
	return diff.Float64() / exact.Abs().Float64()
}
