package common

import "math"

// The order matters, the first listed ratio wins on an exact tie.
var commonRatios = []Fraction{
	MustFraction(1, 1),
	MustFraction(2, 3),
	MustFraction(3, 2),
	MustFraction(3, 4),
	MustFraction(4, 3),
	MustFraction(16, 9),
	MustFraction(9, 16),
	MustFraction(5, 4),
	MustFraction(4, 5),
	MustFraction(3, 5),
	MustFraction(5, 3),
	MustFraction(3, 1),
}

func CommonRatios() []Fraction {
	ratios := make([]Fraction, len(commonRatios))
	copy(ratios, commonRatios)
	return ratios
}

func FindClosestCommonAspectRatio(ratio Fraction) Approximation {
	var closest Fraction
	var diff Fraction
	best := math.MaxFloat64
	for _, r := range commonRatios {
		d := r.Sub(ratio).Abs()
		if e := d.Float64(); e < best {
			closest, diff, best = r, d, e
		}
	}
	return Approximation{
		Fraction: closest,
		Error:    relativeError(diff, ratio),
	}
}
