package common

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var percent = decimal.New(100, 0)

type Aspect struct {
	Width       int64          `json:"width" msgpack:"W"`
	Height      int64          `json:"height" msgpack:"H"`
	Exact       Fraction       `json:"exact" msgpack:"X"`
	Approximate *Approximation `json:"approximate,omitempty" msgpack:"A,omitempty"`
	Common      *Approximation `json:"common,omitempty" msgpack:"C,omitempty"`
}

// Describe reports the exact ratio of width to height, its approximation
// with a denominator of at most ten, and the closest common ratio. Each of
// the two approximations is nil when it equals the exact ratio.
func Describe(width, height int64) (a *Aspect, err error) {
	if width <= 0 || height <= 0 {
		return nil, domainError(InvalidDimension, "%dx%d", width, height)
	}
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*DomainError)
			if !ok {
				panic(r)
			}
			a, err = nil, de
		}
	}()

	exact, err := NewFraction(width, height)
	if err != nil {
		return nil, err
	}
	a = &Aspect{Width: width, Height: height, Exact: exact}

	approx, err := FindApproximateAspectRatio(exact)
	if err != nil {
		return nil, err
	}
	if approx.Fraction.Cmp(exact) != 0 {
		a.Approximate = &approx
	}
	closest := FindClosestCommonAspectRatio(exact)
	if closest.Fraction.Cmp(exact) != 0 {
		a.Common = &closest
	}
	return a, nil
}

// Percent renders the relative error as a percentage with two decimals.
func (a Approximation) Percent() string {
	if math.IsInf(a.Error, 0) || math.IsNaN(a.Error) {
		return "Inf"
	}
	return decimal.NewFromFloat(a.Error).Mul(percent).StringFixed(2)
}

func (a *Aspect) Lines() []string {
	lines := []string{"Exactly " + a.Exact.Ratio()}
	if a.Approximate != nil {
		lines = append(lines, fmt.Sprintf("Approx. %s (%s%% error)", a.Approximate.Fraction.Ratio(), a.Approximate.Percent()))
	}
	if a.Common != nil {
		lines = append(lines, fmt.Sprintf("Closest common is %s (%s%% error)", a.Common.Fraction.Ratio(), a.Common.Percent()))
	}
	return lines
}
