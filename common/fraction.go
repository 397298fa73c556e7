package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Minimal fraction implementation for aspect ratios. The limitDenominator
// algorithm follows cpython's fractions.py.
//
// A Fraction is always in lowest terms with a positive denominator. The
// zero value is not a valid fraction, use NewFraction.
type Fraction struct {
	num int64
	den int64
}

var (
	minInt64Decimal = decimal.New(math.MinInt64, 0)
	maxInt64Decimal = decimal.New(math.MaxInt64, 0)
)

func NewFraction(numerator, denominator int64) (Fraction, error) {
	return newFraction(numerator, denominator, true)
}

// MustFraction is like NewFraction but panics on an invalid denominator.
func MustFraction(numerator, denominator int64) Fraction {
	f, err := NewFraction(numerator, denominator)
	if err != nil {
		panic(err)
	}
	return f
}

// newFraction with normalize false trusts the caller that numerator and
// denominator are already coprime and the denominator is positive.
func newFraction(numerator, denominator int64, normalize bool) (f Fraction, err error) {
	if denominator == 0 {
		return f, domainError(ZeroDenominator, "%d/0", numerator)
	}
	if normalize {
		if denominator == math.MinInt64 || (denominator < 0 && numerator == math.MinInt64) {
			return f, domainError(ArithmeticOverflow, "%d/%d", numerator, denominator)
		}
		if denominator < 0 {
			denominator = -denominator
			numerator = -numerator
		}
		g := gcd(numerator, denominator)
		numerator /= g
		denominator /= g
	}
	f.num, f.den = numerator, denominator
	return f, nil
}

func NewFractionFromFloats(numerator, denominator float64) (Fraction, error) {
	n, err := floatOperand(numerator)
	if err != nil {
		return Fraction{}, err
	}
	d, err := floatOperand(denominator)
	if err != nil {
		return Fraction{}, err
	}
	return NewFraction(n, d)
}

func NewFractionFromString(numerator, denominator string) (Fraction, error) {
	n, err := decimalOperand(numerator)
	if err != nil {
		return Fraction{}, err
	}
	d, err := decimalOperand(denominator)
	if err != nil {
		return Fraction{}, err
	}
	return NewFraction(n, d)
}

// ParseFraction accepts "n/d", "n:d" or a bare integer "n".
func ParseFraction(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "/:"); i >= 0 {
		return NewFractionFromString(s[:i], s[i+1:])
	}
	return NewFractionFromString(s, "1")
}

func floatOperand(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Trunc(v) != v {
		return 0, domainError(NonIntegerOperand, "%v", v)
	}
	if v >= 0x1p63 || v < -0x1p63 {
		return 0, domainError(ArithmeticOverflow, "%v", v)
	}
	return int64(v), nil
}

func decimalOperand(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid operand %q: %w", s, err)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, domainError(NonIntegerOperand, "%s", s)
	}
	if d.LessThan(minInt64Decimal) || d.GreaterThan(maxInt64Decimal) {
		return 0, domainError(ArithmeticOverflow, "%s", s)
	}
	return d.IntPart(), nil
}

func (f Fraction) Numerator() int64 {
	return f.num
}

func (f Fraction) Denominator() int64 {
	return f.den
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.num, f.den)
}

// Ratio renders the fraction the way aspect ratios are usually written.
func (f Fraction) Ratio() string {
	return fmt.Sprintf("%d:%d", f.num, f.den)
}

// Sub uses the gcd of the denominators to keep the intermediate products
// small, the result is already in lowest terms.
func (f Fraction) Sub(other Fraction) Fraction {
	g := gcd(f.den, other.den)
	if g == 1 {
		n := subInt64(mulInt64(f.num, other.den), mulInt64(other.num, f.den))
		d := mulInt64(f.den, other.den)
		r, err := newFraction(n, d, true)
		if err != nil {
			panic(err)
		}
		return r
	}
	s := f.den / g
	t := subInt64(mulInt64(f.num, other.den/g), mulInt64(other.num, s))
	g2 := gcd(t, g)
	r, err := newFraction(t/g2, mulInt64(s, other.den/g2), true)
	if err != nil {
		panic(err)
	}
	return r
}

func (f Fraction) Abs() Fraction {
	if f.num >= 0 {
		return f
	}
	r, err := newFraction(negInt64(f.num), f.den, false)
	if err != nil {
		panic(err)
	}
	return r
}

// Cmp compares the cross products in 128 bits, so arbitrarily close
// fractions compare correctly and the comparison itself never overflows.
func (f Fraction) Cmp(other Fraction) int {
	return cmpProducts(f.num, other.den, other.num, f.den)
}

func (f Fraction) Equal(other Fraction) bool {
	return f.Cmp(other) == 0
}

func (f Fraction) Sign() int {
	return sign64(f.num)
}

// Float64 is only meant for error reporting, never for comparisons.
func (f Fraction) Float64() float64 {
	return float64(f.num) / float64(f.den)
}
