package common

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFraction(t *testing.T) {
	assert := assert.New(t)

	f := MustFraction(1, 10)
	assert.Equal("1/10", f.String())
	assert.Equal("1:10", f.Ratio())
	assert.Equal(int64(1), f.Numerator())
	assert.Equal(int64(10), f.Denominator())

	f = MustFraction(6, -4)
	assert.Equal("-3/2", f.String())
	f = MustFraction(-6, -4)
	assert.Equal("3/2", f.String())
	f = MustFraction(0, -5)
	assert.Equal("0/1", f.String())
	f = MustFraction(3840, 2160)
	assert.Equal("16/9", f.String())
	f = MustFraction(math.MinInt64, 2)
	assert.Equal(int64(math.MinInt64/2), f.Numerator())
	assert.Equal(int64(1), f.Denominator())

	_, err := NewFraction(1, 0)
	assert.True(errors.Is(err, ErrZeroDenominator))
	assert.False(errors.Is(err, ErrInvalidBound))
	_, err = NewFraction(5, math.MinInt64)
	assert.True(errors.Is(err, ErrArithmeticOverflow))
	_, err = NewFraction(math.MinInt64, -1)
	assert.True(errors.Is(err, ErrArithmeticOverflow))
	assert.Panics(func() { MustFraction(7, 0) })

	f, err = NewFractionFromFloats(4, 2)
	assert.Nil(err)
	assert.Equal("2/1", f.String())
	_, err = NewFractionFromFloats(1.5, 2)
	assert.True(errors.Is(err, ErrNonIntegerOperand))
	_, err = NewFractionFromFloats(1, math.NaN())
	assert.True(errors.Is(err, ErrNonIntegerOperand))
	_, err = NewFractionFromFloats(math.Inf(1), 1)
	assert.True(errors.Is(err, ErrNonIntegerOperand))
	_, err = NewFractionFromFloats(1e19, 1)
	assert.True(errors.Is(err, ErrArithmeticOverflow))
	_, err = NewFractionFromFloats(3, 0)
	assert.True(errors.Is(err, ErrZeroDenominator))

	f, err = NewFractionFromString("1920.0", "1080")
	assert.Nil(err)
	assert.Equal("16/9", f.String())
	_, err = NewFractionFromString("1920.5", "1080")
	assert.True(errors.Is(err, ErrNonIntegerOperand))
	_, err = NewFractionFromString("99999999999999999999", "1")
	assert.True(errors.Is(err, ErrArithmeticOverflow))
	_, err = NewFractionFromString("abc", "1")
	assert.NotNil(err)
	var de *DomainError
	assert.False(errors.As(err, &de))

	f, err = ParseFraction("16:9")
	assert.Nil(err)
	assert.Equal("16/9", f.String())
	f, err = ParseFraction(" 3840/2160 ")
	assert.Nil(err)
	assert.Equal("16/9", f.String())
	f, err = ParseFraction("7")
	assert.Nil(err)
	assert.Equal("7/1", f.String())
	_, err = ParseFraction("7/0")
	assert.True(errors.Is(err, ErrZeroDenominator))
	_, err = ParseFraction("7.5:2")
	assert.True(errors.Is(err, ErrNonIntegerOperand))
}

func TestFractionArithmetic(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("1/6", MustFraction(1, 2).Sub(MustFraction(1, 3)).String())
	assert.Equal("-1/6", MustFraction(1, 3).Sub(MustFraction(1, 2)).String())
	assert.Equal("0/1", MustFraction(1, 6).Sub(MustFraction(2, 12)).String())
	assert.Equal("1/2", MustFraction(3, 4).Sub(MustFraction(1, 4)).String())
	assert.Equal("7/12", MustFraction(3, 4).Sub(MustFraction(1, 6)).String())
	assert.Equal("-5/1359", MustFraction(16, 9).Sub(MustFraction(269, 151)).String())

	assert.Equal("3/2", MustFraction(-3, 2).Abs().String())
	assert.Equal("3/2", MustFraction(3, 2).Abs().String())
	assert.Equal("0/1", MustFraction(0, 2).Abs().String())

	assert.Equal(0, MustFraction(2, 4).Cmp(MustFraction(1, 2)))
	assert.Equal(-1, MustFraction(1, 3).Cmp(MustFraction(1, 2)))
	assert.Equal(1, MustFraction(1, 2).Cmp(MustFraction(1, 3)))
	assert.Equal(-1, MustFraction(-1, 2).Cmp(MustFraction(0, 1)))
	assert.Equal(1, MustFraction(-1, 3).Cmp(MustFraction(-1, 2)))
	assert.Equal(1, MustFraction(1, 3).Cmp(MustFraction(333333333333333333, 1000000000000000000)))
	a := MustFraction(math.MaxInt64, math.MaxInt64-1)
	b := MustFraction(math.MaxInt64-1, math.MaxInt64-2)
	assert.Equal(a.Float64(), b.Float64())
	assert.Equal(-1, a.Cmp(b))
	assert.Equal(1, b.Cmp(a))
	assert.True(a.Equal(a))
	assert.Equal(-1, MustFraction(math.MinInt64, 1).Cmp(MustFraction(math.MaxInt64, 1)))

	assert.Equal(0.1, MustFraction(1, 10).Float64())
	assert.Equal(-1.5, MustFraction(-3, 2).Float64())

	assertOverflow(assert, func() { MustFraction(math.MaxInt64, 1).Sub(MustFraction(-1, 1)) })
	assertOverflow(assert, func() { MustFraction(1, math.MaxInt64).Sub(MustFraction(1, math.MaxInt64-1)) })
	assertOverflow(assert, func() { MustFraction(math.MinInt64, 1).Abs() })

	assert.Equal(int64(2), floorMod(-7, 3))
	assert.Equal(int64(1), floorMod(7, 3))
	assert.Equal(int64(math.MaxInt64-1), floorMod(math.MinInt64, math.MaxInt64))
	assert.Equal(-1, cmpDistance(MustFraction(1, 1), MustFraction(11, 10), MustFraction(math.MaxInt64, math.MaxInt64-1)))
	assert.Equal(0, cmpDistance(MustFraction(0, 1), MustFraction(1, 1), MustFraction(1, 2)))

	assert.Equal(int64(5), gcd(0, 5))
	assert.Equal(int64(5), gcd(5, 0))
	assert.Equal(int64(6), gcd(-12, 18))
	assert.Equal(int64(1), gcd(17, 5))
}

func TestFractionInvariant(t *testing.T) {
	assert := assert.New(t)

	for n := int64(-60); n <= 60; n++ {
		for d := int64(-60); d <= 60; d++ {
			if d == 0 {
				continue
			}
			f := MustFraction(n, d)
			assert.True(f.Denominator() > 0)
			assert.Equal(int64(1), gcd(f.Numerator(), f.Denominator()))
			assert.InDelta(float64(n)/float64(d), f.Float64(), 1e-15)
		}
	}
}

func TestFractionOrder(t *testing.T) {
	assert := assert.New(t)

	var fractions []Fraction
	for n := int64(-12); n <= 12; n++ {
		for d := int64(1); d <= 12; d++ {
			fractions = append(fractions, MustFraction(n, d))
		}
	}
	for _, a := range fractions {
		for _, b := range fractions {
			c := a.Cmp(b)
			assert.Equal(-c, b.Cmp(a))
			if a.Float64() < b.Float64() {
				assert.Equal(-1, c)
			} else if a.Float64() > b.Float64() {
				assert.Equal(1, c)
			} else {
				assert.Equal(0, c)
			}
		}
	}
}

func assertOverflow(assert *assert.Assertions, fn func()) {
	defer func() {
		r := recover()
		assert.NotNil(r)
		err, ok := r.(error)
		assert.True(ok)
		assert.True(errors.Is(err, ErrArithmeticOverflow))
	}()
	fn()
}
