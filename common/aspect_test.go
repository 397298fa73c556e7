package common

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	assert := assert.New(t)

	a, err := Describe(1600, 900)
	assert.Nil(err)
	assert.Equal(MustFraction(16, 9), a.Exact)
	assert.Nil(a.Approximate)
	assert.Nil(a.Common)
	assert.Equal([]string{"Exactly 16:9"}, a.Lines())

	a, err = Describe(200, 101)
	assert.Nil(err)
	assert.Equal(int64(200), a.Width)
	assert.Equal(int64(101), a.Height)
	assert.Equal(MustFraction(200, 101), a.Exact)
	assert.NotNil(a.Approximate)
	assert.Equal(MustFraction(2, 1), a.Approximate.Fraction)
	assert.InDelta(0.01, a.Approximate.Error, 1e-12)
	assert.NotNil(a.Common)
	assert.Equal(MustFraction(16, 9), a.Common.Fraction)
	assert.Equal([]string{
		"Exactly 200:101",
		"Approx. 2:1 (1.00% error)",
		"Closest common is 16:9 (10.22% error)",
	}, a.Lines())

	a, err = Describe(1000, 1000)
	assert.Nil(err)
	assert.Equal("1/1", a.Exact.String())
	assert.Nil(a.Approximate)
	assert.Nil(a.Common)

	a, err = Describe(2560, 1080)
	assert.Nil(err)
	assert.Equal("64/27", a.Exact.String())
	assert.Equal("19/8", a.Approximate.Fraction.String())
	assert.Equal("16/9", a.Common.Fraction.String())

	a, err = Describe(7, 3)
	assert.Nil(err)
	assert.Nil(a.Approximate)
	assert.Equal("16/9", a.Common.Fraction.String())

	_, err = Describe(0, 900)
	assert.True(errors.Is(err, ErrInvalidDimension))
	_, err = Describe(1600, 0)
	assert.True(errors.Is(err, ErrInvalidDimension))
	_, err = Describe(1600, -900)
	assert.True(errors.Is(err, ErrInvalidDimension))

	a, err = Describe(math.MaxInt64, 3)
	assert.Nil(a)
	assert.True(errors.Is(err, ErrArithmeticOverflow))
}

func TestApproximationPercent(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0.00", Approximation{}.Percent())
	assert.Equal("0.21", Approximation{Error: 0.0020652622883106154}.Percent())
	assert.Equal("12.50", Approximation{Error: 0.125}.Percent())
	assert.Equal("Inf", Approximation{Error: math.Inf(1)}.Percent())
}
