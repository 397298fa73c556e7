package common

import (
	"math"
	"math/big"
	"math/bits"
)

// Checked int64 helpers. Overflow panics with ErrArithmeticOverflow, the
// panic is turned back into an error at every exported function that
// returns one.

func absUint64(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

func sign64(x int64) int {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

func negInt64(a int64) int64 {
	if a == math.MinInt64 {
		panic(domainError(ArithmeticOverflow, "-(%d)", a))
	}
	return -a
}

func addInt64(a, b int64) int64 {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		panic(domainError(ArithmeticOverflow, "%d + %d", a, b))
	}
	return c
}

func subInt64(a, b int64) int64 {
	c := a - b
	if (b > 0 && c > a) || (b < 0 && c < a) {
		panic(domainError(ArithmeticOverflow, "%d - %d", a, b))
	}
	return c
}

func mulInt64(a, b int64) int64 {
	c, ok := tryMulInt64(a, b)
	if !ok {
		panic(domainError(ArithmeticOverflow, "%d * %d", a, b))
	}
	return c
}

func tryMulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	neg := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(absUint64(a), absUint64(b))
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	if hi != 0 || lo > limit {
		return 0, false
	}
	if neg {
		return -int64(lo), true
	}
	return int64(lo), true
}

// floorDiv requires b > 0.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// floorMod requires b > 0 and returns a value in [0, b).
func floorMod(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// cmpProducts compares a*b with c*d exactly, b and d must be positive.
func cmpProducts(a, b, c, d int64) int {
	sa, sc := sign64(a), sign64(c)
	if sa != sc {
		if sa < sc {
			return -1
		}
		return 1
	}
	if sa == 0 {
		return 0
	}
	h1, l1 := bits.Mul64(absUint64(a), uint64(b))
	h2, l2 := bits.Mul64(absUint64(c), uint64(d))
	r := 0
	switch {
	case h1 < h2, h1 == h2 && l1 < l2:
		r = -1
	case h1 > h2, h1 == h2 && l1 > l2:
		r = 1
	}
	return r * sa
}

func gcd(a, b int64) int64 {
	x, y := absUint64(a), absUint64(b)
	if y > x {
		x, y = y, x
	}
	for {
		if y == 0 {
			return int64(x)
		}
		x %= y
		if x == 0 {
			return int64(y)
		}
		y %= x
	}
}

// crossDifference is |a - x| scaled by a.den * x.den, exact in any range.
func crossDifference(a, x Fraction) *big.Int {
	l := new(big.Int).Mul(big.NewInt(a.num), big.NewInt(x.den))
	r := new(big.Int).Mul(big.NewInt(x.num), big.NewInt(a.den))
	l.Sub(l, r)
	return l.Abs(l)
}

// cmpDistance compares |a - x| with |b - x| without overflow.
func cmpDistance(a, b, x Fraction) int {
	da := crossDifference(a, x)
	da.Mul(da, big.NewInt(b.den))
	db := crossDifference(b, x)
	db.Mul(db, big.NewInt(a.den))
	return da.Cmp(db)
}
