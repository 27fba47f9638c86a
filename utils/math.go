package utils

import (
	"math"
)

// Fl is the floating point type used for every geometry value.
type Fl = float64

func MinInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func MaxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// FloatModulo returns x modulo m, with the sign of m,
// so that page offsets of negative positions stay positive.
func FloatModulo(x, m Fl) Fl {
	if m == 0 {
		return 0
	}
	res := math.Mod(x, m)
	if (res < 0 && m > 0) || (res > 0 && m < 0) {
		res += m
	}
	return res
}

// RoundPrec rounds f with n digits precision
func RoundPrec(f Fl, n int) Fl {
	n10 := math.Pow10(n)
	return math.Round(f*n10) / n10
}
