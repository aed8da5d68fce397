package geom

import "github.com/chewxy/math32"

const (
	// Epsilon is the float32 machine epsilon.
	Epsilon = 1.1920929e-07

	extendedEpsilon = 1e-5
)

func Abs(v Element) Element {
	return math32.Abs(v)
}

func Clamp(v, min, max Element) Element {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// FuzzyZero reports whether v is zero within machine epsilon.
func FuzzyZero(v Element) bool {
	return math32.Abs(v) < Epsilon
}

// ExtendedFuzzyZero is FuzzyZero with a tolerance suited to accumulated rounding.
func ExtendedFuzzyZero(v Element) bool {
	return math32.Abs(v) < extendedEpsilon
}
