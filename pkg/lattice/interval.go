package lattice

import (
	"fmt"
	"math"
)

// Interval is the closed range [Lo, Hi]. An interval with Lo > Hi, or with a
// NaN bound, is empty.
type Interval struct {
	Lo float64
	Hi float64
}

// NewInterval returns [lo, hi].
func NewInterval(lo, hi float64) Interval {
	return Interval{Lo: lo, Hi: hi}
}

// Point returns the degenerate interval [x, x].
func Point(x float64) Interval {
	return Interval{Lo: x, Hi: x}
}

// Empty reports whether the interval contains no number.
func (i Interval) Empty() bool {
	return math.IsNaN(i.Lo) || math.IsNaN(i.Hi) || i.Lo > i.Hi
}

// Degenerate reports whether the interval holds exactly one number.
func (i Interval) Degenerate() bool {
	return !i.Empty() && i.Lo == i.Hi
}

// Contains reports whether x lies within the interval.
func (i Interval) Contains(x float64) bool {
	return !i.Empty() && i.Lo <= x && x <= i.Hi
}

// Intersect returns the overlap of i and j, possibly empty.
func (i Interval) Intersect(j Interval) Interval {
	if i.Empty() || j.Empty() {
		return Interval{Lo: math.NaN(), Hi: math.NaN()}
	}
	return Interval{Lo: math.Max(i.Lo, j.Lo), Hi: math.Min(i.Hi, j.Hi)}
}

// Hull returns the smallest interval containing both i and j.
func (i Interval) Hull(j Interval) Interval {
	switch {
	case i.Empty():
		return j
	case j.Empty():
		return i
	}
	return Interval{Lo: math.Min(i.Lo, j.Lo), Hi: math.Max(i.Hi, j.Hi)}
}

// Equal reports whether both intervals denote the same set of numbers.
func (i Interval) Equal(j Interval) bool {
	if i.Empty() || j.Empty() {
		return i.Empty() && j.Empty()
	}
	return i.Lo == j.Lo && i.Hi == j.Hi
}

func (i Interval) String() string {
	if i.Empty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%g, %g]", i.Lo, i.Hi)
}

// ToInterval promotes a number or interval to an Interval.
func ToInterval(v Value) (Interval, bool) {
	switch x := v.(type) {
	case Interval:
		return x, true
	case *Interval:
		if x == nil {
			return Interval{}, false
		}
		return *x, true
	}
	if f, ok := ToFloat(v); ok {
		return Point(f), true
	}
	return Interval{}, false
}
