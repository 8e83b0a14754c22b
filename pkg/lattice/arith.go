package lattice

import (
	"errors"
	"fmt"
)

var (
	// ErrDivisionByZero is returned when the divisor is exactly zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNotNumeric is returned when an operand is neither a number nor an interval.
	ErrNotNumeric = errors.New("operand is not numeric")
)

// Add returns x + y. Numbers stay numbers; if either side is an interval the
// result is an interval.
func Add(x, y Value) (Value, error) {
	return arith("add", x, y,
		func(a, b float64) (Value, error) { return a + b, nil },
		func(a, b Interval) (Value, error) {
			return Interval{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi}, nil
		})
}

// Sub returns x - y.
func Sub(x, y Value) (Value, error) {
	return arith("sub", x, y,
		func(a, b float64) (Value, error) { return a - b, nil },
		func(a, b Interval) (Value, error) {
			return Interval{Lo: a.Lo - b.Hi, Hi: a.Hi - b.Lo}, nil
		})
}

// Mul returns x * y.
func Mul(x, y Value) (Value, error) {
	return arith("mul", x, y,
		func(a, b float64) (Value, error) { return a * b, nil },
		func(a, b Interval) (Value, error) { return mulInterval(a, b), nil })
}

// Div returns x / y. Dividing by zero (or by [0, 0]) fails with
// ErrDivisionByZero. Dividing by an interval that straddles zero cannot be
// bounded and yields Nothing.
func Div(x, y Value) (Value, error) {
	return arith("div", x, y,
		func(a, b float64) (Value, error) {
			if b == 0 {
				return nil, ErrDivisionByZero
			}
			return a / b, nil
		},
		func(a, b Interval) (Value, error) {
			if b.Lo <= 0 && 0 <= b.Hi {
				if b.Lo == 0 && b.Hi == 0 {
					return nil, ErrDivisionByZero
				}
				return Nothing, nil
			}
			return mulInterval(a, Interval{Lo: 1 / b.Hi, Hi: 1 / b.Lo}), nil
		})
}

func arith(
	op string,
	x, y Value,
	onNumbers func(a, b float64) (Value, error),
	onIntervals func(a, b Interval) (Value, error),
) (Value, error) {
	fx, xNum := ToFloat(x)
	fy, yNum := ToFloat(y)
	if xNum && yNum {
		return onNumbers(fx, fy)
	}

	ix, okX := ToInterval(x)
	iy, okY := ToInterval(y)
	if !okX || !okY {
		return nil, fmt.Errorf("%s %v, %v: %w", op, x, y, ErrNotNumeric)
	}
	if ix.Empty() || iy.Empty() {
		return Contradiction, nil
	}
	return onIntervals(ix, iy)
}

// mulInterval bounds the products of the endpoints. A NaN product (0 * Inf)
// is an empty point and drops out of the hull.
func mulInterval(a, b Interval) Interval {
	return Point(a.Lo * b.Lo).
		Hull(Point(a.Lo * b.Hi)).
		Hull(Point(a.Hi * b.Lo)).
		Hull(Point(a.Hi * b.Hi))
}
