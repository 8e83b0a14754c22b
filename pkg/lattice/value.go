package lattice

import "math"

// Value is a piece of partial information held by a cell.
// Concrete values are domain specific (numbers, intervals, sets, ...);
// Nothing and Contradiction are shared by every domain.
type Value = any

type nothing struct{}

func (nothing) String() string { return "Nothing" }

type contradiction struct{}

func (contradiction) String() string { return "Contradiction" }

var (
	// Nothing is the bottom element: no information yet.
	Nothing Value = nothing{}

	// Contradiction is the absorbing element: mutually inconsistent information.
	Contradiction Value = contradiction{}
)

// IsNothing reports whether v carries no information. A nil value counts as Nothing.
func IsNothing(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(nothing)
	return ok
}

// IsContradiction reports whether v is the contradiction element.
func IsContradiction(v Value) bool {
	_, ok := v.(contradiction)
	return ok
}

// Contradictory reports whether v carries inconsistent information: the
// Contradiction element itself, a NaN or an empty interval.
func Contradictory(v Value) bool {
	switch x := v.(type) {
	case contradiction:
		return true
	case Interval:
		return x.Empty()
	case *Interval:
		return x != nil && x.Empty()
	}
	f, ok := ToFloat(v)
	return ok && math.IsNaN(f)
}

// normalize folds every contradictory value into Contradiction.
func normalize(v Value) Value {
	if Contradictory(v) {
		return Contradiction
	}
	return v
}

// Determined reports whether v is a regular domain value.
func Determined(v Value) bool {
	return !IsNothing(v) && !IsContradiction(v)
}

// Domain supplies the join for one family of partial values.
//
// Join and Equal are only called with determined values; the sentinels, NaN
// and empty intervals are resolved by Merge and Equal in this package before
// a domain is consulted, and Join is skipped when Equal already holds.
// Join must be commutative, associative and idempotent, and may return
// Contradiction when its arguments cannot be reconciled.
type Domain interface {
	Name() string
	Join(a, b Value) Value
	Equal(a, b Value) bool
}

// Merge combines two partial values under d. NaN and empty intervals merge
// as Contradiction, and operands that d considers equal merge to themselves.
func Merge(d Domain, a, b Value) Value {
	a, b = normalize(a), normalize(b)
	switch {
	case IsContradiction(a) || IsContradiction(b):
		return Contradiction
	case IsNothing(a):
		if IsNothing(b) {
			return Nothing
		}
		return b
	case IsNothing(b):
		return a
	}
	if d.Equal(a, b) {
		return a
	}
	return d.Join(a, b)
}

// Equal reports whether a and b carry the same information under d.
func Equal(d Domain, a, b Value) bool {
	a, b = normalize(a), normalize(b)
	switch {
	case IsNothing(a) || IsNothing(b):
		return IsNothing(a) && IsNothing(b)
	case IsContradiction(a) || IsContradiction(b):
		return IsContradiction(a) && IsContradiction(b)
	}
	return d.Equal(a, b)
}

// Leq reports whether a is at most as informative as b (a ⊑ b).
func Leq(d Domain, a, b Value) bool {
	return Equal(d, Merge(d, a, b), b)
}
