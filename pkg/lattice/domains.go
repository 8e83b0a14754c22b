package lattice

import "reflect"

// Equality treats values as opaque: equal values merge to themselves and
// anything else is a contradiction. Numbers compare by value regardless of
// their Go kind, so int 5 and float64 5 are the same information.
type Equality struct{}

func (Equality) Name() string { return "equality" }

func (d Equality) Join(a, b Value) Value {
	if d.Equal(a, b) {
		return a
	}
	return Contradiction
}

func (Equality) Equal(a, b Value) bool {
	return sameValue(a, b)
}

// Numeric holds numbers and closed intervals. Merging narrows: two numbers
// must agree, a number must fall inside an interval, and two intervals
// intersect. Any empty result is a contradiction.
type Numeric struct{}

func (Numeric) Name() string { return "numeric" }

func (Numeric) Join(a, b Value) Value {
	fa, aNum := ToFloat(a)
	fb, bNum := ToFloat(b)
	switch {
	case aNum && bNum:
		if fa == fb {
			return a
		}
		return Contradiction
	case aNum:
		if i, ok := b.(Interval); ok && i.Contains(fa) {
			return a
		}
		return Contradiction
	case bNum:
		if i, ok := a.(Interval); ok && i.Contains(fb) {
			return b
		}
		return Contradiction
	}

	ia, okA := a.(Interval)
	ib, okB := b.(Interval)
	if !okA || !okB {
		return Contradiction
	}
	out := ia.Intersect(ib)
	switch {
	case out.Empty():
		return Contradiction
	case out.Equal(ia):
		return a
	case out.Equal(ib):
		return b
	}
	return out
}

func (Numeric) Equal(a, b Value) bool {
	fa, aNum := ToFloat(a)
	fb, bNum := ToFloat(b)
	switch {
	case aNum && bNum:
		return fa == fb
	case aNum:
		i, ok := b.(Interval)
		return ok && i.Degenerate() && i.Lo == fa
	case bNum:
		i, ok := a.(Interval)
		return ok && i.Degenerate() && i.Lo == fb
	}
	ia, okA := a.(Interval)
	ib, okB := b.(Interval)
	if okA && okB {
		return ia.Equal(ib)
	}
	return reflect.DeepEqual(a, b)
}

// Max orders numbers by magnitude and joins by taking the larger one.
// It never contradicts on numbers; non-numeric input is a contradiction.
type Max struct{}

func (Max) Name() string { return "max" }

func (Max) Join(a, b Value) Value {
	fa, aNum := ToFloat(a)
	fb, bNum := ToFloat(b)
	if !aNum || !bNum {
		return Contradiction
	}
	if fb > fa {
		return b
	}
	return a
}

func (Max) Equal(a, b Value) bool {
	return sameValue(a, b)
}

// SetUnion accumulates facts: the join of two sets is their union.
type SetUnion struct{}

func (SetUnion) Name() string { return "set-union" }

func (SetUnion) Join(a, b Value) Value {
	sa, okA := a.(Set)
	sb, okB := b.(Set)
	if !okA || !okB {
		return Contradiction
	}
	out := sa.Union(sb)
	if out.Len() == sa.Len() {
		return a
	}
	return out
}

func (SetUnion) Equal(a, b Value) bool {
	return sameSet(a, b)
}

// SetIntersection narrows a set of remaining possibilities; an empty
// intersection is a contradiction.
type SetIntersection struct{}

func (SetIntersection) Name() string { return "set-intersection" }

func (SetIntersection) Join(a, b Value) Value {
	sa, okA := a.(Set)
	sb, okB := b.(Set)
	if !okA || !okB {
		return Contradiction
	}
	out := sa.Intersect(sb)
	switch {
	case out.Len() == 0:
		return Contradiction
	case out.Len() == sa.Len():
		return a
	case out.Len() == sb.Len():
		return b
	}
	return out
}

func (SetIntersection) Equal(a, b Value) bool {
	return sameSet(a, b)
}

// DomainByName resolves the name reported by a supplied domain.
func DomainByName(name string) (Domain, bool) {
	for _, d := range []Domain{Equality{}, Numeric{}, Max{}, SetUnion{}, SetIntersection{}} {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

func sameValue(a, b Value) bool {
	fa, aNum := ToFloat(a)
	fb, bNum := ToFloat(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func sameSet(a, b Value) bool {
	sa, okA := a.(Set)
	sb, okB := b.(Set)
	if okA && okB {
		return sa.Equal(sb)
	}
	return reflect.DeepEqual(a, b)
}
