package constraints

import (
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
)

type direction struct {
	name   string
	op     func(x, y lattice.Value) (lattice.Value, error)
	inputs [2]domain.CellID
	output domain.CellID
}

func wire(w Wirer, dirs ...direction) ([]domain.PropagatorID, error) {
	ids := make([]domain.PropagatorID, 0, len(dirs))
	for _, d := range dirs {
		id, err := Function(w, d.name, binary(d.op), d.output, d.inputs[0], d.inputs[1])
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Sum constrains x + y = total; any two cells determine the third.
func Sum(w Wirer, x, y, total domain.CellID) ([]domain.PropagatorID, error) {
	return wire(w,
		direction{"sum", lattice.Add, [2]domain.CellID{x, y}, total},
		direction{"sum.x", lattice.Sub, [2]domain.CellID{total, y}, x},
		direction{"sum.y", lattice.Sub, [2]domain.CellID{total, x}, y},
	)
}

// Difference constrains x - y = diff.
func Difference(w Wirer, x, y, diff domain.CellID) ([]domain.PropagatorID, error) {
	return wire(w,
		direction{"difference", lattice.Sub, [2]domain.CellID{x, y}, diff},
		direction{"difference.x", lattice.Add, [2]domain.CellID{diff, y}, x},
		direction{"difference.y", lattice.Sub, [2]domain.CellID{x, diff}, y},
	)
}

// Product constrains x * y = total. A zero factor leaves the other factor
// undetermined rather than failing.
func Product(w Wirer, x, y, total domain.CellID) ([]domain.PropagatorID, error) {
	return wire(w,
		direction{"product", lattice.Mul, [2]domain.CellID{x, y}, total},
		direction{"product.x", undetermined(lattice.Div), [2]domain.CellID{total, y}, x},
		direction{"product.y", undetermined(lattice.Div), [2]domain.CellID{total, x}, y},
	)
}

// Quotient constrains x / y = q. Division of x by a zero y is a failure;
// the inverse directions treat a zero divisor as no information.
func Quotient(w Wirer, x, y, q domain.CellID) ([]domain.PropagatorID, error) {
	return wire(w,
		direction{"quotient", lattice.Div, [2]domain.CellID{x, y}, q},
		direction{"quotient.x", lattice.Mul, [2]domain.CellID{q, y}, x},
		direction{"quotient.y", undetermined(lattice.Div), [2]domain.CellID{x, q}, y},
	)
}

// Equal keeps x and y in agreement by copying in both directions.
func Equal(w Wirer, x, y domain.CellID) ([]domain.PropagatorID, error) {
	there, err := Identity(w, x, y)
	if err != nil {
		return nil, err
	}
	back, err := Identity(w, y, x)
	if err != nil {
		return []domain.PropagatorID{there}, err
	}
	return []domain.PropagatorID{there, back}, nil
}
