/*
Package constraints builds propagators out of plain functions.

Lift turns an n-ary function over determined values into a compute function
that waits for information: any Nothing input yields Nothing and any
Contradiction input yields Contradiction. The constructors wire lifted
arithmetic into a network, and the bidirectional constraints (Sum, Product,
Difference, Quotient) install one propagator per direction so that any two
known cells determine the third.

	a, _ := net.AddCell(domain.CellSpec{Name: "a", Domain: lattice.Numeric{}})
	b, _ := net.AddCell(domain.CellSpec{Name: "b", Domain: lattice.Numeric{}})
	total, _ := net.AddCell(domain.CellSpec{Name: "total", Domain: lattice.Numeric{}})
	if _, err := constraints.Sum(net, a, b, total); err != nil {
		return err
	}
*/
package constraints
