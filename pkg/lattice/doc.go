/*
Package lattice defines the partial-information values that flow through a
propagation network.

Every cell holds a Value drawn from a Domain. Values are never overwritten,
only merged: Merge(d, a, b) is commutative, associative and idempotent, with
Nothing as the identity and Contradiction as the absorbing element. Those three
laws are what make propagator firing order irrelevant to the final result.

Supplied domains:

  - Equality: opaque values, equal or contradictory.
  - Numeric: numbers and closed intervals, narrowed by intersection.
  - Max: numbers growing monotonically by maximum.
  - SetUnion / SetIntersection: string sets growing or narrowing.

The package also provides generic arithmetic over numbers and intervals (Add,
Sub, Mul, Div) used by the arithmetic propagators in pkg/constraints.
*/
package lattice
