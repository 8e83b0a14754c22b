/*
Package propnet is a propagation network engine: cells accumulate partial
information about values, and propagators are autonomous machines that read
some cells and add what they can deduce to others.

# Concept

Each cell merges incoming information with what it already holds using the
lattice of its domain. Merging is commutative, associative and idempotent,
so the order in which propagators fire does not change the fixpoint a run
reaches. A cell starts at Nothing (no information) and only ever moves up
its lattice; two incompatible facts produce Contradiction, which absorbs
everything merged after it.

Networks are built once and then run. A run fires queued propagators until
the worklist drains (quiescence), a contradiction halts it under the
fail-fast policy, the step bound is exceeded, or the context is canceled.
The outcome is a structured RunResult rather than an error.

# Key Features

  - Bidirectional constraints: Sum, Product and friends wire one propagator
    per direction so any two determined cells fix the third.
  - Partial information: intervals narrow monotonically and sets intersect.
  - Constant cells refuse changes and report every violation.
  - Concurrency: several workers may drain the worklist with the same result.
  - Observability: lifecycle hooks feed structured logs and Prometheus metrics.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/propnet"
		"github.com/aretw0/propnet/pkg/constraints"
		"github.com/aretw0/propnet/pkg/domain"
		"github.com/aretw0/propnet/pkg/lattice"
	)

	func main() {
		net := propnet.New()
		cell := func(name string) domain.CellID {
			id, _ := net.AddCell(domain.CellSpec{Name: name, Domain: lattice.Numeric{}})
			return id
		}
		a, b, c := cell("a"), cell("b"), cell("c")
		if _, err := constraints.Sum(net, a, b, c); err != nil {
			log.Fatal(err)
		}

		net.Inject(a, 3.0)
		net.Inject(c, 10.0)

		res, err := net.Run(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		v, _ := net.Read(b)
		fmt.Println(res.Status, v) // quiescent 7
	}

The dsl package offers the same construction by cell name, and the propnet
command wraps it for the shell, HTTP and MCP.
*/
package propnet
