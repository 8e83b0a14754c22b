/*
Package domain contains the core domain models of the propagation engine.

It defines the identifiers, construction specs, run outcomes, errors and
lifecycle events shared by the runtime, the public facade and the adapters.
The package is kept pure: no I/O, no scheduling, no locking.

# Key Entities

  - CellSpec / PropagatorSpec: what the caller asks the network to build.
  - CellID / PropagatorID: opaque arena handles returned by the network.
  - RunResult: the structured outcome of driving a network to a fixpoint.
  - LifecycleHooks: callbacks fired as cells change and propagators run.
*/
package domain
