/*
Package observability turns network lifecycle hooks into Prometheus metrics.

Metrics registers its collectors on a caller-supplied registerer and exposes a
domain.LifecycleHooks value that feeds them. Compose merges several hook sets,
so metrics can run alongside logging or tracing hooks:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	net := propnet.New(propnet.WithLifecycleHooks(observability.Compose(m.Hooks(), auditHooks)))
*/
package observability
