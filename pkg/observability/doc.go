/*
Package observability turns engine lifecycle hooks into logs and Prometheus metrics.

Combine them with domain.Join and pass the result to cmdgraph.WithLifecycleHooks:

	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}
	eng := cmdgraph.New(cmdgraph.WithLifecycleHooks(domain.Join(
		observability.LogHooks(logger),
		m.Hooks(),
	)))
*/
package observability
