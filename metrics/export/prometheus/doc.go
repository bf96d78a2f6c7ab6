// Package prometheus exposes goAuthState engine counters to Prometheus.
//
// [Collector] implements prometheus.Collector and reads
// Engine.MetricsSnapshot on each scrape. Register it with an existing
// registry, or use [Handler] for a standalone /metrics endpoint.
//
// # What this package must NOT do
//
//   - Register with the global default registry.
//   - Mutate engine state.
package prometheus
