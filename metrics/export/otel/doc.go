// Package otel publishes goAuthState engine counters through an
// OpenTelemetry meter.
//
// [New] registers one Int64ObservableCounter per engine counter and one
// Int64ObservableGauge per credential-exchange latency bucket. A single
// callback reads Engine.MetricsSnapshot on each collection.
//
// # What this package must NOT do
//
//   - Own the MeterProvider. Callers supply the Meter.
//   - Mutate engine state.
package otel
