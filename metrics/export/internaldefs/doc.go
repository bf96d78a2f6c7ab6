// Package internaldefs holds the metric names shared by the Prometheus and
// OpenTelemetry exporters so both publish the same series.
package internaldefs
