// Package otel provides OpenTelemetry metric exporter bindings for goSessionClient
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each session
// client metric and Int64ObservableGauge per histogram bucket. A single callback
// reads [goSessionClient.Store.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate store state.
package otel
