// Package prometheus provides Prometheus collectors for goSessionClient metrics.
//
// [NewPrometheusExporter] accepts a [goSessionClient.Store] and exposes an
// [http.Handler] that renders all session client counters and histograms in
// Prometheus text exposition format. Counter names are prefixed
// gosession_*_total; the single histogram is gosession_request_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate store state.
package prometheus
