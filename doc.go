// Package goSessionClient provides a client-side session engine for REST backends:
// a persisted authentication state machine, transparent credential refresh, and a
// normalized error taxonomy for every outbound request.
//
// The package is designed for event-loop style UI callers: Store actions are safe to
// call from multiple goroutines after initialization through [Builder.Build], and the
// state cell is only ever mutated after the network portion of an action has settled.
//
// # Architecture boundaries
//
// goSessionClient is the public surface. It exposes [Store], [Orchestrator], [Builder],
// [Config], and value types (SessionState, User, Event, etc.). The request pipeline
// lives in the pipeline sub-package and the persistence port in the snapshot
// sub-package; neither imports this package back (no import cycles).
//
// # What this package must NOT do
//
//   - Parse or validate credential contents. Tokens are opaque bearer strings; the
//     client only presents them and reacts to rejection.
//   - Retry requests. Retry and backoff policy belongs to callers; the pipeline
//     guarantees exactly one resolution per call.
//   - Render anything. Navigation and notification are ports ([Navigator],
//     [EventSink]); presentation technology never leaks into the core.
//
// # Consistency contract
//
// isAuthenticated == true always implies a non-nil user and a non-empty access token.
// Initialization is idempotent and single-flight per process lifetime. Logout always
// clears local state, even when the backend call fails, and always wins a race against
// an in-flight refresh.
package goSessionClient
