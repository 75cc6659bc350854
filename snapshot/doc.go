// Package snapshot persists the durable subset of session state — user,
// credential pair, and the authenticated flag — across process restarts.
//
// The record layout is a JSON envelope {"state": {...}} stored under a single
// key. Absence and corruption are both loaded as "no session": a client must
// never fail to start because its cached session is missing or damaged.
//
// Store is a pluggable port with three adapters: Memory for tests and
// ephemeral processes, File for desktop/CLI deployments, and Redis for
// headless daemons that share a session across hosts.
package snapshot
