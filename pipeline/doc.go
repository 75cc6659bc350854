// Package pipeline turns logical API calls into normalized results or normalized
// errors. Every outbound request passes through a composable middleware chain that
// attaches the current bearer credential, tags the call with a correlation id, and
// times it; every failure — transport-level or HTTP-level — is collapsed into a
// single [*Error] shape before it reaches callers.
//
// The pipeline never retries. It guarantees exactly one resolution (a decoded
// response body or one [*Error]) per request. Retry and backoff policy belongs to
// callers, who can rely on [Error.Category] to decide whether a retry is safe.
package pipeline
