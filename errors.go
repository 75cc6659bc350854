package goSessionClient

import "errors"

var (
	// ErrStoreNotReady is an exported constant or variable used by the session client.
	ErrStoreNotReady = errors.New("store not initialized")
	// ErrNoSession is an exported constant or variable used by the session client.
	ErrNoSession = errors.New("no active session")
	// ErrNoRefreshToken is an exported constant or variable used by the session client.
	ErrNoRefreshToken = errors.New("no refresh token available")
	// ErrNoUser is an exported constant or variable used by the session client.
	ErrNoUser = errors.New("no authenticated user")
	// ErrMalformedResponse is an exported constant or variable used by the session client.
	ErrMalformedResponse = errors.New("malformed backend response")
	// ErrSessionExpired is an exported constant or variable used by the session client.
	ErrSessionExpired = errors.New("session expired")
)
