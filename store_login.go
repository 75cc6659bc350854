package goSessionClient

import (
	"context"
	"log"
)

// Login authenticates against the backend and, on success, adopts the returned
// user and credential pair, persists the snapshot, and clears any prior error.
// On failure the state cell records the normalized message and the session is
// left exactly as it was.
func (s *Store) Login(ctx context.Context, creds LoginCredentials) (*User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.setLoading(true)

	var payload authPayload
	if err := s.client.Post(ctx, "/auth/login", creds, &payload); err != nil {
		msg := s.failWith(ctx, err)
		s.metrics.Inc(MetricLoginFailure)
		s.emit(ctx, eventLoginFailure, false, msg, errorCorrelationID(err))
		return nil, err
	}
	if payload.User == nil || payload.Token == "" {
		msg := s.failWith(ctx, ErrMalformedResponse)
		s.metrics.Inc(MetricLoginFailure)
		s.emit(ctx, eventLoginFailure, false, msg, "")
		return nil, ErrMalformedResponse
	}

	s.mu.Lock()
	s.state.User = payload.User
	s.state.Credentials = &CredentialPair{
		AccessToken:  payload.Token,
		RefreshToken: payload.RefreshToken,
	}
	s.state.IsAuthenticated = true
	s.state.IsLoading = false
	s.state.Error = ""
	s.persistLocked(ctx)
	user := s.state.User.clone()
	s.mu.Unlock()

	s.metrics.Inc(MetricLoginSuccess)
	s.emit(ctx, eventLoginSuccess, true, "", "")
	return user, nil
}

// Logout clears the session immediately and unconditionally, then notifies the
// backend on a best-effort basis. The local clear is never rolled back: a
// failing or unreachable backend still leaves the client signed out. The
// notification is sent after the snapshot is cleared, so it carries no
// credential.
func (s *Store) Logout(ctx context.Context) {
	if s.ready() != nil {
		return
	}
	s.emit(ctx, eventLogout, true, "", "")

	s.mu.Lock()
	s.clearSessionLocked(ctx)
	s.state.IsLoading = false
	s.state.Error = ""
	s.mu.Unlock()
	s.emit(ctx, eventSessionCleared, true, "", "")
	s.metrics.Inc(MetricLogout)

	if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		s.metrics.Inc(MetricLogoutBackendFailed)
		log.Print("goSessionClient: backend logout notification failed: ", err)
	}
}
