package goSessionClient

import "context"

// ForgotPassword requests a reset link for the given email. It never reveals
// whether the account exists and never touches the session.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.setLoading(true)

	body := map[string]string{"email": email}
	if err := s.client.Post(ctx, "/auth/forgot-password", body, nil); err != nil {
		msg := s.failWith(ctx, err)
		s.emit(ctx, eventPasswordForgot, false, msg, errorCorrelationID(err))
		return err
	}

	s.setLoading(false)
	s.metrics.Inc(MetricPasswordForgotRequest)
	s.emit(ctx, eventPasswordForgot, true, "", "")
	return nil
}

// ResetPassword consumes a reset token from a forgot-password email. It does
// not authenticate; the caller logs in with the new password afterwards.
func (s *Store) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.setLoading(true)

	body := map[string]string{"token": token, "password": newPassword}
	if err := s.client.Post(ctx, "/auth/reset-password", body, nil); err != nil {
		msg := s.failWith(ctx, err)
		s.metrics.Inc(MetricPasswordResetFailure)
		s.emit(ctx, eventPasswordReset, false, msg, errorCorrelationID(err))
		return err
	}

	s.setLoading(false)
	s.metrics.Inc(MetricPasswordResetSuccess)
	s.emit(ctx, eventPasswordReset, true, "", "")
	return nil
}

// ChangePassword rotates the password of the authenticated user. It requires
// an active session and returns [ErrNoSession] otherwise.
func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		return ErrNoSession
	}
	s.setLoading(true)

	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	if err := s.client.Put(ctx, "/auth/change-password", body, nil); err != nil {
		msg := s.failWith(ctx, err)
		s.metrics.Inc(MetricPasswordChangeFailure)
		s.emit(ctx, eventPasswordChange, false, msg, errorCorrelationID(err))
		return err
	}

	s.setLoading(false)
	s.metrics.Inc(MetricPasswordChangeSuccess)
	s.emit(ctx, eventPasswordChange, true, "", "")
	return nil
}
