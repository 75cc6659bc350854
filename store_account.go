package goSessionClient

import (
	"context"
	"io"

	"github.com/MrEthical07/goSessionClient/pipeline"
)

// Signup registers a new account. It never authenticates: a successful signup
// leaves the session exactly as it was, and the caller follows up with an
// explicit [Store.Login].
func (s *Store) Signup(ctx context.Context, input SignupInput) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.setLoading(true)

	if err := s.client.Post(ctx, "/auth/signup", input, nil); err != nil {
		msg := s.failWith(ctx, err)
		s.metrics.Inc(MetricSignupFailure)
		s.emit(ctx, eventSignupFailure, false, msg, errorCorrelationID(err))
		return err
	}

	s.setLoading(false)
	s.metrics.Inc(MetricSignupSuccess)
	s.emit(ctx, eventSignupSuccess, true, "", "")
	return nil
}

// UpdateUser merges the non-nil fields of update into the current user and
// persists the result. The merge is local only; no network call is made. It
// requires a current user and returns [ErrNoUser] otherwise.
func (s *Store) UpdateUser(ctx context.Context, update UserUpdate) (*User, error) {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return nil, ErrNoUser
	}

	u := s.state.User
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.CurrentRole != nil {
		u.CurrentRole = *update.CurrentRole
	}
	if update.Location != nil {
		u.Location = *update.Location
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.ExperienceLevel != nil {
		u.ExperienceLevel = *update.ExperienceLevel
	}
	if update.AvatarURL != nil {
		u.AvatarURL = *update.AvatarURL
	}
	if update.OnboardingCompleted != nil {
		u.OnboardingCompleted = *update.OnboardingCompleted
	}
	s.persistLocked(ctx)
	out := u.clone()
	s.mu.Unlock()

	s.metrics.Inc(MetricUserUpdated)
	s.emit(ctx, eventUserUpdated, true, "", "")
	return out, nil
}

type avatarPayload struct {
	AvatarURL string `json:"avatarUrl"`
	User      *User  `json:"user"`
}

// UploadAvatar streams an image to the backend as multipart form data,
// reporting monotonic progress, and adopts the returned avatar URL into the
// current user. It requires a current user and returns [ErrNoUser] otherwise.
func (s *Store) UploadAvatar(ctx context.Context, filename string, r io.Reader, onProgress pipeline.ProgressFunc) (*User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	hasUser := s.state.User != nil
	s.mu.Unlock()
	if !hasUser {
		return nil, ErrNoUser
	}

	var payload avatarPayload
	if err := s.client.Upload(ctx, "/users/avatar", "avatar", filename, r, onProgress, &payload); err != nil {
		s.failWith(ctx, err)
		return nil, err
	}

	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return nil, ErrNoUser
	}
	if payload.User != nil {
		s.state.User = payload.User
	} else if payload.AvatarURL != "" {
		s.state.User.AvatarURL = payload.AvatarURL
	}
	s.persistLocked(ctx)
	out := s.state.User.clone()
	s.mu.Unlock()

	s.metrics.Inc(MetricUserUpdated)
	s.emit(ctx, eventUserUpdated, true, "", "")
	return out, nil
}
