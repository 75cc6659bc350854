package goSessionClient

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/MrEthical07/goSessionClient/pipeline"
	"github.com/MrEthical07/goSessionClient/snapshot"
)

// Store owns the session state cell: the single authoritative copy of who is
// logged in, with what credentials, and whether startup rehydration has
// completed. Every mutation happens under one mutex and every durable mutation
// is written to the snapshot store before the mutex is released, so observers
// never see persistence lag behind memory.
//
// Clearing the session advances an internal epoch. Verify and refresh capture
// the epoch before dispatching their network call and discard the result if
// the epoch moved while they were in flight; a concurrent logout therefore
// always wins over a slow success response.
type Store struct {
	cfg     Config
	client  *pipeline.Client
	storage snapshot.Store
	events  *eventDispatcher
	metrics *Metrics

	mu    sync.Mutex
	state SessionState
	epoch uint64

	initOnce sync.Once
}

type authPayload struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message"`
}

/*
====================================
OBSERVERS
====================================
*/

// State describes the state operation and its observable behavior.
//
// State may return an error when input validation, dependency calls, or security checks fail.
// State does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() SessionState {
	out := s.state
	out.User = s.state.User.clone()
	out.Credentials = s.state.Credentials.clone()
	return out
}

// IsAuthenticated describes the isauthenticated operation and its observable behavior.
//
// IsAuthenticated may return an error when input validation, dependency calls, or security checks fail.
// IsAuthenticated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

// IsInitialized describes the isinitialized operation and its observable behavior.
//
// IsInitialized may return an error when input validation, dependency calls, or security checks fail.
// IsInitialized does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsInitialized
}

// CurrentUser describes the currentuser operation and its observable behavior.
//
// CurrentUser may return an error when input validation, dependency calls, or security checks fail.
// CurrentUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User.clone()
}

// AccessToken describes the accesstoken operation and its observable behavior.
//
// AccessToken may return an error when input validation, dependency calls, or security checks fail.
// AccessToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Credentials == nil {
		return ""
	}
	return s.state.Credentials.AccessToken
}

// LastError describes the lasterror operation and its observable behavior.
//
// LastError may return an error when input validation, dependency calls, or security checks fail.
// LastError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Error
}

// ClearError describes the clearerror operation and its observable behavior.
//
// ClearError may return an error when input validation, dependency calls, or security checks fail.
// ClearError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// EventsDropped describes the eventsdropped operation and its observable behavior.
//
// EventsDropped may return an error when input validation, dependency calls, or security checks fail.
// EventsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) EventsDropped() uint64 {
	return s.events.Dropped()
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Close() {
	s.events.Close()
}

/*
====================================
INITIALIZATION
====================================
*/

// hydrate adopts the persisted snapshot into the state cell. [Builder.Build]
// calls it exactly once, synchronously, so the stored session is visible
// before any store action runs. The adopted authenticated flag is provisional
// until [Store.InitializeSession] verifies it against the backend.
func (s *Store) hydrate(ctx context.Context) {
	snap, err := s.storage.Load(ctx)
	if err != nil {
		if errors.Is(err, snapshot.ErrCorrupt) {
			s.metrics.Inc(MetricSnapshotCorrupt)
			log.Print("goSessionClient: discarding corrupt session snapshot")
			_ = s.storage.Clear(ctx)
		} else {
			log.Print("goSessionClient: load session snapshot: ", err)
		}
		return
	}
	if snap == nil || snap.AccessToken() == "" {
		return
	}

	s.mu.Lock()
	s.state.Credentials = &CredentialPair{
		AccessToken:  snap.Credentials.AccessToken,
		RefreshToken: snap.Credentials.RefreshToken,
	}
	if len(snap.User) > 0 {
		var u User
		if json.Unmarshal(snap.User, &u) == nil {
			s.state.User = &u
		}
	}
	s.state.IsAuthenticated = snap.IsAuthenticated && s.state.User != nil
	s.mu.Unlock()
}

// InitializeSession validates the hydrated session against the backend.
// Exactly one caller performs the work; concurrent callers block until it
// completes and then return the same result. Regardless of outcome the store
// ends initialized: a missing, corrupt, or rejected snapshot yields a clean
// signed-out state, never a startup failure.
func (s *Store) InitializeSession(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	var err error
	s.initOnce.Do(func() {
		err = s.initialize(ctx)
	})
	return err
}

func (s *Store) initialize(ctx context.Context) error {
	s.mu.Lock()
	s.state.IsLoading = true
	hasToken := s.state.Credentials != nil && s.state.Credentials.AccessToken != ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state.IsInitialized = true
		s.state.IsLoading = false
		s.mu.Unlock()
		s.metrics.Inc(MetricInitializeCompleted)
		s.emit(ctx, eventInitializeCompleted, true, "", "")
	}()

	if !hasToken {
		return nil
	}
	return s.VerifySession(ctx)
}

/*
====================================
VERIFY / REFRESH
====================================
*/

// VerifySession confirms the current credentials against the backend profile
// endpoint and adopts the returned user. A rejected verification falls back to
// one refresh attempt followed by one more verification; if the fallback also
// fails the session is cleared. A verification that resolves after the session
// was cleared concurrently is discarded and reported as [ErrSessionExpired].
func (s *Store) VerifySession(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	s.mu.Lock()
	creds := s.state.Credentials.clone()
	epoch := s.epoch
	s.mu.Unlock()

	if creds == nil || creds.AccessToken == "" {
		return ErrNoSession
	}

	err := s.verifyOnce(ctx, epoch)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSessionExpired) {
		return err
	}

	s.metrics.Inc(MetricVerifyFailure)
	s.emit(ctx, eventVerifyFailure, false, pipeline.Message(err), errorCorrelationID(err))

	if rerr := s.RefreshCredentials(ctx); rerr != nil {
		return err
	}
	if err := s.verifyOnce(ctx, epoch); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return err
		}
		s.metrics.Inc(MetricVerifyFailure)
		s.emit(ctx, eventVerifyFailure, false, pipeline.Message(err), errorCorrelationID(err))
		s.clearSession(ctx)
		return err
	}
	return nil
}

func (s *Store) verifyOnce(ctx context.Context, epoch uint64) error {
	var payload authPayload
	if err := s.client.Get(ctx, "/auth/me", &payload); err != nil {
		return err
	}
	if payload.User == nil {
		return ErrMalformedResponse
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSessionExpired
	}
	s.state.User = payload.User
	s.state.IsAuthenticated = true
	s.state.Error = ""
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.Inc(MetricVerifySuccess)
	s.emit(ctx, eventVerifySuccess, true, "", "")
	return nil
}

// RefreshCredentials exchanges the stored refresh token for a new access token.
// Failure to refresh is terminal for the session: the state and the snapshot
// are cleared. A refresh that resolves after a concurrent clear is discarded.
func (s *Store) RefreshCredentials(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	s.mu.Lock()
	creds := s.state.Credentials.clone()
	epoch := s.epoch
	s.mu.Unlock()

	if creds == nil || creds.RefreshToken == "" {
		s.clearSession(ctx)
		return ErrNoRefreshToken
	}

	var payload authPayload
	err := s.client.Post(ctx, "/auth/refresh", map[string]string{"refreshToken": creds.RefreshToken}, &payload)
	if err != nil {
		s.metrics.Inc(MetricRefreshFailure)
		s.emit(ctx, eventRefreshFailure, false, pipeline.Message(err), errorCorrelationID(err))
		s.clearSessionFromEpoch(ctx, epoch)
		return err
	}
	if payload.Token == "" {
		s.metrics.Inc(MetricRefreshFailure)
		s.emit(ctx, eventRefreshFailure, false, ErrMalformedResponse.Error(), "")
		s.clearSessionFromEpoch(ctx, epoch)
		return ErrMalformedResponse
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSessionExpired
	}
	if s.state.Credentials == nil {
		s.state.Credentials = &CredentialPair{}
	}
	s.state.Credentials.AccessToken = payload.Token
	if payload.RefreshToken != "" {
		s.state.Credentials.RefreshToken = payload.RefreshToken
	}
	if payload.User != nil {
		s.state.User = payload.User
		s.state.IsAuthenticated = true
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.metrics.Inc(MetricRefreshSuccess)
	s.emit(ctx, eventRefreshSuccess, true, "", "")
	return nil
}

/*
====================================
STATE CELL INTERNALS
====================================
*/

// persistLocked writes the durable subset of the state to the snapshot store.
// Persistence failures are observable but never fail the action that caused
// them.
func (s *Store) persistLocked(ctx context.Context) {
	snap := &snapshot.Snapshot{
		IsAuthenticated: s.state.IsAuthenticated,
	}
	if s.state.Credentials != nil {
		snap.Credentials = &snapshot.Credentials{
			AccessToken:  s.state.Credentials.AccessToken,
			RefreshToken: s.state.Credentials.RefreshToken,
		}
	}
	if s.state.User != nil {
		if data, err := json.Marshal(s.state.User); err == nil {
			snap.User = data
		}
	}
	if err := s.storage.Save(ctx, snap); err != nil {
		s.metrics.Inc(MetricSnapshotSaveFailure)
		log.Print("goSessionClient: save session snapshot: ", err)
	}
}

func (s *Store) clearSessionLocked(ctx context.Context) {
	s.epoch++
	s.state.IsAuthenticated = false
	s.state.User = nil
	s.state.Credentials = nil
	if err := s.storage.Clear(ctx); err != nil {
		log.Print("goSessionClient: clear session snapshot: ", err)
	}
	s.metrics.Inc(MetricSessionCleared)
}

func (s *Store) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.clearSessionLocked(ctx)
	s.mu.Unlock()
	s.emit(ctx, eventSessionCleared, true, "", "")
}

// clearSessionFromEpoch clears only if no one else cleared since the caller
// captured epoch, so a failing refresh racing a logout does not double-clear.
func (s *Store) clearSessionFromEpoch(ctx context.Context, epoch uint64) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.clearSessionLocked(ctx)
	s.mu.Unlock()
	s.emit(ctx, eventSessionCleared, true, "", "")
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.state.IsLoading = v
	if v {
		s.state.Error = ""
	}
	s.mu.Unlock()
}

// failWith records the normalized failure message in the state cell and
// returns it for event emission. A 401 rejection of an authenticated operation
// tears the session down: the backend no longer recognizes the credential, so
// holding on to it would only produce more 401s.
func (s *Store) failWith(ctx context.Context, err error) string {
	msg := pipeline.Message(err)
	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Error = msg
	tearDown := s.state.IsAuthenticated && pipeline.IsUnauthorized(err)
	s.mu.Unlock()
	if tearDown {
		s.clearSession(ctx)
	}
	return msg
}

// ready rejects use of a zero-value Store that never went through
// [Builder.Build].
func (s *Store) ready() error {
	if s == nil || s.client == nil || s.storage == nil {
		return ErrStoreNotReady
	}
	return nil
}

func (s *Store) emit(ctx context.Context, eventType string, success bool, errText, correlationID string) {
	if s.events == nil {
		return
	}
	s.mu.Lock()
	userID := ""
	if s.state.User != nil {
		userID = s.state.User.ID
	}
	s.mu.Unlock()
	s.events.Emit(ctx, Event{
		Type:          eventType,
		Success:       success,
		UserID:        userID,
		CorrelationID: correlationID,
		Error:         errText,
	})
}

func errorCorrelationID(err error) string {
	if pe, ok := pipeline.AsError(err); ok {
		return pe.CorrelationID
	}
	return ""
}
