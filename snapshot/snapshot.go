package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrCorrupt is an exported constant or variable used by the snapshot store.
// Adapters return it alongside a nil snapshot when the stored record cannot be
// decoded; callers treat it exactly like an absent record, optionally counting
// the occurrence.
var ErrCorrupt = errors.New("snapshot corrupt")

// Credentials mirrors the persisted credential pair. Both tokens are opaque.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Snapshot is the durable subset of session state. User is kept as raw JSON so
// this package stays ignorant of the profile schema; the session store owns
// (de)serialization of its own user type.
type Snapshot struct {
	User            json.RawMessage `json:"user,omitempty"`
	Credentials     *Credentials    `json:"credentials,omitempty"`
	IsAuthenticated bool            `json:"isAuthenticated"`
}

// AccessToken returns the stored access token, or "" when none is present.
func (s *Snapshot) AccessToken() string {
	if s == nil || s.Credentials == nil {
		return ""
	}
	return s.Credentials.AccessToken
}

type record struct {
	State Snapshot `json:"state"`
}

// Store is the persistence port. Load returns (nil, nil) for an absent record
// and (nil, ErrCorrupt) for an undecodable one; it never fabricates an error
// out of a missing session.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

// Encode describes the encode operation and its observable behavior.
//
// Encode may return an error when input validation, dependency calls, or security checks fail.
// Encode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Encode(snap *Snapshot) ([]byte, error) {
	if snap == nil {
		snap = &Snapshot{}
	}
	return json.Marshal(record{State: *snap})
}

// Decode describes the decode operation and its observable behavior.
//
// Decode may return an error when input validation, dependency calls, or security checks fail.
// Decode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Decode(data []byte) (*Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, ErrCorrupt
	}
	out := rec.State
	return &out, nil
}

// Memory is an in-process Store. The snapshot round-trips through the same
// JSON record as the durable adapters so tests exercise real serialization.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory describes the newmemory operation and its observable behavior.
//
// NewMemory may return an error when input validation, dependency calls, or security checks fail.
// NewMemory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemory() *Memory {
	return &Memory{}
}

// Load describes the load operation and its observable behavior.
//
// Load may return an error when input validation, dependency calls, or security checks fail.
// Load does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Load(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return Decode(m.data)
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Save(_ context.Context, snap *Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.data = nil
	m.mu.Unlock()
	return nil
}

// Corrupt overwrites the stored record with undecodable bytes. Test helper.
func (m *Memory) Corrupt() {
	m.mu.Lock()
	m.data = []byte("{not json")
	m.mu.Unlock()
}
