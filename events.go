package goSessionClient

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

const (
	eventLoginSuccess        = "login_success"
	eventLoginFailure        = "login_failure"
	eventSignupSuccess       = "signup_success"
	eventSignupFailure       = "signup_failure"
	eventLogout              = "logout"
	eventVerifySuccess       = "verify_success"
	eventVerifyFailure       = "verify_failure"
	eventRefreshSuccess      = "refresh_success"
	eventRefreshFailure      = "refresh_failure"
	eventSessionCleared      = "session_cleared"
	eventInitializeCompleted = "initialize_completed"
	eventUserUpdated         = "user_updated"
	eventPasswordForgot      = "password_forgot"
	eventPasswordReset       = "password_reset"
	eventPasswordChange      = "password_change"
)

// Event is a structured record of one session transition. Events never carry
// credentials or passwords.
type Event struct {
	Timestamp     time.Time         `json:"timestamp"`
	Type          string            `json:"type"`
	Success       bool              `json:"success"`
	UserID        string            `json:"userId,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Error         string            `json:"error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// EventSink consumes session transition events. Write must not block for long;
// slow sinks cause drops (or backpressure, per [EventConfig.DropIfFull]).
type EventSink interface {
	Write(event Event)
}

type NoOpSink struct{}

func (NoOpSink) Write(Event) {}

// ChannelSink writes events into a buffered channel, dropping when full.
type ChannelSink struct {
	C chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelSink{C: make(chan Event, buffer)}
}

func (s *ChannelSink) Write(event Event) {
	select {
	case s.C <- event:
	default:
	}
}

// JSONWriterSink writes one JSON line per event to an io.Writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Write(event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
