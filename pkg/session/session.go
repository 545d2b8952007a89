// Package session persists design state between actions.
//
// The CLI runs one process per command and the HTTP API serves many
// browsers, so neither can keep a [design.Design] in memory the way a single
// page does. A [Session] wraps the design with an ID and timestamps, and a
// [Store] keeps it between calls:
//   - memory: in-process map, for tests and the studio
//   - file: JSON files under the config directory, for the CLI
//   - redis: shared storage for multi-instance API deployments
//   - mongo: document storage for API deployments already running MongoDB
//
// Only UI state lives here. Suggestions held in a design are whatever the
// last request returned; nothing else is recorded.
//
// # Usage
//
//	store, err := session.NewFileStore("")  // ~/.config/fontastic/sessions/
//	sess, err := session.Load(ctx, store, "default", session.DefaultTTL)
//	sess.Design.SetSpacing(2.5)
//	err = store.Set(ctx, sess)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fontastic/pkg/design"
)

// Default durations.
const (
	// DefaultTTL is how long an untouched session is kept.
	DefaultTTL = 30 * 24 * time.Hour
)

// DefaultID is the session the CLI uses when --session is not given.
const DefaultID = "default"

// Session is a persisted design.
type Session struct {
	ID        string        `json:"id" bson:"_id"`
	Design    design.Design `json:"design" bson:"design"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time     `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the session has expired.
// A zero ExpiresAt never expires.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch marks the session as updated and extends its expiry by ttl.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session, replacing any previous one with the same ID.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// GenerateID returns a new random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New creates a session with a fresh ID and the default design.
func New(ttl time.Duration) *Session {
	return NewWithID(GenerateID(), ttl)
}

// NewWithID creates a session with the given ID and the default design.
func NewWithID(id string, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		Design:    design.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// Load returns the stored session with the given ID, or a new one with the
// default design when none exists. The new session is not saved.
func Load(ctx context.Context, store Store, id string, ttl time.Duration) (*Session, error) {
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = NewWithID(id, ttl)
	}
	return sess, nil
}

// Save touches the session and stores it.
func Save(ctx context.Context, store Store, sess *Session, ttl time.Duration) error {
	sess.Touch(ttl)
	return store.Set(ctx, sess)
}
