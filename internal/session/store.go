package session

import (
	"context"
	"errors"
)

// Flash kinds, matching the status classes the templates style.
const (
	KindSuccess = "success"
	KindInfo    = "info"
	KindDanger  = "danger"
)

var ErrSessionNotFound = errors.New("session not found")

// Flash is a one-shot status message shown on the next rendered page.
type Flash struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// Store tracks the authenticated identity of each client session plus its
// pending flash messages. A session holds exactly one string field: the
// username, empty while anonymous.
type Store interface {
	// SetIdentity marks the session as authenticated as username.
	SetIdentity(ctx context.Context, sessionID, username string) error
	// Identity returns the session's username, or "" for an anonymous session.
	Identity(ctx context.Context, sessionID string) (string, error)
	// ClearIdentity returns the session to the anonymous state.
	ClearIdentity(ctx context.Context, sessionID string) error
	// ClearByIdentity clears every session authenticated as username.
	// Used when an account is deleted.
	ClearByIdentity(ctx context.Context, username string) error
	// AddFlash queues a one-shot status message for the session.
	AddFlash(ctx context.Context, sessionID string, flash Flash) error
	// PopFlashes drains and returns the session's queued messages.
	PopFlashes(ctx context.Context, sessionID string) ([]Flash, error)
}
