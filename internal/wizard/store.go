package wizard

import "context"

// Store persists wizard sessions. Save is compare-and-set on the session
// Version: a save whose Version no longer matches the stored session fails
// with ErrVersionConflict, which is how an async slot-fetch result is kept
// from clobbering a newer customer action.
type Store interface {
	// Create persists a new session and stamps Version 1.
	Create(ctx context.Context, s *Session) error
	// Get returns the session or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Save writes the session if its Version still matches the stored
	// one, then increments it. Returns ErrVersionConflict on a lost race
	// and ErrSessionNotFound if the session expired.
	Save(ctx context.Context, s *Session) error
	// Delete removes the session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, id string) error
}
