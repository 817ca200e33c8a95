package session

import "context"

// Store keeps sessions by token. Get and Take return ErrNotFound for unknown tokens.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	// Take removes the session and returns it. Of several concurrent calls
	// for one token, exactly one succeeds.
	Take(ctx context.Context, token string) (*Session, error)
}
