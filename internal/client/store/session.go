package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

// SessionKey is the metadata key the session snapshot is stored under.
const SessionKey = "session"

// SessionStore owns the current session. Readers get immutable snapshots;
// writers go through Update or Reset, which persist first and publish after.
type SessionStore struct {
	repo   metadata.Repository
	logger logging.Logger

	mu      sync.RWMutex
	session models.Session
	subs    subscribers[models.Session]
}

func NewSessionStore(repo metadata.Repository, logger logging.Logger) *SessionStore {
	return &SessionStore{repo: repo, logger: logger.With("module", "session_store")}
}

// Load reads the persisted session. A missing entry leaves the default
// (logged-out) session. An unreadable entry is discarded and reported.
func (s *SessionStore) Load(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, SessionKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var sess models.Session
	if raw != nil {
		if err := json.Unmarshal(raw, &sess); err != nil {
			s.logger.Warn(ctx, "discarding corrupt session", "error", err)
			if err := s.repo.Delete(ctx, SessionKey); err != nil {
				return fmt.Errorf("discard session: %w", err)
			}
			sess = models.Session{}
		}
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()

	s.subs.notify(sess.Clone())
	return nil
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// Update applies fn to a copy of the session, persists the result and
// publishes it. If persisting fails the in-memory session is unchanged.
// The session-level onboarding status follows the user's when the user
// carries one.
func (s *SessionStore) Update(ctx context.Context, fn func(*models.Session)) error {
	s.mu.Lock()
	next := s.session.Clone()
	fn(&next)
	if next.User != nil && next.User.OnboardingStatus != "" {
		next.OnboardingStatus = next.User.OnboardingStatus
	}

	raw, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Set(ctx, SessionKey, raw); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save session: %w", err)
	}
	s.session = next
	s.mu.Unlock()

	s.subs.notify(next.Clone())
	return nil
}

// Reset returns the session to its defaults and removes it from storage.
func (s *SessionStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	if err := s.repo.Delete(ctx, SessionKey); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("reset session: %w", err)
	}
	s.session = models.Session{}
	s.mu.Unlock()

	s.logger.Debug(ctx, "session reset")
	s.subs.notify(models.Session{})
	return nil
}

// Subscribe registers fn for session changes and returns its cancel func.
func (s *SessionStore) Subscribe(fn func(models.Session)) func() {
	return s.subs.add(fn)
}
