package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/metadata"
)

// WelcomeKey is the metadata key of the welcome flag.
const WelcomeKey = "has_seen_welcome"

// WelcomeStore is the persisted "welcome sequence shown" flag. It defaults
// to false.
type WelcomeStore struct {
	repo metadata.Repository
	subs subscribers[bool]
}

func NewWelcomeStore(repo metadata.Repository) *WelcomeStore {
	return &WelcomeStore{repo: repo}
}

func (w *WelcomeStore) HasSeenWelcome(ctx context.Context) (bool, error) {
	raw, err := w.repo.Get(ctx, WelcomeKey)
	if err != nil {
		return false, fmt.Errorf("read welcome flag: %w", err)
	}
	if raw == nil {
		return false, nil
	}
	seen, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, fmt.Errorf("parse welcome flag %q: %w", raw, err)
	}
	return seen, nil
}

// MarkSeen sets the flag. It is a no-op when the flag is already set.
func (w *WelcomeStore) MarkSeen(ctx context.Context) error {
	if seen, err := w.HasSeenWelcome(ctx); err == nil && seen {
		return nil
	}
	if err := w.repo.Set(ctx, WelcomeKey, []byte(strconv.FormatBool(true))); err != nil {
		return fmt.Errorf("save welcome flag: %w", err)
	}
	w.subs.notify(true)
	return nil
}

// Clear forgets the flag. Only account wipe uses it.
func (w *WelcomeStore) Clear(ctx context.Context) error {
	if err := w.repo.Delete(ctx, WelcomeKey); err != nil {
		return fmt.Errorf("clear welcome flag: %w", err)
	}
	w.subs.notify(false)
	return nil
}

func (w *WelcomeStore) Subscribe(fn func(bool)) func() {
	return w.subs.add(fn)
}
