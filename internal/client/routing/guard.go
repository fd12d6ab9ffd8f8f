package routing

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

var (
	// ErrUnmounted is returned by Mount when the guard was unmounted (or its
	// context cancelled) before initialisation finished.
	ErrUnmounted = errors.New("guard unmounted during initialisation")
	// ErrAlreadyMounted is returned by Mount on a guard that is still mounted.
	ErrAlreadyMounted = errors.New("guard already mounted")
)

// SessionSource is the session store as seen by the guard.
type SessionSource interface {
	Snapshot() models.Session
	Reset(ctx context.Context) error
}

// WelcomeFlagSource reads the persisted welcome flag.
type WelcomeFlagSource interface {
	HasSeenWelcome(ctx context.Context) (bool, error)
}

// ProfileFetcher succeeds when the current access token is accepted by the backend.
type ProfileFetcher interface {
	RefreshProfile(ctx context.Context) error
}

// Navigator is the navigation host.
type Navigator interface {
	Location() Location
	Replace(href string)
}

// Guard applies routing decisions to a Navigator.
//
// Mount reads the welcome flag and validates a claimed session before the
// guard becomes ready; until then Evaluate does nothing. Once ready, every
// Evaluate recomputes the decision, but at most one redirect is issued per
// mount. Only a new Mount opens the latch again.
type Guard struct {
	sessions SessionSource
	welcome  WelcomeFlagSource
	profile  ProfileFetcher
	nav      Navigator
	logger   logging.Logger

	mu             sync.Mutex
	mounted        bool
	ready          bool
	hasRedirected  bool
	hasSeenWelcome bool
	welcomeSet     bool
	generation     uint64
	cancel         context.CancelFunc
	last           Decision
}

func NewGuard(sessions SessionSource, welcome WelcomeFlagSource, profile ProfileFetcher, nav Navigator, logger logging.Logger) *Guard {
	return &Guard{
		sessions: sessions,
		welcome:  welcome,
		profile:  profile,
		nav:      nav,
		logger:   logger.With("module", "route_guard"),
	}
}

// Mount runs initialisation and then the first evaluation. Failures of the
// welcome-flag read and of token validation are absorbed: the flag is taken
// as unseen and a rejected session is reset to defaults.
func (g *Guard) Mount(ctx context.Context) error {
	g.mu.Lock()
	if g.mounted {
		g.mu.Unlock()
		return ErrAlreadyMounted
	}
	ctx, cancel := context.WithCancel(ctx)
	g.generation++
	gen := g.generation
	g.mounted = true
	g.ready = false
	g.hasRedirected = false
	g.hasSeenWelcome = false
	g.welcomeSet = false
	g.last = Decision{}
	g.cancel = cancel
	g.mu.Unlock()

	seen, err := g.welcome.HasSeenWelcome(ctx)
	if err != nil {
		g.logger.Warn(ctx, "welcome flag unreadable, assuming not seen", "error", err)
		seen = false
	}
	if !g.alive(ctx, gen) {
		return ErrUnmounted
	}

	if snap := g.sessions.Snapshot(); snap.HasLiveSession() {
		if err := g.profile.RefreshProfile(ctx); err != nil {
			if !g.alive(ctx, gen) {
				return ErrUnmounted
			}
			g.logger.Warn(ctx, "stored session rejected, signing out", "error", err)
			if err := g.sessions.Reset(ctx); err != nil {
				g.logger.Error(ctx, "session reset failed", "error", err)
			}
		}
	}

	g.mu.Lock()
	if !g.mounted || g.generation != gen || ctx.Err() != nil {
		g.mu.Unlock()
		return ErrUnmounted
	}
	if !g.welcomeSet {
		g.hasSeenWelcome = seen
	}
	g.ready = true
	g.mu.Unlock()

	g.logger.Debug(ctx, "guard ready", "has_seen_welcome", seen)
	g.Evaluate(ctx)
	return nil
}

// Unmount abandons any in-flight initialisation and stops evaluation.
func (g *Guard) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.mounted = false
	g.ready = false
}

func (g *Guard) alive(ctx context.Context, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mounted && g.generation == gen && ctx.Err() == nil
}

// Ready reports whether initialisation has finished for the current mount.
func (g *Guard) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready
}

// HasRedirected reports whether the latch has closed for the current mount.
func (g *Guard) HasRedirected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasRedirected
}

// LastDecision returns the result of the most recent evaluation.
func (g *Guard) LastDecision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// SetWelcomeSeen updates the cached welcome flag and re-evaluates.
func (g *Guard) SetWelcomeSeen(ctx context.Context, seen bool) {
	g.mu.Lock()
	g.hasSeenWelcome = seen
	g.welcomeSet = true
	g.mu.Unlock()
	g.Evaluate(ctx)
}

// Evaluate recomputes the decision and, if it asks for a redirect and none
// has been issued since Mount, replaces the current location. It returns the
// target and whether navigation happened.
func (g *Guard) Evaluate(ctx context.Context) (string, bool) {
	g.mu.Lock()
	if !g.ready {
		g.mu.Unlock()
		return "", false
	}

	loc := g.nav.Location()
	d := Decide(g.sessions.Snapshot(), BuildRouteConfig(loc.Segments, loc.Path), g.hasSeenWelcome)
	g.last = d

	if !d.Redirect() {
		g.mu.Unlock()
		return "", false
	}
	if g.hasRedirected {
		g.mu.Unlock()
		g.logger.Debug(ctx, "redirect suppressed", "path", loc.Path, "target", d.Target)
		return "", false
	}
	g.hasRedirected = true
	g.mu.Unlock()

	// Replace notifies navigation subscribers, which may call Evaluate again.
	g.logger.Info(ctx, "redirecting", "from", loc.Path, "to", d.Target, "state", d.State.String(), "reason", d.Reason)
	g.nav.Replace(d.Target)
	return d.Target, true
}
