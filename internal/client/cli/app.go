package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/config"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophwallet/internal/client/routing"
	"github.com/dmitrijs2005/gophwallet/internal/client/services"
	"github.com/dmitrijs2005/gophwallet/internal/client/store"
	"github.com/dmitrijs2005/gophwallet/internal/filex"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	auth     services.AuthService
	sessions *store.SessionStore
	welcome  *store.WelcomeStore
	history  *routing.History
	guard    *routing.Guard

	modeMu sync.Mutex
	mode   Mode

	reader *bufio.Reader
	out    io.Writer

	unsubscribe []func()
}

// NewApp opens the local database, connects the account client and restores
// the persisted session. The app starts on the welcome screen.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer, dialOpts ...grpc.DialOption) (*App, error) {
	dbPath, err := filex.EnsureParentDir(c.DBPath)
	if err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout, logger, dialOpts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := metadata.NewSQLiteRepository(db)
	sessions := store.NewSessionStore(repo, logger)
	welcome := store.NewWelcomeStore(repo)
	as := services.NewAuthService(apiClient, sessions, welcome, logger)

	if err := as.Restore(ctx); err != nil {
		_ = as.Close()
		_ = db.Close()
		return nil, err
	}

	history := routing.NewHistory(routing.RouteWelcome)

	return &App{
		config:   c,
		logger:   logger.With("module", "shell"),
		db:       db,
		auth:     as,
		sessions: sessions,
		welcome:  welcome,
		history:  history,
		guard:    routing.NewGuard(as, welcome, as, history, logger),
		reader:   bufio.NewReader(in),
		out:      out,
	}, nil
}

// Close unmounts the guard and releases the client and the database.
func (a *App) Close() error {
	for _, cancel := range a.unsubscribe {
		cancel()
	}
	a.unsubscribe = nil
	a.guard.Unmount()

	err := a.auth.Close()
	if dbErr := a.db.Close(); err == nil {
		err = dbErr
	}
	return err
}

// mount subscribes the guard to store and navigation changes and runs its
// initialisation. Every location change is rendered.
func (a *App) mount(ctx context.Context) error {
	a.unsubscribe = append(a.unsubscribe,
		a.sessions.Subscribe(func(models.Session) { a.guard.Evaluate(ctx) }),
		a.welcome.Subscribe(func(seen bool) { a.guard.SetWelcomeSeen(ctx, seen) }),
		a.history.Subscribe(func(loc routing.Location) {
			a.guard.Evaluate(ctx)
			a.render(ctx, loc)
		}),
	)

	a.render(ctx, a.history.Location())
	if err := a.guard.Mount(ctx); err != nil {
		return err
	}
	if !a.guard.HasRedirected() {
		a.render(ctx, a.history.Location())
	}
	return nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) currentMode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the backend every interval and records
// online/offline transitions until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.auth.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
	} else {
		a.setMode(ctx, ModeOnline)
	}
}

// Shell mounts the guard, starts the connectivity watcher and runs the REPL
// until the user exits or input ends.
func (a *App) Shell(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to the gophwallet shell (type 'help' for commands)")

	if err := a.mount(ctx); err != nil {
		return err
	}
	a.checkOnline(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, a.reader, a.out)

	cancel()
	wg.Wait()
	return nil
}

// Route mounts the guard at href without rendering and reports the decision.
func (a *App) Route(ctx context.Context, href string) (routing.Decision, bool, error) {
	a.history.Replace(href)
	if err := a.guard.Mount(ctx); err != nil {
		return routing.Decision{}, false, err
	}
	return a.guard.LastDecision(), a.guard.HasRedirected(), nil
}

// Reset wipes the local session and the welcome flag.
func (a *App) Reset(ctx context.Context) error {
	return a.auth.Logout(ctx, true)
}
