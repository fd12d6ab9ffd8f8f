package services

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophwallet/internal/client/routing"
	"github.com/dmitrijs2005/gophwallet/internal/client/store"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/config"
	"github.com/dmitrijs2005/gophwallet/internal/server/refreshtokens"
	"github.com/dmitrijs2005/gophwallet/internal/server/users"

	gs "github.com/dmitrijs2005/gophwallet/internal/server/grpc"
)

type backend struct {
	users  *users.MemoryRepository
	cfg    *config.Config
	dialer func(context.Context, string) (net.Conn, error)
}

func startBackend(t *testing.T) *backend {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	repo := users.NewMemoryRepository()
	us := users.NewService(repo, refreshtokens.NewMemoryRepository(), cfg, logging.NopLogger{})
	srv := gs.NewGRPCServer("", logging.NopLogger{}, us, cfg.SecretKey)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &backend{
		users: repo,
		cfg:   cfg,
		dialer: func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		},
	}
}

type device struct {
	client   *client.GRPCClient
	auth     AuthService
	sessions *store.SessionStore
	welcome  *store.WelcomeStore
}

// newDevice builds the client side on top of the database at dsn.
func newDevice(t *testing.T, b *backend, dsn string) *device {
	t.Helper()
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c, err := client.NewGRPCClient("passthrough:///bufnet", time.Second, logging.NopLogger{}, grpc.WithContextDialer(b.dialer))
	require.NoError(t, err)

	repo := metadata.NewSQLiteRepository(db)
	d := &device{
		client:   c,
		sessions: store.NewSessionStore(repo, logging.NopLogger{}),
		welcome:  store.NewWelcomeStore(repo),
	}
	d.auth = NewAuthService(c, d.sessions, d.welcome, logging.NopLogger{})
	t.Cleanup(func() { _ = d.auth.Close() })

	require.NoError(t, d.auth.Restore(ctx))
	return d
}

func (d *device) mount(t *testing.T, href string) (*routing.Guard, *routing.History) {
	t.Helper()
	h := routing.NewHistory(href)
	g := routing.NewGuard(d.auth, d.welcome, d.auth, h, logging.NopLogger{})
	require.NoError(t, g.Mount(context.Background()))
	t.Cleanup(g.Unmount)
	return g, h
}

func TestEndToEnd_NewUserToTabs(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()
	dsn := t.TempDir() + "/wallet.db"
	d := newDevice(t, b, dsn)

	// first launch: guest deep-linked into the tabs goes to welcome
	_, h := d.mount(t, routing.RouteWallet)
	assert.Equal(t, "/", h.Location().Path)
	require.NoError(t, d.welcome.MarkSeen(ctx))

	require.NoError(t, d.auth.Register(ctx, "carol@example.com", "long-password"))
	_, h = d.mount(t, routing.RouteSignUp)
	assert.Equal(t, "/verify-email", h.Location().Path)

	u, err := b.users.GetByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	require.NoError(t, d.auth.VerifyEmail(ctx, u.VerificationCode))

	require.NoError(t, d.auth.CreatePasscode(ctx, "246810"))
	require.NoError(t, d.auth.ConfirmPasscode(ctx, "246810"))
	require.NoError(t, d.auth.AdvanceOnboarding(ctx, string(models.OnboardingCompleted)))

	s := d.sessions.Snapshot()
	require.True(t, s.HasLiveSession())
	assert.True(t, s.User.HasPasscode)
	assert.Equal(t, models.OnboardingCompleted, s.EffectiveOnboardingStatus())

	// an authenticated user outside the tabs lands on the wallet
	g, h := d.mount(t, routing.RouteSignIn)
	assert.Equal(t, "/wallet", h.Location().Path)
	assert.True(t, g.HasRedirected())

	// relaunch from disk: the stored session validates against the backend
	d2 := newDevice(t, b, dsn)
	g, h = d2.mount(t, routing.RoutePortfolio)
	assert.False(t, g.HasRedirected())
	assert.Equal(t, "/portfolio", h.Location().Path)
}

func TestEndToEnd_LockedUserUnlocksWithPasscode(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()
	d := newDevice(t, b, ":memory:")

	require.NoError(t, d.auth.Register(ctx, "dave@example.com", "long-password"))
	u, err := b.users.GetByEmail(ctx, "dave@example.com")
	require.NoError(t, err)
	require.NoError(t, d.auth.VerifyEmail(ctx, u.VerificationCode))
	require.NoError(t, d.auth.CreatePasscode(ctx, "135790"))
	require.NoError(t, d.auth.ConfirmPasscode(ctx, "135790"))
	require.NoError(t, d.auth.Lock(ctx))

	_, h := d.mount(t, routing.RouteWallet)
	assert.Equal(t, "/login-passcode", h.Location().Path)

	require.Error(t, d.auth.UnlockWithPasscode(ctx, "000000"))
	require.NoError(t, d.auth.UnlockWithPasscode(ctx, "135790"))
	assert.True(t, d.sessions.Snapshot().HasLiveSession())
}

func TestEndToEnd_RejectedSessionIsReset(t *testing.T) {
	b := startBackend(t)
	ctx := context.Background()
	d := newDevice(t, b, ":memory:")
	require.NoError(t, d.welcome.MarkSeen(ctx))

	require.NoError(t, d.sessions.Update(ctx, func(s *models.Session) {
		*s = models.Session{
			User:            &models.User{ID: "ghost", Email: "ghost@example.com"},
			IsAuthenticated: true,
			AccessToken:     "forged",
		}
	}))
	require.NoError(t, d.auth.Restore(ctx))

	access, _ := d.client.Tokens()
	require.Equal(t, "forged", access)

	_, h := d.mount(t, routing.RouteWallet)
	assert.Equal(t, models.Session{}, d.sessions.Snapshot())
	assert.Equal(t, "/", h.Location().Path)

	access, refresh := d.client.Tokens()
	assert.Empty(t, access, "rejected tokens are dropped from the client")
	assert.Empty(t, refresh)
}
