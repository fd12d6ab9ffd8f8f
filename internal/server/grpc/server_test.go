package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/config"
	"github.com/dmitrijs2005/gophwallet/internal/server/refreshtokens"
	"github.com/dmitrijs2005/gophwallet/internal/server/users"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*GRPCServer, *users.MemoryRepository) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret

	repo := users.NewMemoryRepository()
	us := users.NewService(repo, refreshtokens.NewMemoryRepository(), cfg, logging.NopLogger{})
	return NewGRPCServer("127.0.0.1:0", logging.NopLogger{}, us, testSecret), repo
}

// startBufconn serves s over an in-memory listener and returns a connected
// client. Everything is torn down with the test.
func startBufconn(t *testing.T, s *GRPCServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}
	})
	return conn
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_BadAddress(t *testing.T) {
	s, _ := newTestServer(t)
	s.address = "bad::address"

	err := s.Run(context.Background())
	require.Error(t, err)
}

func TestServe_ClosedListener(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s, _ := newTestServer(t)
	lis := bufconn.Listen(1024)
	require.NoError(t, lis.Close())

	err := s.Serve(context.Background(), lis)
	require.Error(t, err)
}
