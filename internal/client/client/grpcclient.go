package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

type GRPCClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	logger  logging.Logger

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	onTokens     func(access, refresh string)

	refreshGroup singleflight.Group
	now          func() time.Time
}

// NewGRPCClient creates a client for the service at target. Extra dial
// options are appended after the defaults (insecure transport and the token
// interceptor).
func NewGRPCClient(target string, timeout time.Duration, logger logging.Logger, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{
		timeout: timeout,
		logger:  logger.With("module", "grpc_client"),
		now:     time.Now,
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}
	c.conn = conn
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token to authenticated calls.
// A token whose exp has passed is refreshed before the call; a call rejected
// with "token expired" is refreshed and retried once.
func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if api.PublicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, _ := c.Tokens()
	if access != "" && c.expired(access) {
		if refreshed, err := c.refresh(ctx); err == nil {
			access = refreshed
		} else {
			c.logger.Debug(ctx, "proactive refresh failed", "error", err)
		}
	}

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	access, rerr := c.refresh(ctx)
	if rerr != nil {
		c.logger.Debug(ctx, "token refresh failed", "error", rerr)
		return err
	}
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

// expired reports whether the token's exp claim is in the past. The
// signature is not checked; the server remains the authority.
func (c *GRPCClient) expired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !c.now().Before(claims.ExpiresAt.Time)
}

// refresh exchanges the refresh token for a new pair. Concurrent callers
// share one request.
func (c *GRPCClient) refresh(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		_, refreshToken := c.Tokens()
		if refreshToken == "" {
			return "", ErrNoSession
		}

		resp, err := api.Invoke[api.RefreshRequest, api.Tokens](ctx, c.conn, api.MethodRefresh, &api.RefreshRequest{RefreshToken: refreshToken})
		if err != nil {
			return "", c.mapError(err)
		}

		c.mu.Lock()
		c.accessToken = resp.AccessToken
		c.refreshToken = resp.RefreshToken
		cb := c.onTokens
		c.mu.Unlock()

		if cb != nil {
			cb(resp.AccessToken, resp.RefreshToken)
		}
		return resp.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *GRPCClient) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

// Tokens returns the current access and refresh tokens.
func (c *GRPCClient) Tokens() (access, refresh string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken, c.refreshToken
}

func (c *GRPCClient) OnTokens(fn func(access, refresh string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTokens = fn
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func call[Req, Resp any](ctx context.Context, c *GRPCClient, method string, req *Req) (*Resp, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := api.Invoke[Req, Resp](ctx, c.conn, method, req)
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := call[api.Empty, api.PingResponse](ctx, c, api.MethodPing, &api.Empty{})
	if err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Register(ctx context.Context, email, password string) error {
	_, err := call[api.Credentials, api.Empty](ctx, c, api.MethodRegister, &api.Credentials{Email: email, Password: password})
	return err
}

func (c *GRPCClient) VerifyEmail(ctx context.Context, email, code string) (*api.AuthResult, error) {
	return c.authenticate(call[api.VerifyEmailRequest, api.AuthResult](ctx, c, api.MethodVerifyEmail, &api.VerifyEmailRequest{Email: email, Code: code}))
}

func (c *GRPCClient) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	return c.authenticate(call[api.Credentials, api.AuthResult](ctx, c, api.MethodLogin, &api.Credentials{Email: email, Password: password}))
}

func (c *GRPCClient) LoginWithPasscode(ctx context.Context, email, passcode string) (*api.AuthResult, error) {
	return c.authenticate(call[api.PasscodeLoginRequest, api.AuthResult](ctx, c, api.MethodLoginWithPasscode, &api.PasscodeLoginRequest{Email: email, Passcode: passcode}))
}

func (c *GRPCClient) authenticate(res *api.AuthResult, err error) (*api.AuthResult, error) {
	if err != nil {
		return nil, err
	}
	c.SetTokens(res.AccessToken, res.RefreshToken)
	return res, nil
}

func (c *GRPCClient) GetProfile(ctx context.Context) (*api.Profile, error) {
	if access, _ := c.Tokens(); access == "" {
		return nil, ErrNoSession
	}
	return call[api.Empty, api.Profile](ctx, c, api.MethodGetProfile, &api.Empty{})
}

func (c *GRPCClient) SetPasscode(ctx context.Context, passcode string) (*api.Profile, error) {
	return call[api.PasscodeRequest, api.Profile](ctx, c, api.MethodSetPasscode, &api.PasscodeRequest{Passcode: passcode})
}

func (c *GRPCClient) UpdateOnboarding(ctx context.Context, status string) (*api.Profile, error) {
	return call[api.OnboardingRequest, api.Profile](ctx, c, api.MethodUpdateOnboarding, &api.OnboardingRequest{Status: status})
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoSession) {
		return err
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	var sentinel error
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		sentinel = ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		sentinel = ErrUnavailable
	case codes.NotFound:
		sentinel = ErrNotFound
	case codes.AlreadyExists:
		sentinel = ErrAlreadyExists
	case codes.InvalidArgument:
		sentinel = ErrInvalidArgument
	case codes.FailedPrecondition:
		sentinel = ErrFailedPrecondition
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
