package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/server/users"
)

var _ api.AccountServer = (*GRPCServer)(nil)

// toStatus maps service errors to gRPC statuses.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInvalidCode):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "account already exists")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "account not found")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrEmailNotVerified), errors.Is(err, common.ErrNoPasscode):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func toProfile(u *users.User) *api.Profile {
	return &api.Profile{
		ID:               u.ID,
		Email:            u.Email,
		HasPasscode:      u.HasPasscode(),
		OnboardingStatus: u.OnboardingStatus,
	}
}

func toAuthResult(u *users.User, t *users.TokenPair) *api.AuthResult {
	return &api.AuthResult{
		Tokens: api.Tokens{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken},
		User:   *toProfile(u),
	}
}

func (s *GRPCServer) Ping(ctx context.Context, _ *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.Credentials) (*api.Empty, error) {
	u, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return &api.Empty{}, nil
}

func (s *GRPCServer) VerifyEmail(ctx context.Context, req *api.VerifyEmailRequest) (*api.AuthResult, error) {
	u, tokens, err := s.users.VerifyEmail(ctx, req.Email, req.Code)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAuthResult(u, tokens), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.Credentials) (*api.AuthResult, error) {
	u, tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAuthResult(u, tokens), nil
}

func (s *GRPCServer) LoginWithPasscode(ctx context.Context, req *api.PasscodeLoginRequest) (*api.AuthResult, error) {
	u, tokens, err := s.users.LoginWithPasscode(ctx, req.Email, req.Passcode)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAuthResult(u, tokens), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.Tokens, error) {
	tokens, err := s.users.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.Tokens{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *api.Empty) (*api.Profile, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	u, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toProfile(u), nil
}

func (s *GRPCServer) SetPasscode(ctx context.Context, req *api.PasscodeRequest) (*api.Profile, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	u, err := s.users.SetPasscode(ctx, userID, req.Passcode)
	if err != nil {
		return nil, toStatus(err)
	}
	return toProfile(u), nil
}

func (s *GRPCServer) UpdateOnboarding(ctx context.Context, req *api.OnboardingRequest) (*api.Profile, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	u, err := s.users.UpdateOnboarding(ctx, userID, req.Status)
	if err != nil {
		return nil, toStatus(err)
	}
	return toProfile(u), nil
}
