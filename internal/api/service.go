package api

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "gophwallet.account.v1.AccountService"

const (
	MethodPing              = "Ping"
	MethodRegister          = "Register"
	MethodVerifyEmail       = "VerifyEmail"
	MethodLogin             = "Login"
	MethodLoginWithPasscode = "LoginWithPasscode"
	MethodRefresh           = "Refresh"
	MethodGetProfile        = "GetProfile"
	MethodSetPasscode       = "SetPasscode"
	MethodUpdateOnboarding  = "UpdateOnboarding"
)

// PublicMethods lists the full method names callable without an access token.
var PublicMethods = map[string]bool{
	FullMethod(MethodPing):              true,
	FullMethod(MethodRegister):          true,
	FullMethod(MethodVerifyEmail):       true,
	FullMethod(MethodLogin):             true,
	FullMethod(MethodLoginWithPasscode): true,
	FullMethod(MethodRefresh):           true,
}

// FullMethod returns the gRPC full method name, e.g. "/gophwallet.account.v1.AccountService/Login".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AccountServer is the backend side of the account service.
type AccountServer interface {
	Ping(ctx context.Context, req *Empty) (*PingResponse, error)
	Register(ctx context.Context, req *Credentials) (*Empty, error)
	VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*AuthResult, error)
	Login(ctx context.Context, req *Credentials) (*AuthResult, error)
	LoginWithPasscode(ctx context.Context, req *PasscodeLoginRequest) (*AuthResult, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*Tokens, error)
	GetProfile(ctx context.Context, req *Empty) (*Profile, error)
	SetPasscode(ctx context.Context, req *PasscodeRequest) (*Profile, error)
	UpdateOnboarding(ctx context.Context, req *OnboardingRequest) (*Profile, error)
}

// ServiceDesc describes the account service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, AccountServer.Ping),
		unary(MethodRegister, AccountServer.Register),
		unary(MethodVerifyEmail, AccountServer.VerifyEmail),
		unary(MethodLogin, AccountServer.Login),
		unary(MethodLoginWithPasscode, AccountServer.LoginWithPasscode),
		unary(MethodRefresh, AccountServer.Refresh),
		unary(MethodGetProfile, AccountServer.GetProfile),
		unary(MethodSetPasscode, AccountServer.SetPasscode),
		unary(MethodUpdateOnboarding, AccountServer.UpdateOnboarding),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophwallet/account/v1/account.proto",
}

// RegisterAccountServer registers srv on s.
func RegisterAccountServer(s grpc.ServiceRegistrar, srv AccountServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](method string, call func(AccountServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			handler := func(ctx context.Context, req any) (any, error) {
				r := new(Req)
				if err := Decode(req.(*structpb.Struct), r); err != nil {
					return nil, status.Error(codes.InvalidArgument, err.Error())
				}
				resp, err := call(srv.(AccountServer), ctx, r)
				if err != nil {
					return nil, err
				}
				out, err := Encode(resp)
				if err != nil {
					return nil, status.Error(codes.Internal, err.Error())
				}
				return out, nil
			}

			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Invoke performs a typed unary call of method over cc.
func Invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req *Req, opts ...grpc.CallOption) (*Resp, error) {
	in, err := Encode(req)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}

	resp := new(Resp)
	if err := Decode(out, resp); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return resp, nil
}
