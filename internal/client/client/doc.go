// Package client contains the wallet's connection to the account service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register/VerifyEmail/Login/LoginWithPasscode, GetProfile, SetPasscode,
//     UpdateOnboarding and Ping.
//  2. A gRPC implementation (see GRPCClient) that attaches the access token
//     to every authenticated call, refreshes it when it has expired (once,
//     shared between concurrent callers) and maps gRPC status codes to
//     sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database with embedded goose migrations.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrAlreadyExists,
// ErrInvalidArgument, ErrFailedPrecondition and ErrNoSession.
//
// GRPCClient is safe for concurrent use.
package client
