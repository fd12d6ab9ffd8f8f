// Package api is the wire contract between the wallet client and the account
// backend.
//
// The service is plain gRPC. Instead of generated stubs every request and
// response travels as a google.protobuf.Struct holding the JSON form of the
// Go message types declared here, so both sides share one set of Go structs
// and no protoc step is needed. ServiceDesc registers an AccountServer on a
// grpc.Server; Invoke performs a typed call over any grpc.ClientConnInterface.
//
// The access token travels in the "access_token" metadata key (see
// common.AccessTokenHeaderName). Methods listed in PublicMethods do not
// require it.
package api
