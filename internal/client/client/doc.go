// Package client talks to the friendbook gRPC service.
//
// Client is the transport-agnostic contract used by the CLI; GRPCClient
// implements it over friendbook.v1.UserService, attaching the access token
// obtained at login to every later call and mapping gRPC status codes to the
// sentinel errors in errors.go.
package client
