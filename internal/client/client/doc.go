// Package client is the Go client library for the keyregistry server.
//
// # Overview
//
// GRPCClient implements Client over gRPC. It signs in with an Ed25519 key
// (challenge, signature, login), injects the access token into every call
// via an interceptor and, when the server answers "token expired", swaps
// the refresh token for a new pair and retries the call once.
//
// Status codes are mapped back to sentinel errors: registry failures come
// back as the matching common.Err* value, transport problems as
// ErrUnavailable and authentication failures as ErrUnauthorized, so
// callers can use errors.Is throughout.
//
// InitDatabase opens the local SQLite cache used by the CLI and applies its
// embedded goose migrations.
//
// A GRPCClient is safe for concurrent use.
package client
