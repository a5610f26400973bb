// Package common defines shared constants and sentinel errors used across
// the server, the client library and the gateways. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Registry errors. All of them abort the enclosing transaction.
	ErrInvalidUsernameLength     = errors.New("username must be 3-20 characters")
	ErrInvalidUsernameCharacters = errors.New("username can only contain letters, numbers, and underscores")
	ErrUsernameTaken             = errors.New("username already taken")
	ErrNotOwner                  = errors.New("only the owner can perform this action")
	ErrSlotMismatch              = errors.New("slot address does not match username")

	// Input validation.
	ErrInvalidEncryptionKey = errors.New("encryption key must be 32 bytes")
	ErrInvalidPublicKey     = errors.New("invalid public key")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal         = errors.New("internal error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidSignature = errors.New("invalid signature")

	// Session token errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
