package models

import "time"

// RefreshToken is a persisted, single-use session renewal token.
// Subject is the base58 public key the session was issued to.
type RefreshToken struct {
	Token     string
	Subject   string
	Expires   time.Time
	CreatedAt time.Time
}
