// Package auth mints and verifies the HMAC-signed JWTs used for login
// challenges and access sessions.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind separates challenge tokens from access tokens so one can never be
// replayed as the other.
type Kind string

const (
	KindChallenge Kind = "challenge"
	KindAccess    Kind = "access"
)

// Claims carries the standard claims plus the token kind. Subject is the
// base58 public key of the session owner.
type Claims struct {
	jwt.RegisteredClaims
	Kind Kind `json:"knd"`
}

// GenerateToken signs a token of the given kind for subject, valid from now
// for validity. Each token gets a random ID.
func GenerateToken(kind Kind, subject string, secretKey []byte, now time.Time, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Kind: kind,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature, expiry (against now) and kind, and returns
// the claims. Expired tokens yield common.ErrTokenExpired; anything else
// wrong yields common.ErrInvalidToken.
func ParseToken(tokenString string, kind Kind, secretKey []byte, now time.Time) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Kind != kind || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetSubjectFromToken is ParseToken for access tokens, returning only the
// subject.
func GetSubjectFromToken(tokenString string, secretKey []byte, now time.Time) (string, error) {
	claims, err := ParseToken(tokenString, KindAccess, secretKey, now)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
