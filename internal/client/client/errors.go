package client

import (
	"errors"

	"github.com/dmitrijs2005/keyregistry/internal/common"
)

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotAuthenticated      = errors.New("not signed in")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
	ErrMalformedResponse     = errors.New("malformed server response")
)

// serverErrors are recognised by the status message the server sends with
// them.
var serverErrors = []error{
	common.ErrInvalidUsernameLength,
	common.ErrInvalidUsernameCharacters,
	common.ErrInvalidEncryptionKey,
	common.ErrInvalidPublicKey,
	common.ErrUsernameTaken,
	common.ErrNotOwner,
	common.ErrNotFound,
	common.ErrSlotMismatch,
	common.ErrInvalidSignature,
}
