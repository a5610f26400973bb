package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/keyregistry/internal/client/client"
	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/cryptox"
)

// getSimpleText, getPassword and generateSeed are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	generateSeed  = cryptox.GenerateSeed
)

var errPassphraseMismatch = errors.New("passphrases do not match")

// Keygen creates a new identity and writes it to the configured key file.
// An existing file is only replaced when args contains "force". An empty
// passphrase stores the seed unencrypted.
func (a *App) Keygen(ctx context.Context, args []string) error {
	path := a.config.KeyFile
	force := len(args) > 0 && args[0] == "force"
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use 'keygen force' to replace it", path)
	}

	pass, err := getPassword("Passphrase (empty for none)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	if len(pass) > 0 {
		again, err := getPassword("Repeat passphrase", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(again)
		if !bytes.Equal(pass, again) {
			return errPassphraseMismatch
		}
	}

	seed := generateSeed()
	defer common.WipeByteArray(seed)

	id, err := cryptox.NewIdentity(seed)
	if err != nil {
		return err
	}
	if err := cryptox.WriteKeyFile(path, seed, pass); err != nil {
		return err
	}

	a.printf("Key written to %s\nPublic key: %s\n", path, id.Pubkey)
	return nil
}

// Login loads the identity from the key file and signs in.
//
// When the server is unavailable the identity is still loaded so cached
// lookups keep working; Mode reflects the outcome:
//   - ModeOnline if the server accepted the signature,
//   - ModeOffline if the server could not be reached,
//   - ModeDisabled if the key file could not be loaded.
func (a *App) Login(ctx context.Context, _ []string) error {
	id, err := a.loadIdentity()
	if err != nil {
		a.setMode(ModeDisabled)
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err = a.account.SignIn(ctx, id)
	switch {
	case errors.Is(err, client.ErrUnavailable):
		log.Printf("Server unavailable, continuing offline")
		a.setMode(ModeOffline)
	case err != nil:
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	default:
		log.Printf("Login successfull")
		a.setMode(ModeOnline)
	}

	a.identity = id
	a.userName, _ = a.account.Username(ctx)
	return nil
}

func (a *App) loadIdentity() (*cryptox.Identity, error) {
	path := a.config.KeyFile
	protected, err := cryptox.IsProtected(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no key file at %s, run 'keygen' first", path)
		}
		return nil, err
	}

	var pass []byte
	if protected {
		if pass, err = getPassword("Passphrase", a.out); err != nil {
			return nil, err
		}
		defer common.WipeByteArray(pass)
	}

	seed, err := cryptox.ReadKeyFile(path, pass)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(seed)

	return cryptox.NewIdentity(seed)
}

// Logout forgets the in-memory identity. The key file and the contacts
// cache are kept.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.identity = nil
	a.userName = ""
	return nil
}

// Whoami prints the loaded identity and its registered username.
func (a *App) Whoami(ctx context.Context, _ []string) error {
	a.printf("Public key:     %s\n", a.identity.Pubkey)
	a.printf("Encryption key: %s\n", keyText(a.identity.EncryptionKey))
	if name, err := a.account.Username(ctx); err == nil {
		a.printf("Username:       %s\n", name)
	}
	return nil
}
