package cli

import (
	"context"
	"strings"

	"github.com/mr-tron/base58"
)

// Seal encrypts the rest of the line for a username and prints it as base58.
func (a *App) Seal(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("seal <username> <message...>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	sealed, err := a.directory.Seal(ctx, a.identity, args[0], []byte(strings.Join(args[1:], " ")))
	if err != nil {
		return err
	}
	a.printf("%s\n", base58.Encode(sealed))
	return nil
}

// Open decrypts a base58 message sealed by the holder of a username.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("open <username> <sealed>")
	}
	sealed, err := base58.Decode(args[1])
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	msg, err := a.directory.Open(ctx, a.identity, args[0], sealed)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)
	return nil
}
