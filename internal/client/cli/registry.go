package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

func keyText(k registry.EncryptionKey) string {
	b, _ := k.MarshalText()
	return string(b)
}

func (a *App) printRecord(r *models.Record) {
	a.printf("Username:       %s\n", r.Username)
	a.printf("Slot:           %s (bump %d)\n", r.Slot, r.Bump)
	a.printf("Owner:          %s\n", r.Owner)
	a.printf("Encryption key: %s\n", keyText(r.EncryptionKey))
	a.printf("Payer:          %s\n", r.Payer)
	a.printf("Deposit:        %d\n", r.Deposit)
	a.printf("Created:        %s\n", r.CreatedAt.UTC().Format(time.RFC3339))
}

func (a *App) Check(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("check <username>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	av, err := a.directory.Check(ctx, args[0])
	if err != nil {
		return err
	}
	if av.Available {
		a.printf("%s is available (slot %s)\n", av.Username, av.Slot)
	} else {
		a.printf("%s is taken (slot %s)\n", av.Username, av.Slot)
	}
	return nil
}

// Lookup resolves a username and prints its verified record. A cached copy
// is printed when the server is unreachable.
func (a *App) Lookup(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("lookup <username>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	c, err := a.directory.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	a.printRecord(&c.Record)
	if c.Stale {
		a.printf("(offline: cached copy fetched %s)\n", c.FetchedAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func (a *App) Register(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("register <username>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rec, err := a.account.Register(ctx, a.identity, args[0])
	if err != nil {
		return err
	}
	a.userName = rec.Username
	a.printf("Registered %s at %s, deposit %d\n", rec.Username, rec.Slot, rec.Deposit)
	return nil
}

func (a *App) Transfer(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("transfer <username> <new-owner-pubkey>")
	}
	newOwner, err := registry.ParsePubkey(args[1])
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rec, err := a.account.Transfer(ctx, args[0], newOwner)
	if err != nil {
		return err
	}
	if rec.Username == a.userName {
		a.userName = ""
	}
	a.printf("Transferred %s to %s\n", rec.Username, rec.Owner)
	return nil
}

// Rotate publishes the loaded identity's encryption key for a username the
// identity owns.
func (a *App) Rotate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("rotate <username>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rec, err := a.account.RotateKey(ctx, a.identity, args[0])
	if err != nil {
		return err
	}
	a.userName = rec.Username
	a.printf("Encryption key of %s is now %s\n", rec.Username, keyText(rec.EncryptionKey))
	return nil
}

// CloseAccount releases a username after the user retypes it.
func (a *App) CloseAccount(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("close <username>")
	}
	name := args[0]

	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Type %q to close it for good", name), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, name) {
		a.printf("Aborted\n")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	refund, err := a.account.CloseAccount(ctx, name)
	if err != nil {
		return err
	}
	if strings.EqualFold(a.userName, name) {
		a.userName = ""
	}
	a.printf("Closed %s, refunded %d to %s\n", name, refund.Amount, refund.To)
	return nil
}

func (a *App) History(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("history <username>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	events, err := a.account.History(ctx, args[0])
	if err != nil {
		return err
	}
	if len(events) == 0 {
		a.printf("No events\n")
		return nil
	}
	for _, e := range events {
		line := fmt.Sprintf("#%d %s %s by %s", e.Seq, e.CreatedAt.UTC().Format(time.RFC3339), e.Kind, e.Actor)
		if e.NewOwner != nil {
			line += " -> " + e.NewOwner.String()
		}
		if e.Refund > 0 {
			line += fmt.Sprintf(" refund %d", e.Refund)
		}
		a.printf("%s\n", line)
	}
	return nil
}

func (a *App) Contacts(ctx context.Context, _ []string) error {
	list, err := a.directory.Contacts(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("No cached contacts\n")
		return nil
	}
	for _, c := range list {
		a.printf("%-20s %s  fetched %s\n", c.Username, c.Owner, c.FetchedAt.UTC().Format(time.RFC3339))
	}
	return nil
}
