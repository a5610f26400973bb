package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is a REPL handler; args are the whitespace-separated words after
// the command name.
type command func(ctx context.Context, args []string) error

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Keygen(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Check(ctx context.Context, args []string) error
	Lookup(ctx context.Context, args []string) error
	Contacts(ctx context.Context, args []string) error
	Register(ctx context.Context, args []string) error
	Transfer(ctx context.Context, args []string) error
	Rotate(ctx context.Context, args []string) error
	CloseAccount(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Seal(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
}

var errNotLoggedIn = errors.New("not logged in, run 'login' first")

const (
	helpAnonymous = "Available commands: keygen, login, lookup, check, contacts, exit"
	helpLoggedIn  = "Available commands: whoami, register, transfer, rotate, close, history, lookup, check, contacts, seal, open, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the keyregistry CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Commands that act as the local identity are refused until 'login'
// succeeds. Handler errors are printed and the loop continues. The loop
// exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	anonymous := map[string]command{
		"keygen":   a.Keygen,
		"login":    a.Login,
		"check":    a.Check,
		"lookup":   a.Lookup,
		"contacts": a.Contacts,
	}
	identified := map[string]command{
		"logout":   a.Logout,
		"whoami":   a.Whoami,
		"register": a.Register,
		"transfer": a.Transfer,
		"rotate":   a.Rotate,
		"close":    a.CloseAccount,
		"history":  a.History,
		"seal":     a.Seal,
		"open":     a.Open,
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("kr> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		var h command
		if fn, ok := anonymous[cmd]; ok {
			h = fn
		} else if fn, ok := identified[cmd]; ok {
			if !a.isLoggedIn() {
				printlnFn("Error:", errNotLoggedIn)
				continue
			}
			h = fn
		} else {
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := h(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}
