// Package cli provides the interactive keyregistry command-line client.
//
// It wires configuration, the local key file, the contacts cache, the API
// client and a REPL that keeps working offline for cached lookups. Typical
// flow: generate or load the identity key, sign in, start a background
// connectivity watcher and execute user commands.
//
// Key features:
//   - keygen / login / logout / whoami
//   - register, transfer, rotate and close owned usernames
//   - lookup and check any username; verified records are cached
//   - seal / open messages for a username's published encryption key
//   - history of a username from the server's audit journal
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
