// Package cli provides the interactive staykeeper command-line client.
//
// It wires configuration, the local session cache, the backend handle and
// the sync service, then runs a REPL. On start it tries to resume the
// stored session; otherwise the user registers or logs in.
//
// Key features:
//   - Register / Login / Logout
//   - Show the current vault, push a JSON file as the new vault, export it
//   - Admin listing, lookup and deletion of vaults by email
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and FriendlyReason for details.
package cli
