// Package client is the backend handle of the staykeeper client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (Backend and Auth) for the identity
//     service and the vault table.
//  2. Unconfigured, the handle used when the backend URL or key is missing.
//     Every call fails with ErrNotInitialized so callers can degrade instead
//     of crashing.
//  3. SupabaseClient, an HTTP implementation speaking GoTrue (/auth/v1) and
//     PostgREST (/rest/v1). It persists the session through sessions.Storage
//     and refreshes it before expiry and once more on HTTP 401.
//  4. Local cache bootstrap (InitDatabase, RunMigrations) wiring an sqlite
//     database and applying the embedded goose migrations.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrNotInitialized, ErrUnauthorized, ErrUnavailable, ErrNoSession. Remote
// rejections are *APIError values whose Error() is the remote message.
//
// Concurrency & Contexts
//
// SupabaseClient is safe for concurrent use; the stored session is guarded
// by a mutex. All operations honor context cancellation.
package client
