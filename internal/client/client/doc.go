// Package client talks to the QuoteHub backend.
//
// # Overview
//
// The package provides:
//  1. The remote API contract (see the Client interface): auth, profile,
//     quote CRUD, votes and dashboard aggregates.
//  2. A REST implementation (see RESTClient) over two base URLs, one for the
//     auth service and one for the quote service. Authenticated requests get
//     their bearer token from an oauth2.TokenSource bound at startup, and a
//     401 on such a request is reported to the bound denial hook with the
//     token that was rejected.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI:
//     an SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Status codes map to sentinel errors that callers match with errors.Is:
// ErrUnauthorized (401), ErrForbidden (403), ErrNotFound (404), ErrRejected
// (400, 409, 422 and 2xx envelopes with success=false) and ErrUnavailable
// (5xx, timeouts, connection failures). Rejections come wrapped in *APIError
// with the service's message.
//
// Every request carries a fresh X-Request-ID.
package client
