// Package cli provides the interactive QuoteHub command-line client.
//
// It wires configuration, the local token database, the REST client, the
// session gate and the services into a REPL. Commands that show a page go
// through the router, so protected pages send anonymous users to the login
// prompt and bring them back afterwards.
//
// Key features:
//   - Register / Login / Logout, with the session restored on start
//   - Browse quotes: filter, search, sort, paginate
//   - Add, edit and delete your own quotes
//   - Vote (one active vote per user)
//   - Dashboard statistics and profile maintenance
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
