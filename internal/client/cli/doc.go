// Package cli provides the interactive AdConnect command-line client.
//
// It wires configuration, the local store, the auth service and state
// machine, the listing catalog and the checkout widget behind a REPL.
//
// Key features:
//   - Signup / Login / Logout / Forgot password, with delayed redirects
//   - Browse adverts with search, name, location and price filters
//   - Advert details and payment handoff
//   - Profile with the user's own adverts
//   - Online/offline mode; the catalog is served from cache when offline
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
