// Package cli provides the interactive CRTR Studio command-line client.
//
// It wires configuration, the local session store, the API client and an
// interactive REPL. On start the stored session (if any) is restored and a
// background watcher keeps the online/offline status in the prompt current.
//
// Commands:
//   - register / login: create an account or sign in
//   - me, dashboard: show the signed-in profile
//   - projects: list projects
//   - logout: end the session
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
