// Package cli provides the interactive wallet shell and the gophwallet
// command tree.
//
// The shell wires configuration, local storage, the account client and the
// route guard, then runs a REPL. The guard decides where the user may be
// after every session, welcome-flag or navigation change and redirects at
// most once per mount; the commands themselves move between screens the way
// the app's buttons would.
//
// Commands:
//   - shell (default): interactive session, see runREPL
//   - route --at <href>: one-shot decision for a location
//   - reset: wipe the local session and the welcome flag
package cli
