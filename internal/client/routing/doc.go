// Package routing decides where the wallet app should be, given who the user
// is and where they currently are.
//
// The pieces, leaf to root:
//
//   - ParseHref / Location: split an href such as "/(auth)/verify-email" into
//     the segments and the group-free path the navigation host reports.
//   - BuildRouteConfig: derive the RouteConfig flags from a location.
//   - ClassifySession: fold a models.Session into one of four AuthState
//     variants (Authenticated, StoredCredentials, PendingVerification, Guest).
//   - Decide / DetermineRoute: the pure decision function.
//   - Guard: the navigation effect. It initialises once per mount (welcome
//     flag read, token validation), then redirects at most once.
//   - History: an in-memory navigation host for the shell and tests.
//
// Nothing in this package performs I/O except through the interfaces the
// Guard is constructed with.
package routing
