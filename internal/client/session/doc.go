// Package session owns the client's notion of "who is signed in".
//
// A TokenStore keeps the bearer credential across runs, a Resolver turns
// that credential into a profile (clearing it when the backend refuses it),
// and Session exposes the resulting State to the REPL together with the
// login/logout transitions. Transitions never navigate by themselves; they
// return a NavigationIntent that the caller acts on.
package session
