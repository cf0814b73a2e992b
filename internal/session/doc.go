// Package session holds the authenticated user's access token and profile.
//
// A Store is created in the loading state and becomes authoritative only
// after Init has probed the storage medium; until then IsAuthenticated
// reports false and Require returns ErrNotReady, so callers can tell "not
// loaded yet" apart from "logged out". Token and profile are always persisted,
// loaded and cleared together. Unreadable persisted data is handled as an
// implicit logout.
//
// The Store is passed explicitly to whatever needs auth headers or the
// authenticated-user guard; there is no package-level session.
package session
