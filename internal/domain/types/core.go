package types

import "strconv"

// SignID identifies a sign on the backend.
type SignID int64

// String returns the decimal form of the identifier.
func (id SignID) String() string { return strconv.FormatInt(int64(id), 10) }

// UserID identifies a backend user (sign owner or account).
type UserID int64

// String returns the decimal form of the identifier.
func (id UserID) String() string { return strconv.FormatInt(int64(id), 10) }

// Route names a view the client can move the user to.
type Route string

const (
	// RouteLogin is the unauthenticated entry point.
	RouteLogin Route = "/"
	// RouteSigns is the sign listing.
	RouteSigns Route = "/signs"
	// RouteRegisterSign is the creation wizard.
	RouteRegisterSign Route = "/register-sign"
)

// Ack is the body returned by delete endpoints.
type Ack struct {
	Message string `json:"message"`
}
