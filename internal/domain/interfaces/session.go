package interfaces

import (
	"net/http"

	domaintypes "signa/internal/domain/types"
)

// HeaderSource supplies the headers for authenticated requests.
type HeaderSource interface {
	AuthHeaders() http.Header
}

// Guard admits callers only when an authenticated session is loaded.
type Guard interface {
	Require() error
}

// Navigator moves the user between views.
type Navigator interface {
	Navigate(route domaintypes.Route)
}
