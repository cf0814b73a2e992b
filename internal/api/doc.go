// Package api provides the HTTP implementation of the domain.AuthAPI,
// domain.SignAPI and domain.UserAPI interfaces used by signa.
//
// The Signa backend owns persistence and business rules; this package is a
// one-to-one wrapper over its REST endpoints:
//   - POST   /auth/login          exchange credentials for a bearer token
//   - POST   /sign/create         create a sign (and its owner if needed)
//   - GET    /sign/list           list signs with their owners
//   - GET    /sign/{id}           fetch one sign
//   - PATCH  /sign/{id}           partial update
//   - DELETE /sign/{id}           delete
//   - GET/POST/PATCH/DELETE /users[/{id}]
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Every request except login carries the session's bearer token.
// Failures are returned as *Error, classified by Kind; non-2xx responses
// surface the backend's {"error": "..."} message verbatim.
package api
