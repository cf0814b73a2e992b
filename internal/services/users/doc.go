// Package users manages backend accounts through the users endpoints.
//
// Every call goes through the session guard first, so an unauthenticated
// caller gets the guard's error without a request being sent. Create checks
// that the draft is complete and Update rejects an empty patch before either
// reaches the backend.
package users
