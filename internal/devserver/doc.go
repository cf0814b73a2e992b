// Package devserver is an in-memory implementation of the Signa REST API for
// local development and tests.
//
// HTTP API (all under /api)
//
//	POST /auth/login
//	    Exchange {username, password} for an HS256 access token. The username
//	    is the account's email.
//
//	POST /sign/create
//	    Create a sign. The owner is looked up by email and reused when it
//	    exists; otherwise an account with a generated password is created and
//	    the password is returned in "note".
//
//	GET /sign/list
//	    Active signs of active owners, oldest first.
//
//	GET|PATCH|DELETE /sign/{id}
//	    Read, partially update or soft-delete one sign. PATCH accepts sign
//	    and owner fields plus "password" for the owner's credentials.
//
//	GET|POST /users, GET|PATCH|DELETE /users/{id}
//	    Account management.
//
// Behaviour
//
//   - Every route but login requires "Authorization: Bearer <token>".
//   - All state is held in memory and lost on process exit.
//   - Non-2xx responses carry {"error": "..."}.
//   - Passwords are stored as bcrypt hashes.
package devserver
