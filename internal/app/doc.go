// Package app wires application dependencies for the CLI.
//
// Load resolves Config from a .env file, an optional .signa.yaml, SIGNA_*
// environment variables and flags. NewWire builds the file storage, session
// store, REST client and services from it and loads the persisted session.
// Router carries navigation requests back to the running command.
package app
