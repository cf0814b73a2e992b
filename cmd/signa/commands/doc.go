// Package commands defines the signa CLI and wires dependencies for subcommands.
//
// Commands
//
//   - login          Authenticate and store the session
//   - logout         Clear the stored session
//   - whoami         Show the logged-in user and token expiry
//   - register-sign  Create a sign with the three-step wizard
//   - signs          List, show, edit and delete signs
//   - users          List, show, create, edit and delete users
//   - config         Show the resolved configuration
//
// # Implementation
//
// The root command loads configuration and builds the dependency graph
// (storage, session, REST client, services) before a subcommand runs. The
// session and the wizard report navigation through an app.Router, whose
// handlers print the view the user was sent to.
package commands
