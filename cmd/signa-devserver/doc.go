// Package main runs the in-memory Signa API used by signa during development
// and demos. See package devserver for the routes it serves.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - One account is seeded from --admin-email and --admin-password.
//   - The default listen address is :5000, so the client's default
//     api_url (http://localhost:5000/api) reaches it unchanged.
//   - SIGINT or SIGTERM shuts the server down gracefully.
//
// This server is for local use only. Its token secret defaults to a fixed
// development value.
package main
