// Package store provides the durable key/value medium behind the client
// session.
//
// FileStorage keeps a flat string map in a single JSON file under the
// configured home directory. Every update rewrites the whole file through a
// temp file and rename, so a crash never leaves a half-written map and keys
// written together stay together. When a passphrase is configured the map is
// sealed with a scrypt-derived ChaCha20-Poly1305 key instead of being written
// as plaintext.
package store
