// Package audit records SecureVault operations in an append-only trail.
//
// Every operation that changes or reveals vault contents (upload, decrypt,
// download, delete) and every account event (register, login, logout,
// password reset) appends one entry.
//
// # Log Format
//
// The trail is JSON Lines (one JSON object per line) in the data directory:
//
//	<data dir>/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - A random entry ID
//   - Username and operation name
//   - Operation-specific details (files, target user, cipher)
//
// # Usage
//
//	entry := audit.ForUser("alice", "upload")
//	entry.Files = uploaded
//	audit.Log(entry)
//
// # Failure Handling
//
// Logging is best-effort. A trail that cannot be written never fails the
// operation that produced it.
//
// # Reading Logs
//
// ReadEntries parses the trail for display. Malformed lines are skipped so a
// partial write does not hide the rest of the history.
package audit
