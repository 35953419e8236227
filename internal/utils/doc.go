// Package utils provides shared helpers for the SecureVault application.
//
// # String Utilities
//
//   - FormatPaths: formats file paths as an indented list for CLI output
//   - SanitizeFileName: turns an uploaded file name into a vault entry name
//
// # System Utilities
//
//   - GetUsername: returns the current operating system username
//
// # Terminal and I/O Utilities
//
//   - ReadPassword: prompts for a password without echo
//   - ReadSecretLine: reads one line (a password) from a reader, for piped input
//   - IsTerminal: checks whether stdin is a terminal
package utils
