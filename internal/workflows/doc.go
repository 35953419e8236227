// Package workflows provides high-level orchestration for SecureVault commands.
//
// Workflows coordinate configs, users, vault and audit to implement complete
// user-facing features. Each workflow handles a single command's business
// logic, independent of CLI concerns like flag parsing, spinners and output
// formatting.
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Collects passwords from the terminal or stdin
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading configuration and resolving the encryption secret
//   - Checking the login session
//   - Performing the operation
//   - Recording audit trail entries
//
// # Available Workflows
//
// Accounts: Register, Login, Logout, ResetPassword, Whoami.
// Files (require login): Upload, Decrypt, List, Delete, Download, Open.
// Inspection: Log, Status.
//
// # Error Handling
//
// Workflows return typed errors from internal/errors and internal/envelope so
// the CLI can pick a message with errors.Is:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, envelope.ErrAuthentication) {
//	    // wrong secret or tampered file
//	}
//
// Workflows that act on several files attempt every file and return both the
// partial result and the joined errors.
package workflows
