// Package errors provides typed error values for the SecureVault application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Session errors: no user is logged in (ErrNotLoggedIn)
//   - User errors: registration and login failures (ErrUserExists, ErrInvalidCredentials)
//   - File errors: vault file lookups and collisions (ErrFileNotFound, ErrAlreadyExists)
//   - Config errors: unreadable or invalid configuration (ErrInvalidConfig)
//
// Cryptographic failures are not defined here. The envelope package owns
// ErrFormat and ErrAuthentication, and workflows pass them through wrapped.
//
// # Usage
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrAlreadyExists) {
//	    // Tell the user to delete or rename the existing file
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("decrypting %s: %w", name, kerrors.ErrAlreadyExists)
package errors
