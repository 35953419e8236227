// Package vault manages a user's folder of sealed files.
//
// Each user owns <root>/<username>. Uploaded files are copied in under their
// base name with spaces replaced by underscores and ".enc" appended, then
// sealed in place with the configured envelope. Decrypting writes the
// plaintext next to the sealed file without the ".enc" suffix and leaves the
// sealed file untouched.
//
// No operation overwrites an existing vault entry or download target; those
// return errors.ErrAlreadyExists. Names passed to Vault methods are single
// path elements and are rejected with errors.ErrInvalidFileName otherwise.
//
// A Vault serializes add, decrypt and delete on the same path, so concurrent
// callers sharing one Vault cannot interleave writes to a file.
package vault
