// Package envelope implements the encryption-at-rest format used for every
// file stored in a vault.
//
// # Key Derivation
//
// A single secret string is turned into 32 bytes of key material with one
// SHA-256 pass:
//
//	key := envelope.DeriveKey(secret)
//
// There is no salt and no iteration count. The same secret always yields the
// same key, and every file in every vault shares it. This is the scheme the
// vault format was defined with; changing it would make existing files
// unreadable.
//
// # Envelope Format
//
// An envelope is the 11-byte ASCII marker "SECUREVAULT" followed by an opaque
// blob produced by a Cipher:
//
//	offset 0..10   : "SECUREVAULT"
//	offset 11..end : cipher blob
//
// The marker only identifies vault files. Anyone can write it, so it is
// checked before decryption to reject foreign files early and nothing more.
//
// # Ciphers
//
// The default cipher is Fernet (AES-128-CBC with PKCS7 padding, HMAC-SHA256,
// a timestamp and a random IV, all URL-safe base64 encoded), which keeps
// files byte-compatible with vaults written by earlier releases. NaCl
// secretbox, XChaCha20-Poly1305 and AES-256-GCM are available for new
// vaults that do not need that compatibility:
//
//	env, err := envelope.New(secret, envelope.WithCipherName("xchacha20poly1305"))
//
// The configured cipher only decides how new files are sealed. Open tries it
// first and then the other registered ciphers, so files sealed before a
// cipher change still open. Every cipher verifies its authentication tag
// before releasing plaintext. A blob no cipher accepts is reported as
// ErrAuthentication.
//
// # File Operations
//
// EncryptFile seals a file in place, destroying the plaintext at that path.
// DecryptFile writes the plaintext to a different path and leaves the
// envelope untouched. Both buffer the whole file in memory and write through
// a temporary file that is renamed into place, so a failed write leaves the
// target as it was. Neither guards against concurrent use of the same path;
// the vault package adds per-path locking on top.
//
// # Errors
//
//   - ErrFormat: input does not start with the marker.
//   - ErrAuthentication: tag verification or decryption failed.
//   - *IOError: the file could not be read or written.
package envelope
