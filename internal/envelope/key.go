package envelope

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// KeySize is the length of derived key material in bytes.
const KeySize = 32

// Key is 256 bits of key material derived from a secret.
type Key [KeySize]byte

// DeriveKey hashes the UTF-8 bytes of secret with SHA-256.
// The empty string is a valid secret.
func DeriveKey(secret string) Key {
	return Key(sha256.Sum256([]byte(secret)))
}

// String returns the key in URL-safe base64, the form Fernet keys are
// usually exchanged in.
func (k Key) String() string {
	return base64.URLEncoding.EncodeToString(k[:])
}

// Fingerprint returns a short identifier for the key that does not reveal it.
func (k Key) Fingerprint() string {
	sum := sha256.Sum256(k[:])
	return hex.EncodeToString(sum[:8])
}

// parseKey decodes a URL-safe base64 key as produced by Key.String.
func parseKey(s string) (Key, error) {
	var k Key
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return k, err
	}
	if len(raw) != KeySize {
		return k, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(raw))
	}
	copy(k[:], raw)
	return k, nil
}
