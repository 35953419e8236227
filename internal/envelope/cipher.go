package envelope

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"
)

// Cipher is an authenticated-encryption primitive that produces the opaque
// blob stored after the envelope marker.
type Cipher interface {
	// Name is the identifier used in configuration.
	Name() string

	// Seal encrypts and authenticates plaintext. Every call must use fresh
	// randomness, so sealing the same input twice gives different output.
	Seal(plaintext []byte, key Key) ([]byte, error)

	// Open verifies and decrypts a blob produced by Seal. It returns
	// ErrAuthentication for any blob it cannot authenticate and never returns
	// partial plaintext.
	Open(blob []byte, key Key) ([]byte, error)

	// Overhead is the blob length minus the plaintext length for a plaintext
	// of n bytes.
	Overhead(n int) int
}

// DefaultCipher is the cipher used when none is configured.
const DefaultCipher = "fernet"

var ciphers = map[string]func() Cipher{
	"fernet":            func() Cipher { return &Fernet{} },
	"secretbox":         func() Cipher { return &SecretBox{} },
	"xchacha20poly1305": func() Cipher { return &XChaCha20Poly1305{} },
	"aes-256-gcm":       func() Cipher { return &AESGCM{} },
}

// CipherByName returns a new instance of the named cipher.
func CipherByName(name string) (Cipher, error) {
	if name == "" {
		name = DefaultCipher
	}
	newCipher, ok := ciphers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCipher, name)
	}
	return newCipher(), nil
}

// CipherNames lists the registered cipher names in sorted order.
func CipherNames() []string {
	names := make([]string, 0, len(ciphers))
	for name := range ciphers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func randReader(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}
	return r
}
