package envelope

import (
	"bytes"
	"errors"
	"fmt"
)

// Magic is the marker every envelope starts with.
const Magic = "SECUREVAULT"

var magic = []byte(Magic)

// Envelope seals and opens data with a fixed key and cipher.
// The key never changes after New returns, so an Envelope is safe for
// concurrent use.
type Envelope struct {
	key    Key
	cipher Cipher
}

// Option configures an Envelope.
type Option func(*Envelope) error

// WithCipher sets the cipher used to seal and open blobs.
func WithCipher(c Cipher) Option {
	return func(e *Envelope) error {
		if c == nil {
			return fmt.Errorf("%w: nil cipher", ErrUnknownCipher)
		}
		e.cipher = c
		return nil
	}
}

// WithCipherName looks up a registered cipher by name.
func WithCipherName(name string) Option {
	return func(e *Envelope) error {
		c, err := CipherByName(name)
		if err != nil {
			return err
		}
		e.cipher = c
		return nil
	}
}

// withKey replaces the key derived from the secret.
func withKey(key Key) Option {
	return func(e *Envelope) error {
		e.key = key
		return nil
	}
}

// New derives the key from secret and returns an Envelope using the
// DefaultCipher unless an Option says otherwise.
func New(secret string, opts ...Option) (*Envelope, error) {
	e := &Envelope{
		key:    DeriveKey(secret),
		cipher: &Fernet{},
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// CipherName returns the name of the configured cipher.
func (e *Envelope) CipherName() string {
	return e.cipher.Name()
}

// Fingerprint identifies the key without revealing it.
func (e *Envelope) Fingerprint() string {
	return e.key.Fingerprint()
}

// Overhead is the envelope length minus the plaintext length for a plaintext
// of n bytes.
func (e *Envelope) Overhead(n int) int {
	return len(magic) + e.cipher.Overhead(n)
}

// Seal encrypts plaintext and prefixes the marker.
func (e *Envelope) Seal(plaintext []byte) ([]byte, error) {
	return seal(e.cipher, plaintext, e.key)
}

// Open checks the marker and then authenticates and decrypts the remainder.
// Blobs sealed with another registered cipher open too, so changing the
// configured cipher does not strand existing files.
func (e *Envelope) Open(data []byte) ([]byte, error) {
	return open(e.cipher, data, e.key)
}

// Seal encrypts plaintext with the default cipher.
func Seal(plaintext []byte, key Key) ([]byte, error) {
	return seal(&Fernet{}, plaintext, key)
}

// Open decrypts an envelope sealed with any registered cipher, trying the
// default cipher first.
func Open(data []byte, key Key) ([]byte, error) {
	return open(&Fernet{}, data, key)
}

// IsSealed reports whether data starts with the envelope marker.
// It does not authenticate anything.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

func seal(c Cipher, plaintext []byte, key Key) ([]byte, error) {
	blob, err := c.Seal(plaintext, key)
	if err != nil {
		return nil, fmt.Errorf("sealing with %s: %w", c.Name(), err)
	}
	out := make([]byte, 0, len(magic)+len(blob))
	out = append(out, magic...)
	return append(out, blob...), nil
}

func open(c Cipher, data []byte, key Key) ([]byte, error) {
	if !IsSealed(data) {
		return nil, ErrFormat
	}
	blob := data[len(magic):]
	plaintext, err := c.Open(blob, key)
	if errors.Is(err, ErrAuthentication) {
		plaintext, err = openWithOthers(c.Name(), blob, key)
	}
	if err != nil {
		return nil, err
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// openWithOthers tries every registered cipher except skip. Each one
// authenticates before returning plaintext.
func openWithOthers(skip string, blob []byte, key Key) ([]byte, error) {
	for _, name := range CipherNames() {
		if name == skip {
			continue
		}
		c, err := CipherByName(name)
		if err != nil {
			continue
		}
		if plaintext, err := c.Open(blob, key); err == nil {
			return plaintext, nil
		}
	}
	return nil, ErrAuthentication
}
