package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/secretbox"
)

// SecretBox seals with NaCl secretbox (XSalsa20-Poly1305).
// Blob layout: nonce(24) || box.
type SecretBox struct {
	Rand io.Reader
}

const secretboxNonceSize = 24

func (s *SecretBox) Name() string { return "secretbox" }

func (s *SecretBox) Overhead(int) int { return secretboxNonceSize + secretbox.Overhead }

func (s *SecretBox) Seal(plaintext []byte, key Key) ([]byte, error) {
	var nonce [secretboxNonceSize]byte
	if _, err := io.ReadFull(randReader(s.Rand), nonce[:]); err != nil {
		return nil, err
	}
	k := [KeySize]byte(key)
	return secretbox.Seal(nonce[:], plaintext, &nonce, &k), nil
}

func (s *SecretBox) Open(blob []byte, key Key) ([]byte, error) {
	if len(blob) < secretboxNonceSize+secretbox.Overhead {
		return nil, ErrAuthentication
	}
	var nonce [secretboxNonceSize]byte
	copy(nonce[:], blob[:secretboxNonceSize])
	k := [KeySize]byte(key)
	plaintext, ok := secretbox.Open(nil, blob[secretboxNonceSize:], &nonce, &k)
	if !ok {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// XChaCha20Poly1305 seals with XChaCha20-Poly1305.
// Blob layout: nonce(24) || ciphertext || tag(16).
type XChaCha20Poly1305 struct {
	Rand io.Reader
}

func (x *XChaCha20Poly1305) Name() string { return "xchacha20poly1305" }

func (x *XChaCha20Poly1305) Overhead(int) int {
	return chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
}

func (x *XChaCha20Poly1305) Seal(plaintext []byte, key Key) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}
	return sealNoncePrefixed(aead, randReader(x.Rand), plaintext)
}

func (x *XChaCha20Poly1305) Open(blob []byte, key Key) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}
	return openNoncePrefixed(aead, blob)
}

// AESGCM seals with AES-256-GCM.
// Blob layout: nonce(12) || ciphertext || tag(16).
type AESGCM struct {
	Rand io.Reader
}

func (a *AESGCM) Name() string { return "aes-256-gcm" }

func (a *AESGCM) Overhead(int) int { return 12 + 16 }

func (a *AESGCM) Seal(plaintext []byte, key Key) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return sealNoncePrefixed(gcm, randReader(a.Rand), plaintext)
}

func (a *AESGCM) Open(blob []byte, key Key) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return openNoncePrefixed(gcm, blob)
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func sealNoncePrefixed(aead cipher.AEAD, rand io.Reader, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func openNoncePrefixed(aead cipher.AEAD, blob []byte) ([]byte, error) {
	if len(blob) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrAuthentication
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}
