package envelope

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const (
	fernetVersion   byte = 0x80
	fernetTimeLen        = 8
	fernetIVLen          = aes.BlockSize
	fernetMACLen         = sha256.Size
	fernetHeaderLen      = 1 + fernetTimeLen + fernetIVLen
	fernetMinLen         = fernetHeaderLen + aes.BlockSize + fernetMACLen
)

// Strict decoding rejects non-zero trailing bits, so no two encodings map to
// the same token.
var fernetEncoding = base64.URLEncoding.Strict()

var errPadding = errors.New("invalid padding")

// Fernet implements the Fernet token format: AES-128-CBC with PKCS7 padding,
// authenticated with HMAC-SHA256 and encoded as URL-safe base64. The first
// half of the key signs, the second half encrypts.
//
// The token timestamp is written but never checked for expiry.
type Fernet struct {
	// Rand supplies IVs. Defaults to crypto/rand.
	Rand io.Reader
	// Now supplies token timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (f *Fernet) Name() string { return "fernet" }

func (f *Fernet) Overhead(n int) int {
	padded := (n/aes.BlockSize + 1) * aes.BlockSize
	return fernetEncoding.EncodedLen(fernetHeaderLen+padded+fernetMACLen) - n
}

func (f *Fernet) Seal(plaintext []byte, key Key) ([]byte, error) {
	signingKey, encryptionKey := key[:KeySize/2], key[KeySize/2:]
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	tok := make([]byte, fernetHeaderLen+len(padded), fernetHeaderLen+len(padded)+fernetMACLen)
	tok[0] = fernetVersion
	binary.BigEndian.PutUint64(tok[1:], uint64(now().Unix()))
	iv := tok[1+fernetTimeLen : fernetHeaderLen]
	if _, err := io.ReadFull(randReader(f.Rand), iv); err != nil {
		return nil, err
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(tok[fernetHeaderLen:], padded)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(tok)
	tok = mac.Sum(tok)

	out := make([]byte, fernetEncoding.EncodedLen(len(tok)))
	fernetEncoding.Encode(out, tok)
	return out, nil
}

func (f *Fernet) Open(blob []byte, key Key) ([]byte, error) {
	tok := make([]byte, fernetEncoding.DecodedLen(len(blob)))
	n, err := fernetEncoding.Decode(tok, blob)
	if err != nil {
		return nil, ErrAuthentication
	}
	tok = tok[:n]
	if len(tok) < fernetMinLen || tok[0] != fernetVersion {
		return nil, ErrAuthentication
	}

	signingKey, encryptionKey := key[:KeySize/2], key[KeySize/2:]
	body, tag := tok[:len(tok)-fernetMACLen], tok[len(tok)-fernetMACLen:]
	mac := hmac.New(sha256.New, signingKey)
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, ErrAuthentication
	}

	ciphertext := body[fernetHeaderLen:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrAuthentication
	}
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, body[1+fernetTimeLen:fernetHeaderLen]).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// fernetTimestamp returns the creation time embedded in a Fernet blob
// without verifying it.
func fernetTimestamp(blob []byte) (time.Time, error) {
	tok := make([]byte, fernetEncoding.DecodedLen(len(blob)))
	n, err := fernetEncoding.Decode(tok, blob)
	if err != nil || n < fernetMinLen || tok[0] != fernetVersion {
		return time.Time{}, ErrAuthentication
	}
	return time.Unix(int64(binary.BigEndian.Uint64(tok[1:])), 0), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append(make([]byte, 0, len(data)+n), data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errPadding
		}
	}
	return data[:len(data)-n], nil
}
