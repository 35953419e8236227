package envelope

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates the input does not start with the envelope marker.
	ErrFormat = errors.New("not an encrypted file")

	// ErrAuthentication indicates the ciphertext could not be authenticated.
	// Wrong keys, corrupted bytes and truncated blobs all end up here.
	ErrAuthentication = errors.New("authentication failed")

	// ErrUnknownCipher indicates a cipher name that is not registered.
	ErrUnknownCipher = errors.New("unknown cipher")
)

// IOError reports a failure to read or write a file during a seal or open.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
