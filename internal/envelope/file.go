package envelope

import (
	"os"
	"path/filepath"
)

// EncryptFile reads the file at path, seals it and overwrites the same path
// with the envelope. The plaintext at path is gone once this returns nil.
// The file keeps its permissions.
func (e *Envelope) EncryptFile(path string) error {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Op: "read", Path: path, Err: err}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &IOError{Op: "read", Path: path, Err: err}
	}

	sealed, err := e.Seal(plaintext)
	if err != nil {
		return err
	}

	if err := replaceFile(path, sealed, info.Mode().Perm()); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// DecryptFile opens the envelope at source and writes the plaintext to dest.
// The source is never modified. An existing file at dest is overwritten, so
// callers that must not clobber files check for dest first.
func (e *Envelope) DecryptFile(source, dest string) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return &IOError{Op: "read", Path: source, Err: err}
	}

	plaintext, err := e.Open(data)
	if err != nil {
		return err
	}

	// #nosec G306 -- decrypted files are meant to be used by the owner's other programs
	if err := replaceFile(dest, plaintext, 0644); err != nil {
		return &IOError{Op: "write", Path: dest, Err: err}
	}
	return nil
}

// OpenToPath is DecryptFile under the name the vault format documents use.
func (e *Envelope) OpenToPath(source, dest string) error {
	return e.DecryptFile(source, dest)
}

// replaceFile writes data to a temporary file next to path and renames it
// over path. path is either left as it was or holds all of data.
func replaceFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
