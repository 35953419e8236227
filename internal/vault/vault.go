package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/securevault/internal/envelope"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/utils"
)

// EncryptedSuffix is appended to the names of uploaded files.
const EncryptedSuffix = ".enc"

// Vault is one user's folder of sealed files.
type Vault struct {
	dir   string
	env   *envelope.Envelope
	locks *pathLocks
}

// New returns the vault for username under root, creating its directory.
func New(root, username string, env *envelope.Envelope) (*Vault, error) {
	if username == "" || username != filepath.Base(username) || username == "." || username == ".." {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidUsername, username)
	}

	dir := filepath.Join(root, username)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating vault directory: %w", err)
	}

	return &Vault{dir: dir, env: env, locks: newPathLocks()}, nil
}

// Dir returns the vault directory.
func (v *Vault) Dir() string {
	return v.dir
}

// Path returns the location of name inside the vault.
func (v *Vault) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", kerrors.ErrInvalidFileName, name)
	}
	return filepath.Join(v.dir, name), nil
}

// StoredName returns the vault name an upload of src is stored under.
func StoredName(src string) string {
	return utils.SanitizeFileName(src) + EncryptedSuffix
}

// Add copies src into the vault and seals the copy. It returns the stored
// name. The original file is not modified.
func (v *Vault) Add(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, src)
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", kerrors.ErrInvalidFileName, src)
	}

	name := StoredName(src)
	dest, err := v.Path(name)
	if err != nil {
		return "", err
	}

	unlock := v.locks.lock(dest)
	defer unlock()

	if err := copyFile(src, dest); err != nil {
		return "", err
	}

	if err := v.env.EncryptFile(dest); err != nil {
		_ = os.Remove(dest)
		return "", err
	}

	return name, nil
}

// Decrypt writes the plaintext of the sealed file name next to it and
// returns the plaintext's name.
func (v *Vault) Decrypt(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source, err := v.Path(name)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(name, EncryptedSuffix) || name == EncryptedSuffix {
		return "", fmt.Errorf("%w: %s", kerrors.ErrNotEncryptedName, name)
	}

	plainName := strings.TrimSuffix(name, EncryptedSuffix)
	dest, err := v.Path(plainName)
	if err != nil {
		return "", err
	}

	unlock := v.locks.lock(source, dest)
	defer unlock()

	if _, err := os.Stat(source); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, name)
	}
	if _, err := os.Lstat(dest); err == nil {
		return "", fmt.Errorf("%w: %s", kerrors.ErrAlreadyExists, plainName)
	}

	if err := v.env.DecryptFile(source, dest); err != nil {
		return "", err
	}
	return plainName, nil
}

// Delete removes the named files. It attempts every name and returns the
// ones removed along with any failures joined together.
func (v *Vault) Delete(ctx context.Context, names ...string) ([]string, error) {
	var deleted []string
	var errs []error

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := v.deleteOne(name); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted = append(deleted, name)
	}

	return deleted, errors.Join(errs...)
}

func (v *Vault) deleteOne(name string) error {
	path, err := v.Path(name)
	if err != nil {
		return err
	}

	unlock := v.locks.lock(path)
	defer unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, name)
		}
		return err
	}
	return nil
}

// Download copies the named file out of the vault as stored, without
// decrypting it. If dest is a directory the file keeps its name inside it.
// An existing destination file is never overwritten. It returns the path
// written.
func (v *Vault) Download(ctx context.Context, name, dest string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source, err := v.Path(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(source); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, name)
	}

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, name)
	}

	unlock := v.locks.lock(source)
	defer unlock()

	if err := copyFile(source, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// copyFile copies src to a new file at dest. It fails with ErrAlreadyExists
// rather than replace dest, and removes a partial copy on error.
func copyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return &envelope.IOError{Op: "read", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if os.IsExist(err) {
		return fmt.Errorf("%w: %s", kerrors.ErrAlreadyExists, filepath.Base(dest))
	}
	if err != nil {
		return &envelope.IOError{Op: "write", Path: dest, Err: err}
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = &envelope.IOError{Op: "write", Path: dest, Err: cerr}
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return &envelope.IOError{Op: "copy", Path: dest, Err: err}
	}
	return nil
}
