package vault

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

// Opener hands a file to the desktop's default application.
type Opener func(ctx context.Context, path string) error

// SystemOpener launches xdg-open, open or rundll32 depending on the OS.
func SystemOpener(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, args := openCommand(runtime.GOOS, path)
	// Not bound to ctx: the viewer outlives this process.
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", name, err)
	}
	return cmd.Process.Release()
}

func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open passes the named file to opener, or SystemOpener when opener is nil.
// Sealed files open as ciphertext; decrypt first to view contents.
func (v *Vault) Open(ctx context.Context, name string, opener Opener) (string, error) {
	path, err := v.Path(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, name)
	}

	if opener == nil {
		opener = SystemOpener
	}
	if err := opener(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}
