package workflows

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/configs"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/users"
	"github.com/PolarWolf314/securevault/internal/vault"
)

// RegisterOptions configures the register workflow.
type RegisterOptions struct {
	Username string
	Password string
}

// RegisterResult contains the outcome of a register operation.
type RegisterResult struct {
	Username string

	// VaultDir is the folder created for the new user.
	VaultDir string
}

// Register creates an account and its vault folder.
//
// Returns ErrUserExists if the username is taken.
// Returns ErrInvalidUsername or ErrEmptyPassword for unusable input.
func Register(ctx context.Context, opts RegisterOptions) (*RegisterResult, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := openUsers(config)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.Register(ctx, opts.Username, opts.Password); err != nil {
		return nil, err
	}

	v, err := vault.New(config.Vault.Root, opts.Username, nil)
	if err != nil {
		// Without a vault the account is unusable, so do not keep it.
		if derr := store.Delete(ctx, opts.Username); derr != nil {
			return nil, errors.Join(err, fmt.Errorf("removing account: %w", derr))
		}
		return nil, err
	}

	audit.Log(audit.ForUser(opts.Username, "register"))

	return &RegisterResult{Username: opts.Username, VaultDir: v.Dir()}, nil
}

// LoginOptions configures the login workflow.
type LoginOptions struct {
	Username string
	Password string
}

// LoginResult contains the outcome of a login operation.
type LoginResult struct {
	Username  string
	SessionID string
	VaultDir  string

	// Replaced is the user whose session was ended by this login, if any.
	Replaced string
}

// Login checks credentials and starts a session.
//
// Returns ErrInvalidCredentials for an unknown user or wrong password.
func Login(ctx context.Context, opts LoginOptions) (*LoginResult, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := openUsers(config)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.Validate(ctx, opts.Username, opts.Password); err != nil {
		return nil, err
	}

	result := &LoginResult{Username: opts.Username}
	if previous, err := configs.LoadSession(); err == nil && previous.Username != opts.Username {
		result.Replaced = previous.Username
	}

	session, err := configs.StartSession(opts.Username)
	if err != nil {
		return nil, err
	}
	result.SessionID = session.ID
	result.VaultDir = filepath.Join(config.Vault.Root, opts.Username)

	audit.Log(audit.ForUser(opts.Username, "login"))

	return result, nil
}

// LogoutResult contains the outcome of a logout operation.
type LogoutResult struct {
	Username string
}

// Logout ends the current session.
//
// Returns ErrNotLoggedIn if no session exists.
func Logout(ctx context.Context) (*LogoutResult, error) {
	session, err := configs.LoadSession()
	if err != nil {
		return nil, err
	}

	if err := configs.EndSession(); err != nil {
		return nil, err
	}

	audit.Log(audit.ForUser(session.Username, "logout"))

	return &LogoutResult{Username: session.Username}, nil
}

// ResetPasswordOptions configures the password reset workflow.
type ResetPasswordOptions struct {
	Username string

	// NewPassword is the password to set. Ignored when Generate is true.
	NewPassword string

	// Generate sets a random password of GenerateLength characters.
	Generate       bool
	GenerateLength int
}

// ResetPasswordResult contains the outcome of a password reset.
type ResetPasswordResult struct {
	Username string

	// GeneratedPassword is set when the password was generated.
	GeneratedPassword string
}

// ResetPassword replaces the password of an existing account. Like the
// login screen's recovery flow, it needs only the username.
//
// Returns ErrUserNotFound if the account does not exist.
func ResetPassword(ctx context.Context, opts ResetPasswordOptions) (*ResetPasswordResult, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := openUsers(config)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	exists, err := store.Exists(ctx, opts.Username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, opts.Username)
	}

	result := &ResetPasswordResult{Username: opts.Username}
	password := opts.NewPassword
	if opts.Generate {
		password, err = users.GenerateRandomPassword(opts.GenerateLength)
		if err != nil {
			return nil, fmt.Errorf("generating password: %w", err)
		}
		result.GeneratedPassword = password
	}

	if err := store.ResetPassword(ctx, opts.Username, password); err != nil {
		return nil, err
	}

	entry := audit.ForUser(opts.Username, "passwd")
	entry.TargetUser = opts.Username
	if session, err := configs.LoadSession(); err == nil {
		entry.User = session.Username
	}
	audit.Log(entry)

	return result, nil
}

// WhoamiResult describes the current session.
type WhoamiResult struct {
	Username  string
	SessionID string
	LoginAt   time.Time
	VaultDir  string
}

// Whoami reports the logged-in user.
//
// Returns ErrNotLoggedIn if no session exists.
func Whoami(ctx context.Context) (*WhoamiResult, error) {
	session, err := configs.LoadSession()
	if err != nil {
		return nil, err
	}

	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return &WhoamiResult{
		Username:  session.Username,
		SessionID: session.ID,
		LoginAt:   session.LoginAt,
		VaultDir:  filepath.Join(config.Vault.Root, session.Username),
	}, nil
}
