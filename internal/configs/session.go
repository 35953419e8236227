package configs

import (
	"fmt"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/google/uuid"
)

type Session struct {
	Username string    `toml:"username"`
	ID       string    `toml:"id"`
	LoginAt  time.Time `toml:"login_at"`
}

// LoadSession returns the current session or ErrNotLoggedIn.
func LoadSession() (*Session, error) {
	if _, err := os.Stat(VaultSettings.SessionPath); os.IsNotExist(err) {
		return nil, kerrors.ErrNotLoggedIn
	}

	session := &Session{}
	if err := LoadTOML(VaultSettings.SessionPath, session); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Username == "" {
		return nil, kerrors.ErrNotLoggedIn
	}
	return session, nil
}

// StartSession records username as logged in, replacing any existing session.
func StartSession(username string) (*Session, error) {
	session := &Session{
		Username: username,
		ID:       uuid.New().String(),
		LoginAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := SaveTOML(VaultSettings.SessionPath, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// EndSession removes the session file. Ending a missing session is not an error.
func EndSession() error {
	if err := os.Remove(VaultSettings.SessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
