package workflows

import (
	"fmt"

	"github.com/PolarWolf314/securevault/internal/configs"
	"github.com/PolarWolf314/securevault/internal/envelope"
	"github.com/PolarWolf314/securevault/internal/users"
	"github.com/PolarWolf314/securevault/internal/vault"
)

// workspace is what a logged-in workflow operates on.
type workspace struct {
	config  *configs.Config
	session *configs.Session
	env     *envelope.Envelope
	vault   *vault.Vault
}

func loadConfig() (*configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return config, nil
}

func openUsers(config *configs.Config) (*users.Store, error) {
	store, err := users.Open(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening user database: %w", err)
	}
	return store, nil
}

// openWorkspace loads the session and the vault of the logged-in user.
// It returns errors.ErrNotLoggedIn without a session.
func openWorkspace() (*workspace, error) {
	session, err := configs.LoadSession()
	if err != nil {
		return nil, err
	}

	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	env, err := config.NewEnvelope()
	if err != nil {
		return nil, err
	}

	v, err := vault.New(config.Vault.Root, session.Username, env)
	if err != nil {
		return nil, err
	}

	return &workspace{config: config, session: session, env: env, vault: v}, nil
}
