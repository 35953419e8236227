package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/securevault/internal/configs"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/vault"
)

// StatusResult describes the installation and, when logged in, the vault.
type StatusResult struct {
	ConfigPath   string
	ConfigExists bool
	DataDir      string
	DatabasePath string
	VaultRoot    string

	// Users lists registered accounts in registration order.
	Users []string

	Cipher string

	// SecretSource is where the secret came from: env, config or default.
	SecretSource string

	// KeyFingerprint identifies the derived key without revealing it.
	KeyFingerprint string

	LoggedIn bool
	Username string
	VaultDir string

	Files          int
	EncryptedFiles int
	PlainFiles     int
	TotalSize      int64
}

// Status reports configuration, key and session details.
func Status(ctx context.Context) (*StatusResult, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	env, err := config.NewEnvelope()
	if err != nil {
		return nil, err
	}
	_, source := config.ResolveSecret()

	result := &StatusResult{
		ConfigPath:     configs.VaultSettings.ConfigPath,
		DataDir:        configs.VaultSettings.DataDir,
		DatabasePath:   config.Database.Path,
		VaultRoot:      config.Vault.Root,
		Cipher:         env.CipherName(),
		SecretSource:   source,
		KeyFingerprint: env.Fingerprint(),
	}
	if _, err := os.Stat(configs.VaultSettings.ConfigPath); err == nil {
		result.ConfigExists = true
	}

	// Status must not create the database as a side effect.
	if _, err := os.Stat(config.Database.Path); err == nil {
		store, err := openUsers(config)
		if err != nil {
			return nil, err
		}
		result.Users, err = store.List(ctx)
		store.Close()
		if err != nil {
			return nil, fmt.Errorf("listing users: %w", err)
		}
	}

	session, err := configs.LoadSession()
	if errors.Is(err, kerrors.ErrNotLoggedIn) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.LoggedIn = true
	result.Username = session.Username

	v, err := vault.New(config.Vault.Root, session.Username, env)
	if err != nil {
		return nil, err
	}
	result.VaultDir = v.Dir()

	entries, err := v.List(ctx, vault.ListOptions{})
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		result.Files++
		result.TotalSize += e.Size
		if e.Encrypted {
			result.EncryptedFiles++
		} else {
			result.PlainFiles++
		}
	}

	return result, nil
}
