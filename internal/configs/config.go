package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/PolarWolf314/securevault/internal/envelope"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

const (
	// DefaultSecret is the secret compiled into earlier releases. Vault files
	// written by them only open with a key derived from it.
	DefaultSecret = "this_is_a_strong_secret_key_used_for_encryption"

	// DefaultSecretEnv is the environment variable checked for the secret.
	DefaultSecretEnv = "SECUREVAULT_SECRET"
)

type Config struct {
	Vault    VaultConfig    `toml:"vault"`
	Database DatabaseConfig `toml:"database"`
	Secret   SecretConfig   `toml:"secret"`
}

type VaultConfig struct {
	Root   string `toml:"root"`
	Cipher string `toml:"cipher"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type SecretConfig struct {
	Env   string `toml:"env"`
	Value string `toml:"value,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Vault: VaultConfig{
			Root:   filepath.Join(VaultSettings.DataDir, "vault"),
			Cipher: envelope.DefaultCipher,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(VaultSettings.DataDir, "users.db"),
		},
		Secret: SecretConfig{
			Env: DefaultSecretEnv,
		},
	}
}

// LoadConfig loads the configuration file, falling back to defaults for a
// missing file or empty fields.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(VaultSettings.ConfigPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(VaultSettings.ConfigPath, config); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(VaultSettings.ConfigPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// EnsureConfig writes the default configuration if no config file exists.
// It reports whether a file was created.
func EnsureConfig() (*Config, bool, error) {
	if _, err := os.Stat(VaultSettings.ConfigPath); err == nil {
		config, err := LoadConfig()
		return config, false, err
	}

	config := DefaultConfig()
	if err := SaveConfig(config); err != nil {
		return nil, false, err
	}
	return config, true, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if !slices.Contains(envelope.CipherNames(), c.Vault.Cipher) {
		return fmt.Errorf("%w: unknown cipher %q (available: %v)", kerrors.ErrInvalidConfig, c.Vault.Cipher, envelope.CipherNames())
	}
	return nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Vault.Root == "" {
		c.Vault.Root = defaults.Vault.Root
	}
	if c.Vault.Cipher == "" {
		c.Vault.Cipher = defaults.Vault.Cipher
	}
	if c.Database.Path == "" {
		c.Database.Path = defaults.Database.Path
	}
	if c.Secret.Env == "" {
		c.Secret.Env = defaults.Secret.Env
	}
	c.Vault.Root = ExpandHome(c.Vault.Root)
	c.Database.Path = ExpandHome(c.Database.Path)
}

// Secret sources reported by ResolveSecret.
const (
	SecretFromEnv     = "env"
	SecretFromConfig  = "config"
	SecretFromDefault = "default"
)

// ResolveSecret returns the encryption secret and where it came from.
func (c *Config) ResolveSecret() (string, string) {
	if c.Secret.Env != "" {
		if secret, ok := os.LookupEnv(c.Secret.Env); ok && secret != "" {
			return secret, SecretFromEnv
		}
	}
	if c.Secret.Value != "" {
		return c.Secret.Value, SecretFromConfig
	}
	return DefaultSecret, SecretFromDefault
}

// NewEnvelope builds the envelope for this configuration.
func (c *Config) NewEnvelope() (*envelope.Envelope, error) {
	secret, _ := c.ResolveSecret()
	return envelope.New(secret, envelope.WithCipherName(c.Vault.Cipher))
}
