package configs

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv overrides every default location when set.
const HomeEnv = "SECUREVAULT_HOME"

type Settings struct {
	ConfigPath  string
	SessionPath string
	DataDir     string
}

var VaultSettings *Settings

func init() {
	if home := os.Getenv(HomeEnv); home != "" {
		VaultSettings = UseHome(home)
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	VaultSettings = &Settings{
		ConfigPath:  filepath.Join(configDir, "securevault", "config.toml"),
		SessionPath: filepath.Join(configDir, "securevault", "session.toml"),
		DataDir:     filepath.Join(dataDir, "securevault"),
	}
}

// UseHome points VaultSettings at a single directory and returns the new settings.
func UseHome(home string) *Settings {
	VaultSettings = &Settings{
		ConfigPath:  filepath.Join(home, "config.toml"),
		SessionPath: filepath.Join(home, "session.toml"),
		DataDir:     home,
	}
	return VaultSettings
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
