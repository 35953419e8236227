// Package configs manages SecureVault configuration and the login session.
//
// Configuration is stored in TOML at $XDG_CONFIG_HOME/securevault/config.toml:
//
//	[vault]
//	root = "~/.local/share/securevault/vault"
//	cipher = "fernet"
//
//	[database]
//	path = "~/.local/share/securevault/users.db"
//
//	[secret]
//	env = "SECUREVAULT_SECRET"
//	value = ""
//
// A missing file or empty field falls back to the defaults above. Setting
// SECUREVAULT_HOME places the config, session, vault and database under one
// directory instead, which is how portable installs and tests run.
//
// # Secret Resolution
//
// The encryption secret is resolved in order: the environment variable named
// by secret.env, then secret.value, then the built-in DefaultSecret that
// earlier releases compiled in. Every user and every file shares the key
// derived from it; the secret is only read here and handed to
// envelope.New.
//
// # Session
//
// Login state lives in session.toml next to the config: the username, a
// random session ID and the login time. LoadSession returns
// errors.ErrNotLoggedIn when no session exists.
//
// # Settings
//
// VaultSettings holds the resolved paths and is initialized at startup.
// Tests point it at a temporary directory with UseHome.
package configs
