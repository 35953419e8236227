// Package users stores SecureVault accounts in a SQLite database.
//
// The schema matches users.db files created by earlier releases:
//
//	users(id INTEGER PRIMARY KEY AUTOINCREMENT,
//	      username TEXT UNIQUE NOT NULL,
//	      password TEXT NOT NULL)
//
// Passwords are stored as the hex SHA-256 of the password so existing
// databases keep working. Accounts only gate which vault folder a session
// sees; file contents are protected by the envelope key, not by these
// passwords.
package users
