package users

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	_ "modernc.org/sqlite"
)

// Store is a handle to the users database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL
);`

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows one writer; a single connection keeps concurrent callers
	// from failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashPassword returns the stored form of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// ValidateUsername rejects names that cannot be used as a vault folder.
func ValidateUsername(username string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return fmt.Errorf("%w: username is empty", kerrors.ErrInvalidUsername)
	case username == "." || username == "..":
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidUsername, username)
	case strings.ContainsAny(username, `/\`) || strings.ContainsRune(username, 0):
		return fmt.Errorf("%w: %q contains a path separator", kerrors.ErrInvalidUsername, username)
	}
	return nil
}

// Register creates a new account.
func (s *Store) Register(ctx context.Context, username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if password == "" {
		return kerrors.ErrEmptyPassword
	}

	exists, err := s.Exists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", kerrors.ErrUserExists, username)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, HashPassword(password),
	)
	if err != nil {
		// A concurrent register can still win the UNIQUE race.
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("%w: %s", kerrors.ErrUserExists, username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Validate checks a username and password pair.
// Unknown users and wrong passwords both return ErrInvalidCredentials.
func (s *Store) Validate(ctx context.Context, username, password string) error {
	var stored string
	err := s.db.QueryRowContext(ctx,
		"SELECT password FROM users WHERE username = ?", username,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return kerrors.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("query user: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(HashPassword(password))) != 1 {
		return kerrors.ErrInvalidCredentials
	}
	return nil
}

// ResetPassword replaces the password of an existing account.
func (s *Store) ResetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return kerrors.ErrEmptyPassword
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = ? WHERE username = ?",
		HashPassword(password), username,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, username)
	}
	return nil
}

// Delete removes the account named username.
func (s *Store) Delete(ctx context.Context, username string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, username)
	}
	return nil
}

// Exists reports whether an account named username exists.
func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE username = ?", username,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query user: %w", err)
	}
	return true, nil
}

// List returns all usernames in registration order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT username FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
