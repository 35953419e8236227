package errors

import "errors"

// Session errors indicate the command needs a logged-in user.
var (
	// ErrNotLoggedIn indicates no user session exists.
	ErrNotLoggedIn = errors.New("no user is logged in")
)

// User errors indicate issues with registration, login or password reset.
var (
	// ErrUserExists indicates the username is already registered.
	ErrUserExists = errors.New("username already exists")

	// ErrUserNotFound indicates the username is not registered.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidUsername indicates the username cannot be used as a vault directory name.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrEmptyPassword indicates an empty password was supplied.
	ErrEmptyPassword = errors.New("password cannot be empty")
)

// File errors indicate issues with files inside a vault.
var (
	// ErrFileNotFound indicates a vault file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrAlreadyExists indicates the destination of an operation is already occupied.
	ErrAlreadyExists = errors.New("file already exists")

	// ErrNotEncryptedName indicates a file selected for decryption lacks the .enc suffix.
	ErrNotEncryptedName = errors.New("not an encrypted file")

	// ErrInvalidFileName indicates a name that would escape the vault directory.
	ErrInvalidFileName = errors.New("invalid file name")
)

// Config errors indicate issues with the configuration file.
var (
	// ErrInvalidConfig indicates the configuration is malformed or has invalid values.
	ErrInvalidConfig = errors.New("configuration is invalid")
)
