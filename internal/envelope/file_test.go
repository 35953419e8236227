package envelope

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "note.txt.enc")
	dest := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(source, []byte("hello world"), 0600))

	env, err := New("this_is_a_strong_secret_key_used_for_encryption")
	require.NoError(t, err)

	require.NoError(t, env.EncryptFile(source))
	sealed, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.NotEqual(t, []byte("hello world"), sealed)
	assert.True(t, IsSealed(sealed))

	require.NoError(t, env.DecryptFile(source, dest))
	plaintext, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(plaintext))

	after, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, sealed, after, "decrypting must not touch the source")
}

func TestEncryptFile_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	env, err := New("abc")
	require.NoError(t, err)
	require.NoError(t, env.EncryptFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, env.Overhead(0), info.Size())

	require.NoError(t, env.OpenToPath(path, path+".out"))
	out, err := os.ReadFile(path + ".out")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEncryptFile_Missing(t *testing.T) {
	env, err := New("abc")
	require.NoError(t, err)

	err = env.EncryptFile(filepath.Join(t.TempDir(), "missing"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecryptFile_Errors(t *testing.T) {
	dir := t.TempDir()
	env, err := New("abc")
	require.NoError(t, err)
	other, err := New("abd")
	require.NoError(t, err)

	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte("not sealed"), 0600))
	err = env.DecryptFile(plain, filepath.Join(dir, "out1"))
	assert.ErrorIs(t, err, ErrFormat)
	assert.NoFileExists(t, filepath.Join(dir, "out1"))

	sealed := filepath.Join(dir, "sealed.enc")
	require.NoError(t, os.WriteFile(sealed, []byte("secret"), 0600))
	require.NoError(t, env.EncryptFile(sealed))
	err = other.DecryptFile(sealed, filepath.Join(dir, "out2"))
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.NoFileExists(t, filepath.Join(dir, "out2"))

	err = env.DecryptFile(sealed, filepath.Join(dir, "no", "such", "dir", "out3"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)

	err = env.DecryptFile(filepath.Join(dir, "missing.enc"), filepath.Join(dir, "out4"))
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
}

func TestDecryptFile_OverwritesDest(t *testing.T) {
	dir := t.TempDir()
	env, err := New("abc")
	require.NoError(t, err)

	source := filepath.Join(dir, "a.enc")
	dest := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(source, []byte("new"), 0600))
	require.NoError(t, env.EncryptFile(source))
	require.NoError(t, os.WriteFile(dest, []byte("old contents"), 0600))

	require.NoError(t, env.DecryptFile(source, dest))
	out, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(out))
}

func TestDecryptFile_FailedWriteLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	env, err := New("abc")
	require.NoError(t, err)

	source := filepath.Join(dir, "a.enc")
	require.NoError(t, os.WriteFile(source, []byte("contents"), 0600))
	require.NoError(t, env.EncryptFile(source))

	// A non-empty directory at dest makes the final rename fail.
	dest := filepath.Join(dir, "a")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "child"), 0700))

	err = env.DecryptFile(source, dest)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, "write", ioErr.Op)
	assert.DirExists(t, filepath.Join(dest, "child"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"a", "a.enc"}, names, "temporary file left behind")

	require.NoError(t, os.RemoveAll(dest))
	require.NoError(t, env.DecryptFile(source, dest))
	out, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "contents", string(out))
}

func TestEncryptFile_KeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("keep my mode"), 0600))
	require.NoError(t, os.Chmod(path, 0640))

	env, err := New("abc")
	require.NoError(t, err)
	require.NoError(t, env.EncryptFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
}
