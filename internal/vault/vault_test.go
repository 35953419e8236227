package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/PolarWolf314/securevault/internal/envelope"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	env, err := envelope.New("this_is_a_strong_secret_key_used_for_encryption")
	if err != nil {
		t.Fatalf("envelope.New failed: %v", err)
	}
	v, err := New(t.TempDir(), "alice", env)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return v
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestNew(t *testing.T) {
	root := t.TempDir()
	v, err := New(root, "bob", nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if v.Dir() != filepath.Join(root, "bob") {
		t.Errorf("Expected dir under root, got %s", v.Dir())
	}
	info, err := os.Stat(v.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf("Expected vault directory to exist: %v", err)
	}

	for _, bad := range []string{"", ".", "..", "a/b", "../escape"} {
		if _, err := New(root, bad, nil); !errors.Is(err, kerrors.ErrInvalidUsername) {
			t.Errorf("New(%q): expected ErrInvalidUsername, got %v", bad, err)
		}
	}
}

func TestPath(t *testing.T) {
	v := newTestVault(t)

	p, err := v.Path("notes.txt.enc")
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if p != filepath.Join(v.Dir(), "notes.txt.enc") {
		t.Errorf("Unexpected path %s", p)
	}

	for _, bad := range []string{"", ".", "..", "../x", "a/b", `a\b`, "/etc/passwd"} {
		if _, err := v.Path(bad); !errors.Is(err, kerrors.ErrInvalidFileName) {
			t.Errorf("Path(%q): expected ErrInvalidFileName, got %v", bad, err)
		}
	}
}

func TestStoredName(t *testing.T) {
	tests := map[string]string{
		"/tmp/my notes.txt": "my_notes.txt.enc",
		"report.pdf":        "report.pdf.enc",
		"dir/two  spaces":   "two__spaces.enc",
		"already.enc":       "already.enc.enc",
	}
	for in, want := range tests {
		if got := StoredName(in); got != want {
			t.Errorf("StoredName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAdd(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	src := writeFile(t, filepath.Join(t.TempDir(), "my notes.txt"), "hello world")

	name, err := v.Add(ctx, src)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if name != "my_notes.txt.enc" {
		t.Errorf("Expected my_notes.txt.enc, got %s", name)
	}

	stored := readFile(t, filepath.Join(v.Dir(), name))
	if !envelope.IsSealed([]byte(stored)) {
		t.Error("Stored file is not sealed")
	}
	if readFile(t, src) != "hello world" {
		t.Error("Source file was modified")
	}

	info, err := os.Stat(filepath.Join(v.Dir(), name))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected mode 0600, got %o", perm)
	}
}

func TestAddRefusesOverwrite(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	src := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), "first")

	if _, err := v.Add(ctx, src); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	before := readFile(t, filepath.Join(v.Dir(), "a.txt.enc"))

	writeFile(t, src, "second")
	if _, err := v.Add(ctx, src); !errors.Is(err, kerrors.ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}
	if readFile(t, filepath.Join(v.Dir(), "a.txt.enc")) != before {
		t.Error("Existing vault file was modified")
	}
}

func TestAddErrors(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	if _, err := v.Add(ctx, filepath.Join(t.TempDir(), "missing")); !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
	if _, err := v.Add(ctx, t.TempDir()); !errors.Is(err, kerrors.ErrInvalidFileName) {
		t.Errorf("Expected ErrInvalidFileName for directory, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	src := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), "x")
	if _, err := v.Add(cancelled, src); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestAddRemovesCopyWhenSealFails(t *testing.T) {
	env, err := envelope.New("secret", envelope.WithCipher(&envelope.Fernet{Rand: emptyReader{}}))
	if err != nil {
		t.Fatalf("envelope.New failed: %v", err)
	}
	v, err := New(t.TempDir(), "alice", env)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	src := writeFile(t, filepath.Join(t.TempDir(), "plain.txt"), "do not leak")
	if _, err := v.Add(context.Background(), src); err == nil {
		t.Fatal("Expected Add to fail")
	}
	if _, err := os.Stat(filepath.Join(v.Dir(), "plain.txt.enc")); !os.IsNotExist(err) {
		t.Error("Plaintext copy was left in the vault")
	}
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, errors.New("no randomness") }

func TestDecrypt(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	src := writeFile(t, filepath.Join(t.TempDir(), "hello.txt"), "hello world")

	name, err := v.Add(ctx, src)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	plain, err := v.Decrypt(ctx, name)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plain != "hello.txt" {
		t.Errorf("Expected hello.txt, got %s", plain)
	}
	if got := readFile(t, filepath.Join(v.Dir(), plain)); got != "hello world" {
		t.Errorf("Expected decrypted content, got %q", got)
	}
	if !envelope.IsSealed([]byte(readFile(t, filepath.Join(v.Dir(), name)))) {
		t.Error("Sealed file was modified")
	}

	if _, err := v.Decrypt(ctx, name); !errors.Is(err, kerrors.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists on second decrypt, got %v", err)
	}
}

func TestDecryptErrors(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(v.Dir(), "plain.txt"), "not sealed")
	if _, err := v.Decrypt(ctx, "plain.txt"); !errors.Is(err, kerrors.ErrNotEncryptedName) {
		t.Errorf("Expected ErrNotEncryptedName, got %v", err)
	}
	if _, err := v.Decrypt(ctx, ".enc"); !errors.Is(err, kerrors.ErrNotEncryptedName) {
		t.Errorf("Expected ErrNotEncryptedName for bare suffix, got %v", err)
	}
	if _, err := v.Decrypt(ctx, "missing.enc"); !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
	if _, err := v.Decrypt(ctx, "../x.enc"); !errors.Is(err, kerrors.ErrInvalidFileName) {
		t.Errorf("Expected ErrInvalidFileName, got %v", err)
	}

	writeFile(t, filepath.Join(v.Dir(), "fake.txt.enc"), "plaintext with a suffix")
	if _, err := v.Decrypt(ctx, "fake.txt.enc"); !errors.Is(err, envelope.ErrFormat) {
		t.Errorf("Expected ErrFormat, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(v.Dir(), "fake.txt")); !os.IsNotExist(err) {
		t.Error("Failed decrypt left an output file")
	}
}

func TestDecryptWrongKey(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	right, _ := envelope.New("abc")
	wrong, _ := envelope.New("abd")
	v1, err := New(root, "alice", right)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v2, err := New(root, "alice", wrong)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	src := writeFile(t, filepath.Join(t.TempDir(), "s.txt"), "secret")
	name, err := v1.Add(ctx, src)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := v2.Decrypt(ctx, name); !errors.Is(err, envelope.ErrAuthentication) {
		t.Errorf("Expected ErrAuthentication, got %v", err)
	}
}

func TestDecryptAfterCipherChange(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	secret := "this_is_a_strong_secret_key_used_for_encryption"

	fernet, err := envelope.New(secret, envelope.WithCipherName("fernet"))
	if err != nil {
		t.Fatalf("envelope.New failed: %v", err)
	}
	xchacha, err := envelope.New(secret, envelope.WithCipherName("xchacha20poly1305"))
	if err != nil {
		t.Fatalf("envelope.New failed: %v", err)
	}

	before, err := New(root, "alice", fernet)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	old, err := before.Add(ctx, writeFile(t, filepath.Join(t.TempDir(), "old.txt"), "sealed with fernet"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	after, err := New(root, "alice", xchacha)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	fresh, err := after.Add(ctx, writeFile(t, filepath.Join(t.TempDir(), "new.txt"), "sealed with xchacha"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	for name, want := range map[string]string{old: "sealed with fernet", fresh: "sealed with xchacha"} {
		plain, err := after.Decrypt(ctx, name)
		if err != nil {
			t.Fatalf("Decrypt(%s) failed: %v", name, err)
		}
		if got := readFile(t, filepath.Join(after.Dir(), plain)); got != want {
			t.Errorf("Decrypt(%s) = %q, want %q", name, got, want)
		}
	}
}

func TestDelete(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(v.Dir(), "a.enc"), "a")
	writeFile(t, filepath.Join(v.Dir(), "b.enc"), "b")

	deleted, err := v.Delete(ctx, "a.enc", "missing.enc", "b.enc", "../c")
	if len(deleted) != 2 || deleted[0] != "a.enc" || deleted[1] != "b.enc" {
		t.Errorf("Expected a.enc and b.enc deleted, got %v", deleted)
	}
	if !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound in joined error, got %v", err)
	}
	if !errors.Is(err, kerrors.ErrInvalidFileName) {
		t.Errorf("Expected ErrInvalidFileName in joined error, got %v", err)
	}

	entries, err := v.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty vault, got %v", entries)
	}
}

func TestDownload(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	writeFile(t, filepath.Join(v.Dir(), "doc.txt"), "contents")

	outDir := t.TempDir()
	dest, err := v.Download(ctx, "doc.txt", outDir)
	if err != nil {
		t.Fatalf("Download to directory failed: %v", err)
	}
	if dest != filepath.Join(outDir, "doc.txt") {
		t.Errorf("Unexpected destination %s", dest)
	}
	if readFile(t, dest) != "contents" {
		t.Error("Downloaded content differs")
	}

	if _, err := v.Download(ctx, "doc.txt", outDir); !errors.Is(err, kerrors.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
	if readFile(t, dest) != "contents" {
		t.Error("Existing destination was modified")
	}

	named := filepath.Join(outDir, "renamed.txt")
	if got, err := v.Download(ctx, "doc.txt", named); err != nil || got != named {
		t.Errorf("Download to file path failed: %s, %v", got, err)
	}

	if _, err := v.Download(ctx, "missing", outDir); !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()
	writeFile(t, filepath.Join(v.Dir(), "doc.txt"), "contents")

	var opened string
	opener := func(_ context.Context, path string) error {
		opened = path
		return nil
	}

	path, err := v.Open(ctx, "doc.txt", opener)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if opened != path || path != filepath.Join(v.Dir(), "doc.txt") {
		t.Errorf("Expected opener to receive %s, got %s", path, opened)
	}

	if _, err := v.Open(ctx, "missing", opener); !errors.Is(err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}

	failing := func(context.Context, string) error { return errors.New("no viewer") }
	if _, err := v.Open(ctx, "doc.txt", failing); err == nil {
		t.Error("Expected opener error to be returned")
	}
}

func TestOpenCommand(t *testing.T) {
	tests := map[string][]string{
		"linux":   {"xdg-open", "/v/f"},
		"freebsd": {"xdg-open", "/v/f"},
		"darwin":  {"open", "/v/f"},
		"windows": {"rundll32", "url.dll,FileProtocolHandler", "/v/f"},
	}
	for goos, want := range tests {
		name, args := openCommand(goos, "/v/f")
		got := append([]string{name}, args...)
		if len(got) != len(want) {
			t.Errorf("%s: expected %v, got %v", goos, want, got)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: expected %v, got %v", goos, want, got)
				break
			}
		}
	}
}

func TestConcurrentAddSameName(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	srcs := make([]string, 8)
	for i := range srcs {
		srcs[i] = writeFile(t, filepath.Join(t.TempDir(), "same.txt"), "content")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, src := range srcs {
		wg.Add(1)
		go func(src string) {
			defer wg.Done()
			_, err := v.Add(ctx, src)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, kerrors.ErrAlreadyExists) {
				t.Errorf("Unexpected error: %v", err)
			}
		}(src)
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("Expected exactly one upload to succeed, got %d", succeeded)
	}
	if _, err := v.Decrypt(ctx, "same.txt.enc"); err != nil {
		t.Errorf("Surviving file does not decrypt: %v", err)
	}
}
