package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/vault"
)

// UploadOptions configures the upload workflow.
type UploadOptions struct {
	// Patterns are files, directories or globs to upload.
	Patterns []string
}

// UploadedFile pairs a source file with the vault name it was stored under.
type UploadedFile struct {
	Source string
	Name   string
}

// UploadResult contains the outcome of an upload operation.
type UploadResult struct {
	Uploaded []UploadedFile
	Cipher   string
	VaultDir string
}

// Upload copies files into the logged-in user's vault and seals them.
//
// Returns ErrNotLoggedIn without a session, ErrNoFilesFound if the patterns
// match nothing, and ErrAlreadyExists (joined per file) for names already in
// the vault.
func Upload(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, err
	}

	sources, err := vault.ResolveSources(opts.Patterns)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{Cipher: ws.env.CipherName(), VaultDir: ws.vault.Dir()}
	var errs []error
	for _, src := range sources {
		name, err := ws.vault.Add(ctx, src)
		if err != nil {
			errs = append(errs, fmt.Errorf("uploading %s: %w", src, err))
			continue
		}
		result.Uploaded = append(result.Uploaded, UploadedFile{Source: src, Name: name})
	}

	if len(result.Uploaded) > 0 {
		entry := audit.ForUser(ws.session.Username, "upload")
		entry.Cipher = result.Cipher
		for _, f := range result.Uploaded {
			entry.Files = append(entry.Files, f.Name)
		}
		audit.Log(entry)
	}

	return result, errors.Join(errs...)
}

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// Names are vault files ending in .enc.
	Names []string
}

// DecryptedFile pairs a sealed vault file with its plaintext copy.
type DecryptedFile struct {
	Source string
	Name   string
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Decrypted []DecryptedFile
	VaultDir  string
}

// Decrypt writes the plaintext of each named file next to it in the vault.
//
// Per file it may fail with ErrNotEncryptedName, ErrAlreadyExists,
// ErrFileNotFound, envelope.ErrFormat or envelope.ErrAuthentication.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, err
	}

	result := &DecryptResult{VaultDir: ws.vault.Dir()}
	var errs []error
	for _, name := range opts.Names {
		plain, err := ws.vault.Decrypt(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("decrypting %s: %w", name, err))
			continue
		}
		result.Decrypted = append(result.Decrypted, DecryptedFile{Source: name, Name: plain})
	}

	if len(result.Decrypted) > 0 {
		entry := audit.ForUser(ws.session.Username, "decrypt")
		entry.Cipher = ws.env.CipherName()
		for _, f := range result.Decrypted {
			entry.Files = append(entry.Files, f.Source)
		}
		audit.Log(entry)
	}

	return result, errors.Join(errs...)
}

// ListOptions configures the list workflow.
type ListOptions struct {
	Search string
	Sort   string
}

// ListResult contains the vault listing.
type ListResult struct {
	Username string
	VaultDir string
	Entries  []vault.Entry
}

// List returns the files in the logged-in user's vault.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, err
	}

	entries, err := ws.vault.List(ctx, vault.ListOptions{Search: opts.Search, Sort: opts.Sort})
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Username: ws.session.Username,
		VaultDir: ws.vault.Dir(),
		Entries:  entries,
	}, nil
}

// DeleteOptions configures the delete workflow.
type DeleteOptions struct {
	Names []string
}

// DeleteResult contains the outcome of a delete operation.
type DeleteResult struct {
	Deleted []string
}

// Delete removes files from the logged-in user's vault.
func Delete(ctx context.Context, opts DeleteOptions) (*DeleteResult, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, err
	}

	deleted, err := ws.vault.Delete(ctx, opts.Names...)
	if len(deleted) > 0 {
		entry := audit.ForUser(ws.session.Username, "delete")
		entry.Files = deleted
		audit.Log(entry)
	}

	return &DeleteResult{Deleted: deleted}, err
}

// DownloadOptions configures the download workflow.
type DownloadOptions struct {
	Name string

	// Dest is a file path or an existing directory.
	Dest string
}

// DownloadResult contains the outcome of a download operation.
type DownloadResult struct {
	Path string
}

// Download copies a vault file, as stored, to Dest without overwriting.
func Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, err
	}

	path, err := ws.vault.Download(ctx, opts.Name, opts.Dest)
	if err != nil {
		return nil, err
	}

	entry := audit.ForUser(ws.session.Username, "download")
	entry.Files = []string{opts.Name}
	audit.Log(entry)

	return &DownloadResult{Path: path}, nil
}

// OpenOptions configures the open workflow.
type OpenOptions struct {
	Name string

	// Opener launches the viewer. Nil uses the system opener.
	Opener vault.Opener
}

// OpenResult contains the outcome of an open operation.
type OpenResult struct {
	Path string
}

// Open hands a vault file to the desktop's default application.
func Open(ctx context.Context, opts OpenOptions) (*OpenResult, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, err
	}

	path, err := ws.vault.Open(ctx, opts.Name, opts.Opener)
	if err != nil {
		return nil, err
	}

	entry := audit.ForUser(ws.session.Username, "open")
	entry.Files = []string{opts.Name}
	audit.Log(entry)

	return &OpenResult{Path: path}, nil
}
