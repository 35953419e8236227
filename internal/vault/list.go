package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PolarWolf314/securevault/internal/envelope"
	"github.com/dustin/go-humanize"
)

// ModifiedFormat is how Entry.ModifiedString renders modification times.
const ModifiedFormat = "02-01-2006 15:04"

// Entry describes one file in the vault.
type Entry struct {
	Name      string
	Type      string
	Modified  time.Time
	Size      int64
	Encrypted bool
}

// HumanSize renders the size in SI units, e.g. "1.2 kB".
func (e Entry) HumanSize() string {
	return humanize.Bytes(uint64(e.Size))
}

// ModifiedString renders the modification time as day-month-year.
func (e Entry) ModifiedString() string {
	return e.Modified.Local().Format(ModifiedFormat)
}

// Age renders the modification time relative to now, e.g. "3 minutes ago".
func (e Entry) Age() string {
	return humanize.Time(e.Modified)
}

// FileType returns "EXT File" for a name with extension ext, or "File" when
// there is none.
func FileType(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "File"
	}
	return strings.ToUpper(ext) + " File"
}

// Sort orders accepted by List.
const (
	SortName        = "name"
	SortNameDesc    = "name-desc"
	SortModified    = "modified"
	SortModifiedAsc = "modified-asc"
	SortSize        = "size"
	SortSizeAsc     = "size-asc"
	SortType        = "type"
	SortTypeDesc    = "type-desc"
)

// SortOrders lists the accepted sort orders.
var SortOrders = []string{
	SortName, SortNameDesc,
	SortModified, SortModifiedAsc,
	SortSize, SortSizeAsc,
	SortType, SortTypeDesc,
}

// ListOptions filters and orders a listing.
type ListOptions struct {
	// Search keeps names containing it, ignoring case.
	Search string

	// Sort is one of SortOrders. Empty means SortName.
	Sort string
}

// List returns the files in the vault.
func (v *Vault) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	less, err := sorter(opts.Sort)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(v.dir)
	if err != nil {
		return nil, fmt.Errorf("reading vault: %w", err)
	}

	search := strings.ToLower(opts.Search)
	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !d.Type().IsRegular() {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(d.Name()), search) {
			continue
		}

		info, err := d.Info()
		if err != nil {
			// Removed since ReadDir.
			continue
		}

		entries = append(entries, Entry{
			Name:      d.Name(),
			Type:      FileType(d.Name()),
			Modified:  info.ModTime(),
			Size:      info.Size(),
			Encrypted: isSealedFile(filepath.Join(v.dir, d.Name())),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
	return entries, nil
}

func sorter(order string) (func(a, b Entry) bool, error) {
	byName := func(a, b Entry) bool {
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.Name < b.Name
	}

	switch order {
	case "", SortName:
		return byName, nil
	case SortNameDesc:
		return func(a, b Entry) bool { return byName(b, a) }, nil
	case SortModified:
		return func(a, b Entry) bool {
			if !a.Modified.Equal(b.Modified) {
				return a.Modified.After(b.Modified)
			}
			return byName(a, b)
		}, nil
	case SortModifiedAsc:
		return func(a, b Entry) bool {
			if !a.Modified.Equal(b.Modified) {
				return a.Modified.Before(b.Modified)
			}
			return byName(a, b)
		}, nil
	case SortSize:
		return func(a, b Entry) bool {
			if a.Size != b.Size {
				return a.Size > b.Size
			}
			return byName(a, b)
		}, nil
	case SortSizeAsc:
		return func(a, b Entry) bool {
			if a.Size != b.Size {
				return a.Size < b.Size
			}
			return byName(a, b)
		}, nil
	case SortType:
		return func(a, b Entry) bool {
			at, bt := strings.ToLower(a.Type), strings.ToLower(b.Type)
			if at != bt {
				return at < bt
			}
			return byName(a, b)
		}, nil
	case SortTypeDesc:
		return func(a, b Entry) bool {
			at, bt := strings.ToLower(a.Type), strings.ToLower(b.Type)
			if at != bt {
				return at > bt
			}
			return byName(a, b)
		}, nil
	}
	return nil, fmt.Errorf("unknown sort order %q (available: %s)", order, strings.Join(SortOrders, ", "))
}

// isSealedFile reports whether the file at path starts with the envelope marker.
func isSealedFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, len(envelope.Magic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return envelope.IsSealed(head)
}
