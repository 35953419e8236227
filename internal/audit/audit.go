package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PolarWolf314/securevault/internal/configs"
	"github.com/google/uuid"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`
	ID        string `json:"id"`
	User      string `json:"user,omitempty"`
	Operation string `json:"op"`

	Files      []string `json:"files,omitempty"`       // For upload/decrypt/download/delete.
	TargetUser string   `json:"target_user,omitempty"` // For passwd.
	Cipher     string   `json:"cipher,omitempty"`      // For upload/decrypt.
}

var mu sync.Mutex

// Log appends an entry to the audit log.
// Failures are swallowed; operations should not fail because auditing did.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// ForUser returns an entry for op performed by username.
func ForUser(username, op string) Entry {
	return Entry{User: username, Operation: op}
}

// LogPath returns the path to the audit log file, or "" when no data
// directory is configured.
func LogPath() string {
	if configs.VaultSettings == nil || configs.VaultSettings.DataDir == "" {
		return ""
	}
	return filepath.Join(configs.VaultSettings.DataDir, "audit.jsonl")
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i < len(data) && data[i] != '\n' {
			continue
		}
		line := data[start:i]
		start = i + 1
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Filter returns the entries matching user and op. Empty arguments match
// everything. The newest limit entries are kept when limit is positive.
func Filter(entries []Entry, user, op string, limit int) []Entry {
	var out []Entry
	for _, e := range entries {
		if user != "" && e.User != user {
			continue
		}
		if op != "" && e.Operation != op {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
