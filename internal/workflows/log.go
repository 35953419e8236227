package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/configs"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit keeps the newest entries. 0 means no limit.
	Limit int

	// User filters by username. Ignored when Mine is set.
	User string

	// Mine filters to the logged-in user.
	Mine bool

	// Operation filters by operation name.
	Operation string

	// Reverse orders entries newest first.
	Reverse bool
}

// LogResult contains the filtered audit trail.
type LogResult struct {
	Entries []audit.Entry

	// Total is the number of entries before filtering.
	Total int
}

// Log reads and filters the audit trail.
//
// Returns ErrNotLoggedIn when Mine is set without a session.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	user := opts.User
	if opts.Mine {
		session, err := configs.LoadSession()
		if err != nil {
			return nil, err
		}
		user = session.Username
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	filtered := audit.Filter(entries, user, opts.Operation, opts.Limit)
	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	return &LogResult{Entries: filtered, Total: len(entries)}, nil
}
