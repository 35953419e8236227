package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/securevault/internal/audit"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logUser      string
	logMine      bool
	logOperation string
	logReverse   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "show only the newest N entries")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by username")
	logCmd.Flags().BoolVar(&logMine, "mine", false, "show only the logged-in user's entries")
	logCmd.Flags().StringVar(&logOperation, "op", "", "filter by operation (upload, decrypt, delete, login, ...)")
	logCmd.Flags().BoolVarP(&logReverse, "reverse", "r", false, "show newest entries first")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON Lines")
}

func resetLogState() {
	logLimit = 0
	logUser = ""
	logMine = false
	logOperation = ""
	logReverse = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the audit trail",
	Long: `Shows recorded operations: account events, uploads, decryptions, downloads
and deletions.

Examples:
  securevault log -n 20
  securevault log --mine --op decrypt
  securevault log --json | jq .`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")
		result, err := workflows.Log(cmd.Context(), workflows.LogOptions{
			Limit:     logLimit,
			User:      logUser,
			Mine:      logMine,
			Operation: logOperation,
			Reverse:   logReverse,
		})
		if err != nil {
			fmt.Print(failureMessage(err))
			return errReported
		}
		Logger.Debugf("Showing %d of %d entries", len(result.Entries), result.Total)

		if logJSON {
			enc := json.NewEncoder(os.Stdout)
			for _, e := range result.Entries {
				if err := enc.Encode(e); err != nil {
					return Logger.ErrorfAndReturn("Failed to encode entry: %v", err)
				}
			}
			return nil
		}

		if len(result.Entries) == 0 {
			fmt.Println(ui.Hint("No audit entries found"))
			return nil
		}

		rows := make([][]string, 0, len(result.Entries))
		for _, e := range result.Entries {
			rows = append(rows, []string{formatLogTime(e.Timestamp), e.User, e.Operation, describeEntry(e)})
		}
		if err := ui.Table(os.Stdout, []string{"WHEN", "USER", "OP", "DETAILS"}, rows); err != nil {
			return Logger.ErrorfAndReturn("Failed to print log: %v", err)
		}
		return nil
	},
}

func formatLogTime(ts string) string {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("02-01-2006 15:04:05") + " (" + humanize.Time(t) + ")"
}

func describeEntry(e audit.Entry) string {
	var parts []string
	if len(e.Files) > 0 {
		parts = append(parts, strings.Join(e.Files, ", "))
	}
	if e.TargetUser != "" && e.TargetUser != e.User {
		parts = append(parts, "for "+e.TargetUser)
	}
	if e.Cipher != "" {
		parts = append(parts, "["+e.Cipher+"]")
	}
	return strings.Join(parts, " ")
}
