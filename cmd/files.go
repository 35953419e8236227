package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/utils"
	"github.com/PolarWolf314/securevault/internal/vault"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	lsSearch string
	lsSort   string
	lsAge    bool
)

func init() {
	lsCmd.Flags().StringVarP(&lsSearch, "search", "s", "", "only show names containing this text")
	lsCmd.Flags().StringVar(&lsSort, "sort", vault.SortName, "sort order: "+strings.Join(vault.SortOrders, ", "))
	lsCmd.Flags().BoolVar(&lsAge, "age", false, "show modification times relative to now")
}

func resetFileState() {
	lsSearch = ""
	lsSort = vault.SortName
	lsAge = false
}

var addCmd = &cobra.Command{
	Use:   "add <files...>",
	Short: "Encrypt files into your vault",
	Long: `Copies each file into your vault and encrypts the copy. Files are stored
under their base name with spaces replaced by underscores and ".enc" added.
The original files are left untouched.

Arguments can be files, directories or globs (** matches any depth).

Examples:
  securevault add "tax return.pdf"
  securevault add ~/Documents/private
  securevault add 'notes/**/*.md'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add command")
		Logger.Debugf("Patterns: %v", args)
		spinner, cleanup := startSpinner("Encrypting files...")
		defer cleanup()

		result, err := workflows.Upload(cmd.Context(), workflows.UploadOptions{Patterns: args})
		if result == nil || len(result.Uploaded) == 0 {
			if err != nil {
				return reportFailure(spinner, err)
			}
		}

		var names []string
		for _, f := range result.Uploaded {
			Logger.Infof("Encrypted %s as %s", f.Source, f.Name)
			names = append(names, f.Name)
		}
		msg := ui.Done(fmt.Sprintf("Encrypted %d file(s) with %s:", len(names), ui.Highlight.Sprint(result.Cipher))) +
			utils.FormatPaths(names)
		if err != nil {
			msg += failureMessage(err)
			spinner.FinalMSG = msg
			return errReported
		}
		spinner.FinalMSG = msg + ui.Hint("Run "+ui.Code.Sprint("securevault ls")+" to see your vault")
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <names...>",
	Short: "Decrypt vault files next to their encrypted copies",
	Long: `Writes the plaintext of each named ".enc" file into your vault under the
name without ".enc". The encrypted file is kept, and an existing plaintext file
is never overwritten.

Decryption fails if the secret has changed since the file was added or if the
file was modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		spinner, cleanup := startSpinner("Decrypting files...")
		defer cleanup()

		result, err := workflows.Decrypt(cmd.Context(), workflows.DecryptOptions{Names: args})
		if result == nil || len(result.Decrypted) == 0 {
			if err != nil {
				return reportFailure(spinner, err)
			}
		}

		var names []string
		for _, f := range result.Decrypted {
			names = append(names, f.Name)
		}
		msg := ui.Done(fmt.Sprintf("Decrypted %d file(s):", len(names))) + utils.FormatPaths(names)
		if err != nil {
			spinner.FinalMSG = msg + failureMessage(err)
			return errReported
		}
		spinner.FinalMSG = msg
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the files in your vault",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting ls command")
		Logger.Debugf("Flags: search=%q, sort=%q", lsSearch, lsSort)

		result, err := workflows.List(cmd.Context(), workflows.ListOptions{Search: lsSearch, Sort: lsSort})
		if err != nil {
			fmt.Print(failureMessage(err))
			return errReported
		}

		if len(result.Entries) == 0 {
			if lsSearch != "" {
				fmt.Println(ui.Hint("No files match " + ui.Highlight.Sprint(lsSearch)))
			} else {
				fmt.Println(ui.Hint("Your vault is empty. Add files with " + ui.Code.Sprint("securevault add <file>")))
			}
			return nil
		}

		var total int64
		rows := make([][]string, 0, len(result.Entries))
		for _, e := range result.Entries {
			modified := e.ModifiedString()
			if lsAge {
				modified = e.Age()
			}
			encrypted := "no"
			if e.Encrypted {
				encrypted = "yes"
			}
			rows = append(rows, []string{e.Name, e.Type, modified, e.HumanSize(), encrypted})
			total += e.Size
		}

		if err := ui.Table(os.Stdout, []string{"NAME", "TYPE", "MODIFIED", "SIZE", "ENCRYPTED"}, rows); err != nil {
			return Logger.ErrorfAndReturn("Failed to print listing: %v", err)
		}
		fmt.Println(ui.Muted.Sprint(fmt.Sprintf("%d file(s), %s", len(rows), humanize.Bytes(uint64(total)))))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <names...>",
	Aliases: []string{"delete"},
	Short:   "Delete files from your vault",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rm command")
		spinner, cleanup := startSpinner("Deleting files...")
		defer cleanup()

		result, err := workflows.Delete(cmd.Context(), workflows.DeleteOptions{Names: args})
		if result == nil || len(result.Deleted) == 0 {
			if err != nil {
				return reportFailure(spinner, err)
			}
		}

		msg := ui.Done(fmt.Sprintf("Deleted %d file(s):", len(result.Deleted))) + utils.FormatPaths(result.Deleted)
		if err != nil {
			spinner.FinalMSG = msg + failureMessage(err)
			return errReported
		}
		spinner.FinalMSG = msg
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <name> [destination]",
	Short: "Copy a vault file out of the vault",
	Long: `Copies a vault file, exactly as stored, to the destination. The destination
defaults to the current directory; if it is a directory the file keeps its
name. Existing files are never overwritten.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting download command")
		dest := "."
		if len(args) == 2 {
			dest = args[1]
		}

		spinner, cleanup := startSpinner("Downloading " + args[0] + "...")
		defer cleanup()

		result, err := workflows.Download(cmd.Context(), workflows.DownloadOptions{Name: args[0], Dest: dest})
		if err != nil {
			return reportFailure(spinner, err)
		}

		spinner.FinalMSG = ui.Done("Saved to " + ui.Path.Sprint(result.Path))
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Open a vault file with the default application",
	Long: `Hands the file to the desktop's default application. Encrypted files open as
ciphertext; run "securevault decrypt" first to view their contents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting open command")
		spinner, cleanup := startSpinner("Opening " + args[0] + "...")
		defer cleanup()

		result, err := workflows.Open(cmd.Context(), workflows.OpenOptions{Name: args[0]})
		if err != nil {
			return reportFailure(spinner, err)
		}

		msg := ui.Done("Opened " + ui.Path.Sprint(result.Path))
		if strings.HasSuffix(args[0], vault.EncryptedSuffix) {
			msg += "\n" + ui.Hint("This file is encrypted; run "+ui.Code.Sprint("securevault decrypt "+args[0])+" to read it")
		}
		spinner.FinalMSG = msg
		return nil
	},
}
