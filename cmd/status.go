package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/securevault/internal/configs"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, key and session details",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")
		result, err := workflows.Status(cmd.Context())
		if err != nil {
			fmt.Print(failureMessage(err))
			return errReported
		}

		config := result.ConfigPath
		if !result.ConfigExists {
			config += " " + ui.Muted.Sprint("not created, using defaults")
		}

		fmt.Println(ui.Info.Sprint("SecureVault status"))
		fmt.Println()
		fmt.Printf("  %-14s %s\n", "Config:", config)
		fmt.Printf("  %-14s %s\n", "Database:", ui.Path.Sprint(result.DatabasePath))
		fmt.Printf("  %-14s %s\n", "Vault root:", ui.Path.Sprint(result.VaultRoot))
		fmt.Printf("  %-14s %d %s\n", "Users:", len(result.Users), ui.Muted.Sprint(strings.Join(result.Users, ", ")))
		fmt.Printf("  %-14s %s\n", "Cipher:", ui.Highlight.Sprint(result.Cipher))
		fmt.Printf("  %-14s %s %s\n", "Key:", result.KeyFingerprint, ui.Muted.Sprint("secret from "+result.SecretSource))
		if result.SecretSource == configs.SecretFromDefault {
			fmt.Println(ui.Warning.Sprint("  ⚠ Using the built-in secret. Set " + configs.DefaultSecretEnv + " or [secret] in the config to use your own."))
		}
		fmt.Println()

		if !result.LoggedIn {
			fmt.Println(ui.Hint("Not logged in. Run " + ui.Code.Sprint("securevault login")))
			return nil
		}

		fmt.Printf("  %-14s %s\n", "User:", ui.Highlight.Sprint(result.Username))
		fmt.Printf("  %-14s %s\n", "Vault:", ui.Path.Sprint(result.VaultDir))
		fmt.Printf("  %-14s %d (%d encrypted, %d plaintext), %s\n", "Files:",
			result.Files, result.EncryptedFiles, result.PlainFiles, humanize.Bytes(uint64(result.TotalSize)))
		if result.PlainFiles > 0 {
			fmt.Println(ui.Hint("Plaintext files in the vault are not protected; delete them when done"))
		}
		return nil
	},
}
