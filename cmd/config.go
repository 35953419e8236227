package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configInitCipher string
	configInitRoot   string
	configShowJSON   bool
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage SecureVault configuration",
	Long: `Provides commands for creating and inspecting the configuration file.

Examples:
  # Write the default configuration
  securevault config init

  # Use a different cipher for new files
  securevault config init --cipher xchacha20poly1305

  # Show the effective configuration
  securevault config show`,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitCipher, "cipher", "", "cipher for newly added files")
	configInitCmd.Flags().StringVar(&configInitRoot, "vault-root", "", "directory holding the per-user vaults")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func resetConfigState() {
	configInitCipher = ""
	configInitRoot = ""
	configShowJSON = false
}
