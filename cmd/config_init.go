package cmd

import (
	"github.com/PolarWolf314/securevault/internal/configs"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration file",
	Long: `Writes the configuration file with defaults if it does not exist. Flags
update the matching settings in a new or existing file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		spinner, cleanup := startSpinner("Writing configuration...")
		defer cleanup()

		config, created, err := configs.EnsureConfig()
		if err != nil {
			return reportFailure(spinner, err)
		}

		changed := false
		if configInitCipher != "" {
			config.Vault.Cipher = configInitCipher
			changed = true
		}
		if configInitRoot != "" {
			config.Vault.Root = configs.ExpandHome(configInitRoot)
			changed = true
		}
		if changed {
			if err := configs.SaveConfig(config); err != nil {
				return reportFailure(spinner, err)
			}
		}

		path := ui.Path.Sprint(configs.VaultSettings.ConfigPath)
		switch {
		case created:
			spinner.FinalMSG = ui.Done("Created " + path)
		case changed:
			spinner.FinalMSG = ui.Done("Updated " + path)
		default:
			spinner.FinalMSG = ui.Done("Configuration already exists at " + path)
		}
		return nil
	},
}
