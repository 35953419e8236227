package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/configs"
	"github.com/PolarWolf314/securevault/internal/envelope"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

type configView struct {
	Path      string   `json:"path"`
	VaultRoot string   `json:"vault_root"`
	Cipher    string   `json:"cipher"`
	Ciphers   []string `json:"available_ciphers"`
	Database  string   `json:"database"`
	SecretEnv string   `json:"secret_env"`

	// SecretSource never includes the secret itself.
	SecretSource string `json:"secret_source"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		config, err := configs.LoadConfig()
		if err != nil {
			fmt.Print(failureMessage(err))
			return errReported
		}

		_, source := config.ResolveSecret()
		view := configView{
			Path:         configs.VaultSettings.ConfigPath,
			VaultRoot:    config.Vault.Root,
			Cipher:       config.Vault.Cipher,
			Ciphers:      envelope.CipherNames(),
			Database:     config.Database.Path,
			SecretEnv:    config.Secret.Env,
			SecretSource: source,
		}

		if configShowJSON {
			output, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Println(ui.Info.Sprint("Configuration") + " " + ui.Muted.Sprint(view.Path))
		fmt.Println()
		fmt.Printf("  %-14s %s\n", "Vault root:", ui.Path.Sprint(view.VaultRoot))
		fmt.Printf("  %-14s %s %s\n", "Cipher:", ui.Highlight.Sprint(view.Cipher), ui.Muted.Sprint(fmt.Sprint(view.Ciphers)))
		fmt.Printf("  %-14s %s\n", "Database:", ui.Path.Sprint(view.Database))
		fmt.Printf("  %-14s $%s\n", "Secret env:", view.SecretEnv)
		fmt.Printf("  %-14s %s\n", "Secret from:", view.SecretSource)
		return nil
	},
}
