package cmd

import (
	"errors"
	"fmt"

	logger "github.com/PolarWolf314/securevault/internal/logging"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// RootCmd is the securevault command.
	RootCmd = &cobra.Command{
		Use:   "securevault",
		Short: "SecureVault - keep private files encrypted in a personal vault",
		Long: `SecureVault stores files in a per-user vault folder, encrypted and
authenticated so that a wrong secret or a modified file is always detected.

Usage:
  securevault register           Create an account
  securevault login              Log in and open your vault
  securevault add <files...>     Encrypt files into your vault
  securevault ls                 List your vault
  securevault decrypt <name>     Decrypt a vault file next to it

Run 'securevault help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println()
			figure.NewColorFigure("SecureVault", "small", "cyan", true).Print()
			fmt.Println()
			fmt.Println(ui.Hint("Run " + ui.Code.Sprint("securevault --help") + " to see available commands"))
		},
	}
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("command failed")

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(registerCmd)
	RootCmd.AddCommand(loginCmd)
	RootCmd.AddCommand(logoutCmd)
	RootCmd.AddCommand(passwdCmd)
	RootCmd.AddCommand(whoamiCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(lsCmd)
	RootCmd.AddCommand(rmCmd)
	RootCmd.AddCommand(downloadCmd)
	RootCmd.AddCommand(openCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// Execute runs the root command. It returns the exit code.
func Execute() int {
	err := RootCmd.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		fmt.Println(ui.Fail(err.Error()))
	}
	return 1
}

// ResetGlobalState resets flag variables between test runs.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetAccountState()
	resetFileState()
	resetLogState()
	resetConfigState()

	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(flag *pflag.Flag) {
			_ = flag.Value.Set(flag.DefValue)
			flag.Changed = false
		})
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(RootCmd)
}
