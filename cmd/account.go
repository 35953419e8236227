package cmd

import (
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/utils"
	"github.com/PolarWolf314/securevault/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	passwordStdin  bool
	passwdGenerate bool
	passwdLength   int
)

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd, passwdCmd} {
		c.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	}
	passwdCmd.Flags().BoolVarP(&passwdGenerate, "generate", "g", false, "set and print a random password")
	passwdCmd.Flags().IntVar(&passwdLength, "length", 10, "length of a generated password")
}

func resetAccountState() {
	passwordStdin = false
	passwdGenerate = false
	passwdLength = 10
}

// usernameArg returns the username argument, defaulting to the OS user.
func usernameArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	Logger.Debugf("No username given, using the current OS user")
	return utils.GetUsername()
}

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create a SecureVault account",
	Long: `Creates an account and its vault folder. The username defaults to your
operating system username.

Examples:
  securevault register alice
  echo "$PASSWORD" | securevault register alice --password-stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting register command")
		username, err := usernameArg(args)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to determine username: %v", err)
		}

		password, err := readNewPassword(cmd, passwordStdin)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read password: %v", err)
		}

		spinner, cleanup := startSpinner("Registering " + username + "...")
		defer cleanup()

		result, err := workflows.Register(cmd.Context(), workflows.RegisterOptions{
			Username: username,
			Password: password,
		})
		if err != nil {
			return reportFailure(spinner, err)
		}

		Logger.Infof("Registered %s with vault at %s", result.Username, result.VaultDir)
		spinner.FinalMSG = ui.Done("User " + ui.Highlight.Sprint(result.Username) + " registered successfully") + "\n" +
			ui.Hint("Run "+ui.Code.Sprint("securevault login "+result.Username)+" to open your vault")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in to your vault",
	Long: `Checks your password and starts a session. File commands act on the vault
of the logged-in user until you log out. Logging in as another user ends the
current session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting login command")
		username, err := usernameArg(args)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to determine username: %v", err)
		}

		password, err := readPassword(cmd, "Password: ", passwordStdin)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read password: %v", err)
		}

		spinner, cleanup := startSpinner("Logging in...")
		defer cleanup()

		result, err := workflows.Login(cmd.Context(), workflows.LoginOptions{
			Username: username,
			Password: password,
		})
		if err != nil {
			return reportFailure(spinner, err)
		}

		Logger.Debugf("Session %s started", result.SessionID)
		msg := ui.Done("Logged in as " + ui.Highlight.Sprint(result.Username))
		if result.Replaced != "" {
			msg += "\n" + ui.Hint("Ended the session of "+ui.Highlight.Sprint(result.Replaced))
		}
		spinner.FinalMSG = msg + "\n" + ui.Hint("Vault: "+ui.Path.Sprint(result.VaultDir))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting logout command")
		spinner, cleanup := startSpinner("Logging out...")
		defer cleanup()

		result, err := workflows.Logout(cmd.Context())
		if err != nil {
			return reportFailure(spinner, err)
		}

		spinner.FinalMSG = ui.Done("Logged out " + ui.Highlight.Sprint(result.Username))
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd <username>",
	Short: "Reset a forgotten password",
	Long: `Sets a new password for an existing account. Use --generate to set a random
password and print it once.

Examples:
  securevault passwd alice
  securevault passwd alice --generate --length 16`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting passwd command")
		opts := workflows.ResetPasswordOptions{
			Username:       args[0],
			Generate:       passwdGenerate,
			GenerateLength: passwdLength,
		}
		if !passwdGenerate {
			password, err := readNewPassword(cmd, passwordStdin)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to read password: %v", err)
			}
			opts.NewPassword = password
		}

		spinner, cleanup := startSpinner("Resetting password...")
		defer cleanup()

		result, err := workflows.ResetPassword(cmd.Context(), opts)
		if err != nil {
			return reportFailure(spinner, err)
		}

		msg := ui.Done("Password reset for " + ui.Highlight.Sprint(result.Username))
		if result.GeneratedPassword != "" {
			msg += "\n" + ui.Hint("New password: "+ui.Code.Sprint(result.GeneratedPassword))
		}
		spinner.FinalMSG = msg
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting whoami command")
		spinner, cleanup := startSpinner("Checking session...")
		defer cleanup()

		result, err := workflows.Whoami(cmd.Context())
		if err != nil {
			return reportFailure(spinner, err)
		}

		spinner.FinalMSG = ui.Highlight.Sprint(result.Username) + " " +
			ui.Muted.Sprint("since "+result.LoginAt.Local().Format("02-01-2006 15:04")) + "\n" +
			ui.Hint("Vault: "+ui.Path.Sprint(result.VaultDir))
		return nil
	},
}
