package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/securevault/internal/envelope"
	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/PolarWolf314/securevault/internal/utils"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. The returned cleanup prints s.FinalMSG, so
// FinalMSG values do not need trailing newlines.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// failureMessage renders err for the user, one line per joined error,
// followed by a hint for the errors that have an obvious next step.
func failureMessage(err error) string {
	var b strings.Builder
	for _, line := range strings.Split(err.Error(), "\n") {
		b.WriteString(ui.Fail(line))
		b.WriteString("\n")
	}

	switch {
	case errors.Is(err, kerrors.ErrNotLoggedIn):
		b.WriteString(ui.Hint("Run " + ui.Code.Sprint("securevault login") + " first"))
	case errors.Is(err, kerrors.ErrInvalidCredentials):
		b.WriteString(ui.Hint("Forgot it? Run " + ui.Code.Sprint("securevault passwd <username>")))
	case errors.Is(err, envelope.ErrAuthentication):
		b.WriteString(ui.Hint("The secret differs from the one used to encrypt, or the file was modified"))
	case errors.Is(err, envelope.ErrFormat):
		b.WriteString(ui.Hint("Only files added with " + ui.Code.Sprint("securevault add") + " can be decrypted"))
	case errors.Is(err, kerrors.ErrAlreadyExists):
		b.WriteString(ui.Hint("Existing files are never overwritten; delete or rename them first"))
	case errors.Is(err, kerrors.ErrInvalidConfig):
		b.WriteString(ui.Hint("Check " + ui.Code.Sprint("securevault config show")))
	}
	return b.String()
}

// reportFailure sets the spinner's final message for err and returns
// errReported so the command exits non-zero without printing err again.
func reportFailure(s *spinner.Spinner, err error) error {
	Logger.Errorf("%v", err)
	s.FinalMSG = failureMessage(err)
	return errReported
}

// interactive reports whether passwords should be prompted for on the terminal.
func interactive(cmd *cobra.Command, fromStdin bool) bool {
	return !fromStdin && cmd.InOrStdin() == os.Stdin && utils.IsTerminal()
}

// readPassword reads a password from the terminal without echo, or one line
// from the command's stdin when fromStdin is set or stdin is not a terminal.
func readPassword(cmd *cobra.Command, prompt string, fromStdin bool) (string, error) {
	if interactive(cmd, fromStdin) {
		password, err := utils.ReadPassword(prompt)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}

	Logger.Debugf("Reading password from stdin")
	password, err := utils.ReadSecretLine(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// readNewPassword is readPassword with a confirmation prompt on terminals.
func readNewPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	password, err := readPassword(cmd, "New password: ", fromStdin)
	if err != nil {
		return "", err
	}
	if !interactive(cmd, fromStdin) {
		return password, nil
	}

	confirm, err := readPassword(cmd, "Confirm password: ", false)
	if err != nil {
		return "", err
	}
	if confirm != password {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}
