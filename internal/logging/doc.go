// Package logger provides leveled logging for SecureVault commands.
//
// Logging is controlled by two persistent flags on the root command:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows everything, including debug details and errors
//
// Without flags only WarnfAlways output is shown; command results are
// reported by the commands themselves.
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Encrypting %d files", count)
package logger
