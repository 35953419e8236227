// Package ui provides semantic text formatting for CLI output.
//
// Formatters render content according to its role (paths, user values,
// success and error markers). With color available, content is colorized;
// with NO_COLOR set or a dumb terminal, text decorations are used instead.
//
//	ui.Path.Sprint("~/.local/share/securevault/vault/alice")
//	ui.Highlight.Sprint("alice")
//	ui.Code.Sprint("securevault login alice")
//
// Status lines share one layout:
//
//	ui.Done("Encrypted report.pdf")   // ✓ Encrypted report.pdf
//	ui.Fail("Not an encrypted file")  // ✗ Not an encrypted file
//	ui.Hint("Run securevault ls")     // → Run securevault ls
//
// Table renders aligned columns for listings such as `securevault ls`.
package ui
