package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/lawchat/internal/tui"
)

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// stdinPiped reports whether r carries piped or redirected input. Readers
// that are not files are assumed to be piped.
func stdinPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

func warn(w io.Writer, msg string) {
	style := lipgloss.NewStyle().Foreground(tui.CurrentTheme().Warning)
	fmt.Fprintln(w, style.Render("⚠ "+msg))
}

func success(w io.Writer, msg string) {
	style := lipgloss.NewStyle().Foreground(tui.CurrentTheme().Accent)
	fmt.Fprintln(w, style.Render("✓ "+msg))
}

// formatCommandError renders an error returned from a command
func formatCommandError(err error) string {
	return tui.FormatError(err)
}
