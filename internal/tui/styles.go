// Package tui provides the terminal chat screen for lawchat.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/lawchat/internal/errors"
	"github.com/diogo/lawchat/internal/render"
)

// Color variables (updated from theme)
var (
	colorUserBubble lipgloss.Color
	colorBotBubble  lipgloss.Color
	colorPanel      lipgloss.Color
	colorBorder     lipgloss.Color

	colorAccent  lipgloss.Color
	colorWarning lipgloss.Color
	colorError   lipgloss.Color

	colorText  lipgloss.Color
	colorMuted lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle lipgloss.Style

	userLabelStyle  lipgloss.Style
	userBubbleStyle lipgloss.Style
	botLabelStyle   lipgloss.Style
	botBubbleStyle  lipgloss.Style
	pendingStyle    lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	// Side panel
	panelStyle      lipgloss.Style
	panelTitleStyle lipgloss.Style
	panelIndexStyle lipgloss.Style
	panelItemStyle  lipgloss.Style
	panelEmptyStyle lipgloss.Style

	statusBarStyle lipgloss.Style
	noticeStyle    lipgloss.Style
	errorStyle     lipgloss.Style
)

var currentTheme render.Theme

func init() {
	ApplyTheme(render.DefaultThemeName)
}

// ApplyTheme switches the palette and rebuilds every style. Unknown names
// fall back to the default theme and report false.
func ApplyTheme(name string) bool {
	theme, ok := render.LookupTheme(name)
	if !ok {
		theme = render.ThemeOrDefault(name)
	}
	currentTheme = theme

	colorUserBubble = theme.UserBubble
	colorBotBubble = theme.BotBubble
	colorPanel = theme.Panel
	colorBorder = theme.Border
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorMuted = theme.Muted

	rebuildStyles()
	return ok
}

// CurrentTheme returns the active palette
func CurrentTheme() render.Theme {
	return currentTheme
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	// User messages sit on the right, bot messages on the left
	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
		Background(colorUserBubble).
		Foreground(colorText).
		Padding(0, 1)

	botLabelStyle = lipgloss.NewStyle().
		Foreground(colorWarning).
		Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBotBubble).
		Foreground(colorText).
		Padding(0, 1)

	pendingStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Italic(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	panelStyle = lipgloss.NewStyle().
		Background(colorPanel).
		Foreground(colorText).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(colorBorder).
		Padding(1, 1)

	panelTitleStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Background(colorPanel).
		Bold(true)

	panelIndexStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Background(colorPanel)

	panelItemStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Background(colorPanel)

	panelEmptyStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Background(colorPanel).
		Italic(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)
}

// FormatError returns a styled error message with whatever context the
// typed errors carry.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorMuted)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := errors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case errors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The answer service took too long. Try again or raise request_timeout"))
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the answer service is running and reachable"))
	case errors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The answer service returned an unexpected response"))
	}

	return sb.String()
}

// PrintError prints a styled error message to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
