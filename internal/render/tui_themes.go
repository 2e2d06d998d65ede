package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the chat screen's color scheme.
type Theme struct {
	Name string
	// Markdown is the glamour style that pairs with the palette
	Markdown string

	Background lipgloss.Color
	// UserBubble and BotBubble fill the two sides of the conversation
	UserBubble lipgloss.Color
	BotBubble  lipgloss.Color
	Panel      lipgloss.Color
	Border     lipgloss.Color

	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Text  lipgloss.Color
	Muted lipgloss.Color
}

// DefaultThemeName is used when no theme is configured or the name is unknown
const DefaultThemeName = "tokyonight"

var themes = map[string]Theme{
	"tokyonight": {
		Name:       "tokyonight",
		Markdown:   StyleTokyoNight,
		Background: "#1a1b26",
		UserBubble: "#3d59a1",
		BotBubble:  "#24283b",
		Panel:      "#1f2335",
		Border:     "#414868",
		Accent:     "#7aa2f7",
		Warning:    "#e0af68",
		Error:      "#f7768e",
		Text:       "#c0caf5",
		Muted:      "#565f89",
	},
	"catppuccin": {
		Name:       "catppuccin",
		Markdown:   StyleDark,
		Background: "#1e1e2e",
		UserBubble: "#45475a",
		BotBubble:  "#313244",
		Panel:      "#181825",
		Border:     "#585b70",
		Accent:     "#cba6f7",
		Warning:    "#f9e2af",
		Error:      "#f38ba8",
		Text:       "#cdd6f4",
		Muted:      "#6c7086",
	},
	"nord": {
		Name:       "nord",
		Markdown:   StyleDark,
		Background: "#2e3440",
		UserBubble: "#5e81ac",
		BotBubble:  "#3b4252",
		Panel:      "#434c5e",
		Border:     "#4c566a",
		Accent:     "#88c0d0",
		Warning:    "#ebcb8b",
		Error:      "#bf616a",
		Text:       "#eceff4",
		Muted:      "#7b88a1",
	},
	"dracula": {
		Name:       "dracula",
		Markdown:   StyleDracula,
		Background: "#282a36",
		UserBubble: "#6272a4",
		BotBubble:  "#44475a",
		Panel:      "#21222c",
		Border:     "#6272a4",
		Accent:     "#ff79c6",
		Warning:    "#f1fa8c",
		Error:      "#ff5555",
		Text:       "#f8f8f2",
		Muted:      "#6272a4",
	},
	"light": {
		Name:       "light",
		Markdown:   StyleLight,
		Background: "#ffffff",
		UserBubble: "#dbeafe",
		BotBubble:  "#f1f5f9",
		Panel:      "#f8fafc",
		Border:     "#cbd5e1",
		Accent:     "#2563eb",
		Warning:    "#b45309",
		Error:      "#dc2626",
		Text:       "#0f172a",
		Muted:      "#64748b",
	},
}

// LookupTheme returns the named theme
func LookupTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// ThemeOrDefault returns the named theme, or the default when unknown
func ThemeOrDefault(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[DefaultThemeName]
}

// ThemeNames returns all theme names, sorted
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
