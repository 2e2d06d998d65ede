package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Glamour standard styles accepted by name
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
)

var standardStyles = map[string]bool{
	StyleDark:       true,
	StyleLight:      true,
	StyleNoTTY:      true,
	StyleASCII:      true,
	StyleDracula:    true,
	StyleTokyoNight: true,
	StylePink:       true,
}

// IsStandardStyle reports whether style names a glamour built-in style.
func IsStandardStyle(style string) bool {
	return standardStyles[style]
}

func styleOption(style string) glamour.TermRendererOption {
	if style == "" {
		return glamour.WithStandardStyle(StyleDark)
	}
	if IsStandardStyle(style) {
		return glamour.WithStandardStyle(style)
	}
	return glamour.WithStylePath(style)
}

// Markdown renders content with a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	r, err := renderers.get(opts)
	if err != nil {
		return "", err
	}
	defer renderers.put(opts, r)

	return r.Render(content)
}

// Answer renders an answer for display, falling back to the raw text when
// rendering fails. Surrounding blank lines added by glamour are trimmed.
func Answer(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
