package render

import (
	"os"

	"github.com/diogo/lawchat/internal/config"
)

// OptionsFromConfig builds render options from the user's markdown settings.
// GLAMOUR_STYLE overrides the configured style.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
