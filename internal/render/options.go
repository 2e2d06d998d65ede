// Package render turns answer text into styled terminal output.
package render

// Options configures the markdown renderer.
type Options struct {
	// Width is the word-wrap column; zero or less disables wrapping
	Width int

	// Style is a glamour standard style name or a path to a JSON style
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
}

// DefaultOptions returns the options used when no configuration exists.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// WithWidth returns a copy with the given wrap width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy with the given style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
