// Package panel implements the slide-out side panel's visibility state.
//
// The panel moves through Closed → Opening → Open → Closing → Closed. Its
// left edge is driven by a critically damped spring from the screen's right
// edge to openFraction of the screen width.
package panel

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Phase is the panel's visibility phase
type Phase int

const (
	Closed Phase = iota
	Opening
	Open
	Closing
)

var phaseNames = map[Phase]string{
	Closed:  "closed",
	Opening: "opening",
	Open:    "open",
	Closing: "closing",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

const (
	// FPS is the animation frame rate
	FPS = 60
	// openFraction is where the panel's left edge rests when open
	openFraction = 0.4

	angularFrequency = 8.0
	dampingRatio     = 1.0
	settleEpsilon    = 0.5
)

// TransitionFunc is called after every phase change
type TransitionFunc func(from, to Phase)

// Panel is a value type; every method returns the updated panel.
type Panel struct {
	phase    Phase
	width    int
	offset   float64
	velocity float64
	spring   harmonica.Spring
	onChange TransitionFunc
}

// Option configures a Panel
type Option func(*Panel)

// WithTransition registers a callback for phase changes
func WithTransition(fn TransitionFunc) Option {
	return func(p *Panel) {
		p.onChange = fn
	}
}

// New returns a closed panel for a screen of the given width
func New(width int, opts ...Option) Panel {
	p := Panel{
		phase:  Closed,
		width:  width,
		offset: float64(width),
		spring: harmonica.NewSpring(harmonica.FPS(FPS), angularFrequency, dampingRatio),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Phase returns the current phase
func (p Panel) Phase() Phase {
	return p.phase
}

// Visible reports whether any part of the panel should be drawn
func (p Panel) Visible() bool {
	return p.phase != Closed
}

// Animating reports whether the panel needs further Tick calls
func (p Panel) Animating() bool {
	return p.phase == Opening || p.phase == Closing
}

// IsOpenOrOpening reports which way the panel is heading
func (p Panel) IsOpenOrOpening() bool {
	return p.phase == Open || p.phase == Opening
}

// Offset returns the column of the panel's left edge
func (p Panel) Offset() int {
	return int(math.Round(p.offset))
}

// Width returns the visible panel width in columns
func (p Panel) Width() int {
	w := p.width - p.Offset()
	if w < 0 {
		return 0
	}
	return w
}

// SetOpen starts the transition toward open or closed. Requests that match
// the current direction are ignored.
func (p Panel) SetOpen(open bool) Panel {
	switch {
	case open && (p.phase == Closed || p.phase == Closing):
		return p.transition(Opening)
	case !open && (p.phase == Open || p.phase == Opening):
		return p.transition(Closing)
	}
	return p
}

// Toggle reverses the panel's direction
func (p Panel) Toggle() Panel {
	return p.SetOpen(!p.IsOpenOrOpening())
}

// Tick advances the animation by one frame and completes the transition once
// the spring has settled.
func (p Panel) Tick() Panel {
	if !p.Animating() {
		return p
	}

	target := p.target()
	p.offset, p.velocity = p.spring.Update(p.offset, p.velocity, target)

	if math.Abs(p.offset-target) < settleEpsilon && math.Abs(p.velocity) < settleEpsilon {
		p.offset = target
		p.velocity = 0
		if p.phase == Opening {
			return p.transition(Open)
		}
		return p.transition(Closed)
	}
	return p
}

// Resize adapts the panel to a new screen width, snapping a settled panel
// to its resting position.
func (p Panel) Resize(width int) Panel {
	p.width = width
	switch p.phase {
	case Closed:
		p.offset = float64(width)
	case Open:
		p.offset = p.openOffset()
	}
	return p
}

func (p Panel) target() float64 {
	if p.phase == Opening || p.phase == Open {
		return p.openOffset()
	}
	return float64(p.width)
}

func (p Panel) openOffset() float64 {
	return float64(p.width) * openFraction
}

func (p Panel) transition(to Phase) Panel {
	from := p.phase
	p.phase = to
	if p.onChange != nil {
		p.onChange(from, to)
	}
	return p
}
