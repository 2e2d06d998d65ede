package commands

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/lawchat/internal/tui"
)

// statusSpinner animates a one-line status on a terminal writer while a
// blocking call runs.
type statusSpinner struct {
	out     io.Writer
	message string
	frames  spinner.Spinner

	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newStatusSpinner(out io.Writer, message string) *statusSpinner {
	return &statusSpinner{
		out:     out,
		message: message,
		frames:  spinner.Dot,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *statusSpinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.frames.FPS)
		defer ticker.Stop()

		fmt.Fprint(s.out, "\033[?25l")
		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *statusSpinner) render() {
	theme := tui.CurrentTheme()
	glyph := s.frames.Frames[s.frame%len(s.frames.Frames)]
	fmt.Fprintf(s.out, "\r\033[K%s %s",
		lipgloss.NewStyle().Foreground(theme.Accent).Render(glyph),
		lipgloss.NewStyle().Foreground(theme.Text).Render(s.message),
	)
}

func (s *statusSpinner) halt() {
	s.mu.Lock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
	s.mu.Unlock()
	<-s.done
}

// stopWithSuccess stops the spinner and prints a check line
func (s *statusSpinner) stopWithSuccess(message string) {
	s.halt()
	success(s.out, message)
}

// stopWithError stops the spinner and clears its line
func (s *statusSpinner) stopWithError() {
	s.halt()
}
