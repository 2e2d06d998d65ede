package commands

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/diogo/lawchat/internal/api"
	"github.com/diogo/lawchat/internal/config"
	"github.com/diogo/lawchat/internal/conversation"
	"github.com/diogo/lawchat/internal/logging"
	"github.com/diogo/lawchat/internal/render"
	"github.com/diogo/lawchat/internal/tui"
)

// TUIRunner starts the interactive chat screen.
type TUIRunner interface {
	RunChat(ctrl *conversation.Controller, opts ...tui.Option) error
}

// AskerFactory builds the Answer Service client for one command run.
type AskerFactory func(cfg config.Config, logger zerolog.Logger) (api.Asker, io.Closer, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	NewAsker  AskerFactory
	TUI       TUIRunner
	Clipboard func(string) error

	// LoadConfig reads configuration, env file and environment
	LoadConfig func() (config.Config, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is an interactive terminal
	IsTTY func() bool
	// TermWidth returns the terminal width in columns
	TermWidth func() int
}

// DefaultTUI is the production implementation of TUIRunner.
type DefaultTUI struct{}

func (DefaultTUI) RunChat(ctrl *conversation.Controller, opts ...tui.Option) error {
	return tui.RunChat(ctrl, opts...)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewAsker:   newClient,
		TUI:        DefaultTUI{},
		Clipboard:  clipboard.WriteAll,
		LoadConfig: config.Load,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTTY:      isStdoutTTY,
		TermWidth:  getTerminalWidth,
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newClient(cfg config.Config, logger zerolog.Logger) (api.Asker, io.Closer, error) {
	client, err := api.NewClient(
		api.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, closerFunc(func() error {
		client.Close()
		return nil
	}), nil
}

// runtime is the per-invocation environment shared by every command
type runtime struct {
	cfg    config.Config
	logger zerolog.Logger
	asker  api.Asker
	closer []io.Closer
}

func (r *runtime) Close() {
	for i := len(r.closer) - 1; i >= 0; i-- {
		_ = r.closer[i].Close()
	}
}

func (r *runtime) renderOptions(width int) render.Options {
	opts := render.OptionsFromConfig(r.cfg)
	if width > 0 {
		opts = opts.WithWidth(width)
	}
	return opts
}

// openRuntime loads configuration, applies flag overrides, opens the log
// file and builds the client.
func (d *Dependencies) openRuntime(flags *globalFlags) (*runtime, error) {
	cfg, err := d.LoadConfig()
	if err != nil {
		warn(d.Stderr, "config: "+err.Error())
	}
	cfg = flags.apply(cfg)

	if !tui.ApplyTheme(cfg.TUITheme) {
		warn(d.Stderr, "unknown theme "+cfg.TUITheme+", using "+render.DefaultThemeName)
	}

	rt := &runtime{cfg: cfg, logger: zerolog.Nop()}

	logPath, err := config.GetLogPath(cfg)
	if err == nil {
		logger, closer, logErr := logging.Setup(logPath, cfg.LogLevel)
		if logErr != nil {
			warn(d.Stderr, "logging disabled: "+logErr.Error())
		} else {
			rt.logger = logger
			rt.closer = append(rt.closer, closer)
		}
	}

	asker, closer, err := d.NewAsker(cfg, rt.logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.asker = asker
	if closer != nil {
		rt.closer = append(rt.closer, closer)
	}

	rt.logger.Debug().
		Str("version", Version).
		Str("theme", cfg.TUITheme).
		Int("timeout_s", cfg.RequestTimeout).
		Msg("runtime ready")

	return rt, nil
}

func (r *runtime) newController() *conversation.Controller {
	return conversation.NewController(r.asker, conversation.WithLogger(r.logger))
}

func (r *runtime) requestContext() context.Context {
	return r.logger.WithContext(context.Background())
}
