package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/lawchat/internal/api"
	"github.com/diogo/lawchat/internal/config"
	"github.com/diogo/lawchat/internal/conversation"
	apierrors "github.com/diogo/lawchat/internal/errors"
	"github.com/diogo/lawchat/internal/models"
	"github.com/diogo/lawchat/internal/render"
	"github.com/diogo/lawchat/internal/tui"
)

type fakeTUI struct {
	calls int
	ctrl  *conversation.Controller
	opts  int
	err   error
}

func (f *fakeTUI) RunChat(ctrl *conversation.Controller, opts ...tui.Option) error {
	f.calls++
	f.ctrl = ctrl
	f.opts = len(opts)
	return f.err
}

type testEnv struct {
	deps      *Dependencies
	mock      *api.MockClient
	tui       *fakeTUI
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	clipboard []string
	cfg       config.Config
	home      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)
	t.Setenv("GLAMOUR_STYLE", render.StyleNoTTY)
	t.Cleanup(func() { tui.ApplyTheme(render.DefaultThemeName) })

	env := &testEnv{
		mock:   &api.MockClient{ResultVal: api.Answer("see clause 4")},
		tui:    &fakeTUI{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		cfg:    config.DefaultConfig(),
		home:   home,
	}

	env.deps = &Dependencies{
		NewAsker: func(cfg config.Config, logger zerolog.Logger) (api.Asker, io.Closer, error) {
			return env.mock, nil, nil
		},
		TUI: env.tui,
		Clipboard: func(s string) error {
			env.clipboard = append(env.clipboard, s)
			return nil
		},
		LoadConfig: func() (config.Config, error) { return env.cfg, nil },
		Stdout:     env.stdout,
		Stderr:     env.stderr,
		IsTTY:      func() bool { return false },
		TermWidth:  func() int { return 80 },
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRootCommand_Metadata(t *testing.T) {
	env := newTestEnv(t)
	cmd := NewRootCmd(env.deps)

	assert.Equal(t, "lawchat", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"ask", "chat", "config"}, names)
}

func TestRootCommand_Version(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--version"))
	assert.Contains(t, env.stdout.String(), "lawchat "+Version)
	assert.Zero(t, env.tui.calls)
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.run("unexpected"))
}

func TestRootCommand_StartsChat(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run())
	require.Equal(t, 1, env.tui.calls)
	assert.Equal(t, 4, env.tui.opts)

	state := env.tui.ctrl.State()
	require.Len(t, state.Messages, 1)
	assert.Equal(t, models.GreetingText, state.Messages[0].Text)
}

func TestChatCommand(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("chat"))
	assert.Equal(t, 1, env.tui.calls)

	env.tui.err = errors.New("tty lost")
	assert.EqualError(t, env.run("chat"), "tty lost")
}

func TestChatCommand_ControllerUsesAsker(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run("chat"))

	ctrl := env.tui.ctrl
	call := ctrl.Submit(context.Background(), "contract question")
	require.NotNil(t, call)
	ctrl.Receive(call())

	assert.Equal(t, []string{"contract question"}, env.mock.Questions)
	assert.Equal(t, []string{"contract question"}, ctrl.Questions())
}

func TestThemeFlag(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--theme", "nord", "chat"))
	assert.Equal(t, "nord", tui.CurrentTheme().Name)
}

func TestThemeFlag_Unknown(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--theme", "neon", "chat"))
	assert.Contains(t, env.stderr.String(), "unknown theme neon")
	assert.Equal(t, render.DefaultThemeName, tui.CurrentTheme().Name)
}

func TestLogFileWritten(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--log-level", "debug", "ask", "q"))

	data, err := os.ReadFile(filepath.Join(env.home, "lawchat.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "runtime ready")
	assert.Contains(t, string(data), "one-shot question")
}

func TestLogFileFlag(t *testing.T) {
	env := newTestEnv(t)
	logPath := filepath.Join(t.TempDir(), "custom.log")

	require.NoError(t, env.run("--log-file", logPath, "ask", "q"))

	_, err := os.Stat(logPath)
	assert.NoError(t, err)
}

func TestAsk_Raw(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("ask", "contract", "question"))
	assert.Equal(t, "see clause 4\n", env.stdout.String())
	assert.Equal(t, []string{"contract question"}, env.mock.Questions)
}

func TestAsk_Stdin(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Stdin = strings.NewReader("  from stdin \n")

	require.NoError(t, env.run("ask"))
	assert.Equal(t, []string{"from stdin"}, env.mock.Questions)
}

func TestAsk_File(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "q.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	require.NoError(t, env.run("ask", "-f", path))
	assert.Equal(t, []string{"from file"}, env.mock.Questions)
}

func TestAsk_FileMissing(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("ask", "-f", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestAsk_EmptyQuestion(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"ask"}},
		{"blank argument", []string{"ask", "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(tt.args...)
			assert.ErrorIs(t, err, apierrors.ErrEmptyQuestion)
			assert.Zero(t, env.mock.CallCount())
		})
	}
}

func TestAsk_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ResultVal = api.Fail(apierrors.NewNetworkError("query", errors.New("connection refused")))

	err := env.run("ask", "q")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.Equal(t, models.UnreachableText+"\n", env.stdout.String())
	assert.Empty(t, env.clipboard, "failures are not copied")
}

func TestAsk_FailureWithoutError(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ResultVal = api.Result{Outcome: api.Failed}

	assert.EqualError(t, env.run("ask", "q"), models.UnreachableText)
}

func TestAsk_EmptyAnswer(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ResultVal = api.Answer("")

	require.NoError(t, env.run("ask", "q"))
	assert.Equal(t, models.NoAnswerText+"\n", env.stdout.String())
}

func TestAsk_Copy(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("ask", "--copy", "q"))
	assert.Equal(t, []string{"see clause 4"}, env.clipboard)
}

func TestAsk_CopyFromConfig(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.CopyToClipboard = true

	require.NoError(t, env.run("ask", "q"))
	assert.Equal(t, []string{"see clause 4"}, env.clipboard)
}

func TestAsk_CopyFailureWarns(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Clipboard = func(string) error { return errors.New("no display") }

	require.NoError(t, env.run("ask", "-c", "q"))
	assert.Contains(t, env.stderr.String(), "Failed to copy to clipboard")
}

func TestAsk_Output(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(t.TempDir(), "answer.md")

	require.NoError(t, env.run("ask", "-o", out, "q"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "see clause 4", string(data))
	assert.Empty(t, env.stdout.String())
}

func TestAsk_Decorated(t *testing.T) {
	env := newTestEnv(t)
	env.deps.IsTTY = func() bool { return true }

	require.NoError(t, env.run("ask", "q"))

	assert.Contains(t, env.stdout.String(), "Lawbot")
	assert.Contains(t, env.stdout.String(), "see clause 4")
	assert.Contains(t, env.stderr.String(), "Answered")
}

func TestAsk_RawFlagOverridesTTY(t *testing.T) {
	env := newTestEnv(t)
	env.deps.IsTTY = func() bool { return true }

	require.NoError(t, env.run("ask", "--raw", "q"))
	assert.Equal(t, "see clause 4\n", env.stdout.String())
}

func TestAsk_ClientConstructionFails(t *testing.T) {
	env := newTestEnv(t)
	env.deps.NewAsker = func(config.Config, zerolog.Logger) (api.Asker, io.Closer, error) {
		return nil, nil, errors.New("no transport")
	}

	assert.EqualError(t, env.run("ask", "q"), "no transport")
}

func TestAsk_ClosesClient(t *testing.T) {
	env := newTestEnv(t)
	closed := false
	env.deps.NewAsker = func(config.Config, zerolog.Logger) (api.Asker, io.Closer, error) {
		return env.mock, closerFunc(func() error { closed = true; return nil }), nil
	}

	require.NoError(t, env.run("ask", "q"))
	assert.True(t, closed)
}

func TestNewClientFactory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RequestTimeout = 5

	asker, closer, err := newClient(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, closer)

	client, ok := asker.(*api.Client)
	require.True(t, ok)
	assert.Equal(t, models.AnswerEndpoint, client.Endpoint())

	require.NoError(t, closer.Close())
	assert.True(t, client.IsClosed())
}

func TestConfigCommand_Show(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("config"))
	out := env.stdout.String()
	assert.Contains(t, out, models.AnswerEndpoint)
	assert.Contains(t, out, "tokyonight")
	assert.Contains(t, out, "300s")
}

func TestConfigCommand_Set(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("config", "set", "tui_theme", "dracula"))
	require.NoError(t, env.run("config", "set", "request_timeout", "60"))

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "dracula", cfg.TUITheme)
	assert.Equal(t, 60, cfg.RequestTimeout)
}

func TestConfigCommand_SetInvalid(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorContains(t, env.run("config", "set", "tui_theme", "neon"), "unknown theme")
	assert.ErrorContains(t, env.run("config", "set", "endpoint", "x"), "unknown config key")
	assert.Error(t, env.run("config", "set", "tui_theme"))
}

func TestConfigCommand_Path(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("config", "path"))
	assert.Equal(t, filepath.Join(env.home, "config.json")+"\n", env.stdout.String())
}

func TestConfigCommand_Themes(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("config", "themes"))
	assert.Equal(t, strings.Join(render.ThemeNames(), "\n")+"\n", env.stdout.String())
}

func TestGlobalFlagsApply(t *testing.T) {
	flags := &globalFlags{theme: "nord", logLevel: "debug"}
	cfg := flags.apply(config.DefaultConfig())

	assert.Equal(t, "nord", cfg.TUITheme)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
}

func TestFormatCommandError(t *testing.T) {
	assert.Empty(t, formatCommandError(nil))

	out := formatCommandError(apierrors.NewAPIErrorWithBody(500, "/query", "failure", "detailed body"))
	assert.Contains(t, out, "HTTP Status: 500")
	assert.Contains(t, out, "detailed body")
}

func TestStdinPiped(t *testing.T) {
	assert.False(t, stdinPiped(nil))
	assert.True(t, stdinPiped(strings.NewReader("x")))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.True(t, stdinPiped(r))
}

func TestStatusSpinner(t *testing.T) {
	tests := []struct {
		name string
		stop func(s *statusSpinner)
		want string
	}{
		{"success", func(s *statusSpinner) { s.stopWithSuccess("done") }, "done"},
		{"error", func(s *statusSpinner) { s.stopWithError() }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Read only after done closes; the goroutine is the sole writer until then
			var buf bytes.Buffer

			s := newStatusSpinner(&buf, "Asking")
			s.start()
			time.Sleep(3 * s.frames.FPS)
			tt.stop(s)

			select {
			case <-s.done:
			case <-time.After(time.Second):
				t.Fatal("spinner goroutine did not exit")
			}

			out := buf.String()
			assert.True(t, strings.HasPrefix(out, "\033[?25l"), "cursor not hidden: %q", out)
			assert.Contains(t, out, "Asking")
			assert.Contains(t, out, "\r\033[K\033[?25h", "cursor not restored")
			if tt.want != "" {
				assert.Contains(t, out, tt.want)
			} else {
				assert.True(t, strings.HasSuffix(out, "\033[?25h"), "error stop should leave the line clear: %q", out)
			}

			// stopping twice is harmless
			s.stopWithError()
		})
	}
}
