package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/lawchat/internal/conversation"
	apierrors "github.com/diogo/lawchat/internal/errors"
	"github.com/diogo/lawchat/internal/models"
	"github.com/diogo/lawchat/internal/render"
	"github.com/diogo/lawchat/internal/tui"
)

type askFlags struct {
	file   string
	output string
	copy   bool
	raw    bool
}

func newAskCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	af := &askFlags{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the answer",
		Long: `Send one question to the answer service and print the reply.

The question is taken from the arguments, from --file, or from stdin.
The command exits with a non-zero status when the service cannot be reached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(deps, af, args)
			if err != nil {
				return err
			}
			return runAsk(deps, flags, af, question)
		},
	}

	cmd.Flags().StringVarP(&af.file, "file", "f", "", "Read the question from a file")
	cmd.Flags().StringVarP(&af.output, "output", "o", "", "Write the answer to a file")
	cmd.Flags().BoolVarP(&af.copy, "copy", "c", false, "Copy the answer to the clipboard")
	cmd.Flags().BoolVarP(&af.raw, "raw", "r", false, "Print the answer without decoration")

	return cmd
}

func readQuestion(deps *Dependencies, af *askFlags, args []string) (string, error) {
	switch {
	case af.file != "":
		data, err := os.ReadFile(af.file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case stdinPiped(deps.Stdin):
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", apierrors.ErrEmptyQuestion
}

func runAsk(deps *Dependencies, flags *globalFlags, af *askFlags, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return apierrors.ErrEmptyQuestion
	}

	rt, err := deps.openRuntime(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	decorated := !af.raw && deps.IsTTY()

	var spin *statusSpinner
	if decorated {
		spin = newStatusSpinner(deps.Stderr, "Asking the answer service")
		spin.start()
	}

	result := rt.asker.Ask(rt.requestContext(), question)
	text := conversation.ReplyText(result)

	if spin != nil {
		if result.OK() {
			spin.stopWithSuccess("Answered")
		} else {
			spin.stopWithError()
		}
	}

	rt.logger.Info().
		Stringer("outcome", result.Outcome).
		Str("kind", apierrors.Kind(result.Err)).
		Msg("one-shot question")

	if result.OK() && (af.copy || rt.cfg.CopyToClipboard) {
		if err := deps.Clipboard(text); err != nil {
			warn(deps.Stderr, "Failed to copy to clipboard: "+err.Error())
		} else if decorated {
			success(deps.Stderr, "Copied to clipboard")
		}
	}

	if af.output != "" && result.OK() {
		if err := os.WriteFile(af.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			success(deps.Stderr, "Answer saved to "+af.output)
		}
	} else if decorated {
		printAnswer(deps.Stdout, rt, text, deps.TermWidth())
	} else {
		fmt.Fprintln(deps.Stdout, text)
	}

	if !result.OK() {
		if result.Err == nil {
			return errors.New(models.UnreachableText)
		}
		return result.Err
	}
	return nil
}

// printAnswer prints the answer in the same bubble the chat screen uses
func printAnswer(w io.Writer, rt *runtime, text string, termWidth int) {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	theme := tui.CurrentTheme()
	label := lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render("Lawbot")
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.BotBubble).
		Foreground(theme.Text).
		Padding(0, 1).
		Width(bubbleWidth).
		Render(render.Answer(text, rt.renderOptions(bubbleWidth-4)))

	fmt.Fprintln(w, label)
	fmt.Fprintln(w, bubble)
}
