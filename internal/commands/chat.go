package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/lawchat/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the chat screen",
		Long: `Start the interactive chat screen.

Enter sends the question, Tab opens the list of past questions and
Esc closes it. Ctrl+Y copies the last answer. Ctrl+C quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps, flags)
		},
	}
}

func runChat(deps *Dependencies, flags *globalFlags) error {
	rt, err := deps.openRuntime(flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctrl := rt.newController()
	rt.logger.Info().Msg("chat session started")

	err = deps.TUI.RunChat(ctrl,
		tui.WithLogger(rt.logger),
		tui.WithContext(rt.requestContext()),
		tui.WithRenderOptions(rt.renderOptions(0)),
		tui.WithClipboard(deps.Clipboard),
	)

	rt.logger.Info().
		Int("questions", len(ctrl.Questions())).
		Err(err).
		Msg("chat session ended")
	return err
}
