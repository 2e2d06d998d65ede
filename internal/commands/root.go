// Package commands provides CLI commands for lawchat.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/lawchat/internal/config"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags override configuration for a single run
type globalFlags struct {
	theme    string
	logLevel string
	logFile  string
}

func (f *globalFlags) apply(cfg config.Config) config.Config {
	if f.theme != "" {
		cfg.TUITheme = f.theme
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
	return cfg
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "lawchat",
		Short: "Terminal chat for legal questions",
		Long: `lawchat is a terminal chat client for a legal question answering service.
Each question is sent to the answer service and the reply is added to the
conversation. Past questions are listed in a side panel.

Examples:
  lawchat                               Start the chat screen
  lawchat ask "Can my landlord keep the deposit?"
  echo "question" | lawchat ask          Read the question from stdin
  lawchat config set tui_theme nord      Change a setting`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "lawchat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(deps, flags)
		},
	}

	root.SetIn(deps.Stdin)
	root.SetOut(deps.Stdout)
	root.SetErr(deps.Stderr)

	root.PersistentFlags().StringVarP(&flags.theme, "theme", "t", "", "Color theme (tokyonight, catppuccin, nord, dracula, light)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Log file path")
	root.Flags().BoolP("version", "v", false, "Show version and exit")

	root.AddCommand(newChatCmd(deps, flags))
	root.AddCommand(newAskCmd(deps, flags))
	root.AddCommand(newConfigCmd(deps))

	return root
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintln(deps.Stderr, formatCommandError(err))
		os.Exit(1)
	}
}
