package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/lawchat/internal/config"
	"github.com/diogo/lawchat/internal/models"
	"github.com/diogo/lawchat/internal/render"
)

func newConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show the effective configuration, or change one setting with
'lawchat config set <key> <value>'. Settings are stored in config.json inside
the config directory (~/.lawchat, or $LAWCHAT_HOME).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				warn(deps.Stderr, "config: "+err.Error())
			}
			return printConfig(deps, cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long:  "Change one setting. Valid keys: " + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfig(deps, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range render.ThemeNames() {
				fmt.Fprintln(deps.Stdout, name)
			}
			return nil
		},
	})

	return cmd
}

func printConfig(deps *Dependencies, cfg config.Config) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	logPath, _ := config.GetLogPath(cfg)

	rows := [][2]string{
		{"config file", path},
		{"endpoint", models.AnswerEndpoint},
		{"tui_theme", cfg.TUITheme},
		{"markdown.style", cfg.Markdown.Style},
		{"markdown.enable_emoji", fmt.Sprint(cfg.Markdown.EnableEmoji)},
		{"markdown.preserve_newlines", fmt.Sprint(cfg.Markdown.PreserveNewLines)},
		{"log_level", cfg.LogLevel},
		{"log_file", logPath},
		{"copy_to_clipboard", fmt.Sprint(cfg.CopyToClipboard)},
		{"request_timeout", fmt.Sprintf("%ds", cfg.RequestTimeout)},
	}
	for _, row := range rows {
		fmt.Fprintf(deps.Stdout, "%-27s %s\n", row[0], row[1])
	}
	return nil
}

func setConfig(deps *Dependencies, key, value string) error {
	// Start from the file alone so env overrides are not persisted
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if key == "tui_theme" {
		if _, ok := render.LookupTheme(value); !ok {
			return fmt.Errorf("unknown theme %q (valid: %s)", value, strings.Join(render.ThemeNames(), ", "))
		}
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	success(deps.Stdout, fmt.Sprintf("%s = %s", key, value))
	return nil
}
