package main

import (
	"fmt"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/five82/palette/internal/config"
	"github.com/five82/palette/internal/logging"
	"github.com/five82/palette/internal/logtail"
)

func newLogsCmd(flags *globalFlags) *cobra.Command {
	var (
		lines    int
		level    string
		category string
		noColor  bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the palette log",
		Long: `Print the last lines of palette.log.

Examples:
  palette logs
  palette logs -n 200 --level warn
  palette logs --category api`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := logtail.Read(cfg.LogPath(), lines)
			if err != nil {
				return err
			}
			out = logtail.Filter{
				MinLevel: logging.ParseLevel(level),
				Category: category,
			}.Apply(out)

			if len(out) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no log lines in %s\n", cfg.LogPath())
				return nil
			}
			colorize := !noColor && isTerminal(cmd.OutOrStdout())
			for _, line := range out {
				if colorize {
					line = logtail.Colorize(line)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to read (0 for all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level: debug, info, warn, error")
	cmd.Flags().StringVar(&category, "category", "", "only show one category (api, store, ui, config, clipboard)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(f.Fd())
}
