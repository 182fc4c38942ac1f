package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/palette/internal/app"
)

var version = "dev"

// errReported marks failures the store already printed through the notifier.
var errReported = errors.New("already reported")

type globalFlags struct {
	configPath string
	prefsPath  string
	poll       time.Duration
	debug      bool
}

func (g globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		PollEvery:  g.poll,
		Debug:      g.debug,
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "palette",
		Short: "A terminal UI for a shared color registry",
		Long: `palette browses and edits the colors stored by a color registry service.

Run without a subcommand to open the interactive board. The subcommands
below talk to the same service for scripting.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "",
		"config file (default: ~/.config/palette/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "",
		"prefs file (default: ~/.config/palette/prefs.toml)")
	pf.DurationVar(&flags.poll, "poll", 0,
		"background refresh interval, overrides refresh_interval")
	pf.BoolVar(&flags.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newListCmd(&flags),
		newAddCmd(&flags),
		newRemoveCmd(&flags),
		newLogsCmd(&flags),
		newVersionCmd(),
	)
	return root
}

// printNotifier writes store notifications to the command's streams.
type printNotifier struct {
	out, errOut io.Writer
}

func (p printNotifier) NotifySuccess(msg string) { fmt.Fprintln(p.out, msg) }
func (p printNotifier) NotifyError(msg string)   { fmt.Fprintln(p.errOut, "palette: "+msg) }

func setupEnv(cmd *cobra.Command, flags *globalFlags) (*app.Env, error) {
	return app.Setup(flags.options(), printNotifier{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the palette version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "palette %s\n", version)
		},
	}
}
