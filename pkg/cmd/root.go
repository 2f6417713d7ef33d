package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/birdayz/smuggle/pkg/app"
	"github.com/birdayz/smuggle/pkg/cmd/carrier"
	"github.com/birdayz/smuggle/pkg/cmd/completion"
	smuggleconfig "github.com/birdayz/smuggle/pkg/cmd/config"
	"github.com/birdayz/smuggle/pkg/cmd/decode"
	"github.com/birdayz/smuggle/pkg/cmd/encode"
	"github.com/birdayz/smuggle/pkg/cmd/inspect"
	"github.com/birdayz/smuggle/pkg/cmd/interactive"
)

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(app.New(), version, commit).ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree around a.
func NewRootCommand(a *app.App, version, commit string) *cobra.Command {
	root := &cobra.Command{
		Use:          "smuggle",
		Short:        "Hide text in invisible characters behind an emoji or letter",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.InReader = cmd.InOrStdin()

			if a.OutWriter != os.Stdout {
				a.ColorableOut = a.OutWriter
			}

			return a.InitConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.Log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.smuggle/config)")
	root.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Log codec and config details to stderr as JSON")

	root.AddCommand(
		encode.NewCommand(a),
		decode.NewCommand(a),
		inspect.NewCommand(a),
		carrier.NewCommand(a),
		carrier.NewCarriersAlias(a),
		smuggleconfig.NewCommand(a),
		interactive.NewCommand(a),
		completion.NewCommand(a),
	)

	a.Root = root
	return root
}
