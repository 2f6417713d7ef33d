package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/birdayz/smuggle/pkg/app"
	"github.com/birdayz/smuggle/pkg/config"
)

// NewCommand returns the "smuggle config" command with subcommands.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Handle smuggle configuration",
	}

	cmd.AddCommand(
		newViewCommand(a),
		newPathCommand(a),
		newGetCommand(a),
		newSetCommand(a),
	)

	return cmd
}

func newViewCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := yaml.Marshal(&a.Cfg)
			if err != nil {
				return fmt.Errorf("unable to encode config: %w", err)
			}
			_, err = a.OutWriter.Write(b)
			return err
		},
	}
}

func newPathCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of the configuration file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.OutWriter, a.Cfg.Path())
		},
	}
}

func newGetCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:       "get [KEY]",
		Short:     "Print a single configuration value",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: config.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			switch args[0] {
			case "carrier":
				value = a.Cfg.Carrier
			case "mode":
				value = a.Cfg.Mode
			case "output":
				value = a.Cfg.Output
			case "utf16":
				value = strconv.FormatBool(a.Cfg.UTF16)
			}
			fmt.Fprintln(a.OutWriter, value)
			return nil
		},
	}
}

func newSetCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "set [KEY] [VALUE]",
		Short: "Set a configuration value. An empty value resets the key.",
		Example: `  smuggle config set carrier rocket
  smuggle config set mode encode
  smuggle config set output raw
  smuggle config set utf16 true`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return config.Keys, cobra.ShellCompDirectiveNoFileComp
			case 1:
				switch args[0] {
				case "carrier":
					return a.ValidCarrierArgs(cmd, args, toComplete)
				case "mode":
					return []string{"encode", "decode"}, cobra.ShellCompDirectiveNoFileComp
				case "output":
					return app.CompleteOutputFormat(cmd, args, toComplete)
				case "utf16":
					return []string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp
				}
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if key == "output" && value != "" {
				var format app.OutputFormat
				if err := format.Set(value); err != nil {
					return fmt.Errorf("invalid output: %w", err)
				}
			}
			if err := a.Cfg.Set(key, value); err != nil {
				return err
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			a.Log.Debugw("config written", "key", key, "path", a.Cfg.Path())
			fmt.Fprintf(a.OutWriter, "Set %s in %s.\n", key, a.Cfg.Path())
			return nil
		},
	}
}
