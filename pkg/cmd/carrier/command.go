package carrier

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/birdayz/smuggle/pkg/app"
	"github.com/birdayz/smuggle/pkg/carrier"
)

// NewCommand returns the "smuggle carrier" command with subcommands.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carrier",
		Short: "Manage the carrier character encoded text hides behind",
	}

	cmd.AddCommand(
		newListCommand(a),
		newUseCommand(a),
		newSelectCommand(a),
		newCurrentCommand(a),
	)

	return cmd
}

// NewCarriersAlias returns "smuggle carriers", a shortcut for "carrier list".
func NewCarriersAlias(a *app.App) *cobra.Command {
	cmd := newListCommand(a)
	cmd.Use = "carriers"
	cmd.Short = "List available carriers (alias of 'carrier list')"
	return cmd
}

func current(a *app.App) (carrier.Carrier, error) {
	c, err := carrier.Resolve("", a.Cfg.Carrier)
	if err != nil {
		return carrier.Carrier{}, fmt.Errorf("invalid carrier: %w", err)
	}
	return c, nil
}

func newListCommand(a *app.App) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the emoji and letter carriers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch carrier.Kind(kindFlag) {
			case "", carrier.KindEmoji, carrier.KindLetter, carrier.KindCustom:
			default:
				return fmt.Errorf("invalid kind %q: must be one of: emoji, letter, custom", kindFlag)
			}

			selected, err := current(a)
			if err != nil {
				return err
			}

			w := app.NewTabWriter(a.OutWriter)
			if !a.NoHeaderFlag {
				fmt.Fprintf(w, "  NAME\tCARRIER\tKIND\t\n")
			}
			for _, c := range carrier.All() {
				if kindFlag != "" && string(c.Kind) != kindFlag {
					continue
				}
				marker := "  "
				if c.Value == selected.Value {
					marker = "* "
				}
				fmt.Fprintf(w, "%s%s\t%s\t%s\t\n", marker, c.Name, c.Value, c.Kind)
			}
			if selected.Kind == carrier.KindCustom && (kindFlag == "" || kindFlag == string(carrier.KindCustom)) {
				fmt.Fprintf(w, "* %s\t%s\t%s\t\n", "-", selected.Value, selected.Kind)
			}
			return w.Flush()
		},
	}

	a.AddNoHeadersFlag(cmd)
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Only list carriers of this kind: emoji, letter, custom")
	if err := cmd.RegisterFlagCompletionFunc("kind", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(carrier.KindEmoji), string(carrier.KindLetter), string(carrier.KindCustom)}, cobra.ShellCompDirectiveNoFileComp
	}); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
	return cmd
}

func newUseCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "use [NAME|CHAR]",
		Short:             "Set the carrier used by encode and interactive sessions",
		Example:           "  smuggle carrier use rocket\n  smuggle carrier use q\n  smuggle carrier use ★",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidCarrierArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := carrier.Parse(args[0])
			if err != nil {
				return err
			}
			if err := a.Cfg.SetCarrier(c); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			a.Log.Debugw("carrier stored", "carrier", c.Value, "path", a.Cfg.Path())
			fmt.Fprintf(a.OutWriter, "Switched to carrier %s.\n", describe(c))
			return nil
		},
	}
}

func newSelectCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Interactively select a carrier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := current(a)
			if err != nil {
				return err
			}

			all := carrier.All()
			items := make([]string, 0, len(all))
			for _, c := range all {
				items = append(items, fmt.Sprintf("%s  %s", c.Value, c.Name))
			}
			pos := carrier.Index(selected)
			if pos < 0 {
				pos = 0
			}

			searcher := func(input string, index int) bool {
				name := strings.ReplaceAll(strings.ToLower(all[index].Name), " ", "")
				input = strings.ReplaceAll(strings.ToLower(input), " ", "")
				return strings.Contains(name, input) || all[index].Value == input
			}

			p := promptui.Select{
				Label:     "Select carrier",
				Items:     items,
				Searcher:  searcher,
				Size:      10,
				CursorPos: pos,
			}

			i, _, err := p.Run()
			if err != nil {
				// User cancelled (e.g. Ctrl-C). Not an error.
				return nil
			}

			if err := a.Cfg.SetCarrier(all[i]); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintf(a.OutWriter, "Switched to carrier %s.\n", describe(all[i]))
			return nil
		},
	}
}

func newCurrentCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Display the current carrier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := current(a)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.OutWriter, c.Value)
			return nil
		},
	}
}

func describe(c carrier.Carrier) string {
	if c.Kind == carrier.KindCustom || c.Name == c.Value {
		return fmt.Sprintf("%q", c.Value)
	}
	return fmt.Sprintf("%q (%s)", c.Value, c.Name)
}
