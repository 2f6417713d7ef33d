package inspect

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/birdayz/smuggle/pkg/app"
	"github.com/birdayz/smuggle/pkg/encoding"
	"github.com/birdayz/smuggle/pkg/stego"
)

// inspection is the JSON shape of an inspected input.
type inspection struct {
	stego.Report
	Found   bool   `json:"found"`
	Carrier string `json:"carrier"`
	Message string `json:"message"`
	Dropped int    `json:"dropped"`
}

// NewCommand returns the "smuggle inspect" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		inputModeFlag string
		outputFormat  = app.OutputFormatDefault
	)

	cmd := &cobra.Command{
		Use:   "inspect [ARTIFACT...]",
		Short: "Show how a string splits into carrier, hidden fragments and trailing text",
		Long:  "Show how the decoder reads a string: the visible prefix, every hidden fragment with its bits and code point, and what was dropped. Each argument is inspected on its own; without arguments all of stdin is read.",
		Example: `  smuggle inspect "$(smuggle encode hi)"
  smuggle encode hi | smuggle inspect --output json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != app.OutputFormatDefault && outputFormat != app.OutputFormatJSON {
				return fmt.Errorf("inspect supports the default and json output formats, got %q", outputFormat)
			}

			run := func(rec encoding.Record) error {
				report := stego.Inspect(rec.Input)
				a.Log.Debugw("inspected", "fragments", len(report.Fragments), "found", report.Found())
				if outputFormat == app.OutputFormatJSON {
					return writeJSON(a, report)
				}
				writeTable(a, report)
				return nil
			}

			for _, arg := range args {
				if err := run(encoding.Record{Input: arg}); err != nil {
					return err
				}
			}
			if len(args) > 0 {
				return nil
			}

			inputs, errCh := a.ReadInputs(app.InputFormatDefault, inputModeFlag, 0)
			return a.Process(cmd.Context(), inputs, errCh, run)
		},
	}

	a.AddNoHeadersFlag(cmd)
	cmd.Flags().StringVarP(&inputModeFlag, "input-mode", "", "full", "Scanning input mode: [line|full]")
	cmd.Flags().Var(&outputFormat, "output", "Set output format: default or json")
	if err := cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"default", "json"}, cobra.ShellCompDirectiveNoFileComp
	}); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	return cmd
}

func writeJSON(a *app.App, report stego.Report) error {
	if report.Fragments == nil {
		report.Fragments = []stego.Fragment{}
	}
	b, err := json.Marshal(inspection{
		Report:  report,
		Found:   report.Found(),
		Carrier: report.Carrier(),
		Message: report.Message(),
		Dropped: report.Dropped(),
	})
	if err != nil {
		return fmt.Errorf("could not encode JSON result: %w", err)
	}
	_, _ = a.ColorableOut.Write(a.FormatJSON(b))
	fmt.Fprintln(a.OutWriter)
	return nil
}

func writeTable(a *app.App, report stego.Report) {
	kept := color.New(color.FgGreen)
	dropped := color.New(color.FgRed)
	pair := color.New(color.FgCyan)
	if !app.IsTerminal(a.OutWriter) {
		kept.DisableColor()
		dropped.DisableColor()
		pair.DisableColor()
	}

	if !report.Found() {
		fmt.Fprintf(a.OutWriter, "No hidden message in %q\n", report.Prefix)
		return
	}

	if !a.NoHeaderFlag {
		fmt.Fprintf(a.OutWriter, "Prefix:   %q\n", report.Prefix)
		fmt.Fprintf(a.OutWriter, "Carrier:  %s\n", report.Carrier())
		fmt.Fprintf(a.OutWriter, "Message:  %q\n", report.Message())
		if report.Trailing != "" {
			fmt.Fprintf(a.OutWriter, "Trailing: %q (ignored)\n", report.Trailing)
		}
		fmt.Fprintln(a.OutWriter)
	}

	w := app.NewTabWriter(a.ColorableOut)
	if !a.NoHeaderFlag {
		fmt.Fprintf(w, "INDEX\tBITS\tCODE POINT\tCHAR\tSTATUS\t\n")
	}
	for _, f := range report.Fragments {
		status := kept
		switch f.Status {
		case stego.StatusSurrogatePair, stego.StatusSurrogateTail:
			status = pair
		case stego.StatusControl, stego.StatusInvalid, stego.StatusUnpairedSurrogate:
			status = dropped
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n", f.Index, f.Bits, codePoint(f), char(f), status.Sprint(f.Status))
	}
	w.Flush()

	if n := report.Dropped(); n > 0 && !a.NoHeaderFlag {
		writeDropped(a.OutWriter, n)
	}
}

func codePoint(f stego.Fragment) string {
	if f.Status == stego.StatusInvalid {
		return fmt.Sprintf(">U+%X", f.Value)
	}
	return fmt.Sprintf("U+%04X", f.Value)
}

func char(f stego.Fragment) string {
	if f.Status != stego.StatusKept {
		return "-"
	}
	return fmt.Sprintf("%q", f.Rune)
}

func writeDropped(w io.Writer, n int) {
	noun := "fragments"
	if n == 1 {
		noun = "fragment"
	}
	fmt.Fprintf(w, "\n%d %s dropped.\n", n, noun)
}
