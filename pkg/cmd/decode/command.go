package decode

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birdayz/smuggle/pkg/app"
	"github.com/birdayz/smuggle/pkg/encoding"
	"github.com/birdayz/smuggle/pkg/stego"
)

// NewCommand returns the "smuggle decode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		inputModeFlag  string
		bufferSizeFlag int
		strictFlag     bool
		inputFormat    = app.InputFormatDefault
		outputFormat   = app.OutputFormatDefault
	)

	cmd := &cobra.Command{
		Use:   "decode [ARTIFACT...]",
		Short: "Reveal text hidden in a string. Reads stdin if no text is given.",
		Long:  "Reveal text hidden behind a carrier. Each argument is decoded on its own; without arguments stdin is read, one artifact per line by default. Visible text before and after the hidden sequence is ignored. Input without a hidden sequence decodes to an empty line.",
		Example: `  smuggle decode "$(pbpaste)"
  smuggle decode "$ARTIFACT_ONE" "$ARTIFACT_TWO"
  pbpaste | smuggle decode --input-mode full
  smuggle encode hi | smuggle decode --strict`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				var err error
				if outputFormat, err = a.OutputFormat(); err != nil {
					return err
				}
			}

			run := func(rec encoding.Record) error {
				if strictFlag && !stego.Contains(rec.Input) {
					return fmt.Errorf("no hidden message in input %q", stego.Strip(rec.Input))
				}
				req := stego.Request{Text: rec.Input, Mode: stego.ModeDecode}
				out := stego.Run(req)
				if a.Verbose {
					report := stego.Inspect(rec.Input)
					a.Log.Debugw("decoded", "fragments", len(report.Fragments), "dropped", report.Dropped(), "trailing_bytes", len(report.Trailing))
				}
				a.HandleResult(app.NewRecord(req, out), outputFormat)
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

			inputs, errCh := a.ReadInputs(inputFormat, inputModeFlag, bufferSizeFlag)
			return a.Process(cmd.Context(), inputs, errCh, run)
		},
	}

	cmd.Flags().StringVarP(&inputModeFlag, "input-mode", "", "line", "Scanning input mode: [line|full]")
	cmd.Flags().Var(&inputFormat, "input", "Set input format: default, json-each-row, msgpack")
	cmd.Flags().Var(&outputFormat, "output", "Set output format: default, raw (no trailing newline), json, json-each-row, hex, msgpack")
	cmd.Flags().IntVarP(&bufferSizeFlag, "line-length-limit", "", 0, "line length limit in line input mode")
	cmd.Flags().BoolVar(&strictFlag, "strict", false, "Fail if an input carries no hidden message")

	if err := cmd.RegisterFlagCompletionFunc("input", app.CompleteInputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
	if err := cmd.RegisterFlagCompletionFunc("output", app.CompleteOutputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	return cmd
}
