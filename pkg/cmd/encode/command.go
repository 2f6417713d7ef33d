package encode

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/birdayz/smuggle/pkg/app"
	"github.com/birdayz/smuggle/pkg/carrier"
	"github.com/birdayz/smuggle/pkg/encoding"
	"github.com/birdayz/smuggle/pkg/stego"
)

// NewCommand returns the "smuggle encode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		inputModeFlag  string
		bufferSizeFlag int
		templateFlag   bool
		utf16Flag      bool
		inputFormat    = app.InputFormatDefault
		outputFormat   = app.OutputFormatDefault
	)

	cmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Hide text behind a carrier. Reads stdin if no text is given.",
		Long:  "Hide text behind a visible carrier character. Arguments are joined by spaces and encoded as one message; without arguments stdin is read, one message per line by default. Characters below U+0020 (newlines, tabs) do not survive decoding.",
		Example: `  smuggle encode "meet at noon"
  smuggle encode -c rocket "meet at noon"
  echo 'one message per line' | smuggle encode
  cat letter.txt | smuggle encode --input-mode full --output raw
  echo '{"input":"hi","carrier":"z"}' | smuggle encode --input json-each-row --output json-each-row`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := a.ResolveCarrier()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("output") {
				if outputFormat, err = a.OutputFormat(); err != nil {
					return err
				}
			}
			utf16Units := a.Cfg.UTF16
			if cmd.Flags().Changed("utf16") {
				utf16Units = utf16Flag
			}

			i := 0
			run := func(rec encoding.Record) error {
				text := rec.Input
				if templateFlag {
					rendered, err := render(text, i)
					if err != nil {
						return err
					}
					text = rendered
				}
				i++

				carrierValue := selected.Value
				if rec.Carrier != "" {
					override, err := carrier.Parse(rec.Carrier)
					if err != nil {
						fmt.Fprintf(a.ErrWriter, "Skipping input with invalid carrier: %v\n", err)
						return nil
					}
					carrierValue = override.Value
				}

				req := stego.Request{
					Text:       text,
					Carrier:    carrierValue,
					Mode:       stego.ModeEncode,
					UTF16Units: utf16Units,
				}
				out := stego.Run(req)
				a.Log.Debugw("encoded", "carrier", carrierValue, "input_bytes", len(text), "output_bytes", len(out))
				a.HandleResult(app.NewRecord(req, out), outputFormat)
				return nil
			}

			if len(args) > 0 {
				return run(encoding.Record{Input: strings.Join(args, " ")})
			}

			inputs, errCh := a.ReadInputs(inputFormat, inputModeFlag, bufferSizeFlag)
			return a.Process(cmd.Context(), inputs, errCh, run)
		},
	}

	a.AddCarrierFlag(cmd)
	cmd.Flags().StringVarP(&inputModeFlag, "input-mode", "", "line", "Scanning input mode: [line|full]")
	cmd.Flags().Var(&inputFormat, "input", "Set input format: default, json-each-row, msgpack (json-each-row rows may set a per-row carrier)")
	cmd.Flags().Var(&outputFormat, "output", "Set output format: default, raw (no trailing newline), json, json-each-row, hex, msgpack")
	cmd.Flags().IntVarP(&bufferSizeFlag, "line-length-limit", "", 0, "line length limit in line input mode")
	cmd.Flags().BoolVar(&templateFlag, "template", false, "run input through go template engine before encoding")
	cmd.Flags().BoolVar(&utf16Flag, "utf16", false, "Encode characters above U+FFFF as UTF-16 surrogate halves, like browser encoders")

	if err := cmd.RegisterFlagCompletionFunc("input", app.CompleteInputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
	if err := cmd.RegisterFlagCompletionFunc("output", app.CompleteOutputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	return cmd
}

// render runs text through a go template with sprig functions. The input's
// zero-based position is available as {{ .i }}.
func render(text string, i int) (string, error) {
	tpl, err := template.New("smuggle").Funcs(sprig.HermeticTxtFuncMap()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse go template: %v", err)
	}

	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, map[string]any{"i": i}); err != nil {
		return "", fmt.Errorf("failed to execute go template: %v", err)
	}
	return buf.String(), nil
}
