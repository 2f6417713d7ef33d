package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*OutputFormat)(nil)
	_ pflag.Value = (*InputFormat)(nil)
)

// OutputFormat selects how encode and decode print each result. It is a
// pflag.Value so --output rejects unknown names at parse time.
type OutputFormat string

const (
	// OutputFormatDefault prints the result text followed by a newline.
	OutputFormatDefault OutputFormat = "default"
	// OutputFormatRaw prints the result text with no trailing newline, so an
	// artifact can be piped into a clipboard untouched.
	OutputFormatRaw OutputFormat = "raw"
	// OutputFormatJSON prints one pretty JSON object with the mode, carrier,
	// input, output and the number of invisible runes.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatJSONEachRow prints one compact encoding.Record per line.
	OutputFormatJSONEachRow OutputFormat = "json-each-row"
	// OutputFormatHex prints the UTF-8 bytes of the result as hex, which makes
	// the zero-width markers visible.
	OutputFormatHex OutputFormat = "hex"
	// OutputFormatMsgPack writes encoding.Record values back to back.
	OutputFormatMsgPack OutputFormat = "msgpack"
)

var outputFormats = []string{"default", "raw", "json", "json-each-row", "hex", "msgpack"}

func (e *OutputFormat) String() string {
	return string(*e)
}

func (e *OutputFormat) Set(v string) error {
	for _, name := range outputFormats {
		if v == name {
			*e = OutputFormat(v)
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q: must be one of: default, raw, json, json-each-row, hex, msgpack", v)
}

func (e *OutputFormat) Type() string {
	return "OutputFormat"
}

// CompleteOutputFormat completes --output and the "output" config key.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return outputFormats, cobra.ShellCompDirectiveNoFileComp
}

// InputFormat selects how stdin is split into records when no arguments are
// given.
type InputFormat string

const (
	// InputFormatDefault treats each line (or all of stdin with
	// --input-mode full) as the record's input text.
	InputFormatDefault InputFormat = "default"
	// InputFormatJSONEachRow reads one encoding.Record per line; encode honors
	// a per-row carrier.
	InputFormatJSONEachRow InputFormat = "json-each-row"
	// InputFormatMsgPack reads a stream of encoding.Record values.
	InputFormatMsgPack InputFormat = "msgpack"
)

var inputFormats = []string{"default", "json-each-row", "msgpack"}

func (e *InputFormat) String() string {
	return string(*e)
}

func (e *InputFormat) Set(v string) error {
	for _, name := range inputFormats {
		if v == name {
			*e = InputFormat(v)
			return nil
		}
	}
	return fmt.Errorf("unknown input format %q: must be one of: default, json-each-row, msgpack", v)
}

func (e *InputFormat) Type() string {
	return "InputFormat"
}

// CompleteInputFormat completes --input.
func CompleteInputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return inputFormats, cobra.ShellCompDirectiveNoFileComp
}
