package app

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/birdayz/smuggle/pkg/encoding"
	"github.com/birdayz/smuggle/pkg/stego"
)

// NewRecord captures a finished codec request for output.
func NewRecord(req stego.Request, output string) encoding.Record {
	rec := encoding.Record{
		Mode:   req.Mode.String(),
		Input:  req.Text,
		Output: output,
	}
	if req.Mode == stego.ModeEncode {
		rec.Carrier = req.Carrier
	} else {
		rec.Carrier = stego.Inspect(req.Text).Carrier()
	}
	return rec
}

// HandleResult formats and prints a single codec result.
func (a *App) HandleResult(rec encoding.Record, outputFmt OutputFormat) {
	var stderr bytes.Buffer

	data := a.FormatResult(rec, &stderr, outputFmt)

	stderr.WriteTo(a.ErrWriter)
	_, _ = a.ColorableOut.Write(data)
	if outputFmt != OutputFormatRaw && outputFmt != OutputFormatMsgPack {
		fmt.Fprintln(a.OutWriter)
	}
}

// FormatResult renders a record according to the output format.
func (a *App) FormatResult(rec encoding.Record, stderr *bytes.Buffer, outputFmt OutputFormat) []byte {
	switch outputFmt {
	case OutputFormatJSON:
		jsonResult := map[string]any{
			"mode":         rec.Mode,
			"carrier":      rec.Carrier,
			"input":        rec.Input,
			"output":       rec.Output,
			"hidden_runes": countMarkers(rec),
		}
		b, err := json.Marshal(jsonResult)
		if err != nil {
			fmt.Fprintf(stderr, "could not encode JSON result: %v\n", err)
			return nil
		}
		return a.FormatJSON(b)
	case OutputFormatJSONEachRow:
		b, err := encoding.JSONEachRow{}.Encode(rec)
		if err != nil {
			fmt.Fprintf(stderr, "could not encode JSON result: %v\n", err)
		}
		return b
	case OutputFormatMsgPack:
		b, err := encoding.MsgPack{}.Encode(rec)
		if err != nil {
			fmt.Fprintf(stderr, "could not encode msgpack result: %v\n", err)
		}
		return b
	case OutputFormatHex:
		return []byte(hex.EncodeToString([]byte(rec.Output)))
	default:
		return []byte(rec.Output)
	}
}

// FormatJSON pretty-prints JSON data, returning it unchanged if it does not parse.
func (a *App) FormatJSON(data []byte) []byte {
	if b, err := a.JSONFmt.Format(data); err == nil {
		return b
	}
	return data
}

// countMarkers counts the invisible runes of the artifact side of rec.
func countMarkers(rec encoding.Record) int {
	artifact := rec.Output
	if rec.Mode == stego.ModeDecode.String() {
		artifact = rec.Input
	}
	n := 0
	for _, r := range artifact {
		if stego.IsMarker(r) {
			n++
		}
	}
	return n
}
