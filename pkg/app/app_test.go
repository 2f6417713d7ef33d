package app

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/birdayz/smuggle/pkg/encoding"
	"github.com/birdayz/smuggle/pkg/stego"
)

func newTestApp(t *testing.T, in string, cfg string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	var out, errOut bytes.Buffer
	a := New()
	a.OutWriter = &out
	a.ColorableOut = &out
	a.ErrWriter = &errOut
	a.InReader = strings.NewReader(in)
	a.CfgFile = path
	require.NoError(t, a.InitConfig())
	return a, &out, &errOut
}

func TestOutputFormat_Set(t *testing.T) {
	var f OutputFormat
	require.NoError(t, f.Set("msgpack"))
	require.Equal(t, OutputFormatMsgPack, f)
	require.Error(t, f.Set("xml"))

	var in InputFormat
	require.NoError(t, in.Set("json-each-row"))
	require.Error(t, in.Set("hex"))
}

func TestResolveCarrier(t *testing.T) {
	a, _, _ := newTestApp(t, "", "carrier: pizza\n")

	c, err := a.ResolveCarrier()
	require.NoError(t, err)
	require.Equal(t, "🍕", c.Value)

	a.CarrierFlag = "b"
	c, err = a.ResolveCarrier()
	require.NoError(t, err)
	require.Equal(t, "b", c.Value)

	a.CarrierFlag = "two"
	_, err = a.ResolveCarrier()
	require.Error(t, err)
}

func TestOutputFormatFromConfig(t *testing.T) {
	a, _, _ := newTestApp(t, "", "output: hex\n")
	f, err := a.OutputFormat()
	require.NoError(t, err)
	require.Equal(t, OutputFormatHex, f)

	a, _, _ = newTestApp(t, "", "output: yaml\n")
	_, err = a.OutputFormat()
	require.Error(t, err)
}

func TestNewRecord(t *testing.T) {
	req := stego.Request{Text: "Hi", Carrier: "😀", Mode: stego.ModeEncode}
	out := stego.Run(req)
	rec := NewRecord(req, out)
	require.Equal(t, encoding.Record{Mode: "encode", Carrier: "😀", Input: "Hi", Output: out}, rec)

	dec := stego.Request{Text: "look " + out, Mode: stego.ModeDecode}
	rec = NewRecord(dec, stego.Run(dec))
	require.Equal(t, "decode", rec.Mode)
	require.Equal(t, "😀", rec.Carrier)
	require.Equal(t, "Hi", rec.Output)
}

func TestHandleResult(t *testing.T) {
	artifact := stego.Encode("Hi", "😀")
	rec := encoding.Record{Mode: "encode", Carrier: "😀", Input: "Hi", Output: artifact}

	tests := []struct {
		name   string
		format OutputFormat
		check  func(t *testing.T, out string)
	}{
		{
			name:   "default",
			format: OutputFormatDefault,
			check: func(t *testing.T, out string) {
				require.Equal(t, artifact+"\n", out)
			},
		},
		{
			name:   "raw",
			format: OutputFormatRaw,
			check: func(t *testing.T, out string) {
				require.Equal(t, artifact, out)
			},
		},
		{
			name:   "hex",
			format: OutputFormatHex,
			check: func(t *testing.T, out string) {
				require.Equal(t, hex.EncodeToString([]byte(artifact))+"\n", out)
			},
		},
		{
			name:   "json",
			format: OutputFormatJSON,
			check: func(t *testing.T, out string) {
				var got map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &got))
				require.Equal(t, "Hi", got["input"])
				require.Equal(t, artifact, got["output"])
				require.Equal(t, float64(stego.PayloadLen("Hi")), got["hidden_runes"])
			},
		},
		{
			name:   "json-each-row",
			format: OutputFormatJSONEachRow,
			check: func(t *testing.T, out string) {
				require.True(t, strings.HasSuffix(out, "\n"))
				got, err := encoding.JSONEachRow{}.Decode([]byte(strings.TrimSuffix(out, "\n")))
				require.NoError(t, err)
				require.Equal(t, rec, got)
			},
		},
		{
			name:   "msgpack",
			format: OutputFormatMsgPack,
			check: func(t *testing.T, out string) {
				got, err := encoding.MsgPack{}.Decode([]byte(out))
				require.NoError(t, err)
				require.Equal(t, rec, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, out, errOut := newTestApp(t, "", "")
			a.HandleResult(rec, tt.format)
			require.Empty(t, errOut.String())
			tt.check(t, out.String())
		})
	}
}

func collect(t *testing.T, a *App, format InputFormat, mode string) ([]encoding.Record, error) {
	t.Helper()
	inputs, errCh := a.ReadInputs(format, mode, 0)
	var got []encoding.Record
	err := a.Process(context.Background(), inputs, errCh, func(rec encoding.Record) error {
		got = append(got, rec)
		return nil
	})
	return got, err
}

func TestReadInputs_Lines(t *testing.T) {
	a, _, _ := newTestApp(t, "first\nsecond\n", "")
	got, err := collect(t, a, InputFormatDefault, "line")
	require.NoError(t, err)
	require.Equal(t, []encoding.Record{{Input: "first"}, {Input: "second"}}, got)
}

func TestReadInputs_Full(t *testing.T) {
	a, _, _ := newTestApp(t, "first\nsecond\n", "")
	got, err := collect(t, a, InputFormatDefault, "full")
	require.NoError(t, err)
	require.Equal(t, []encoding.Record{{Input: "first\nsecond\n"}}, got)
}

func TestReadInputs_JSONEachRowSkipsBadRows(t *testing.T) {
	in := `{"input":"one","carrier":"a"}
not json
{"input":"two"}
`
	a, _, errOut := newTestApp(t, in, "")
	got, err := collect(t, a, InputFormatJSONEachRow, "line")
	require.NoError(t, err)
	require.Equal(t, []encoding.Record{{Input: "one", Carrier: "a"}, {Input: "two"}}, got)
	require.Contains(t, errOut.String(), "Skipping input")
}

func TestReadInputs_MsgPack(t *testing.T) {
	var stream bytes.Buffer
	for _, s := range []string{"one", "two"} {
		b, err := encoding.MsgPack{}.Encode(encoding.Record{Input: s})
		require.NoError(t, err)
		stream.Write(b)
	}

	a, _, _ := newTestApp(t, stream.String(), "")
	got, err := collect(t, a, InputFormatMsgPack, "line")
	require.NoError(t, err)
	require.Equal(t, []encoding.Record{{Input: "one"}, {Input: "two"}}, got)
}

func TestReadInputs_LineTooLong(t *testing.T) {
	a, _, _ := newTestApp(t, strings.Repeat("x", 100)+"\n", "")
	inputs, errCh := a.ReadInputs(InputFormatDefault, "line", 16)
	err := a.Process(context.Background(), inputs, errCh, func(encoding.Record) error { return nil })
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	quiet, err := newLogger(false)
	require.NoError(t, err)
	require.NotNil(t, quiet)

	verbose, err := newLogger(true)
	require.NoError(t, err)
	require.True(t, verbose.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestProcess_Cancelled(t *testing.T) {
	a, _, _ := newTestApp(t, "", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nothing is ever sent, so only the cancelled context can end the loop.
	inputs := make(chan Input)
	errCh := make(chan error)
	err := a.Process(ctx, inputs, errCh, func(encoding.Record) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestFormatCompletion(t *testing.T) {
	var f OutputFormat
	err := f.Set("yaml")
	require.ErrorContains(t, err, `unknown output format "yaml"`)

	names, _ := CompleteOutputFormat(nil, nil, "")
	for _, name := range names {
		require.NoError(t, f.Set(name))
	}
	names, _ = CompleteInputFormat(nil, nil, "")
	var in InputFormat
	for _, name := range names {
		require.NoError(t, in.Set(name))
	}
}
