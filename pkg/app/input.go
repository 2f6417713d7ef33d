package app

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/birdayz/smuggle/pkg/encoding"
)

// Input is one unit of work read from stdin. Err is set when the unit could
// not be parsed; the stream continues after it.
type Input struct {
	Record encoding.Record
	Err    error
}

// ReadInputs streams a.InReader as inputs. inputMode is "line" (one input per
// line) or "full" (all of stdin as one input); it does not apply to msgpack.
// A fatal read error is delivered on the error channel before the input
// channel is closed.
func (a *App) ReadInputs(format InputFormat, inputMode string, bufferSize int) (<-chan Input, <-chan error) {
	out := make(chan Input, 1)
	errCh := make(chan error, 1)

	parse := func(data []byte) Input {
		return Input{Record: encoding.Record{Input: string(data)}}
	}
	if format == InputFormatJSONEachRow {
		parse = func(data []byte) Input {
			rec, err := encoding.JSONEachRow{}.Decode(data)
			return Input{Record: rec, Err: err}
		}
	}

	switch {
	case format == InputFormatMsgPack:
		records := make(chan encoding.Record, 1)
		go func() {
			// ReadMsgPack reports its error before closing records.
			encoding.ReadMsgPack(a.InReader, records, errCh)
		}()
		go func() {
			defer close(out)
			for rec := range records {
				out <- Input{Record: rec}
			}
		}()
	case inputMode == "full":
		go readFull(a.InReader, parse, out, errCh)
	default:
		go readLines(a.InReader, parse, out, errCh, bufferSize)
	}
	return out, errCh
}

// Process calls fn for each input until the stream ends or ctx is done.
// Unparsable inputs are reported on a.ErrWriter and skipped. A cancelled ctx
// returns ctx.Err().
func (a *App) Process(ctx context.Context, inputs <-chan Input, errCh <-chan error, fn func(encoding.Record) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-inputs:
			if !ok {
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			if in.Err != nil {
				fmt.Fprintf(a.ErrWriter, "Skipping input: %v\n", in.Err)
				continue
			}
			if err := fn(in.Record); err != nil {
				return err
			}
		}
	}
}

func readLines(reader io.Reader, parse func([]byte) Input, out chan<- Input, errCh chan<- error, bufferSize int) {
	defer close(out)
	scanner := bufio.NewScanner(reader)
	if bufferSize > 0 {
		scanner.Buffer(make([]byte, bufferSize), bufferSize)
	}
	for scanner.Scan() {
		out <- parse(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		errCh <- fmt.Errorf("scanning input failed: %w", err)
	}
}

func readFull(reader io.Reader, parse func([]byte) Input, out chan<- Input, errCh chan<- error) {
	defer close(out)
	data, err := io.ReadAll(reader)
	if err != nil {
		errCh <- fmt.Errorf("unable to read data: %w", err)
		return
	}
	out <- parse(data)
}
