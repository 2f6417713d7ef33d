package encoding

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is one codec invocation as read from or written to a batch stream.
type Record struct {
	Mode    string `json:"mode,omitempty" msgpack:"mode,omitempty"`
	Carrier string `json:"carrier,omitempty" msgpack:"carrier,omitempty"`
	Input   string `json:"input" msgpack:"input"`
	Output  string `json:"output" msgpack:"output"`
}

// Encoder turns a record into its wire form.
type Encoder interface {
	Encode(Record) ([]byte, error)
}

// Decoder reads the wire form of a single record.
type Decoder interface {
	Decode([]byte) (Record, error)
}

var (
	_ Encoder = JSONEachRow{}
	_ Decoder = JSONEachRow{}
	_ Encoder = MsgPack{}
	_ Decoder = MsgPack{}
)

// JSONEachRow is one JSON object per line.
type JSONEachRow struct{}

func (JSONEachRow) Encode(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

func (JSONEachRow) Decode(b []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("decode json record: %w", err)
	}
	return rec, nil
}

// MsgPack is a stream of msgpack maps; values are self-delimiting.
type MsgPack struct{}

func (MsgPack) Encode(rec Record) ([]byte, error) {
	return msgpack.Marshal(&rec)
}

func (MsgPack) Decode(b []byte) (Record, error) {
	var rec Record
	if err := msgpack.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("decode msgpack record: %w", err)
	}
	return rec, nil
}

// ReadMsgPack decodes records from r until EOF and sends them on out. Out is
// closed when reading stops; a read failure is sent on errCh.
func ReadMsgPack(r io.Reader, out chan<- Record, errCh chan<- error) {
	defer close(out)
	dec := msgpack.NewDecoder(r)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if !errors.Is(err, io.EOF) {
				errCh <- fmt.Errorf("decode msgpack record: %w", err)
			}
			return
		}
		out <- rec
	}
}
