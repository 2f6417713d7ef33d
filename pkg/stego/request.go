package stego

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects which direction a Request runs the codec in.
type Mode int

const (
	ModeDecode Mode = iota
	ModeEncode
)

// ErrUnknownMode is returned by ParseMode for names other than encode and decode.
var ErrUnknownMode = errors.New("unknown mode")

func (m Mode) String() string {
	switch m {
	case ModeEncode:
		return "encode"
	case ModeDecode:
		return "decode"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "encode" or "decode", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encode":
		return ModeEncode, nil
	case "decode":
		return ModeDecode, nil
	default:
		return ModeDecode, fmt.Errorf("%w: %q (must be one of: encode, decode)", ErrUnknownMode, s)
	}
}

// Request is one codec invocation. Carrier is only read in ModeEncode.
type Request struct {
	Text    string
	Carrier string
	Mode    Mode
	// UTF16Units splits astral code points into surrogate fragments when encoding.
	UTF16Units bool
}

// Run executes req and returns the rendered result.
func Run(req Request) string {
	if req.Mode != ModeEncode {
		return Decode(req.Text)
	}
	if req.UTF16Units {
		return NewEncoder(WithUTF16Units()).Encode(req.Text, req.Carrier)
	}
	return Encode(req.Text, req.Carrier)
}
