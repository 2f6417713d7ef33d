package session

import (
	"github.com/birdayz/smuggle/pkg/carrier"
	"github.com/birdayz/smuggle/pkg/stego"
)

const (
	encodePlaceholder = "Enter text to encode"
	decodePlaceholder = "Paste encoded text to decode"
)

// Session is the interactive encode/decode state: the current mode, the
// selected carrier and the last input with its rendered output.
// It starts in decode mode.
type Session struct {
	mode       stego.Mode
	carrier    carrier.Carrier
	utf16Units bool

	input  string
	output string
}

// Option configures a Session.
type Option func(*Session)

// WithMode overrides the initial decode mode.
func WithMode(m stego.Mode) Option {
	return func(s *Session) {
		s.mode = m
	}
}

// WithUTF16Units makes encode mode split astral code points into surrogate fragments.
func WithUTF16Units(enabled bool) Option {
	return func(s *Session) {
		s.utf16Units = enabled
	}
}

// New creates a Session using c as the carrier; an unset carrier falls back
// to carrier.Default.
func New(c carrier.Carrier, opts ...Option) *Session {
	if c.IsZero() {
		c = carrier.Default()
	}
	s := &Session{
		mode:    stego.ModeDecode,
		carrier: c,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.render()
	return s
}

func (s *Session) Mode() stego.Mode {
	return s.mode
}

func (s *Session) Carrier() carrier.Carrier {
	return s.carrier
}

func (s *Session) Input() string {
	return s.input
}

func (s *Session) Output() string {
	return s.output
}

// Toggle switches between encode and decode. Input is cleared and the
// output re-rendered for the empty input, so encode mode shows the bare
// carrier.
func (s *Session) Toggle() stego.Mode {
	if s.mode == stego.ModeEncode {
		s.mode = stego.ModeDecode
	} else {
		s.mode = stego.ModeEncode
	}
	s.input = ""
	s.render()
	return s.mode
}

// SetInput replaces the input and returns the new output, and whether it
// differs from the previous one.
func (s *Session) SetInput(text string) (string, bool) {
	s.input = text
	changed := s.render()
	return s.output, changed
}

// SetCarrier selects a new carrier. In encode mode the output is recomputed.
func (s *Session) SetCarrier(c carrier.Carrier) (string, bool) {
	if c.IsZero() {
		return s.output, false
	}
	s.carrier = c
	changed := s.render()
	return s.output, changed
}

// Placeholder is the prompt text for the current mode.
func (s *Session) Placeholder() string {
	if s.mode == stego.ModeEncode {
		return encodePlaceholder
	}
	return decodePlaceholder
}

// ShowsPicker reports whether carrier selection applies in the current mode.
func (s *Session) ShowsPicker() bool {
	return s.mode == stego.ModeEncode
}

// Request is the codec request for the current state.
func (s *Session) Request() stego.Request {
	return stego.Request{
		Text:       s.input,
		Carrier:    s.carrier.Value,
		Mode:       s.mode,
		UTF16Units: s.utf16Units,
	}
}

func (s *Session) render() bool {
	out := stego.Run(s.Request())
	changed := out != s.output
	s.output = out
	return changed
}
