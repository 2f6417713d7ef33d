package stego

import (
	"math/bits"
	"strings"
	"unicode/utf16"
)

// Encoder turns message text into carrier-prefixed artifacts.
// The zero value writes one fragment per code point.
type Encoder struct {
	utf16Units bool
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithUTF16Units makes the encoder write code points above U+FFFF as two
// fragments, one per UTF-16 surrogate half. Browser based encoders that work
// on UTF-16 code units produce the same layout.
func WithUTF16Units() Option {
	return func(e *Encoder) {
		e.utf16Units = true
	}
}

// NewEncoder creates an Encoder with the given options applied.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEncoder Encoder

// Encode hides text behind carrier using the default encoder.
func Encode(text, carrier string) string {
	return defaultEncoder.Encode(text, carrier)
}

// PayloadLen returns the number of invisible runes Encode appends for text.
func PayloadLen(text string) int {
	return defaultEncoder.PayloadLen(text)
}

// Encode returns carrier followed by the invisible encoding of text.
// An empty text or an unset carrier yields the carrier alone, so nothing is
// hidden and "" is returned when both are empty.
func (e *Encoder) Encode(text, carrier string) string {
	if text == "" || carrier == "" {
		return carrier
	}

	var b strings.Builder
	b.Grow(len(carrier) + e.PayloadLen(text)*markerWidth)
	b.WriteString(carrier)
	e.each(text, func(unit uint32) {
		writeUnit(&b, unit)
	})
	return b.String()
}

// PayloadLen returns the number of invisible runes Encode appends for text.
func (e *Encoder) PayloadLen(text string) int {
	n := 0
	e.each(text, func(unit uint32) {
		n += unitWidth(unit) + 1
	})
	return n
}

// each calls fn for every unit that gets its own fragment.
func (e *Encoder) each(text string, fn func(unit uint32)) {
	for _, r := range text {
		if e.utf16Units && r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fn(uint32(hi))
			fn(uint32(lo))
			continue
		}
		fn(uint32(r))
	}
}

// unitWidth is the minimal binary width of v; zero still takes one bit.
func unitWidth(v uint32) int {
	if v == 0 {
		return 1
	}
	return bits.Len32(v)
}

func writeUnit(b *strings.Builder, v uint32) {
	for i := unitWidth(v) - 1; i >= 0; i-- {
		if v>>uint(i)&1 == 1 {
			b.WriteRune(Bit1)
		} else {
			b.WriteRune(Bit0)
		}
	}
	b.WriteRune(Delim)
}
