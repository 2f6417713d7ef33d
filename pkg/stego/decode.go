package stego

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// minPrintable is the lowest code point the decoder emits.
const minPrintable = 32

// Status is the decoder's verdict on one fragment.
type Status string

const (
	StatusKept              Status = "kept"
	StatusControl           Status = "control"
	StatusInvalid           Status = "invalid"
	StatusSurrogatePair     Status = "surrogate-pair"
	StatusSurrogateTail     Status = "surrogate-tail"
	StatusUnpairedSurrogate Status = "unpaired-surrogate"
)

// Fragment is one delimiter-separated run of bit markers.
type Fragment struct {
	Index int    `json:"index"`
	Bits  string `json:"bits"`
	// Value is the parsed number. Parsing stops once it exceeds
	// unicode.MaxRune, so it is only a lower bound for invalid fragments.
	Value uint32 `json:"value"`
	// Rune is what the fragment contributes to the message. For a surrogate
	// pair both halves carry the combined rune; only the head emits it.
	Rune   rune   `json:"rune"`
	Status Status `json:"status"`
}

// Emits reports whether the fragment adds a rune to the decoded message.
func (f Fragment) Emits() bool {
	return f.Status == StatusKept || f.Status == StatusSurrogatePair
}

// Report describes how an input string splits into visible text and a
// hidden sequence.
type Report struct {
	// Prefix is the visible text before the first bit marker.
	Prefix string `json:"prefix"`
	// Hidden is the contiguous marker run starting at the first bit marker.
	Hidden string `json:"hidden"`
	// Trailing is whatever follows the hidden run. It is ignored.
	Trailing  string     `json:"trailing"`
	Fragments []Fragment `json:"fragments"`
}

// Found reports whether a hidden sequence was located.
func (r Report) Found() bool {
	return r.Hidden != ""
}

// Carrier returns the last visible rune before the hidden sequence.
func (r Report) Carrier() string {
	prefix := strings.TrimRightFunc(r.Prefix, IsMarker)
	if prefix == "" {
		return ""
	}
	runes := []rune(prefix)
	return string(runes[len(runes)-1])
}

// Message returns the decoded text.
func (r Report) Message() string {
	var b strings.Builder
	for _, f := range r.Fragments {
		if f.Emits() {
			b.WriteRune(f.Rune)
		}
	}
	return b.String()
}

// Dropped returns the number of fragments that did not survive decoding.
func (r Report) Dropped() int {
	n := 0
	for _, f := range r.Fragments {
		if !f.Emits() && f.Status != StatusSurrogateTail {
			n++
		}
	}
	return n
}

// Decode recovers the message hidden in input, ignoring visible text around
// the hidden sequence. It returns "" when nothing is hidden.
func Decode(input string) string {
	if input == "" {
		return ""
	}
	return Inspect(input).Message()
}

// Contains reports whether s carries at least one bit marker.
func Contains(s string) bool {
	return strings.IndexFunc(s, isBit) >= 0
}

// Strip removes every marker of the invisible alphabet from s.
func Strip(s string) string {
	return strings.Map(func(r rune) rune {
		if IsMarker(r) {
			return -1
		}
		return r
	}, s)
}

// Inspect scans input the way Decode does and reports every step.
func Inspect(input string) Report {
	start := strings.IndexFunc(input, isBit)
	if start < 0 {
		return Report{Prefix: input}
	}

	end := len(input)
	if i := strings.IndexFunc(input[start:], func(r rune) bool { return !IsMarker(r) }); i >= 0 {
		end = start + i
	}

	report := Report{
		Prefix:   input[:start],
		Hidden:   input[start:end],
		Trailing: input[end:],
	}
	report.Fragments = resolve(split(report.Hidden))
	return report
}

type rawFragment struct {
	bits     string
	value    uint32
	overflow bool
}

// split cuts a hidden sequence on Delim, skipping empty pieces. A final
// piece without a closing delimiter is still returned.
func split(hidden string) []rawFragment {
	var (
		frags []rawFragment
		cur   rawFragment
		bits  strings.Builder
	)
	flush := func() {
		if bits.Len() == 0 {
			return
		}
		cur.bits = bits.String()
		frags = append(frags, cur)
		cur = rawFragment{}
		bits.Reset()
	}

	for _, r := range hidden {
		var bit uint32
		switch classify(r) {
		case symDelim:
			flush()
			continue
		case symBit0:
			bits.WriteByte('0')
		case symBit1:
			bits.WriteByte('1')
			bit = 1
		default:
			continue
		}
		if cur.overflow {
			continue
		}
		cur.value = cur.value<<1 | bit
		if cur.value > unicode.MaxRune {
			cur.overflow = true
		}
	}
	flush()
	return frags
}

func resolve(raw []rawFragment) []Fragment {
	out := make([]Fragment, len(raw))
	for i := 0; i < len(raw); i++ {
		f := raw[i]
		out[i] = Fragment{Index: i, Bits: f.bits, Value: f.value}
		v := rune(f.value)

		switch {
		case f.overflow:
			out[i].Status = StatusInvalid
		case isHighSurrogate(v) && i+1 < len(raw) && !raw[i+1].overflow && isLowSurrogate(rune(raw[i+1].value)):
			next := raw[i+1]
			combined := utf16.DecodeRune(v, rune(next.value))
			out[i].Rune = combined
			out[i].Status = StatusSurrogatePair
			out[i+1] = Fragment{Index: i + 1, Bits: next.bits, Value: next.value, Rune: combined, Status: StatusSurrogateTail}
			i++
		case utf16.IsSurrogate(v):
			out[i].Status = StatusUnpairedSurrogate
		case v >= minPrintable:
			out[i].Rune = v
			out[i].Status = StatusKept
		default:
			out[i].Status = StatusControl
		}
	}
	return out
}

func isHighSurrogate(r rune) bool {
	return r >= 0xD800 && r < 0xDC00
}

func isLowSurrogate(r rune) bool {
	return r >= 0xDC00 && r < 0xE000
}
