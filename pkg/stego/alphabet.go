// Package stego hides text behind a visible carrier character using a run of
// zero-width code points, and recovers it again.
//
// Every code point of the message is written in minimal-width binary, one
// marker per bit, and closed by a delimiter marker. The encoded artifact is
// the carrier followed by that invisible run.
package stego

// The invisible alphabet. Roles are fixed; there is no versioning.
const (
	Bit0  = '\u200C' // ZERO WIDTH NON-JOINER
	Bit1  = '\u200B' // ZERO WIDTH SPACE
	Delim = '\u200D' // ZERO WIDTH JOINER
)

// markerWidth is the UTF-8 length of every alphabet rune.
const markerWidth = 3

type symbol uint8

const (
	symNone symbol = iota
	symBit0
	symBit1
	symDelim
)

func classify(r rune) symbol {
	switch r {
	case Bit0:
		return symBit0
	case Bit1:
		return symBit1
	case Delim:
		return symDelim
	default:
		return symNone
	}
}

// IsMarker reports whether r belongs to the invisible alphabet.
func IsMarker(r rune) bool {
	return classify(r) != symNone
}

func isBit(r rune) bool {
	s := classify(r)
	return s == symBit0 || s == symBit1
}
