package carrier

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/birdayz/smuggle/pkg/stego"
)

var (
	ErrEmpty     = errors.New("carrier is empty")
	ErrNotSingle = errors.New("carrier must be a single character")
	ErrInvisible = errors.New("carrier must be a visible character")
)

// Kind groups carriers the way the picker shows them.
type Kind string

const (
	KindEmoji  Kind = "emoji"
	KindLetter Kind = "letter"
	KindCustom Kind = "custom"
)

// Carrier is a visible character that anchors an encoded artifact.
type Carrier struct {
	Name  string
	Value string
	Kind  Kind
}

func (c Carrier) String() string {
	return c.Value
}

// IsZero reports whether c is unset.
func (c Carrier) IsZero() bool {
	return c.Value == ""
}

// Emojis is the emoji picker, in display order.
var Emojis = []Carrier{
	{Name: "grinning", Value: "😀", Kind: KindEmoji},
	{Name: "joy", Value: "😂", Kind: KindEmoji},
	{Name: "smiling-hearts", Value: "🥰", Kind: KindEmoji},
	{Name: "sunglasses", Value: "😎", Kind: KindEmoji},
	{Name: "thinking", Value: "🤔", Kind: KindEmoji},
	{Name: "thumbsup", Value: "👍", Kind: KindEmoji},
	{Name: "thumbsdown", Value: "👎", Kind: KindEmoji},
	{Name: "clap", Value: "👏", Kind: KindEmoji},
	{Name: "sweat-smile", Value: "😅", Kind: KindEmoji},
	{Name: "handshake", Value: "🤝", Kind: KindEmoji},
	{Name: "tada", Value: "🎉", Kind: KindEmoji},
	{Name: "birthday", Value: "🎂", Kind: KindEmoji},
	{Name: "pizza", Value: "🍕", Kind: KindEmoji},
	{Name: "rainbow", Value: "🌈", Kind: KindEmoji},
	{Name: "sun", Value: "🌞", Kind: KindEmoji},
	{Name: "moon", Value: "🌙", Kind: KindEmoji},
	{Name: "fire", Value: "🔥", Kind: KindEmoji},
	{Name: "100", Value: "💯", Kind: KindEmoji},
	{Name: "rocket", Value: "🚀", Kind: KindEmoji},
	{Name: "eyes", Value: "👀", Kind: KindEmoji},
	{Name: "skull", Value: "💀", Kind: KindEmoji},
	{Name: "holding-back-tears", Value: "🥹", Kind: KindEmoji},
}

// Letters is the Latin lowercase picker, a to z.
var Letters = func() []Carrier {
	letters := make([]Carrier, 0, 26)
	for r := 'a'; r <= 'z'; r++ {
		letters = append(letters, Carrier{Name: string(r), Value: string(r), Kind: KindLetter})
	}
	return letters
}()

// Default is the carrier used when nothing else is selected.
func Default() Carrier {
	return Emojis[0]
}

// All returns the emoji followed by the letters.
func All() []Carrier {
	all := make([]Carrier, 0, len(Emojis)+len(Letters))
	all = append(all, Emojis...)
	return append(all, Letters...)
}

// Index returns the position of c in All, or -1.
func Index(c Carrier) int {
	for i, candidate := range All() {
		if candidate.Value == c.Value {
			return i
		}
	}
	return -1
}

// Lookup finds a catalog entry by name or by character.
func Lookup(s string) (Carrier, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range All() {
		if c.Name == name || c.Value == s {
			return c, true
		}
	}
	return Carrier{}, false
}

// Parse accepts a catalog name or any single visible character. Input is
// NFC-normalized first, so a decomposed "é" is one character.
func Parse(s string) (Carrier, error) {
	if strings.TrimSpace(s) == "" {
		return Carrier{}, ErrEmpty
	}
	if c, ok := Lookup(s); ok {
		return c, nil
	}

	value := norm.NFC.String(s)
	if utf8.RuneCountInString(value) != 1 {
		return Carrier{}, fmt.Errorf("%w: %q", ErrNotSingle, s)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError || stego.IsMarker(r) || !unicode.IsGraphic(r) || unicode.IsSpace(r) {
		return Carrier{}, fmt.Errorf("%w: %U", ErrInvisible, r)
	}
	if c, ok := Lookup(value); ok {
		return c, nil
	}
	return Carrier{Value: value, Kind: KindCustom}, nil
}

// Resolve picks the carrier from an explicit flag, then the configured value,
// then the default.
func Resolve(flag, configured string) (Carrier, error) {
	if flag != "" {
		return Parse(flag)
	}
	if configured != "" {
		c, err := Parse(configured)
		if err != nil {
			return Carrier{}, fmt.Errorf("configured carrier: %w", err)
		}
		return c, nil
	}
	return Default(), nil
}
