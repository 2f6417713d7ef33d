package stego

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

// markers renders a bit string such as "1001000|" as alphabet runes, with
// '|' standing for Delim.
func markers(t *testing.T, pattern string) string {
	t.Helper()
	var b strings.Builder
	for _, c := range pattern {
		switch c {
		case '0':
			b.WriteRune(Bit0)
		case '1':
			b.WriteRune(Bit1)
		case '|':
			b.WriteRune(Delim)
		default:
			t.Fatalf("bad pattern character %q", c)
		}
	}
	return b.String()
}

func TestEncode_Hi(t *testing.T) {
	got := Encode("Hi", "😀")

	want := "😀" + markers(t, "1001000|1101001|")
	require.Equal(t, want, got)
	require.True(t, strings.HasPrefix(got, "😀"))
	require.Equal(t, "Hi", Decode(got))
}

func TestEncode_OnlyAlphabetAfterCarrier(t *testing.T) {
	got := Encode("Hello, 世界 🚀", "a")
	require.True(t, strings.HasPrefix(got, "a"))
	for _, r := range got[1:] {
		require.True(t, IsMarker(r), "unexpected rune %U", r)
	}
	require.Equal(t, PayloadLen("Hello, 世界 🚀"), utf8.RuneCountInString(got)-1)
}

func TestEncode_EmptyInputs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		carrier string
		want    string
	}{
		{name: "empty text", text: "", carrier: "😀", want: "😀"},
		{name: "unset carrier", text: "secret", carrier: "", want: ""},
		{name: "both empty", text: "", carrier: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Encode(tt.text, tt.carrier))
		})
	}

	require.Equal(t, "", Decode(Encode("", "😀")))
}

func TestEncode_MinimalWidth(t *testing.T) {
	require.Equal(t, "x"+markers(t, "0|"), Encode("\x00", "x"))
	require.Equal(t, "x"+markers(t, "1|"), Encode("\x01", "x"))
	require.Equal(t, "x"+markers(t, "100000|"), Encode(" ", "x"))
}

func TestRoundTrip(t *testing.T) {
	messages := []string{
		"This is my secret text.",
		"a",
		" ",
		"~!@#$%^&*()_+{}|:\"<>?",
		"Grüße aus Köln",
		"日本語のテキスト",
		"emoji 😀🥹🚀 inside",
		" non-breaking",
		strings.Repeat("long message ", 200),
	}
	carriers := []string{"😀", "🔥", "a", "z", "é"}

	for _, msg := range messages {
		for _, c := range carriers {
			require.Equal(t, msg, Decode(Encode(msg, c)), "carrier %q", c)
		}
	}
}

func TestDecode_NoPayload(t *testing.T) {
	for _, s := range []string{"", "😀", "plain visible text", "a", "tab\tand\nnewline"} {
		require.Equal(t, "", Decode(s), "input %q", s)
		require.False(t, Contains(s))
	}
}

func TestDecode_DelimitersOnly(t *testing.T) {
	require.Equal(t, "", Decode("😀"+markers(t, "|||")))
}

func TestDecode_VisiblePrefix(t *testing.T) {
	encoded := Encode("hidden", "🚀")
	for _, prefix := range []string{"look at this ", "😀😀", "multi\nline\n", "🎉 party "} {
		require.Equal(t, Decode(encoded), Decode(prefix+encoded))
		require.Equal(t, "hidden", Decode(prefix+encoded))
	}
}

func TestDecode_TrailingVisibleTextIgnored(t *testing.T) {
	encoded := Encode("hidden", "🚀")
	require.Equal(t, "hidden", Decode(encoded+" and more text"))

	r := Inspect(encoded + " tail")
	require.Equal(t, " tail", r.Trailing)
	require.Equal(t, "🚀", r.Prefix)
}

func TestDecode_ControlCharactersDropped(t *testing.T) {
	in := "line one\nline\ttwo\x01\x1f!"
	got := Decode(Encode(in, "😀"))
	require.Equal(t, "line onelinetwo!", got)
}

func TestDecode_MissingFinalDelimiter(t *testing.T) {
	s := "😀" + markers(t, "1001000|1101001")
	require.Equal(t, "Hi", Decode(s))
}

func TestDecode_EmptyFragmentsSkipped(t *testing.T) {
	s := "😀" + markers(t, "1001000|||1101001||")
	require.Equal(t, "Hi", Decode(s))
}

func TestDecode_LeadingZerosTolerated(t *testing.T) {
	s := "😀" + markers(t, "0001001000|")
	require.Equal(t, "H", Decode(s))
}

func TestDecode_OverlongFragmentDropped(t *testing.T) {
	s := "x" + markers(t, strings.Repeat("1", 40)+"|1001000|")
	require.Equal(t, "H", Decode(s))

	r := Inspect(s)
	require.Len(t, r.Fragments, 2)
	require.Equal(t, StatusInvalid, r.Fragments[0].Status)
	require.Equal(t, StatusKept, r.Fragments[1].Status)
	require.Equal(t, 1, r.Dropped())
}

func TestUTF16Units(t *testing.T) {
	enc := NewEncoder(WithUTF16Units())

	got := enc.Encode("😀", "a")
	// U+1F600 is D83D DE00 in UTF-16.
	want := "a" + markers(t, "1101100000111101|1101111000000000|")
	require.Equal(t, want, got)
	require.Equal(t, "😀", Decode(got))

	r := Inspect(got)
	require.Len(t, r.Fragments, 2)
	require.Equal(t, StatusSurrogatePair, r.Fragments[0].Status)
	require.Equal(t, StatusSurrogateTail, r.Fragments[1].Status)
	require.Equal(t, 0, r.Dropped())

	msg := "mixed 🥹 and ascii 🚀!"
	require.Equal(t, msg, Decode(enc.Encode(msg, "z")))
	require.Equal(t, Encode("plain", "z"), enc.Encode("plain", "z"))
}

func TestDecode_UnpairedSurrogateDropped(t *testing.T) {
	// A lone high surrogate followed by 'H'.
	s := "a" + markers(t, "1101100000111101|1001000|")
	require.Equal(t, "H", Decode(s))
	require.Equal(t, StatusUnpairedSurrogate, Inspect(s).Fragments[0].Status)
}

func TestInspect(t *testing.T) {
	s := "see " + Encode("A\x07", "👀") + "!"
	r := Inspect(s)

	require.True(t, r.Found())
	require.Equal(t, "see 👀", r.Prefix)
	require.Equal(t, "👀", r.Carrier())
	require.Equal(t, "!", r.Trailing)
	require.Len(t, r.Fragments, 2)

	require.Equal(t, "1000001", r.Fragments[0].Bits)
	require.Equal(t, uint32('A'), r.Fragments[0].Value)
	require.Equal(t, StatusKept, r.Fragments[0].Status)
	require.Equal(t, "111", r.Fragments[1].Bits)
	require.Equal(t, StatusControl, r.Fragments[1].Status)

	require.Equal(t, "A", r.Message())
	require.Equal(t, Decode(s), r.Message())
}

func TestInspect_NotFound(t *testing.T) {
	r := Inspect("just text")
	require.False(t, r.Found())
	require.Equal(t, "just text", r.Prefix)
	require.Empty(t, r.Fragments)
	require.Equal(t, "", r.Message())
}

func TestStrip(t *testing.T) {
	s := "before " + Encode("secret", "😀") + " after"
	require.Equal(t, "before 😀 after", Strip(s))
	require.True(t, Contains(s))
	require.False(t, Contains(Strip(s)))
}

func TestRun(t *testing.T) {
	enc := Run(Request{Text: "Hi", Carrier: "😀", Mode: ModeEncode})
	require.Equal(t, Encode("Hi", "😀"), enc)
	require.Equal(t, "Hi", Run(Request{Text: enc, Mode: ModeDecode}))

	// The carrier is ignored when decoding.
	require.Equal(t, "Hi", Run(Request{Text: enc, Carrier: "a", Mode: ModeDecode}))

	utf := Run(Request{Text: "🚀", Carrier: "a", Mode: ModeEncode, UTF16Units: true})
	require.Equal(t, NewEncoder(WithUTF16Units()).Encode("🚀", "a"), utf)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Encode")
	require.NoError(t, err)
	require.Equal(t, ModeEncode, m)

	m, err = ParseMode(" decode ")
	require.NoError(t, err)
	require.Equal(t, ModeDecode, m)

	_, err = ParseMode("shift")
	require.ErrorIs(t, err, ErrUnknownMode)

	require.Equal(t, "encode", ModeEncode.String())
	require.Equal(t, "decode", ModeDecode.String())
}
