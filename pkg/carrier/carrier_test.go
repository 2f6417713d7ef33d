package carrier

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	require.Len(t, Emojis, 22)
	require.Len(t, Letters, 26)
	require.Len(t, All(), 48)

	require.Equal(t, "😀", Default().Value)
	require.Equal(t, "a", Letters[0].Value)
	require.Equal(t, "z", Letters[25].Value)

	seen := make(map[string]bool)
	for _, c := range All() {
		require.Equal(t, 1, utf8.RuneCountInString(c.Value), "carrier %q", c.Name)
		require.False(t, seen[c.Name], "duplicate name %q", c.Name)
		seen[c.Name] = true
	}
}

func TestIndex(t *testing.T) {
	require.Equal(t, 0, Index(Default()))
	require.Equal(t, len(Emojis), Index(Letters[0]))
	require.Equal(t, -1, Index(Carrier{Value: "é"}))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Carrier
		wantErr error
	}{
		{name: "emoji by value", in: "🚀", want: Carrier{Name: "rocket", Value: "🚀", Kind: KindEmoji}},
		{name: "emoji by name", in: "Rocket", want: Carrier{Name: "rocket", Value: "🚀", Kind: KindEmoji}},
		{name: "letter", in: "q", want: Carrier{Name: "q", Value: "q", Kind: KindLetter}},
		{name: "custom", in: "★", want: Carrier{Value: "★", Kind: KindCustom}},
		{name: "decomposed accent", in: "e\u0301", want: Carrier{Value: "\u00e9", Kind: KindCustom}},
		{name: "empty", in: "", wantErr: ErrEmpty},
		{name: "blank", in: "  ", wantErr: ErrEmpty},
		{name: "two characters", in: "ab", wantErr: ErrNotSingle},
		{name: "zero width marker", in: "\u200b", wantErr: ErrInvisible},
		{name: "control", in: "\x07", wantErr: ErrInvisible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	c, err := Resolve("", "")
	require.NoError(t, err)
	require.Equal(t, Default(), c)

	c, err = Resolve("", "fire")
	require.NoError(t, err)
	require.Equal(t, "🔥", c.Value)

	// The flag wins over the configured value.
	c, err = Resolve("k", "fire")
	require.NoError(t, err)
	require.Equal(t, "k", c.Value)

	_, err = Resolve("", "not a carrier")
	require.ErrorIs(t, err, ErrNotSingle)
}
