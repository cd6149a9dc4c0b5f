package chord

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNotation(t *testing.T) {
	tests := []struct {
		name    string
		want    Notation
		wantErr bool
	}{
		{name: "english", want: English},
		{name: "german", want: German},
		{name: "czech", want: German},
		{name: "Czech", want: German},
		{name: "solfege", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseNotation(tc.name)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownNotation)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseChord(t *testing.T) {
	tests := []struct {
		literal  string
		notation Notation
		root     Note
		parts    int
		wantErr  bool
	}{
		{literal: "C", notation: English, root: Note{Pitch: 0}},
		{literal: "F#m7", notation: English, root: Note{Pitch: 6}, parts: 1},
		{literal: "Bbmaj7/D", notation: English, root: Note{Pitch: 10, Flat: true}, parts: 2},
		{literal: "Bm", notation: English, root: Note{Pitch: 11}, parts: 1},
		{literal: "Hm", notation: German, root: Note{Pitch: 11}, parts: 1},
		{literal: "B", notation: German, root: Note{Pitch: 10, Flat: true}},
		{literal: "Cb", notation: English, root: Note{Pitch: 11, Flat: true}},
		{literal: "Hm", notation: English, wantErr: true},
		{literal: "X", notation: English, wantErr: true},
		{literal: "", notation: English, wantErr: true},
		{literal: "C/H", notation: English, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s_%s", tc.notation, tc.literal), func(t *testing.T) {
			c, err := Parse(tc.literal, tc.notation)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrBadRoot)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.root, c.Root)
			require.Len(t, c.Tail, tc.parts)
		})
	}
}

func TestTransposeAndRender(t *testing.T) {
	tests := []struct {
		literal  string
		notation Notation
		offset   int
		want     string
	}{
		{"C", English, 2, "D"},
		{"C", English, 1, "C#"},
		{"Db", English, 1, "D"},
		{"Eb", English, 1, "E"},
		{"Bb", English, 1, "B"},
		{"Bb", English, -1, "A"},
		{"Ab", English, 1, "A"},
		{"Gb", English, -1, "F"},
		{"Db", English, -1, "C"},
		{"Db", English, 2, "Eb"},
		{"Bm", English, 5, "Em"},
		{"D", English, 5, "G"},
		{"G", English, -7, "C"},
		{"A", English, 13, "A#"},
		{"C/E", English, 2, "D/F#"},
		{"Am7/G", English, 3, "Cm7/A#"},
		{"Eb/Bb", English, 2, "F/C"},
		{"Cadd9", English, 4, "Eadd9"},
		{"Hm", German, 5, "Em"},
		{"H7", German, 1, "C7"},
		{"B", German, 1, "H"},
		{"A", German, 1, "B"},
		{"F#", German, 4, "B"},
		{"C/H", German, 2, "D/C#"},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s%+d", tc.literal, tc.offset), func(t *testing.T) {
			c, err := Parse(tc.literal, tc.notation)
			require.NoError(t, err)
			require.Equal(t, tc.want, c.Transpose(tc.offset).Render(tc.notation))
		})
	}
}

func TestRenderAcrossNotations(t *testing.T) {
	tests := []struct {
		literal string
		from    Notation
		to      Notation
		want    string
	}{
		{"Bm", English, German, "Hm"},
		{"Bb", English, German, "B"},
		{"A#", English, German, "B"},
		{"D", English, German, "D"},
		{"Hm", German, English, "Bm"},
		{"B", German, English, "Bb"},
		{"F#m/H", German, English, "F#m/B"},
	}

	for _, tc := range tests {
		t.Run(tc.literal+"_"+tc.to.String(), func(t *testing.T) {
			c, err := Parse(tc.literal, tc.from)
			require.NoError(t, err)
			require.Equal(t, tc.want, c.Render(tc.to))
		})
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	chords := map[Notation][]string{
		English: {"C", "C#m", "D7", "D#dim", "E", "Fmaj7", "F#m7/C#", "G", "G#", "Am", "A#sus4", "B/D#"},
		// German sharps are left out: a sharp landing on pitch 10 is spelled B,
		// which reads back as a flat.
		German: {"C", "Dm", "E7", "F", "G", "Am", "B", "Hm", "H7/E"},
	}

	for notation, literals := range chords {
		for _, literal := range literals {
			for k := -12; k <= 12; k++ {
				up, err := Transposer{Notation: notation, Offset: k}.Transpose(literal)
				require.NoError(t, err)

				down, err := Transposer{Notation: notation, Offset: -k}.Transpose(up.Chord)
				require.NoError(t, err)

				require.Equal(t, literal, down.Chord, "%s %+d -> %s", literal, k, up.Chord)
			}
		}
	}
}

func TestEnharmonicSpellingsNormalise(t *testing.T) {
	tests := []struct {
		literal string
		want    string
	}{
		{"E#", "F"},
		{"B#m", "Cm"},
		{"Cb", "B"},
		{"Fb7", "E7"},
	}

	for _, tc := range tests {
		t.Run(tc.literal, func(t *testing.T) {
			up, err := Transposer{Notation: English, Offset: 3}.Transpose(tc.literal)
			require.NoError(t, err)

			down, err := Transposer{Notation: English, Offset: -3}.Transpose(up.Chord)
			require.NoError(t, err)
			require.Equal(t, tc.want, down.Chord)
		})
	}
}

func TestTransposer(t *testing.T) {
	tests := []struct {
		name    string
		tr      Transposer
		literal string
		want    Result
		wantErr bool
	}{
		{
			name:    "no offset keeps literal",
			tr:      Transposer{Notation: English},
			literal: "Bm",
			want:    Result{Chord: "Bm"},
		},
		{
			name:    "octave offset keeps literal",
			tr:      Transposer{Notation: English, Offset: 12},
			literal: "Db",
			want:    Result{Chord: "Db"},
		},
		{
			name:    "transposed with untransposed alternate",
			tr:      Transposer{Notation: English, Alt: German, Offset: 5},
			literal: "Bm",
			want:    Result{Chord: "Em", Alt: "Hm", HasAlt: true},
		},
		{
			name:    "disabled keeps primary but renders alternate",
			tr:      Transposer{Notation: English, Alt: German, Offset: 5, Disabled: true},
			literal: "Bm",
			want:    Result{Chord: "Bm", Alt: "Hm", HasAlt: true},
		},
		{
			name:    "bad root still detected when disabled",
			tr:      Transposer{Notation: English, Disabled: true},
			literal: "X",
			wantErr: true,
		},
		{
			name:    "bad root",
			tr:      Transposer{Notation: English, Offset: 5},
			literal: "X",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.tr.Transpose(tc.literal)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrBadRoot)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
