package songmark

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// corpus returns every song sheet under testdata that parses without error.
func corpus(t *testing.T) map[string]string {
	t.Helper()

	files, err := filepath.Glob("testdata/*/*.md")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	out := make(map[string]string, len(files))
	for _, f := range files {
		if filepath.Base(f) == "transposition_error.md" {
			continue
		}
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		out[f] = string(b)
	}
	return out
}

func TestJSONRoundTrip(t *testing.T) {
	for name, input := range corpus(t) {
		for _, xpDisabled := range []bool{false, true} {
			songs := parse(t, input, xpDisabled)

			data, err := json.Marshal(songs)
			require.NoError(t, err, name)

			var decoded []Song
			require.NoError(t, json.Unmarshal(data, &decoded), name)

			if diff := cmp.Diff(songs, decoded, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("%s: round trip mismatch (-parsed +decoded):\n%s", name, diff)
			}
		}
	}
}

func TestJSONShapes(t *testing.T) {
	tests := []struct {
		name string
		node any
		want string
	}{
		{
			name: "none label",
			node: NoLabel(),
			want: `{"none":{}}`,
		},
		{
			name: "unnumbered chorus label",
			node: ChorusUnnumbered(),
			want: `{"chorus":null}`,
		},
		{
			name: "numbered chorus label",
			node: ChorusLevel(2),
			want: `{"chorus":2}`,
		},
		{
			name: "verse label",
			node: VerseNumber(3),
			want: `{"verse":3}`,
		},
		{
			name: "custom label",
			node: CustomLabel("Bridge"),
			want: `{"custom":"Bridge"}`,
		},
		{
			name: "chord without alternate",
			node: Chord{Chord: "Am", Backticks: 2},
			want: `{"type":"i-chord","chord":"Am","alt_chord":null,"backticks":2,"inlines":[]}`,
		},
		{
			name: "transpose",
			node: Transpose{Kind: TransposeOffset, Offset: -2},
			want: `{"type":"i-transpose","t-transpose":-2}`,
		},
		{
			name: "alternate notation",
			node: Transpose{Kind: TransposeAltNotation, Notation: "german"},
			want: `{"type":"i-transpose","t-alt-notation":"german"}`,
		},
		{
			name: "primary notation",
			node: Transpose{Kind: TransposeNotation, Notation: "english"},
			want: `{"type":"i-transpose","t-notation":"english"}`,
		},
		{
			name: "chorus reference",
			node: ChorusRef{PrefixSpace: " "},
			want: `{"type":"i-chorus-ref","num":null,"prefix_space":" "}`,
		},
		{
			name: "empty song",
			node: Song{Title: "Song", Notation: "english"},
			want: `{"title":"Song","subtitles":[],"notation":"english","blocks":[]}`,
		},
		{
			name: "verse",
			node: Verse{Label: NoLabel(), Paragraphs: []Paragraph{{Text{Text: "a"}, Break{}, Strong{}}}},
			want: `{"type":"b-verse","label":{"none":{}},"paragraphs":[[{"type":"i-text","text":"a"},{"type":"i-break"},{"type":"i-strong","inlines":[]}]]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.node)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestJSONRejectsUnknownNodes(t *testing.T) {
	for _, doc := range []string{
		`{"title":"S","subtitles":[],"notation":"english","blocks":[{"type":"b-image"}]}`,
		`{"title":"S","subtitles":[],"notation":"english","blocks":[{"type":"b-verse","label":{"refrain":1},"paragraphs":[]}]}`,
		`{"title":"S","subtitles":[],"notation":"english","blocks":[{"type":"b-verse","label":{"none":{}},"paragraphs":[[{"type":"i-link"}]]}]}`,
		`{"title":"S","subtitles":[],"notation":"english","blocks":[{"type":"b-verse","label":{"none":{}},"paragraphs":[[{"type":"i-transpose"}]]}]}`,
	} {
		var s Song
		require.Error(t, json.Unmarshal([]byte(doc), &s), doc)
	}
}

func walkInlines(inlines Inlines, fn func(Inline, bool)) {
	var walk func(Inlines, bool)
	walk = func(in Inlines, inChord bool) {
		for _, inline := range in {
			fn(inline, inChord)
			switch n := inline.(type) {
			case Chord:
				walk(n.Inlines, true)
			case Strong:
				walk(n.Inlines, inChord)
			case Emph:
				walk(n.Inlines, inChord)
			}
		}
	}
	walk(inlines, false)
}

var chordLiteral = regexp.MustCompile("`+\\s*([^`\\s]+)\\s*`+")

func TestTreeInvariants(t *testing.T) {
	for name, input := range corpus(t) {
		for _, xpDisabled := range []bool{false, true} {
			songs := parse(t, input, xpDisabled)

			var chords []string
			for _, song := range songs {
				require.NotEmpty(t, song.Title, name)

				verseNum := 0
				for _, block := range song.Blocks {
					v := block.(Verse)
					require.NotEmpty(t, v.Paragraphs, name)

					if v.Label.Kind == LabelVerse {
						verseNum++
						require.Equal(t, verseNum, v.Label.Verse, "%s: verse numbering", name)
					}

					for _, p := range v.Paragraphs {
						require.NotEmpty(t, p, name)
						_, first := p[0].(Break)
						_, last := p[len(p)-1].(Break)
						require.False(t, first || last, "%s: paragraph starts or ends with a break", name)

						walkInlines(p, func(inline Inline, inChord bool) {
							switch n := inline.(type) {
							case Chord:
								require.False(t, inChord, "%s: chord inside chord", name)
								chords = append(chords, n.Chord)
							case Break:
								require.False(t, inChord, "%s: break inside chord", name)
							case Text:
								require.NotEmpty(t, n.Text, name)
							}
						})
					}
				}
			}

			if xpDisabled {
				var literals []string
				for _, m := range chordLiteral.FindAllStringSubmatch(input, -1) {
					literals = append(literals, m[1])
				}
				require.Equal(t, literals, chords, "%s: chords are verbatim without transposition", name)
			}
		}
	}
}
