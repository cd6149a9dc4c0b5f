// Package chord parses chord literals and transposes them between keys and notations.
package chord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrBadRoot is returned when a chord literal does not start with a root valid in the notation.
var ErrBadRoot = errors.New("invalid chord root")

// Note is a pitch class together with its preferred spelling.
type Note struct {
	// Pitch is the pitch class, 0 (C) to 11 (English B).
	Pitch int
	// Flat selects flat spelling when the note is rendered.
	Flat bool
}

// Part is one piece of a chord tail: either verbatim text or a slash-bass note.
type Part struct {
	Text string
	Bass *Note
}

// Chord is a root note followed by an uninterpreted tail (quality, extensions, bass).
type Chord struct {
	Root Note
	Tail []Part
}

// chordExpr is the participle grammar of a chord literal.
// Examples: "C", "F#m7", "Bbmaj7/D", "Hm", "Cadd9/E".
//
//nolint:govet // participle grammar tags are not standard struct tags
type chordExpr struct {
	Root string      `parser:"@Note"`
	Tail []*tailPart `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tailPart struct {
	Bass *string `parser:"  @Bass"`
	Text *string `parser:"| @( Text | Note | Slash )"`
}

// chordLexer splits a literal into notes and verbatim text. Rules are tried in order,
// so a slash directly followed by a note letter is a bass.
var chordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Bass", Pattern: `/[A-H][#b]?`},
	{Name: "Note", Pattern: `[A-H][#b]?`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Text", Pattern: `[^A-H/]+`},
})

var chordParser = participle.MustBuild[chordExpr](
	participle.Lexer(chordLexer),
)

// Parse lexes a chord literal under the given notation.
func Parse(literal string, n Notation) (Chord, error) {
	expr, err := chordParser.ParseString("", literal)
	if err != nil {
		return Chord{}, fmt.Errorf("%w: %q", ErrBadRoot, literal)
	}

	root, ok := parseNote(expr.Root, n)
	if !ok {
		return Chord{}, fmt.Errorf("%w: %q is not a %s root", ErrBadRoot, expr.Root, n)
	}

	c := Chord{Root: root}
	for _, part := range expr.Tail {
		switch {
		case part.Bass != nil:
			bass, ok := parseNote(strings.TrimPrefix(*part.Bass, "/"), n)
			if !ok {
				return Chord{}, fmt.Errorf("%w: bass %q is not a %s note", ErrBadRoot, *part.Bass, n)
			}
			c.Tail = append(c.Tail, Part{Bass: &bass})
		case part.Text != nil:
			c.Tail = append(c.Tail, Part{Text: *part.Text})
		}
	}

	return c, nil
}

func parseNote(tok string, n Notation) (Note, bool) {
	if tok == "" {
		return Note{}, false
	}
	pitch, ok := letterPitch(n, tok[0])
	if !ok {
		return Note{}, false
	}

	note := Note{Pitch: pitch}
	if len(tok) > 1 {
		switch tok[1] {
		case '#':
			note.Pitch++
		case 'b':
			note.Pitch--
			note.Flat = true
		}
	} else if n == German && tok[0] == 'B' {
		// German B is already the flattened H.
		note.Flat = true
	}
	note.Pitch = mod12(note.Pitch)

	return note, true
}

// Transpose returns the chord shifted by a signed number of semitones.
func (c Chord) Transpose(offset int) Chord {
	out := Chord{Root: c.Root.transpose(offset)}
	if len(c.Tail) > 0 {
		out.Tail = make([]Part, len(c.Tail))
	}
	for i, part := range c.Tail {
		if part.Bass != nil {
			bass := part.Bass.transpose(offset)
			part.Bass = &bass
		}
		out.Tail[i] = part
	}
	return out
}

// Render spells the chord in the given notation.
func (c Chord) Render(n Notation) string {
	var sb strings.Builder
	sb.WriteString(c.Root.Name(n))
	for _, part := range c.Tail {
		if part.Bass != nil {
			sb.WriteByte('/')
			sb.WriteString(part.Bass.Name(n))
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Name spells the note in the given notation.
func (nt Note) Name(n Notation) string {
	if nt.Flat {
		return flatNames[n][nt.Pitch]
	}
	return sharpNames[n][nt.Pitch]
}

func (nt Note) transpose(offset int) Note {
	return Note{Pitch: mod12(nt.Pitch + offset), Flat: nt.Flat}
}

func mod12(v int) int {
	return ((v % 12) + 12) % 12
}
