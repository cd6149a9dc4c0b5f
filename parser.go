package songmark

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jwtly10/songmark/internal/chord"
	"github.com/jwtly10/songmark/internal/directive"
)

type Parser struct {
	gm  goldmark.Markdown
	cfg Config
	log *slog.Logger
}

func NewParser(cfg Config) *Parser {
	return &Parser{
		gm:  goldmark.New(),
		cfg: cfg,
		log: slog.Default().With("component", "songmark"),
	}
}

// WithLogger replaces the logger used for parse traces and warnings.
func (p *Parser) WithLogger(log *slog.Logger) *Parser {
	p.log = log
	return p
}

// SetXPDisabled turns chord transposition off or on for subsequent parses.
func (p *Parser) SetXPDisabled(disabled bool) {
	p.cfg.XPDisabled = disabled
}

// Parse parses a song sheet into its songs.
//
// Content before the first top-level heading forms a song titled with the fallback
// title; it is only kept when it has content. Pragmas at the top of the document
// override the parser configuration for this call only.
//
// The first error aborts the parse. Errors tied to a source position are [*Error].
func (p *Parser) Parse(r io.Reader, md MetaData) (*Songbook, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading song sheet: %w", err)
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parser config: %w", err)
	}

	content = normalizeInput(content)
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, &Error{File: md.Source, Line: 1, Kind: EmptyInput{}}
	}

	lines := newLineIndex(content)
	root := p.gm.Parser().Parse(text.NewReader(content))

	pragmas, err := p.extractPragmas(root, content, lines, md.Source)
	if err != nil {
		return nil, err
	}

	sp := &songParser{
		cfg:   pragmas.apply(p.cfg),
		file:  md.Source,
		src:   content,
		lines: lines,
		log:   p.log.With("file", md.Source),
	}
	songs, err := sp.run(root)
	if err != nil {
		return nil, err
	}

	return &Songbook{
		Metadata: md,
		Pragmas:  pragmas,
		Songs:    songs,
	}, nil
}

// ParseString parses input and returns its songs. file is only used in errors.
func (p *Parser) ParseString(input, file string) ([]Song, error) {
	book, err := p.Parse(strings.NewReader(input), MetaData{Source: file})
	if err != nil {
		return nil, err
	}
	return book.Songs, nil
}

// songParser holds the state of one parse call.
type songParser struct {
	cfg   Config
	file  string
	src   []byte
	lines lineIndex
	log   *slog.Logger

	songs  []Song
	song   *songBuilder
	headed bool

	// Per song state, reset at every top-level heading.
	notation chord.Notation
	alt      chord.Notation
	offset   int
}

func (sp *songParser) run(root ast.Node) ([]Song, error) {
	sp.songs = []Song{}
	sp.startSong(sp.cfg.FallbackTitle)

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if err := sp.block(n); err != nil {
			return nil, err
		}
	}
	sp.finishSong()

	return sp.songs, nil
}

func (sp *songParser) startSong(title string) {
	sp.finishSong()

	sp.notation = sp.cfg.notation()
	sp.alt = chord.None
	sp.offset = 0
	sp.headed = false
	sp.song = newSongBuilder(title, sp.notation.String())
}

func (sp *songParser) finishSong() {
	if sp.song == nil {
		return
	}
	song := sp.song.finish()
	sp.song = nil

	if !sp.headed && len(song.Blocks) == 0 && len(song.Subtitles) == 0 {
		sp.log.Debug("Dropping empty leading song")
		return
	}
	sp.log.Debug("Parsed song", "title", song.Title, "blocks", len(song.Blocks))
	sp.songs = append(sp.songs, song)
}

// block classifies a top-level markdown block.
func (sp *songParser) block(n ast.Node) error {
	switch node := n.(type) {
	case *ast.Heading:
		title := plainText(node, sp.src)
		switch {
		case node.Level == 1:
			if title == "" {
				title = sp.cfg.FallbackTitle
			}
			sp.startSong(title)
			sp.headed = true
		case node.Level == 2:
			sp.song.subtitle(title)
		default:
			sp.song.customHeading(title)
		}
		return nil
	case *ast.List:
		for i, item := 0, node.FirstChild(); item != nil; i, item = i+1, item.NextSibling() {
			if node.IsOrdered() && node.Start+i > 0 {
				sp.song.listItem()
			}
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				if err := sp.content(c, 0); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return sp.content(n, 0)
	}
}

// content adds the paragraphs of n at the given block quote depth.
func (sp *songParser) content(n ast.Node, level int) error {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		return sp.paragraph(flatten(node, sp.src, nil, nil), level)
	case *ast.Blockquote:
		level++
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return sp.paragraph(linesLeaves(node, sp.src), level)
	case *ast.HTMLBlock:
		if node.HTMLBlockType == ast.HTMLBlockType2 {
			return nil
		}
		return sp.paragraph(linesLeaves(node, sp.src), level)
	case *ast.ThematicBreak:
		return nil
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if err := sp.content(c, level); err != nil {
			return err
		}
	}
	return nil
}

func (sp *songParser) paragraph(leaves []leaf, level int) error {
	p, err := sp.inlines(leaves)
	if err != nil {
		return err
	}
	if level > 0 {
		sp.song.chorusParagraph(level, p)
	} else {
		sp.song.paragraph(p)
	}
	return nil
}

// inlines applies directives and renders chords in source order, then builds the
// paragraph's inline tree.
func (sp *songParser) inlines(leaves []leaf) (Paragraph, error) {
	leaves = mergeText(leaves)

	out := make([]leaf, 0, len(leaves))
	atStart := true
	for _, l := range leaves {
		var err error
		switch l.kind {
		case leafText:
			out, err = sp.directives(out, l, atStart)
			atStart = endsWithSpace(l.text)
		case leafChord:
			l.inline, err = sp.chord(l)
			out = append(out, l)
			atStart = false
		case leafBreak:
			out = append(out, l)
			atStart = true
		default:
			out = append(out, l)
		}
		if err != nil {
			return nil, err
		}
	}

	return build(normalize(out)), nil
}

// directives splits a text leaf around the directives it contains. Each directive
// absorbs the whitespace character before it.
func (sp *songParser) directives(out []leaf, l leaf, atStart bool) ([]leaf, error) {
	tokens, malformed := directive.Scan(l.text, atStart)
	line := sp.lines.line(l.offset)

	for _, m := range malformed {
		if sp.cfg.Strict {
			return nil, sp.errorAt(line, MalformedDirective{Fragment: m.Fragment})
		}
		sp.log.Warn("Ignoring malformed directive", "line", line, "fragment", m.Fragment)
	}

	prev := 0
	for _, tok := range tokens {
		before := l.text[prev:tok.Start]
		if tok.PrefixSpace {
			before = trimLastSpace(before)
		}
		out = appendText(out, l, before)

		residue, err := sp.directive(tok, line)
		if err != nil {
			return nil, err
		}
		if residue != nil {
			out = append(out, leaf{
				kind:   leafDirective,
				spans:  l.spans,
				offset: l.offset + tok.Start,
				inline: residue,
			})
		}
		prev = tok.End
	}

	return appendText(out, l, l.text[prev:]), nil
}

func appendText(out []leaf, l leaf, s string) []leaf {
	if s == "" {
		return out
	}
	l.text = s
	return append(out, l)
}

// directive applies tok to the song state. It returns the inline to emit in place of
// the directive, or nil when the directive is consumed.
func (sp *songParser) directive(tok directive.Token, line int) (Inline, error) {
	switch tok.Kind {
	case directive.KindTranspose:
		if sp.cfg.XPDisabled {
			return Transpose{Kind: TransposeOffset, Offset: tok.Offset}, nil
		}
		sp.log.Debug("Setting transposition", "line", line, "offset", tok.Offset)
		sp.offset = tok.Offset
		return nil, nil

	case directive.KindAltNotation, directive.KindNotation:
		n, err := chord.ParseNotation(tok.Name)
		if err != nil {
			return nil, sp.errorAt(line, UnknownNotation{Name: tok.Name})
		}
		kind := TransposeAltNotation
		if tok.Kind == directive.KindNotation {
			kind = TransposeNotation
			sp.notation = n
		} else {
			sp.alt = n
		}
		sp.log.Debug("Setting notation", "line", line, "kind", tok.Kind, "notation", n)
		if sp.cfg.XPDisabled {
			return Transpose{Kind: kind, Notation: n.String()}, nil
		}
		return nil, nil

	case directive.KindChorusRef:
		sp.song.noteLevel(tok.Level)
		level := tok.Level
		ref := ChorusRef{Num: &level}
		if tok.PrefixSpace {
			ref.PrefixSpace = " "
		}
		return ref, nil
	}

	return nil, fmt.Errorf("unhandled directive kind %s", tok.Kind)
}

func (sp *songParser) chord(l leaf) (Chord, error) {
	xp := chord.Transposer{
		Notation: sp.notation,
		Alt:      sp.alt,
		Offset:   sp.offset,
		Disabled: sp.cfg.XPDisabled,
	}
	res, err := xp.Transpose(l.text)
	if err != nil {
		sp.log.Debug("Chord did not lex", "chord", l.text, "error", err)
		return Chord{}, sp.errorAt(sp.lines.line(l.offset), Transposition{Chord: l.text})
	}

	c := Chord{Chord: res.Chord, Backticks: l.ticks}
	if res.HasAlt {
		alt := res.Alt
		c.AltChord = &alt
	}
	return c, nil
}

func (sp *songParser) errorAt(line int, kind ErrorKind) error {
	return &Error{File: sp.file, Line: line, Kind: kind}
}
