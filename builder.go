package songmark

// songBuilder classifies paragraphs into the verses of one song.
//
// Headings and list items only announce a verse: the verse is created, and a verse
// number assigned, when its first non-empty paragraph arrives. An announced verse
// that never gets a paragraph is dropped.
type songBuilder struct {
	song Song

	verse   *Verse
	pending *VerseLabel
	// chorus is the level of the open verse if it is a chorus, otherwise 0.
	chorus int

	nextVerse int
	// content is set once a verse has been emitted or announced by a custom heading;
	// subtitles are no longer collected after that.
	content bool
	// maxLevel is the deepest chorus level used by a chorus or chorus reference.
	maxLevel int
}

func newSongBuilder(title, notation string) *songBuilder {
	return &songBuilder{
		song:      Song{Title: title, Notation: notation},
		nextVerse: 1,
	}
}

func (b *songBuilder) subtitle(text string) {
	if b.content {
		return
	}
	b.song.Subtitles = append(b.song.Subtitles, text)
}

func (b *songBuilder) flush() {
	if b.verse != nil {
		b.song.Blocks = append(b.song.Blocks, *b.verse)
	}
	b.verse = nil
	b.pending = nil
	b.chorus = 0
}

func (b *songBuilder) announce(label VerseLabel) {
	b.flush()
	b.pending = &label
}

func (b *songBuilder) customHeading(text string) {
	b.announce(CustomLabel(text))
	b.content = true
}

func (b *songBuilder) listItem() {
	b.announce(VerseLabel{Kind: LabelVerse})
}

// paragraph adds a paragraph outside any block quote. It continues whatever verse is
// open, including a chorus.
func (b *songBuilder) paragraph(p Paragraph) {
	if len(p) == 0 {
		return
	}
	if b.verse == nil {
		label := NoLabel()
		if b.pending != nil {
			label = *b.pending
		}
		b.open(label)
	}
	b.verse.Paragraphs = append(b.verse.Paragraphs, p)
}

// chorusParagraph adds a paragraph found at the given block quote depth.
func (b *songBuilder) chorusParagraph(level int, p Paragraph) {
	if len(p) == 0 {
		return
	}
	b.noteLevel(level)
	if b.verse == nil || b.chorus != level {
		b.flush()
		b.open(ChorusLevel(level))
		b.chorus = level
	}
	b.verse.Paragraphs = append(b.verse.Paragraphs, p)
}

func (b *songBuilder) open(label VerseLabel) {
	if label.Kind == LabelVerse {
		label.Verse = b.nextVerse
		b.nextVerse++
	}
	b.verse = &Verse{Label: label}
	b.pending = nil
	b.content = true
}

func (b *songBuilder) noteLevel(level int) {
	if level > b.maxLevel {
		b.maxLevel = level
	}
}

// finish closes the song. A song that never goes deeper than one chorus level has
// unnumbered choruses and chorus references.
func (b *songBuilder) finish() Song {
	b.flush()
	if b.maxLevel <= 1 {
		for i, block := range b.song.Blocks {
			v, ok := block.(Verse)
			if !ok {
				continue
			}
			if v.Label.Kind == LabelChorus {
				v.Label = ChorusUnnumbered()
			}
			for _, p := range v.Paragraphs {
				unnumberRefs(p)
			}
			b.song.Blocks[i] = v
		}
	}
	return b.song
}

func unnumberRefs(inlines Inlines) {
	for i, inline := range inlines {
		switch node := inline.(type) {
		case ChorusRef:
			node.Num = nil
			inlines[i] = node
		case Chord:
			unnumberRefs(node.Inlines)
		case Strong:
			unnumberRefs(node.Inlines)
		case Emph:
			unnumberRefs(node.Inlines)
		}
	}
}
