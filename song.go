package songmark

// Song is one song of a songbook, introduced by a top-level heading.
type Song struct {
	Title string
	// Subtitles are the second-level headings found before the first block.
	Subtitles []string
	// Notation is the primary notation in effect at the start of the song.
	Notation string
	Blocks   []Block
}

// Block is a top-level element of a song. Verse is the only block kind.
type Block interface {
	isBlock()
}

// Verse is a run of paragraphs sharing a label.
type Verse struct {
	Label      VerseLabel
	Paragraphs []Paragraph
}

func (Verse) isBlock() {}

type LabelKind int

const (
	LabelNone LabelKind = iota
	LabelVerse
	LabelChorus
	LabelCustom
)

func (k LabelKind) String() string {
	switch k {
	case LabelVerse:
		return "verse"
	case LabelChorus:
		return "chorus"
	case LabelCustom:
		return "custom"
	default:
		return "none"
	}
}

// VerseLabel says what kind of section a verse is. Only the field matching Kind is set.
type VerseLabel struct {
	Kind LabelKind
	// Verse is the 1-based verse number within the song.
	Verse int
	// Chorus is the chorus level, nil when the song has a single chorus level.
	Chorus *int
	// Custom is the text of a custom section heading.
	Custom string
}

func NoLabel() VerseLabel { return VerseLabel{Kind: LabelNone} }

func VerseNumber(n int) VerseLabel { return VerseLabel{Kind: LabelVerse, Verse: n} }

func ChorusLevel(level int) VerseLabel { return VerseLabel{Kind: LabelChorus, Chorus: &level} }

func ChorusUnnumbered() VerseLabel { return VerseLabel{Kind: LabelChorus} }

func CustomLabel(text string) VerseLabel { return VerseLabel{Kind: LabelCustom, Custom: text} }

// Paragraph is a sequence of inlines. Line breaks inside it are Break inlines.
type Paragraph = Inlines

// Inlines is an ordered sequence of inline elements.
type Inlines []Inline

// Inline is an element of a paragraph.
type Inline interface {
	isInline()
}

// Text is a run of lyrics.
type Text struct {
	Text string
}

// Break is a line break within a paragraph.
type Break struct{}

// Chord is a chord annotation. It decorates the lyrics in Inlines, which run up to
// the next chord, line break, or end of paragraph.
type Chord struct {
	Chord string
	// AltChord is the chord in the alternate notation, nil when none is active.
	AltChord *string
	// Backticks is the length of the code span delimiter in the source.
	Backticks int
	Inlines   Inlines
}

type Strong struct {
	Inlines Inlines
}

type Emph struct {
	Inlines Inlines
}

type TransposeKind int

const (
	TransposeOffset TransposeKind = iota
	TransposeAltNotation
	TransposeNotation
)

// Transpose is the residue of a transposition or notation directive. It is only
// present in songs parsed with transposition disabled.
type Transpose struct {
	Kind TransposeKind
	// Offset is set for TransposeOffset.
	Offset int
	// Notation is the canonical notation name for the notation kinds.
	Notation string
}

// ChorusRef is a reference to a chorus, written as `!>`, `!>>`, ...
type ChorusRef struct {
	// Num is the referenced chorus level, nil when the song has a single chorus level.
	Num *int
	// PrefixSpace is " " when the reference was preceded by whitespace, otherwise "".
	PrefixSpace string
}

func (Text) isInline()      {}
func (Break) isInline()     {}
func (Chord) isInline()     {}
func (Strong) isInline()    {}
func (Emph) isInline()      {}
func (Transpose) isInline() {}
func (ChorusRef) isInline() {}
