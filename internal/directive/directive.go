// Package directive recognises the `!`-prefixed extension tokens embedded in lyric text.
//
// A directive starts a whitespace-delimited word:
//
//	!+5 !-2      transpose
//	!!czech      alternate notation
//	!!!german    primary notation
//	!> !>> !>>>  chorus reference, level = number of '>'
//
// Whatever follows the directive within the word, such as punctuation in "!>.",
// stays text. Words such as "!", "!!", "!!>" or "!!!" are ordinary text.
package directive

import (
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the directive a token stands for.
type Kind int

const (
	KindTranspose Kind = iota + 1
	KindAltNotation
	KindNotation
	KindChorusRef
)

func (k Kind) String() string {
	switch k {
	case KindTranspose:
		return "transpose"
	case KindAltNotation:
		return "alt-notation"
	case KindNotation:
		return "notation"
	case KindChorusRef:
		return "chorus-ref"
	default:
		return "unknown"
	}
}

// Token is a recognised directive within a text run.
type Token struct {
	Kind Kind
	// Start and End are byte offsets of the directive in the scanned text.
	Start, End int
	// PrefixSpace reports whether the byte before Start is whitespace.
	PrefixSpace bool

	// Offset is the signed semitone count of a transpose directive.
	Offset int
	// Name is the notation name of a notation directive, as written.
	Name string
	// Level is the chorus level of a chorus reference.
	Level int
}

// Malformed is a word that starts like a transpose directive but has no digits.
type Malformed struct {
	Start, End int
	Fragment   string
}

var (
	transposeRegex   = regexp.MustCompile(`^!([+-][0-9]+)`)
	malformedRegex   = regexp.MustCompile(`^![+-]`)
	chorusRefRegex   = regexp.MustCompile(`^!(>+)`)
	altNotationRegex = regexp.MustCompile(`^!!([A-Za-z]+)`)
	notationRegex    = regexp.MustCompile(`^!!!([A-Za-z]+)`)
)

// Scan finds directives in text. atStart reports whether the beginning of text counts as
// a word boundary, i.e. nothing but whitespace, a line start or a non-text inline precedes it.
func Scan(text string, atStart bool) ([]Token, []Malformed) {
	var tokens []Token
	var malformed []Malformed

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}

		start := i
		end := wordEnd(text, start)
		i = end

		if text[start] != '!' {
			continue
		}
		prefixSpace := start > 0
		if start == 0 && !atStart {
			continue
		}

		word := text[start:end]
		tok, n, ok := classify(word)
		if !ok {
			if malformedRegex.MatchString(word) {
				malformed = append(malformed, Malformed{Start: start, End: end, Fragment: word})
			}
			continue
		}
		// The rest of the word is text; no boundary precedes it.
		tok.Start, tok.End, tok.PrefixSpace = start, start+n, prefixSpace
		tokens = append(tokens, tok)
	}

	return tokens, malformed
}

// classify matches a directive at the start of word and returns it with the
// number of bytes it covers.
func classify(word string) (Token, int, bool) {
	if m := transposeRegex.FindStringSubmatch(word); m != nil {
		offset, err := strconv.Atoi(m[1])
		if err != nil {
			return Token{}, 0, false
		}
		return Token{Kind: KindTranspose, Offset: offset}, len(m[0]), true
	}
	if m := chorusRefRegex.FindStringSubmatch(word); m != nil {
		return Token{Kind: KindChorusRef, Level: len(m[1])}, len(m[0]), true
	}
	if m := notationRegex.FindStringSubmatch(word); m != nil {
		return Token{Kind: KindNotation, Name: m[1]}, len(m[0]), true
	}
	if m := altNotationRegex.FindStringSubmatch(word); m != nil {
		return Token{Kind: KindAltNotation, Name: m[1]}, len(m[0]), true
	}
	return Token{}, 0, false
}

func wordEnd(text string, start int) int {
	for i := start; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			return i
		}
		i += size
	}
	return len(text)
}
