package chord

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownNotation is returned by ParseNotation for names it does not recognise.
var ErrUnknownNotation = errors.New("unknown notation")

// Notation is a naming scheme for chord roots.
type Notation int

const (
	// None means no notation is set. It is only meaningful for the alternate notation.
	None Notation = iota
	// English uses the letters C D E F G A B, B being a semitone below C.
	English
	// German is the Central-European naming: H is the English B and B is the English Bb.
	German
)

// ParseNotation resolves a notation name. "czech" is accepted as a synonym of "german".
func ParseNotation(name string) (Notation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "english":
		return English, nil
	case "german", "czech":
		return German, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownNotation, name)
	}
}

// String returns the canonical name of the notation.
func (n Notation) String() string {
	switch n {
	case English:
		return "english"
	case German:
		return "german"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Notation(%d)", int(n))
	}
}

var (
	sharpNames = map[Notation][12]string{
		English: {"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"},
		German:  {"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "B", "H"},
	}
	flatNames = map[Notation][12]string{
		English: {"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"},
		German:  {"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "B", "H"},
	}
)

// letterPitch maps a root letter to its pitch class under the notation.
// The second result is false if the letter is not a root in that notation.
func letterPitch(n Notation, letter byte) (int, bool) {
	switch letter {
	case 'C':
		return 0, true
	case 'D':
		return 2, true
	case 'E':
		return 4, true
	case 'F':
		return 5, true
	case 'G':
		return 7, true
	case 'A':
		return 9, true
	case 'B':
		if n == German {
			return 10, true
		}
		return 11, true
	case 'H':
		if n == German {
			return 11, true
		}
	}
	return 0, false
}
