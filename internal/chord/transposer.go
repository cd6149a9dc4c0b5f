package chord

// Transposer renders chord literals for the notation and key currently in effect.
type Transposer struct {
	// Notation is the primary notation chord literals are written in.
	Notation Notation
	// Alt is the alternate notation, or None.
	Alt Notation
	// Offset is the transposition in semitones.
	Offset int
	// Disabled keeps primary chords verbatim regardless of Offset.
	Disabled bool
}

// Result is a rendered chord.
type Result struct {
	Chord  string
	Alt    string
	HasAlt bool
}

// Transpose lexes literal under the primary notation and renders it.
//
// The primary chord is shifted by Offset and spelled in the primary notation; it is
// returned verbatim when transposition is disabled or the offset is a whole number
// of octaves. The alternate chord is always the untransposed chord spelled in Alt.
func (t Transposer) Transpose(literal string) (Result, error) {
	c, err := Parse(literal, t.Notation)
	if err != nil {
		return Result{}, err
	}

	res := Result{Chord: literal}
	if !t.Disabled && mod12(t.Offset) != 0 {
		res.Chord = c.Transpose(t.Offset).Render(t.Notation)
	}
	if t.Alt != None {
		res.Alt = c.Render(t.Alt)
		res.HasAlt = true
	}

	return res, nil
}
