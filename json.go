package songmark

import (
	"encoding/json"
	"fmt"
)

// Type tags of the serialized tree.
const (
	typeVerse     = "b-verse"
	typeText      = "i-text"
	typeBreak     = "i-break"
	typeChord     = "i-chord"
	typeStrong    = "i-strong"
	typeEmph      = "i-emph"
	typeTranspose = "i-transpose"
	typeChorusRef = "i-chorus-ref"
)

type songJSON struct {
	Title     string            `json:"title"`
	Subtitles []string          `json:"subtitles"`
	Notation  string            `json:"notation"`
	Blocks    []json.RawMessage `json:"blocks"`
}

func (s Song) MarshalJSON() ([]byte, error) {
	out := songJSON{
		Title:     s.Title,
		Subtitles: s.Subtitles,
		Notation:  s.Notation,
		Blocks:    make([]json.RawMessage, 0, len(s.Blocks)),
	}
	if out.Subtitles == nil {
		out.Subtitles = []string{}
	}
	for _, b := range s.Blocks {
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		out.Blocks = append(out.Blocks, raw)
	}
	return json.Marshal(out)
}

func (s *Song) UnmarshalJSON(data []byte) error {
	var in songJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	song := Song{Title: in.Title, Subtitles: in.Subtitles, Notation: in.Notation}
	for _, raw := range in.Blocks {
		b, err := decodeBlock(raw)
		if err != nil {
			return err
		}
		song.Blocks = append(song.Blocks, b)
	}
	*s = song
	return nil
}

func decodeBlock(raw json.RawMessage) (Block, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case typeVerse:
		var v Verse
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown block type %q", head.Type)
	}
}

type verseJSON struct {
	Type       string      `json:"type"`
	Label      VerseLabel  `json:"label"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

func (v Verse) MarshalJSON() ([]byte, error) {
	out := verseJSON{Type: typeVerse, Label: v.Label, Paragraphs: v.Paragraphs}
	if out.Paragraphs == nil {
		out.Paragraphs = []Paragraph{}
	}
	return json.Marshal(out)
}

func (v *Verse) UnmarshalJSON(data []byte) error {
	var in verseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*v = Verse{Label: in.Label, Paragraphs: in.Paragraphs}
	return nil
}

func (l VerseLabel) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case LabelVerse:
		return json.Marshal(struct {
			Verse int `json:"verse"`
		}{l.Verse})
	case LabelChorus:
		return json.Marshal(struct {
			Chorus *int `json:"chorus"`
		}{l.Chorus})
	case LabelCustom:
		return json.Marshal(struct {
			Custom string `json:"custom"`
		}{l.Custom})
	default:
		return json.Marshal(struct {
			None struct{} `json:"none"`
		}{})
	}
}

func (l *VerseLabel) UnmarshalJSON(data []byte) error {
	var in map[string]json.RawMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in) != 1 {
		return fmt.Errorf("verse label must have exactly one key, got %d", len(in))
	}

	for key, raw := range in {
		switch key {
		case "verse":
			var n int
			if err := json.Unmarshal(raw, &n); err != nil {
				return fmt.Errorf("verse label: %w", err)
			}
			*l = VerseNumber(n)
		case "chorus":
			var level *int
			if err := json.Unmarshal(raw, &level); err != nil {
				return fmt.Errorf("chorus label: %w", err)
			}
			*l = VerseLabel{Kind: LabelChorus, Chorus: level}
		case "custom":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("custom label: %w", err)
			}
			*l = CustomLabel(s)
		case "none":
			*l = NoLabel()
		default:
			return fmt.Errorf("unknown verse label %q", key)
		}
	}
	return nil
}

func (in Inlines) MarshalJSON() ([]byte, error) {
	if in == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Inline(in))
}

func (in *Inlines) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Inlines, 0, len(raws))
	for _, raw := range raws {
		inline, err := decodeInline(raw)
		if err != nil {
			return err
		}
		out = append(out, inline)
	}
	*in = out
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{typeText, t.Text})
}

func (Break) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{typeBreak})
}

type chordJSON struct {
	Type      string  `json:"type"`
	Chord     string  `json:"chord"`
	AltChord  *string `json:"alt_chord"`
	Backticks int     `json:"backticks"`
	Inlines   Inlines `json:"inlines"`
}

func (c Chord) MarshalJSON() ([]byte, error) {
	return json.Marshal(chordJSON{
		Type:      typeChord,
		Chord:     c.Chord,
		AltChord:  c.AltChord,
		Backticks: c.Backticks,
		Inlines:   c.Inlines,
	})
}

type spanJSON struct {
	Type    string  `json:"type"`
	Inlines Inlines `json:"inlines"`
}

func (s Strong) MarshalJSON() ([]byte, error) {
	return json.Marshal(spanJSON{typeStrong, s.Inlines})
}

func (e Emph) MarshalJSON() ([]byte, error) {
	return json.Marshal(spanJSON{typeEmph, e.Inlines})
}

func (t Transpose) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TransposeAltNotation:
		return json.Marshal(struct {
			Type        string `json:"type"`
			AltNotation string `json:"t-alt-notation"`
		}{typeTranspose, t.Notation})
	case TransposeNotation:
		return json.Marshal(struct {
			Type     string `json:"type"`
			Notation string `json:"t-notation"`
		}{typeTranspose, t.Notation})
	default:
		return json.Marshal(struct {
			Type      string `json:"type"`
			Transpose int    `json:"t-transpose"`
		}{typeTranspose, t.Offset})
	}
}

type chorusRefJSON struct {
	Type        string `json:"type"`
	Num         *int   `json:"num"`
	PrefixSpace string `json:"prefix_space"`
}

func (c ChorusRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(chorusRefJSON{typeChorusRef, c.Num, c.PrefixSpace})
}

func decodeInline(raw json.RawMessage) (Inline, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case typeText:
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return Text{Text: v.Text}, nil
	case typeBreak:
		return Break{}, nil
	case typeChord:
		var v chordJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return Chord{Chord: v.Chord, AltChord: v.AltChord, Backticks: v.Backticks, Inlines: v.Inlines}, nil
	case typeStrong, typeEmph:
		var v spanJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if head.Type == typeStrong {
			return Strong{Inlines: v.Inlines}, nil
		}
		return Emph{Inlines: v.Inlines}, nil
	case typeTranspose:
		var v struct {
			Transpose   *int    `json:"t-transpose"`
			AltNotation *string `json:"t-alt-notation"`
			Notation    *string `json:"t-notation"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		switch {
		case v.Transpose != nil:
			return Transpose{Kind: TransposeOffset, Offset: *v.Transpose}, nil
		case v.AltNotation != nil:
			return Transpose{Kind: TransposeAltNotation, Notation: *v.AltNotation}, nil
		case v.Notation != nil:
			return Transpose{Kind: TransposeNotation, Notation: *v.Notation}, nil
		default:
			return nil, fmt.Errorf("transpose inline without a directive key")
		}
	case typeChorusRef:
		var v chorusRefJSON
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return ChorusRef{Num: v.Num, PrefixSpace: v.PrefixSpace}, nil
	default:
		return nil, fmt.Errorf("unknown inline type %q", head.Type)
	}
}
