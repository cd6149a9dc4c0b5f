package songmark

// Songbook represents a parsed song sheet containing its songs,
// the pragmas found at its top, and metadata about the source file
type Songbook struct {
	// Metadata about the source file
	Metadata MetaData `json:"metadata"`
	// Document-level pragmas overriding the parser configuration
	Pragmas Pragma `json:"pragmas"`
	// The songs in source order
	Songs []Song `json:"songs"`
}

type MetaData struct {
	// The source file path, used in error messages
	Source string `json:"source"`
}

type PragmaKey string

const (
	PragmaNotation      PragmaKey = "notation"
	PragmaFallbackTitle PragmaKey = "fallback_title"
	PragmaXPDisabled    PragmaKey = "xp_disabled"
)

type Pragma struct {
	// The primary notation songs in this document start with
	Notation string `json:"notation,omitempty"`
	// Title of the song formed by content before the first heading
	FallbackTitle string `json:"fallback_title,omitempty"`
	// Overrides transposition for this document when set
	XPDisabled *bool `json:"xp_disabled,omitempty"`
}

// apply returns cfg with the pragmas that are set taking precedence.
func (p Pragma) apply(cfg Config) Config {
	if p.Notation != "" {
		cfg.InitialNotation = p.Notation
	}
	if p.FallbackTitle != "" {
		cfg.FallbackTitle = p.FallbackTitle
	}
	if p.XPDisabled != nil {
		cfg.XPDisabled = *p.XPDisabled
	}
	return cfg
}
