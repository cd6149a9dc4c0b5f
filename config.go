package songmark

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwtly10/songmark/internal/chord"
)

// DefaultFallbackTitle is the title of the song formed by content before the first heading.
const DefaultFallbackTitle = "Untitled"

// Config holds the parser options a project supplies.
type Config struct {
	// XPDisabled keeps chords verbatim. Transpose directives are then emitted as
	// Transpose inlines instead of being applied. Alternate notation still renders.
	XPDisabled bool `yaml:"xp_disabled" json:"xp_disabled"`
	// FallbackTitle is the title of the song formed by content before the first heading.
	FallbackTitle string `yaml:"fallback_title" json:"fallback_title"`
	// InitialNotation is the primary notation each song starts with.
	InitialNotation string `yaml:"initial_notation" json:"initial_notation"`
	// Strict turns malformed directives into errors instead of warnings.
	Strict bool `yaml:"strict" json:"strict"`
}

// DefaultConfig returns the parser defaults.
func DefaultConfig() Config {
	return Config{
		FallbackTitle:   DefaultFallbackTitle,
		InitialNotation: chord.English.String(),
	}
}

// DecodeConfig reads a YAML parser configuration. Missing keys keep their defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding parser config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can be used to parse.
func (c Config) Validate() error {
	if strings.TrimSpace(c.FallbackTitle) == "" {
		return fmt.Errorf("fallback title must not be empty")
	}
	if _, err := chord.ParseNotation(c.InitialNotation); err != nil {
		return fmt.Errorf("initial notation: %w", err)
	}
	return nil
}

func (c Config) notation() chord.Notation {
	n, err := chord.ParseNotation(c.InitialNotation)
	if err != nil {
		return chord.English
	}
	return n
}
