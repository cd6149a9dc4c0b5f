// Package schema validates serialized song trees against the songbook JSON schema.
//
// Renderers receive songs as JSON; validating before templating catches trees that
// were edited or produced by another tool.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// SchemaID is the identifier of the embedded schema.
const SchemaID = "https://github.com/jwtly10/songmark/schema/songbook.schema.json"

//go:embed songbook.schema.json
var songbookSchema []byte

// Raw returns the schema document.
func Raw() []byte {
	return songbookSchema
}

// ErrInvalid is returned, wrapped, when a document does not conform to the schema.
var ErrInvalid = errors.New("document does not conform to the songbook schema")

var compiled = sync.OnceValues(func() (map[string]*gojsonschema.Schema, error) {
	out := make(map[string]*gojsonschema.Schema, 2)
	for name, ref := range map[string]string{
		"songs": SchemaID,
		"song":  SchemaID + "#/definitions/song",
	} {
		sl := gojsonschema.NewSchemaLoader()
		if err := sl.AddSchemas(gojsonschema.NewBytesLoader(songbookSchema)); err != nil {
			return nil, fmt.Errorf("loading songbook schema: %w", err)
		}
		s, err := sl.Compile(gojsonschema.NewStringLoader(fmt.Sprintf(`{"$ref": %q}`, ref)))
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
})

// ValidateSongs checks a JSON array of songs.
func ValidateSongs(data []byte) error {
	return validate("songs", data)
}

// ValidateSong checks a single JSON song.
func ValidateSong(data []byte) error {
	return validate("song", data)
}

func validate(name string, data []byte) error {
	schemas, err := compiled()
	if err != nil {
		return err
	}

	result, err := schemas[name].Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validating %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
