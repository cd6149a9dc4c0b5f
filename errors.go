package songmark

import "fmt"

// Error is a parse error with its source position.
type Error struct {
	File string
	Line int
	Kind ErrorKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Kind)
}

// Unwrap exposes the kind so callers can match it with errors.As.
func (e *Error) Unwrap() error {
	return e.Kind
}

// ErrorKind is the reason a parse failed.
type ErrorKind interface {
	error
	errorKind()
}

// Transposition means a chord root does not lex under the active notation.
type Transposition struct {
	Chord string
}

func (e Transposition) Error() string {
	return fmt.Sprintf("could not transpose chord %q", e.Chord)
}

// UnknownNotation means a notation directive or setting names an unrecognised notation.
type UnknownNotation struct {
	Name string
}

func (e UnknownNotation) Error() string {
	return fmt.Sprintf("unknown notation %q", e.Name)
}

// MalformedDirective is a directive-like word that cannot be completed, such as `!+`.
// It is only an error in strict mode.
type MalformedDirective struct {
	Fragment string
}

func (e MalformedDirective) Error() string {
	return fmt.Sprintf("malformed directive %q", e.Fragment)
}

// EmptyInput means the whole input was whitespace.
type EmptyInput struct{}

func (EmptyInput) Error() string {
	return "empty input"
}

func (Transposition) errorKind()      {}
func (UnknownNotation) errorKind()    {}
func (MalformedDirective) errorKind() {}
func (EmptyInput) errorKind()         {}
