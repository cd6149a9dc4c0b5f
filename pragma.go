package songmark

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/jwtly10/songmark/internal/chord"
)

var pragmaRegex = regexp.MustCompile(`^<!--\s*@pragma\s+(\w+)\s*:\s*([^>]+?)\s*-->$`)

// extractPragmas reads the pragma comments at the top of the document.
//
// Only HTML comments before any other block are considered pragmas.
//
// For example:
//
// [SOF]
//
// <!-- @pragma notation: german -->
//
// <!-- @pragma xp_disabled: true -->
//
// # Song
//
// [EOF]
//
// parses the song in German notation without transposition. The same comments
// placed after the heading are ignored.
func (p *Parser) extractPragmas(doc ast.Node, content []byte, lines lineIndex, file string) (Pragma, error) {
	var pragma Pragma
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		hb, ok := n.(*ast.HTMLBlock)
		if !ok {
			break
		}
		if err := p.handleHTMLBlock(hb, content, lines, file, &pragma); err != nil {
			return Pragma{}, err
		}
	}
	return pragma, nil
}

func (p *Parser) handleHTMLBlock(hb *ast.HTMLBlock, content []byte, lines lineIndex, file string, pragma *Pragma) error {
	if hb.HTMLBlockType != ast.HTMLBlockType2 {
		return nil
	}

	segments := hb.Lines()
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		err := p.extractPragmaFromLine(pragma, string(seg.Value(content)))
		var kind ErrorKind
		if errors.As(err, &kind) {
			return &Error{File: file, Line: lines.line(seg.Start), Kind: kind}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// extractPragmaFromLine parses a pragma value from a markdown comment
//
// A pragma line may look like this: <!-- @pragma fallback_title: Intro -->
//
// In which case we will parse this as a key value pair "fallback_title":"Intro"
// and if the key maps to a field of [Pragma], set the value.
//
// If multiple lines contain the same key, the last one will be used.
//
// Will return an error if the value cannot be parsed
func (p *Parser) extractPragmaFromLine(pragma *Pragma, line string) error {
	line = strings.TrimSpace(line)

	matches := pragmaRegex.FindStringSubmatch(line)
	if len(matches) != 3 {
		p.log.Debug("Not a pragma line", "line", line)
		return nil
	}

	key := matches[1]
	value := matches[2]

	p.log.Debug("Parsed pragma key value pair", "key", key, "value", value)

	switch PragmaKey(key) {
	case PragmaNotation:
		n, err := chord.ParseNotation(value)
		if err != nil {
			return UnknownNotation{Name: value}
		}
		pragma.Notation = n.String()
	case PragmaFallbackTitle:
		pragma.FallbackTitle = value
	case PragmaXPDisabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("could not parse xp_disabled pragma value: %w", err)
		}
		pragma.XPDisabled = &b
	default:
		p.log.Debug("Unknown pragma key", "key", key)
	}

	return nil
}
