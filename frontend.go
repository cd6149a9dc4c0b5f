package songmark

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
	"golang.org/x/text/unicode/norm"
)

type leafKind int

const (
	leafText leafKind = iota
	leafBreak
	leafChord
	leafDirective
)

// leaf is one element of a flattened paragraph. Emphasis is not a leaf: every leaf
// carries the stack of emphasis nodes enclosing it instead, so that the tree can be
// rebuilt around chords afterwards.
type leaf struct {
	kind leafKind
	// text is the text run, or the chord literal for chords.
	text string
	// ticks is the backtick count of a chord's code span.
	ticks int
	// spans are the enclosing emphasis nodes, outermost first. Identity matters:
	// two separate spans of the same kind stay separate.
	spans []*ast.Emphasis
	// offset is the source byte offset the leaf starts at.
	offset int
	// inline is the rendered chord or directive residue.
	inline Inline
}

// normalizeInput composes the input to NFC so that lyrics typed with combining marks
// compare equal to precomposed ones. Newlines are untouched, so line numbers hold.
func normalizeInput(content []byte) []byte {
	if norm.NFC.IsNormal(content) {
		return content
	}
	return norm.NFC.Bytes(content)
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(content []byte) lineIndex {
	idx := lineIndex{0}
	for i, c := range content {
		if c == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (li lineIndex) line(offset int) int {
	return sort.Search(len(li), func(i int) bool { return li[i] > offset })
}

// flatten appends the leaves of n's inline subtree to out.
func flatten(n ast.Node, src []byte, spans []*ast.Emphasis, out []leaf) []leaf {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			out = append(out, leaf{
				kind:   leafText,
				text:   string(util.UnescapePunctuations(node.Segment.Value(src))),
				spans:  spans,
				offset: node.Segment.Start,
			})
			if node.SoftLineBreak() || node.HardLineBreak() {
				out = append(out, leaf{kind: leafBreak, offset: node.Segment.Stop})
			}
		case *ast.String:
			out = append(out, leaf{kind: leafText, text: string(node.Value), spans: spans, offset: lastOffset(out)})
		case *ast.CodeSpan:
			if l, ok := codeSpanLeaf(node, src, spans); ok {
				out = append(out, l)
			}
		case *ast.Emphasis:
			inner := make([]*ast.Emphasis, len(spans), len(spans)+1)
			copy(inner, spans)
			out = flatten(node, src, append(inner, node), out)
		case *ast.AutoLink:
			out = append(out, leaf{kind: leafText, text: string(node.Label(src)), spans: spans, offset: lastOffset(out)})
		case *ast.RawHTML:
			var sb strings.Builder
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				sb.Write(seg.Value(src))
			}
			offset := lastOffset(out)
			if node.Segments.Len() > 0 {
				offset = node.Segments.At(0).Start
			}
			out = append(out, leaf{kind: leafText, text: sb.String(), spans: spans, offset: offset})
		default:
			// Links, images and anything unexpected degrade to their text.
			out = flatten(c, src, spans, out)
		}
	}
	return out
}

// maxChordBackticks is the longest backtick run that still marks a chord.
const maxChordBackticks = 3

// codeSpanLeaf turns a code span into a chord leaf. Empty spans are not chords, and
// spans opened by more than maxChordBackticks backticks degrade to their text.
func codeSpanLeaf(cs *ast.CodeSpan, src []byte, spans []*ast.Emphasis) (leaf, bool) {
	var sb strings.Builder
	start := -1
	for c := cs.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		if start < 0 {
			start = t.Segment.Start
		}
		sb.Write(t.Segment.Value(src))
	}

	literal := strings.TrimSpace(sb.String())
	if literal == "" || start < 0 {
		return leaf{}, false
	}

	ticks := countBackticks(src, start)
	if ticks > maxChordBackticks {
		return leaf{kind: leafText, text: literal, spans: spans, offset: start}, true
	}

	return leaf{
		kind:   leafChord,
		text:   literal,
		ticks:  ticks,
		offset: start,
	}, true
}

// countBackticks counts the backticks opening the code span whose content starts at offset.
func countBackticks(src []byte, offset int) int {
	i := offset
	for i > 0 && src[i-1] == ' ' {
		i--
	}
	n := 0
	for i > 0 && src[i-1] == '`' {
		i--
		n++
	}
	if n == 0 {
		return 1
	}
	return n
}

// linesLeaves degrades a block with raw lines (code blocks, HTML) to text leaves.
func linesLeaves(n ast.Node, src []byte) []leaf {
	var out []leaf
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if i > 0 {
			out = append(out, leaf{kind: leafBreak, offset: seg.Start})
		}
		out = append(out, leaf{
			kind:   leafText,
			text:   strings.TrimRight(string(seg.Value(src)), "\r\n"),
			offset: seg.Start,
		})
	}
	return out
}

// plainText returns the whitespace-normalized text of a heading or similar node.
func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for _, l := range flatten(n, src, nil, nil) {
		switch l.kind {
		case leafText, leafChord:
			sb.WriteString(l.text)
		case leafBreak:
			sb.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func lastOffset(leaves []leaf) int {
	if len(leaves) == 0 {
		return 0
	}
	return leaves[len(leaves)-1].offset
}
