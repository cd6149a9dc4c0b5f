package songmark

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
)

// mergeText joins adjacent text leaves under the same emphasis spans.
// The markdown parser may split a run of text at characters it tried to interpret.
func mergeText(leaves []leaf) []leaf {
	out := leaves[:0:0]
	for _, l := range leaves {
		if l.kind == leafText && len(out) > 0 {
			prev := &out[len(out)-1]
			if prev.kind == leafText && sameSpans(prev.spans, l.spans) {
				prev.text += l.text
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

func sameSpans(a, b []*ast.Emphasis) bool {
	return commonSpans(a, b) == len(a) && len(a) == len(b)
}

func commonSpans(a, b []*ast.Emphasis) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// trimLastSpace drops the single whitespace character a directive absorbs.
func trimLastSpace(s string) string {
	r, size := utf8.DecodeLastRuneInString(s)
	if size > 0 && unicode.IsSpace(r) {
		return s[:len(s)-size]
	}
	return s
}

func endsWithSpace(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && unicode.IsSpace(r)
}

// collapseSpaces replaces every run of whitespace with a single space.
func collapseSpaces(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// normalize cleans up whitespace once directives have been applied. Text at the start
// of a line loses its leading whitespace and text at the end of a line its trailing
// whitespace. Lines left empty disappear together with their line break, so a
// paragraph neither starts nor ends with a break.
func normalize(leaves []leaf) []leaf {
	leaves = mergeText(leaves)

	var lines [][]leaf
	var cur []leaf
	for _, l := range leaves {
		if l.kind == leafBreak {
			lines = append(lines, cur)
			cur = nil
			continue
		}
		if l.kind == leafText {
			l.text = collapseSpaces(l.text)
		}
		cur = append(cur, l)
	}
	lines = append(lines, cur)

	var out []leaf
	for _, line := range lines {
		line = trimLine(line)
		if len(line) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, leaf{kind: leafBreak, offset: line[0].offset})
		}
		out = append(out, line...)
	}
	return out
}

func trimLine(line []leaf) []leaf {
	for len(line) > 0 && line[0].kind == leafText {
		line[0].text = strings.TrimLeftFunc(line[0].text, unicode.IsSpace)
		if line[0].text != "" {
			break
		}
		line = line[1:]
	}
	for len(line) > 0 && line[len(line)-1].kind == leafText {
		last := &line[len(line)-1]
		last.text = strings.TrimRightFunc(last.text, unicode.IsSpace)
		if last.text != "" {
			break
		}
		line = line[:len(line)-1]
	}

	out := line[:0:0]
	for _, l := range line {
		if l.kind == leafText && l.text == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// build assembles the final inline tree. Chords and breaks always sit at the top
// level: a chord takes the leaves after it up to the next chord or break as its
// lyrics, and emphasis around a chord is split into sibling spans on each side.
func build(leaves []leaf) Paragraph {
	var out Paragraph
	for i := 0; i < len(leaves); {
		switch leaves[i].kind {
		case leafBreak:
			out = append(out, Break{})
			i++
		case leafChord:
			j := runEnd(leaves, i+1)
			c := leaves[i].inline.(Chord)
			c.Inlines = nest(leaves[i+1 : j])
			out = append(out, c)
			i = j
		default:
			j := runEnd(leaves, i)
			out = append(out, nest(leaves[i:j])...)
			i = j
		}
	}
	return out
}

func runEnd(leaves []leaf, from int) int {
	for from < len(leaves) && leaves[from].kind != leafChord && leaves[from].kind != leafBreak {
		from++
	}
	return from
}

type spanFrame struct {
	span    *ast.Emphasis
	inlines Inlines
}

// nest rebuilds Strong/Emph nesting from the emphasis stacks of a run of leaves.
func nest(leaves []leaf) Inlines {
	stack := []*spanFrame{{}}

	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		var wrapped Inline = Emph{Inlines: top.inlines}
		if top.span.Level >= 2 {
			wrapped = Strong{Inlines: top.inlines}
		}
		parent := stack[len(stack)-1]
		parent.inlines = append(parent.inlines, wrapped)
	}

	for _, l := range leaves {
		open := make([]*ast.Emphasis, 0, len(stack)-1)
		for _, f := range stack[1:] {
			open = append(open, f.span)
		}

		k := commonSpans(open, l.spans)
		for len(stack)-1 > k {
			closeTop()
		}
		for _, span := range l.spans[k:] {
			stack = append(stack, &spanFrame{span: span})
		}

		top := stack[len(stack)-1]
		top.inlines = append(top.inlines, l.value())
	}
	for len(stack) > 1 {
		closeTop()
	}

	return stack[0].inlines
}

func (l leaf) value() Inline {
	if l.kind == leafText {
		return Text{Text: l.text}
	}
	return l.inline
}
