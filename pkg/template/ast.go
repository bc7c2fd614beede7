package template

import "strings"

// node is a parsed template element: literal text or a section.
type node interface {
	node()
}

// literalNode is a run of output text emitted verbatim, unconditionally.
type literalNode struct {
	text string
}

func (literalNode) node() {}

// rawToken is one formatting token as written in the source, before baking.
type rawToken struct {
	marker rune
	value  string
}

// partSeg is one piece of a prefix or suffix: literal text, or an inline
// token written with single braces ("{#red}") that switches formatting
// mid-part.
type partSeg struct {
	text   string
	marker rune
	value  string
}

func (s partSeg) isToken() bool { return s.marker != 0 }

// part is the segmented form of a prefix or suffix.
type part struct {
	segs []partSeg
}

// String reconstructs the part's source form, inline tokens included.
func (p part) String() string {
	var b strings.Builder
	for _, s := range p.segs {
		if s.isToken() {
			b.WriteRune('{')
			b.WriteRune(s.marker)
			b.WriteString(s.value)
			b.WriteRune('}')
			continue
		}
		b.WriteString(s.text)
	}
	return b.String()
}

func (p part) hasInline() bool {
	for _, s := range p.segs {
		if s.isToken() {
			return true
		}
	}
	return false
}

// fieldRef identifies the value a section binds to. An empty name means
// positional binding.
type fieldRef struct {
	name string
}

func (f fieldRef) positional() bool { return f.name == "" }

// sectionNode is the unit of conditional output.
type sectionNode struct {
	mandatory bool
	tokens    []rawToken
	prefix    part
	suffix    part
	field     fieldRef
}

func (sectionNode) node() {}
