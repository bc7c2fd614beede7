package template

import (
	"strings"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/tokens"
)

// parser scans template source into literal and section nodes. It is a
// single-use object; a Template builds one per construction.
type parser struct {
	delimiter rune
	escape    rune
	registry  *tokens.Registry
}

// parse walks the source left to right, collecting literal runs and
// bracketed sections.
func (p *parser) parse(source string) ([]node, error) {
	rs := []rune(source)
	var out []node
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			out = append(out, literalNode{text: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(rs) {
		ch := rs[i]

		if ch == p.escape && i+1 < len(rs) {
			next := rs[i+1]
			if p.structural(next) {
				lit.WriteRune(next)
				i += 2
				continue
			}
			// No-op escape: the escape character itself is literal.
			lit.WriteRune(ch)
			i++
			continue
		}

		if ch == '{' && i+1 < len(rs) && rs[i+1] == '{' {
			flush()
			content, next, err := p.scanSection(rs, i)
			if err != nil {
				return nil, err
			}
			section, err := p.parseSection(content)
			if err != nil {
				return nil, err
			}
			out = append(out, section)
			i = next
			continue
		}

		lit.WriteRune(ch)
		i++
	}
	flush()

	return out, nil
}

// structural reports whether ch is escapable: a brace or the delimiter.
func (p *parser) structural(ch rune) bool {
	return ch == '{' || ch == '}' || ch == p.delimiter
}

// scanSection consumes a {{...}} section starting at the opening braces.
// It returns the raw (still escaped) content and the index after the
// closing braces. Nested sections and unclosed sections are syntax errors.
func (p *parser) scanSection(rs []rune, start int) ([]rune, int, error) {
	i := start + 2
	for i < len(rs) {
		ch := rs[i]
		if ch == p.escape && i+1 < len(rs) {
			i += 2
			continue
		}
		if ch == '{' && i+1 < len(rs) && rs[i+1] == '{' {
			return nil, 0, errors.Newf(errors.ErrSyntax,
				"nested section at position %d: sections cannot contain sections", i)
		}
		if ch == '}' && i+1 < len(rs) && rs[i+1] == '}' {
			return rs[start+2 : i], i + 2, nil
		}
		i++
	}
	return nil, 0, errors.Newf(errors.ErrSyntax,
		"unclosed section starting at position %d", start)
}

// parseSection interprets the delimiter-separated fragments of one section:
// optional '!' mandatory marker, leading token fragments, then prefix,
// field and suffix by position.
func (p *parser) parseSection(content []rune) (sectionNode, error) {
	section := sectionNode{}

	if len(content) > 0 && content[0] == tokens.MandatoryMarker {
		section.mandatory = true
		content = content[1:]
	}

	fragments := p.splitFragments(content)

	// Token fragments are consumed from the front; the first fragment not
	// starting with a registered marker begins the prefix/field/suffix run.
	rest := fragments
	for len(rest) > 0 {
		frag := rest[0]
		if len(frag) == 0 || !p.registry.IsMarker(frag[0]) {
			break
		}
		section.tokens = append(section.tokens, p.splitTokens(frag)...)
		rest = rest[1:]
	}

	var field string
	switch len(rest) {
	case 0:
	case 1:
		field = p.unescape(rest[0])
	case 2:
		section.prefix, field = p.parsePart(rest[0]), p.unescape(rest[1])
	case 3:
		section.prefix, field = p.parsePart(rest[0]), p.unescape(rest[1])
		section.suffix = p.parsePart(rest[2])
	default:
		return sectionNode{}, errors.Newf(errors.ErrSyntax,
			"too many parts in section {{%s}}: expected at most prefix, field and suffix", string(content))
	}

	ref, err := parseFieldRef(field)
	if err != nil {
		return sectionNode{}, err
	}
	section.field = ref

	return section, nil
}

// splitFragments splits section content on unescaped delimiters. The
// fragments keep their escape sequences; unescaping happens per fragment.
func (p *parser) splitFragments(content []rune) [][]rune {
	var fragments [][]rune
	start := 0
	i := 0
	for i < len(content) {
		ch := content[i]
		if ch == p.escape && i+1 < len(content) {
			i += 2
			continue
		}
		if ch == p.delimiter {
			fragments = append(fragments, content[start:i])
			i++
			start = i
			continue
		}
		i++
	}
	fragments = append(fragments, content[start:])
	return fragments
}

// splitTokens breaks one token fragment into its marker-prefixed tokens.
// "#red@bold" yields two tokens; the fragment's first rune is known to be
// a registered marker.
func (p *parser) splitTokens(frag []rune) []rawToken {
	var toks []rawToken
	marker := frag[0]
	start := 1
	for i := 1; i <= len(frag); i++ {
		if i == len(frag) || p.registry.IsMarker(frag[i]) {
			toks = append(toks, rawToken{marker: marker, value: p.unescape(frag[start:i])})
			if i < len(frag) {
				marker = frag[i]
				start = i + 1
			}
		}
	}
	return toks
}

// parsePart unescapes a prefix or suffix fragment and extracts its inline
// tokens: single-brace marker runs like "{#red}" that switch formatting
// mid-part. Escaped braces and unclosed or unrecognized runs stay literal.
func (p *parser) parsePart(frag []rune) part {
	var segs []partSeg
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			segs = append(segs, partSeg{text: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(frag) {
		ch := frag[i]
		if ch == p.escape && i+1 < len(frag) {
			if p.structural(frag[i+1]) {
				text.WriteRune(frag[i+1])
				i += 2
				continue
			}
			text.WriteRune(ch)
			i++
			continue
		}
		if ch == '{' && i+1 < len(frag) && p.registry.IsMarker(frag[i+1]) {
			if end, ok := p.scanInline(frag, i); ok {
				flush()
				segs = append(segs, partSeg{
					marker: frag[i+1],
					value:  p.unescape(frag[i+2 : end]),
				})
				i = end + 1
				continue
			}
		}
		text.WriteRune(ch)
		i++
	}
	flush()

	return part{segs: segs}
}

// scanInline finds the closing brace of an inline token opened at start.
// An opening brace before the close aborts the match.
func (p *parser) scanInline(frag []rune, start int) (int, bool) {
	for i := start + 2; i < len(frag); i++ {
		switch frag[i] {
		case p.escape:
			if i+1 < len(frag) {
				i++
			}
		case '{':
			return 0, false
		case '}':
			return i, true
		}
	}
	return 0, false
}

// unescape removes escape sequences from a fragment, mirroring the
// top-level rules: escape+structural emits the structural character,
// escape+anything-else emits the escape character.
func (p *parser) unescape(frag []rune) string {
	var b strings.Builder
	i := 0
	for i < len(frag) {
		ch := frag[i]
		if ch == p.escape && i+1 < len(frag) {
			if p.structural(frag[i+1]) {
				b.WriteRune(frag[i+1])
				i += 2
				continue
			}
		}
		b.WriteRune(ch)
		i++
	}
	return b.String()
}

// parseFieldRef validates a field fragment: empty or whitespace means
// positional, otherwise the name must be an identifier.
func parseFieldRef(field string) (fieldRef, error) {
	name := strings.TrimSpace(field)
	if name == "" {
		return fieldRef{}, nil
	}
	if !isIdentifier(name) {
		return fieldRef{}, errors.Newf(errors.ErrSyntax,
			"malformed placeholder name '%s'", name)
	}
	return fieldRef{name: name}, nil
}

func isIdentifier(s string) bool {
	for i, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
