package template

import (
	"sort"
	"strings"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/funcs"
	"github.com/arthur-debert/stringsmith/pkg/tokens"
)

// boundToken is a baked formatting token: its handler binding plus the
// source information kept for introspection.
type boundToken struct {
	kind    tokens.Kind
	marker  rune
	raw     string
	binding tokens.Binding
}

// compiledSection is the directly executable form of a section node. It is
// never mutated after baking. prefix and suffix carry their inline codes
// already substituted; prefixSrc and suffixSrc keep the source form for
// introspection.
type compiledSection struct {
	mandatory bool
	tokens    []boundToken
	prefix    string
	suffix    string
	prefixSrc string
	suffixSrc string
	// inlineResets closes formatting opened by inline tokens whose kind has
	// no section-level token (and therefore no reset of its own).
	inlineResets []string
	inline       bool
	field        fieldRef
}

// compiledNode is one element of the baked template: literal text when
// section is nil.
type compiledNode struct {
	text    string
	section *compiledSection
}

// bake resolves every section's tokens against the registry and function
// table, validating static aspects so render time never re-parses.
func bake(nodes []node, reg *tokens.Registry, fns *funcs.Table) ([]compiledNode, error) {
	compiled := make([]compiledNode, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case literalNode:
			compiled = append(compiled, compiledNode{text: n.text})
		case sectionNode:
			cs, err := bakeSection(n, reg, fns)
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, compiledNode{section: cs})
		}
	}
	return compiled, nil
}

func bakeSection(n sectionNode, reg *tokens.Registry, fns *funcs.Table) (*compiledSection, error) {
	cs := &compiledSection{
		mandatory: n.mandatory,
		prefixSrc: n.prefix.String(),
		suffixSrc: n.suffix.String(),
		inline:    n.prefix.hasInline() || n.suffix.hasInline(),
		field:     n.field,
	}

	seen := make(map[tokens.Kind]bool, len(n.tokens))
	for _, tok := range n.tokens {
		handler, ok := reg.Lookup(tok.marker)
		if !ok {
			return nil, errors.Newf(errors.ErrUnknownToken,
				"no handler registered for token marker '%c'", tok.marker)
		}
		if seen[handler.Kind()] {
			return nil, errors.Newf(errors.ErrDuplicateToken,
				"section declares more than one %s token", handler.Kind())
		}
		seen[handler.Kind()] = true

		binding, err := handler.Bind(tok.value, fns)
		if err != nil {
			return nil, err
		}
		cs.tokens = append(cs.tokens, boundToken{
			kind:    handler.Kind(),
			marker:  tok.marker,
			raw:     tok.value,
			binding: binding,
		})
	}

	inlineResets := make(map[tokens.Kind]string)
	var err error
	cs.prefix, err = bakePart(n.prefix, reg, fns, inlineResets)
	if err != nil {
		return nil, err
	}
	cs.suffix, err = bakePart(n.suffix, reg, fns, inlineResets)
	if err != nil {
		return nil, err
	}

	// Section-level tokens already reset their own kind.
	kinds := make([]tokens.Kind, 0, len(inlineResets))
	for kind := range inlineResets {
		if !seen[kind] {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, kind := range kinds {
		cs.inlineResets = append(cs.inlineResets, inlineResets[kind])
	}

	return cs, nil
}

// bakePart substitutes a part's inline tokens with their ANSI codes and
// records the reset code of each kind used. Inline tokens must resolve
// statically; dynamic values belong on section tokens.
func bakePart(pt part, reg *tokens.Registry, fns *funcs.Table, resets map[tokens.Kind]string) (string, error) {
	var b strings.Builder
	for _, seg := range pt.segs {
		if !seg.isToken() {
			b.WriteString(seg.text)
			continue
		}

		handler, ok := reg.Lookup(seg.marker)
		if !ok {
			return "", errors.Newf(errors.ErrUnknownToken,
				"no handler registered for token marker '%c'", seg.marker)
		}
		binding, err := handler.Bind(seg.value, fns)
		if err != nil {
			return "", err
		}
		static, ok := binding.(tokens.StaticCodes)
		if !ok {
			return "", errors.Newf(errors.ErrInvalidInput,
				"inline token {%c%s} must use a static value; functions apply only to section tokens",
				seg.marker, seg.value)
		}

		open, reset := static.Codes()
		b.WriteString(open)
		resets[handler.Kind()] = reset
	}
	return b.String(), nil
}
