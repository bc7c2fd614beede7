package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/tokens"
)

func mustParse(t *testing.T, source string, opts ...Option) []node {
	t.Helper()
	o := options{delimiter: DefaultDelimiter, escape: DefaultEscape, registry: tokens.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	p := &parser{delimiter: o.delimiter, escape: o.escape, registry: o.registry}
	nodes, err := p.parse(source)
	require.NoError(t, err)
	return nodes
}

func TestParseLiteralOnly(t *testing.T) {
	nodes := mustParse(t, "plain text, no sections")

	require.Len(t, nodes, 1)
	lit, ok := nodes[0].(literalNode)
	require.True(t, ok)
	assert.Equal(t, "plain text, no sections", lit.text)
}

func TestParseBasicSection(t *testing.T) {
	nodes := mustParse(t, "{{Hello ;name;}}")

	require.Len(t, nodes, 1)
	section, ok := nodes[0].(sectionNode)
	require.True(t, ok)
	assert.Equal(t, "Hello ", section.prefix.String())
	assert.Equal(t, "name", section.field.name)
	assert.Equal(t, "", section.suffix.String())
	assert.False(t, section.mandatory)
	assert.Empty(t, section.tokens)
}

func TestParseFieldOnly(t *testing.T) {
	nodes := mustParse(t, "{{msg}}")

	section := nodes[0].(sectionNode)
	assert.Equal(t, "msg", section.field.name)
	assert.Equal(t, "", section.prefix.String())
	assert.Equal(t, "", section.suffix.String())
}

func TestParseMandatoryMarker(t *testing.T) {
	nodes := mustParse(t, "{{!user}}")

	section := nodes[0].(sectionNode)
	assert.True(t, section.mandatory)
	assert.Equal(t, "user", section.field.name)
}

func TestParsePositionalField(t *testing.T) {
	t.Run("empty section", func(t *testing.T) {
		section := mustParse(t, "{{}}")[0].(sectionNode)
		assert.True(t, section.field.positional())
	})

	t.Run("whitespace field", func(t *testing.T) {
		section := mustParse(t, "{{pre; ;post}}")[0].(sectionNode)
		assert.True(t, section.field.positional())
		assert.Equal(t, "pre", section.prefix.String())
		assert.Equal(t, "post", section.suffix.String())
	})
}

func TestParseFormattingTokens(t *testing.T) {
	t.Run("concatenated tokens in one fragment", func(t *testing.T) {
		section := mustParse(t, "{{#red@bold;ERROR: ;message;}}")[0].(sectionNode)

		require.Len(t, section.tokens, 2)
		assert.Equal(t, rawToken{marker: '#', value: "red"}, section.tokens[0])
		assert.Equal(t, rawToken{marker: '@', value: "bold"}, section.tokens[1])
		assert.Equal(t, "ERROR: ", section.prefix.String())
		assert.Equal(t, "message", section.field.name)
	})

	t.Run("tokens in separate fragments", func(t *testing.T) {
		section := mustParse(t, "{{#red;@bold;ERROR: ;message;}}")[0].(sectionNode)

		require.Len(t, section.tokens, 2)
		assert.Equal(t, '#', section.tokens[0].marker)
		assert.Equal(t, '@', section.tokens[1].marker)
		assert.Equal(t, "ERROR: ", section.prefix.String())
	})

	t.Run("mandatory with tokens", func(t *testing.T) {
		section := mustParse(t, "{{!#red;Level ;priority;}}")[0].(sectionNode)

		assert.True(t, section.mandatory)
		require.Len(t, section.tokens, 1)
		assert.Equal(t, "red", section.tokens[0].value)
	})

	t.Run("unregistered marker starts the prefix", func(t *testing.T) {
		section := mustParse(t, "{{(ID: ;user_id;)}}")[0].(sectionNode)

		assert.Empty(t, section.tokens)
		assert.Equal(t, "(ID: ", section.prefix.String())
		assert.Equal(t, ")", section.suffix.String())
	})
}

func TestParseInlineTokens(t *testing.T) {
	t.Run("tokens inside a prefix", func(t *testing.T) {
		section := mustParse(t, "{{pre {#red}hot{#normal} end;msg;}}")[0].(sectionNode)

		require.Len(t, section.prefix.segs, 5)
		assert.Equal(t, partSeg{text: "pre "}, section.prefix.segs[0])
		assert.Equal(t, partSeg{marker: '#', value: "red"}, section.prefix.segs[1])
		assert.Equal(t, partSeg{text: "hot"}, section.prefix.segs[2])
		assert.Equal(t, partSeg{marker: '#', value: "normal"}, section.prefix.segs[3])
		assert.Equal(t, partSeg{text: " end"}, section.prefix.segs[4])
		assert.True(t, section.prefix.hasInline())
		assert.Equal(t, "pre {#red}hot{#normal} end", section.prefix.String())
	})

	t.Run("tokens inside a suffix", func(t *testing.T) {
		section := mustParse(t, "{{pre;msg; {@bold}now}}")[0].(sectionNode)

		require.Len(t, section.suffix.segs, 3)
		assert.Equal(t, partSeg{marker: '@', value: "bold"}, section.suffix.segs[1])
	})

	t.Run("escaped braces stay literal", func(t *testing.T) {
		section := mustParse(t, `{{\{#red\} ;msg;}}`)[0].(sectionNode)

		assert.False(t, section.prefix.hasInline())
		assert.Equal(t, "{#red} ", section.prefix.String())
	})

	t.Run("unregistered marker is literal", func(t *testing.T) {
		section := mustParse(t, "{{a {%x} b;msg;}}")[0].(sectionNode)

		assert.False(t, section.prefix.hasInline())
		assert.Equal(t, "a {%x} b", section.prefix.String())
	})

	t.Run("unclosed run is literal", func(t *testing.T) {
		section := mustParse(t, "{{a {#red;msg;}}")[0].(sectionNode)

		assert.False(t, section.prefix.hasInline())
		assert.Equal(t, "a {#red", section.prefix.String())
	})
}

func TestParseEscapes(t *testing.T) {
	t.Run("escaped braces are literal", func(t *testing.T) {
		nodes := mustParse(t, `\{\{not a section\}\}`)

		require.Len(t, nodes, 1)
		assert.Equal(t, "{{not a section}}", nodes[0].(literalNode).text)
	})

	t.Run("escaped delimiter inside section", func(t *testing.T) {
		section := mustParse(t, `{{a\;b;field;}}`)[0].(sectionNode)
		assert.Equal(t, "a;b", section.prefix.String())
	})

	t.Run("no-op escape keeps the escape character", func(t *testing.T) {
		nodes := mustParse(t, `C:\nothing`)
		assert.Equal(t, `C:\nothing`, nodes[0].(literalNode).text)
	})

	t.Run("custom escape character", func(t *testing.T) {
		nodes := mustParse(t, `~{~{literal`, WithEscape('~'))
		assert.Equal(t, "{{literal", nodes[0].(literalNode).text)
	})
}

func TestParseCustomDelimiter(t *testing.T) {
	section := mustParse(t, "{{Hello |name|!}}", WithDelimiter('|'))[0].(sectionNode)

	assert.Equal(t, "Hello ", section.prefix.String())
	assert.Equal(t, "name", section.field.name)
	assert.Equal(t, "!", section.suffix.String())
}

func TestParseMixedLiteralAndSections(t *testing.T) {
	nodes := mustParse(t, "a {{x}} b {{y}} c")

	require.Len(t, nodes, 5)
	assert.Equal(t, "a ", nodes[0].(literalNode).text)
	assert.Equal(t, "x", nodes[1].(sectionNode).field.name)
	assert.Equal(t, " b ", nodes[2].(literalNode).text)
	assert.Equal(t, "y", nodes[3].(sectionNode).field.name)
	assert.Equal(t, " c", nodes[4].(literalNode).text)
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unclosed section", "{{Hello ;name"},
		{"nested section", "{{outer {{inner}} }}"},
		{"too many parts", "{{a;b;c;d}}"},
		{"malformed field name", "{{pre;not a name;post}}"},
		{"field with punctuation", "{{pre;na-me;post}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.source)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrSyntax),
				"want ErrSyntax, got %v", err)
		})
	}
}

func TestParseStrayCloseBraces(t *testing.T) {
	// Close braces outside a section are ordinary text.
	nodes := mustParse(t, "a }} b")
	assert.Equal(t, "a }} b", nodes[0].(literalNode).text)
}

func TestValidateConfig(t *testing.T) {
	t.Run("delimiter equals escape", func(t *testing.T) {
		_, err := New("x", WithDelimiter('/'), WithEscape('/'))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("delimiter collides with marker", func(t *testing.T) {
		_, err := New("x", WithDelimiter('#'))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("brace delimiter", func(t *testing.T) {
		_, err := New("x", WithDelimiter('{'))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("mandatory marker as delimiter", func(t *testing.T) {
		_, err := New("x", WithDelimiter('!'))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}
