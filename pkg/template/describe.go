package template

// Description is a structural summary of a compiled template, used by
// external callers (help generators, inspection panels) to explain a
// template without rendering it.
type Description struct {
	Source    string     `json:"source"`
	Delimiter string     `json:"delimiter"`
	Escape    string     `json:"escape"`
	Nodes     []NodeInfo `json:"nodes"`
	Functions []string   `json:"functions,omitempty"`
	// HasInlineFormatting reports whether any prefix or suffix carries
	// single-brace inline tokens.
	HasInlineFormatting bool `json:"has_inline_formatting,omitempty"`
}

// NodeInfo describes one literal or section node, in template order.
type NodeInfo struct {
	Kind      string      `json:"kind"`
	Text      string      `json:"text,omitempty"`
	Mandatory bool        `json:"mandatory,omitempty"`
	Tokens    []TokenInfo `json:"tokens,omitempty"`
	Prefix    string      `json:"prefix,omitempty"`
	Suffix    string      `json:"suffix,omitempty"`
	Field     *FieldInfo  `json:"field,omitempty"`
}

// TokenInfo describes one formatting token on a section.
type TokenInfo struct {
	Kind   string `json:"kind"`
	Marker string `json:"marker"`
	Value  string `json:"value"`
}

// FieldInfo describes a section's field reference.
type FieldInfo struct {
	Name       string `json:"name,omitempty"`
	Positional bool   `json:"positional"`
}

// Describe returns the template's structural summary.
func (t *Template) Describe() Description {
	desc := Description{
		Source:    t.source,
		Delimiter: string(t.delimiter),
		Escape:    string(t.escape),
		Functions: t.fns.Names(),
		Nodes:     make([]NodeInfo, 0, len(t.nodes)),
	}

	for _, n := range t.nodes {
		if n.section == nil {
			desc.Nodes = append(desc.Nodes, NodeInfo{Kind: "literal", Text: n.text})
			continue
		}
		s := n.section
		if s.inline {
			desc.HasInlineFormatting = true
		}
		info := NodeInfo{
			Kind:      "section",
			Mandatory: s.mandatory,
			Prefix:    s.prefixSrc,
			Suffix:    s.suffixSrc,
			Field: &FieldInfo{
				Name:       s.field.name,
				Positional: s.field.positional(),
			},
		}
		for _, tok := range s.tokens {
			info.Tokens = append(info.Tokens, TokenInfo{
				Kind:   string(tok.kind),
				Marker: string(tok.marker),
				Value:  tok.raw,
			})
		}
		desc.Nodes = append(desc.Nodes, info)
	}

	return desc
}

// MandatoryFields returns the names of all mandatory fields in template
// order.
func (t *Template) MandatoryFields() []string {
	var fields []string
	for _, n := range t.nodes {
		if n.section != nil && n.section.mandatory && !n.section.field.positional() {
			fields = append(fields, n.section.field.name)
		}
	}
	return fields
}
