package template

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/funcs"
	"github.com/arthur-debert/stringsmith/pkg/tokens"
)

// Values carries the data for one render call. Positional and Named are
// mutually exclusive; supplying both is an error.
type Values struct {
	Positional []any
	Named      map[string]any
}

// Format renders the template with positional values: the Nth positional
// section consumes the Nth argument.
func (t *Template) Format(args ...any) (string, error) {
	return t.Render(Values{Positional: args})
}

// FormatNamed renders the template with named values.
func (t *Template) FormatNamed(named map[string]any) (string, error) {
	return t.Render(Values{Named: named})
}

// Render walks the compiled template once and returns the output string.
// Sections whose field value is absent degrade away unless mandatory.
func (t *Template) Render(vals Values) (string, error) {
	if len(vals.Positional) > 0 && len(vals.Named) > 0 {
		return "", errors.New(errors.ErrAmbiguousArgs,
			"cannot mix positional and named values in one render call")
	}

	var out strings.Builder
	positionalIdx := 0

	for _, n := range t.nodes {
		if n.section == nil {
			out.WriteString(n.text)
			continue
		}

		value, present := t.lookupField(n.section, vals, &positionalIdx)
		if !present {
			if n.section.mandatory {
				return "", t.missingMandatory(n.section)
			}
			continue
		}

		rendered, err := t.renderSection(n.section, value, vals.Named)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
	}

	return out.String(), nil
}

// lookupField resolves a section's value against the supplied values. A
// positional section in a call without positional values consumes nothing
// and renders as pure literal content, so its value is an empty string.
func (t *Template) lookupField(s *compiledSection, vals Values, positionalIdx *int) (any, bool) {
	if s.field.positional() {
		if len(vals.Positional) == 0 {
			if s.mandatory {
				return nil, false
			}
			return "", true
		}
		if *positionalIdx >= len(vals.Positional) {
			return nil, false
		}
		value := vals.Positional[*positionalIdx]
		*positionalIdx++
		return t.checkEmpty(value)
	}

	value, ok := vals.Named[s.field.name]
	if !ok || value == nil {
		return nil, false
	}
	return t.checkEmpty(value)
}

// checkEmpty treats nil values as absent and applies the skip-empty policy.
func (t *Template) checkEmpty(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	if t.skipEmpty {
		if s, ok := value.(string); ok && s == "" {
			return nil, false
		}
	}
	return value, true
}

// renderSection evaluates a present section's tokens and assembles its
// output. An empty string means the section was suppressed.
func (t *Template) renderSection(s *compiledSection, value any, named map[string]any) (string, error) {
	ctx := funcs.Context{Field: value, Named: named}

	results := make([]tokens.Result, 0, len(s.tokens))
	valueText := fmt.Sprintf("%v", value)

	for _, tok := range s.tokens {
		result, err := tok.binding.Resolve(ctx)
		if err != nil {
			if t.strict {
				return "", err
			}
			// Graceful degradation: a failing function hides its section.
			return "", nil
		}
		if result.Suppress {
			return "", nil
		}
		if result.Replace != nil {
			valueText = *result.Replace
		}
		results = append(results, result)
	}

	var out strings.Builder
	for _, result := range results {
		out.WriteString(result.Open)
	}
	out.WriteString(s.prefix)
	out.WriteString(valueText)
	out.WriteString(s.suffix)
	// Reset codes close in reverse order so nested wraps unwind correctly.
	for i := len(results) - 1; i >= 0; i-- {
		out.WriteString(results[i].Reset)
	}
	// Formatting opened by inline tokens closes with the section.
	for _, reset := range s.inlineResets {
		out.WriteString(reset)
	}
	return out.String(), nil
}

func (t *Template) missingMandatory(s *compiledSection) error {
	name := s.field.name
	if name == "" {
		name = "(positional)"
	}
	return errors.Newf(errors.ErrMissingMandatory,
		"required field '%s' not provided", name).
		WithDetail("field", name)
}
