/*
Package template implements the conditional template compiler and formatter.

A template is ordinary text with bracketed sections. Each section holds at
most one placeholder plus optional prefix/suffix text and formatting tokens;
the whole section is emitted only when its placeholder's value is supplied,
so calling code never needs manual presence checks:

	tmpl, err := template.New("{{Hello ;name;!}}")
	tmpl.FormatNamed(map[string]any{"name": "World"}) // "Hello World!"
	tmpl.FormatNamed(nil)                             // ""

Section syntax, with ';' as the default delimiter:

	{{[!][tokens;]prefix;field;suffix}}

A leading '!' makes the field mandatory: rendering without it fails instead
of degrading. Formatting tokens are marker-prefixed values placed before the
prefix: '#' for color, '@' for emphasis, '?' for a conditional gate and '$'
for a literal transform. Several tokens may share one fragment ("#red@bold"),
at most one per kind. Prefix and suffix text may also switch formatting
mid-part with single-brace inline tokens ("{#red}hot{#normal}"). The field
is a named identifier, or empty for positional binding: the Nth positional
section consumes the Nth positional argument.

Templates are parsed and baked once at construction and are immutable
afterwards; a single compiled template may render concurrently from many
goroutines. Custom token kinds and user functions are supplied per template
through options, not process-wide state.
*/
package template
