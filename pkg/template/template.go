package template

import (
	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/funcs"
	"github.com/arthur-debert/stringsmith/pkg/logging"
	"github.com/arthur-debert/stringsmith/pkg/tokens"
)

const (
	// DefaultDelimiter separates the fragments inside a section.
	DefaultDelimiter = ';'
	// DefaultEscape makes the following structural character literal.
	DefaultEscape = '\\'
)

// Template is a compiled conditional template. It is immutable after
// construction and safe for concurrent rendering.
type Template struct {
	source    string
	delimiter rune
	escape    rune
	strict    bool
	skipEmpty bool
	registry  *tokens.Registry
	fns       *funcs.Table
	nodes     []compiledNode
}

type options struct {
	delimiter rune
	escape    rune
	strict    bool
	skipEmpty bool
	registry  *tokens.Registry
	table     *funcs.Table
	fns       []funcs.Func
}

// Option configures template construction.
type Option func(*options)

// WithDelimiter sets the fragment delimiter (default ';').
func WithDelimiter(delimiter rune) Option {
	return func(o *options) { o.delimiter = delimiter }
}

// WithEscape sets the escape character (default '\\').
func WithEscape(escape rune) Option {
	return func(o *options) { o.escape = escape }
}

// WithFunctions registers user functions available to formatting tokens.
func WithFunctions(fns ...funcs.Func) Option {
	return func(o *options) { o.fns = append(o.fns, fns...) }
}

// WithFunctionTable supplies a pre-built function table. Functions added
// through WithFunctions are registered on top of it.
func WithFunctionTable(table *funcs.Table) Option {
	return func(o *options) { o.table = table }
}

// WithTokens supplies the token registry for this template. The registry is
// caller-owned configuration; clone it before registering template-specific
// handlers.
func WithTokens(registry *tokens.Registry) Option {
	return func(o *options) { o.registry = registry }
}

// WithStrictFunctions makes user-function failures surface as render errors
// instead of silently suppressing their section.
func WithStrictFunctions() Option {
	return func(o *options) { o.strict = true }
}

// WithSkipEmpty treats empty-string values as missing, so their sections
// degrade away instead of rendering with an empty value.
func WithSkipEmpty() Option {
	return func(o *options) { o.skipEmpty = true }
}

// New parses and bakes a template in one step. The returned Template can be
// rendered many times with different values.
func New(source string, opts ...Option) (*Template, error) {
	o := options{
		delimiter: DefaultDelimiter,
		escape:    DefaultEscape,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = tokens.Default()
	}

	if err := validateConfig(&o); err != nil {
		return nil, err
	}

	table := o.table
	if table == nil {
		var err error
		table, err = funcs.NewTable()
		if err != nil {
			return nil, err
		}
	}
	for _, fn := range o.fns {
		if err := table.Register(fn); err != nil {
			return nil, err
		}
	}

	p := &parser{
		delimiter: o.delimiter,
		escape:    o.escape,
		registry:  o.registry,
	}
	parsed, err := p.parse(source)
	if err != nil {
		return nil, err
	}

	compiled, err := bake(parsed, o.registry, table)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("template")
	logger.Debug().
		Int("nodes", len(compiled)).
		Str("source", source).
		Msg("Template compiled")

	return &Template{
		source:    source,
		delimiter: o.delimiter,
		escape:    o.escape,
		strict:    o.strict,
		skipEmpty: o.skipEmpty,
		registry:  o.registry,
		fns:       table,
		nodes:     compiled,
	}, nil
}

func validateConfig(o *options) error {
	if o.delimiter == o.escape {
		return errors.New(errors.ErrInvalidInput, "delimiter and escape character cannot be the same")
	}
	for _, ch := range []rune{o.delimiter, o.escape} {
		if ch == '{' || ch == '}' {
			return errors.New(errors.ErrInvalidInput, "brace characters cannot be used as delimiter or escape")
		}
	}
	if o.registry.IsMarker(o.delimiter) {
		return errors.Newf(errors.ErrInvalidInput,
			"delimiter '%c' collides with a registered token marker", o.delimiter)
	}
	if o.delimiter == tokens.MandatoryMarker || o.escape == tokens.MandatoryMarker {
		return errors.New(errors.ErrInvalidInput, "'!' is the mandatory marker and cannot be delimiter or escape")
	}
	return nil
}

// Source returns the raw template text.
func (t *Template) Source() string { return t.source }

// Functions returns the names of the user functions registered on this
// template, sorted.
func (t *Template) Functions() []string { return t.fns.Names() }
