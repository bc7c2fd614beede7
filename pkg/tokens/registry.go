package tokens

import (
	"sort"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/registry"
)

// Built-in token markers.
const (
	MarkerColor       = '#'
	MarkerEmphasis    = '@'
	MarkerConditional = '?'
	MarkerTransform   = '$'
)

// MandatoryMarker flags a section as required; it is part of the section
// grammar, not a token, and can never be registered as one.
const MandatoryMarker = '!'

// Registry maps one-character token markers to their handlers. A Registry
// is owned by the caller and passed to template construction; Clone lets
// template families extend their token set independently.
type Registry struct {
	reg registry.Registry[Handler]
}

// NewRegistry creates an empty token registry.
func NewRegistry() *Registry {
	return &Registry{reg: registry.New[Handler]()}
}

// Default returns a registry with the built-in handlers: # color,
// @ emphasis, ? conditional and $ literal-transform.
func Default() *Registry {
	r := NewRegistry()
	registry.MustRegister(r.reg, string(MarkerColor), Handler(ColorHandler{}))
	registry.MustRegister(r.reg, string(MarkerEmphasis), Handler(EmphasisHandler{}))
	registry.MustRegister(r.reg, string(MarkerConditional), Handler(ConditionalHandler{}))
	registry.MustRegister(r.reg, string(MarkerTransform), Handler(TransformHandler{}))
	return r
}

// Register adds a custom handler under the given marker character.
func (r *Registry) Register(marker rune, h Handler) error {
	switch marker {
	case MandatoryMarker:
		return errors.New(errors.ErrInvalidInput, "'!' is the mandatory marker and cannot carry a token handler")
	case '{', '}':
		return errors.New(errors.ErrInvalidInput, "brace characters cannot be token markers")
	}
	if h == nil {
		return errors.Newf(errors.ErrInvalidInput, "handler for marker '%c' is nil", marker)
	}
	return r.reg.Register(string(marker), h)
}

// Lookup returns the handler registered under marker.
func (r *Registry) Lookup(marker rune) (Handler, bool) {
	h, err := r.reg.Get(string(marker))
	if err != nil {
		return nil, false
	}
	return h, true
}

// IsMarker reports whether ch starts a formatting token.
func (r *Registry) IsMarker(ch rune) bool {
	return r.reg.Has(string(ch))
}

// Markers returns all registered marker characters in sorted order.
func (r *Registry) Markers() []rune {
	names := r.reg.List()
	markers := make([]rune, 0, len(names))
	for _, name := range names {
		markers = append(markers, []rune(name)[0])
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i] < markers[j] })
	return markers
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	return &Registry{reg: r.reg.Clone()}
}
