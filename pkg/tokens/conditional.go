package tokens

import (
	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/funcs"
)

// ConditionalHandler processes '?' tokens. The named function gates the
// section: a falsy result suppresses it exactly as if its field were
// missing. Conditionals contribute no wrapping codes.
type ConditionalHandler struct{}

func (ConditionalHandler) Kind() Kind { return KindConditional }

func (ConditionalHandler) Bind(raw string, fns *funcs.Table) (Binding, error) {
	if !fns.Has(raw) {
		return nil, errors.Newf(errors.ErrUnknownFunction,
			"conditional token references unknown function '%s'", raw)
	}
	fn, err := fns.Get(raw)
	if err != nil {
		return nil, err
	}
	return funcBinding{fn: fn, encode: func(result any) (Result, error) {
		return Result{Suppress: !funcs.Truthy(result)}, nil
	}}, nil
}
