package tokens

import (
	"fmt"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/funcs"
)

// TransformHandler processes '$' tokens. The named function's return value,
// stringified, replaces the section's rendered value.
type TransformHandler struct{}

func (TransformHandler) Kind() Kind { return KindTransform }

func (TransformHandler) Bind(raw string, fns *funcs.Table) (Binding, error) {
	if !fns.Has(raw) {
		return nil, errors.Newf(errors.ErrUnknownFunction,
			"transform token references unknown function '%s'", raw)
	}
	fn, err := fns.Get(raw)
	if err != nil {
		return nil, err
	}
	return funcBinding{fn: fn, encode: func(result any) (Result, error) {
		replacement := fmt.Sprintf("%v", result)
		return Result{Replace: &replacement}, nil
	}}, nil
}
