// Package funcs implements the function table and call-plan resolution for
// user-registered template functions. Functions declare the field names they
// consume up front, so no runtime introspection is needed to decide which
// values to pass.
package funcs

import (
	"strings"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/registry"
)

// reservedNames are token values with built-in meaning; functions may not
// shadow them.
var reservedNames = map[string]bool{
	"normal":  true,
	"default": true,
	"reset":   true,
}

// Func is a user-registered template function. Params lists the named render
// values the function consumes, in the order they are passed to Fn.
type Func struct {
	Name   string
	Params []string
	Fn     func(args ...any) (any, error)
}

// New builds a Func from a name, its declared parameter names and a body.
func New(name string, params []string, fn func(args ...any) (any, error)) Func {
	return Func{Name: name, Params: params, Fn: fn}
}

// Table holds the functions available to one template.
type Table struct {
	reg registry.Registry[Func]
}

// NewTable creates a function table containing the given functions.
func NewTable(fns ...Func) (*Table, error) {
	t := &Table{reg: registry.New[Func]()}
	for _, fn := range fns {
		if err := t.Register(fn); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Register adds a function to the table.
func (t *Table) Register(fn Func) error {
	if fn.Name == "" {
		return errors.New(errors.ErrInvalidInput, "function name cannot be empty")
	}
	if reservedNames[strings.ToLower(fn.Name)] {
		return errors.Newf(errors.ErrInvalidInput,
			"illegal function name '%s': reserved token keyword", fn.Name)
	}
	if fn.Fn == nil {
		return errors.Newf(errors.ErrInvalidInput, "function '%s' has no body", fn.Name)
	}
	return t.reg.Register(fn.Name, fn)
}

// Get retrieves a function by name.
func (t *Table) Get(name string) (Func, error) {
	return t.reg.Get(name)
}

// Has reports whether a function is registered.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	return t.reg.Has(name)
}

// Names returns all registered function names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return t.reg.List()
}

// Context carries the values available to a function during one render call.
type Context struct {
	// Field is the value of the section the function belongs to.
	Field any
	// Named holds all named values supplied to the render call.
	Named map[string]any
}

// Call invokes fn according to its declared parameters:
//
//   - no parameters: called with no arguments
//   - one parameter whose name is absent from the named values: called with
//     the section's own field value
//   - otherwise: called with the declared parameters looked up among the
//     named values; if any is missing the result is reported unavailable
//     (ok == false) rather than an error, so the caller can suppress the
//     enclosing section.
func Call(fn Func, ctx Context) (result any, ok bool, err error) {
	switch len(fn.Params) {
	case 0:
		result, err = fn.Fn()
	case 1:
		if v, present := ctx.Named[fn.Params[0]]; present {
			result, err = fn.Fn(v)
		} else {
			result, err = fn.Fn(ctx.Field)
		}
	default:
		args := make([]any, 0, len(fn.Params))
		for _, name := range fn.Params {
			v, present := ctx.Named[name]
			if !present {
				return nil, false, nil
			}
			args = append(args, v)
		}
		result, err = fn.Fn(args...)
	}
	if err != nil {
		return nil, true, errors.Wrapf(err, errors.ErrFunctionFailed,
			"function '%s' failed", fn.Name)
	}
	return result, true, nil
}

// Truthy reports whether a function result gates a section open.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int8:
		return val != 0
	case int16:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case uint:
		return val != 0
	case uint8:
		return val != 0
	case uint16:
		return val != 0
	case uint32:
		return val != 0
	case uint64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
