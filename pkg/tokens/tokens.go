package tokens

import (
	"github.com/arthur-debert/stringsmith/pkg/funcs"
)

// Kind identifies a token handler's category. A section may carry at most
// one token of each kind.
type Kind string

const (
	KindColor       Kind = "color"
	KindEmphasis    Kind = "emphasis"
	KindConditional Kind = "conditional"
	KindTransform   Kind = "transform"
)

// Result is the outcome of resolving one token binding for a render call.
type Result struct {
	// Open and Reset are the wrapping codes emitted around the section.
	Open  string
	Reset string
	// Suppress drops the whole section, exactly as if its field were missing.
	Suppress bool
	// Replace, when non-nil, substitutes the section's rendered value.
	Replace *string
}

// Binding is a token resolved against a function table at bake time. A
// binding is immutable and safe for concurrent Resolve calls.
type Binding interface {
	Resolve(ctx funcs.Context) (Result, error)
}

// Handler turns raw token text into a Binding. Implementations are
// registered under a one-character marker in a Registry.
type Handler interface {
	Kind() Kind
	Bind(raw string, fns *funcs.Table) (Binding, error)
}

// StaticCodes is implemented by bindings whose wrapping codes are fixed at
// bake time, with no render-time function call. Inline tokens require it.
type StaticCodes interface {
	Codes() (open, reset string)
}

// staticBinding is a fixed code pair computed at bake time.
type staticBinding struct {
	open  string
	reset string
}

func (b staticBinding) Resolve(funcs.Context) (Result, error) {
	return Result{Open: b.open, Reset: b.reset}, nil
}

func (b staticBinding) Codes() (string, string) { return b.open, b.reset }

// funcBinding defers to a user function at render time. encode turns the
// function's result into a Result once the call plan has run.
type funcBinding struct {
	fn     funcs.Func
	encode func(result any) (Result, error)
}

func (b funcBinding) Resolve(ctx funcs.Context) (Result, error) {
	result, ok, err := funcs.Call(b.fn, ctx)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		// A required parameter was missing: the section vanishes.
		return Result{Suppress: true}, nil
	}
	return b.encode(result)
}
