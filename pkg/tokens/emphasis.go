package tokens

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/funcs"
)

// emphasisReset clears every emphasis attribute this handler can set.
var emphasisReset = termenv.CSI + "22;23;24;25;27;29m"

// emphasisCodes maps style names to their ANSI sequences.
var emphasisCodes = map[string]string{
	"bold":          termenv.CSI + termenv.BoldSeq + "m",
	"dim":           termenv.CSI + termenv.FaintSeq + "m",
	"italic":        termenv.CSI + termenv.ItalicSeq + "m",
	"underline":     termenv.CSI + termenv.UnderlineSeq + "m",
	"blink":         termenv.CSI + termenv.BlinkSeq + "m",
	"reverse":       termenv.CSI + termenv.ReverseSeq + "m",
	"strikethrough": termenv.CSI + termenv.CrossOutSeq + "m",
}

// EmphasisHandler processes '@' tokens: text emphasis styles or
// function-backed style names.
type EmphasisHandler struct{}

func (EmphasisHandler) Kind() Kind { return KindEmphasis }

func (h EmphasisHandler) Bind(raw string, fns *funcs.Table) (Binding, error) {
	if fns.Has(raw) {
		fn, err := fns.Get(raw)
		if err != nil {
			return nil, err
		}
		return funcBinding{fn: fn, encode: h.encode}, nil
	}
	if isResetWord(raw) {
		return staticBinding{open: emphasisReset, reset: emphasisReset}, nil
	}
	code, ok := emphasisCodes[strings.ToLower(raw)]
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownEmphasis,
			"unknown emphasis style '%s': valid styles are bold, dim, italic, underline, blink, reverse, strikethrough", raw)
	}
	return staticBinding{open: code, reset: emphasisReset}, nil
}

func (EmphasisHandler) encode(result any) (Result, error) {
	name := fmt.Sprintf("%v", result)
	if isResetWord(name) {
		return Result{Open: emphasisReset, Reset: emphasisReset}, nil
	}
	code, ok := emphasisCodes[strings.ToLower(name)]
	if !ok {
		return Result{}, errors.Newf(errors.ErrUnknownEmphasis,
			"emphasis function returned unknown style '%s'", name)
	}
	return Result{Open: code, Reset: emphasisReset}, nil
}
