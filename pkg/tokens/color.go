package tokens

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/funcs"
)

// colorReset restores the default foreground color.
var colorReset = termenv.CSI + "39m"

// namedColors maps the ANSI palette names accepted in color tokens.
var namedColors = map[string]termenv.ANSIColor{
	"black":          termenv.ANSIBlack,
	"red":            termenv.ANSIRed,
	"green":          termenv.ANSIGreen,
	"yellow":         termenv.ANSIYellow,
	"blue":           termenv.ANSIBlue,
	"magenta":        termenv.ANSIMagenta,
	"cyan":           termenv.ANSICyan,
	"white":          termenv.ANSIWhite,
	"bright_black":   termenv.ANSIBrightBlack,
	"gray":           termenv.ANSIBrightBlack,
	"grey":           termenv.ANSIBrightBlack,
	"bright_red":     termenv.ANSIBrightRed,
	"bright_green":   termenv.ANSIBrightGreen,
	"bright_yellow":  termenv.ANSIBrightYellow,
	"bright_blue":    termenv.ANSIBrightBlue,
	"bright_magenta": termenv.ANSIBrightMagenta,
	"bright_cyan":    termenv.ANSIBrightCyan,
	"bright_white":   termenv.ANSIBrightWhite,
}

// ColorHandler processes '#' tokens: named palette colors, hex triplets
// (FF0000 or #FF0000), reset words, or function-backed colors.
type ColorHandler struct{}

func (ColorHandler) Kind() Kind { return KindColor }

func (h ColorHandler) Bind(raw string, fns *funcs.Table) (Binding, error) {
	if fns.Has(raw) {
		fn, err := fns.Get(raw)
		if err != nil {
			return nil, err
		}
		return funcBinding{fn: fn, encode: h.encode}, nil
	}
	if isResetWord(raw) {
		return staticBinding{open: colorReset, reset: colorReset}, nil
	}
	open, ok := colorCode(raw)
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownColor,
			"unknown color '%s': use a palette name, a hex triplet, or a registered function", raw)
	}
	return staticBinding{open: open, reset: colorReset}, nil
}

// encode turns a function's return value into a color code pair.
func (ColorHandler) encode(result any) (Result, error) {
	name := fmt.Sprintf("%v", result)
	if isResetWord(name) {
		return Result{Open: colorReset, Reset: colorReset}, nil
	}
	open, ok := colorCode(name)
	if !ok {
		return Result{}, errors.Newf(errors.ErrUnknownColor,
			"color function returned unknown color '%s'", name)
	}
	return Result{Open: open, Reset: colorReset}, nil
}

// colorCode resolves a color name or hex triplet to its ANSI sequence.
func colorCode(value string) (string, bool) {
	if c, ok := namedColors[strings.ToLower(value)]; ok {
		return termenv.CSI + c.Sequence(false) + "m", true
	}
	if hex, ok := hexTriplet(value); ok {
		seq := termenv.RGBColor(hex).Sequence(false)
		if seq == "" {
			return "", false
		}
		return termenv.CSI + seq + "m", true
	}
	return "", false
}

// hexTriplet normalizes FF0000 / #FF0000 to a #-prefixed triplet.
func hexTriplet(value string) (string, bool) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 {
		return "", false
	}
	for _, ch := range hex {
		switch {
		case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		default:
			return "", false
		}
	}
	return "#" + hex, true
}

// isResetWord reports whether a token value clears formatting state.
func isResetWord(value string) bool {
	switch strings.ToLower(value) {
	case "normal", "default", "reset":
		return true
	}
	return false
}
