package style

import (
	"os"

	"github.com/pterm/pterm"
)

// ErrorPrinter reports failures to stderr so error text never mixes with
// rendered template output on stdout.
var ErrorPrinter = pterm.PrefixPrinter{
	Prefix: pterm.Prefix{Text: "error", Style: pterm.NewStyle(pterm.BgRed, pterm.FgWhite)},
	Writer: os.Stderr,
}

// DisableColor turns off color output globally for pterm and lipgloss
// rendered through these printers.
func DisableColor() {
	pterm.DisableColor()
}
