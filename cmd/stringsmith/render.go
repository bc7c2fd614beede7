package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/stringsmith/pkg/ansi"
	"github.com/arthur-debert/stringsmith/pkg/errors"
	"github.com/arthur-debert/stringsmith/pkg/logging"
	"github.com/arthur-debert/stringsmith/pkg/template"
)

var (
	renderSet       []string
	renderDataFile  string
	renderDelimiter string
	renderEscape    string
	renderSkipEmpty bool
	renderStrict    bool
)

func init() {
	renderCmd.Flags().StringArrayVar(&renderSet, "set", nil,
		"Named value as key=value (repeatable)")
	renderCmd.Flags().StringVar(&renderDataFile, "data", "",
		"YAML or JSON file with named values")
	renderCmd.Flags().StringVar(&renderDelimiter, "delimiter", "",
		"Fragment delimiter (single character)")
	renderCmd.Flags().StringVar(&renderEscape, "escape", "",
		"Escape character (single character)")
	renderCmd.Flags().BoolVar(&renderSkipEmpty, "skip-empty", false,
		"Treat empty-string values as missing")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false,
		"Surface function failures instead of hiding their section")

	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render TEMPLATE [value...]",
	Short: "Render a template with the given values",
	Long: `Render compiles TEMPLATE and renders it once.

Positional values after the template fill {{}} sections in order. Named
values come from --set pairs and --data files; the two call styles are
mutually exclusive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.render")

		opts, err := templateOptions()
		if err != nil {
			return err
		}
		tmpl, err := template.New(args[0], opts...)
		if err != nil {
			return err
		}

		named, err := collectNamed()
		if err != nil {
			return err
		}

		positional := make([]any, 0, len(args)-1)
		for _, arg := range args[1:] {
			positional = append(positional, arg)
		}

		logger.Debug().
			Int("positional", len(positional)).
			Int("named", len(named)).
			Msg("Rendering template")

		out, err := tmpl.Render(template.Values{Positional: positional, Named: named})
		if err != nil {
			return err
		}

		if !colorEnabled() {
			out = ansi.Strip(out)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// templateOptions builds compile options from config defaults overridden by
// command flags.
func templateOptions() ([]template.Option, error) {
	delimiter := cfg.DelimiterRune()
	if renderDelimiter != "" {
		r := []rune(renderDelimiter)
		if len(r) != 1 {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"--delimiter must be a single character, got %q", renderDelimiter)
		}
		delimiter = r[0]
	}
	escape := cfg.EscapeRune()
	if renderEscape != "" {
		r := []rune(renderEscape)
		if len(r) != 1 {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"--escape must be a single character, got %q", renderEscape)
		}
		escape = r[0]
	}

	opts := []template.Option{
		template.WithDelimiter(delimiter),
		template.WithEscape(escape),
	}
	if renderSkipEmpty || cfg.Template.SkipEmpty {
		opts = append(opts, template.WithSkipEmpty())
	}
	if renderStrict || cfg.Template.StrictFunctions {
		opts = append(opts, template.WithStrictFunctions())
	}
	return opts, nil
}

// collectNamed merges --data file values with --set pairs; --set wins on
// conflicts.
func collectNamed() (map[string]any, error) {
	named := make(map[string]any)

	if renderDataFile != "" {
		raw, err := os.ReadFile(renderDataFile)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput,
				"failed to read data file %s", renderDataFile)
		}
		if err := yaml.Unmarshal(raw, &named); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput,
				"failed to parse data file %s", renderDataFile)
		}
	}

	for _, pair := range renderSet {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"--set expects key=value, got %q", pair)
		}
		named[key] = value
	}

	if len(named) == 0 {
		return nil, nil
	}
	return named, nil
}
