// Package config loads stringsmith's layered configuration: embedded
// defaults first, then the user's config file. Later layers override
// earlier ones key by key.
package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/stringsmith/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Settings is the fully merged configuration.
type Settings struct {
	Template TemplateSettings `koanf:"template" toml:"template"`
	Output   OutputSettings   `koanf:"output" toml:"output"`
	Logging  LoggingSettings  `koanf:"logging" toml:"logging"`
}

// TemplateSettings controls template compilation defaults.
type TemplateSettings struct {
	Delimiter       string `koanf:"delimiter" toml:"delimiter"`
	Escape          string `koanf:"escape" toml:"escape"`
	SkipEmpty       bool   `koanf:"skip_empty" toml:"skip_empty"`
	StrictFunctions bool   `koanf:"strict_functions" toml:"strict_functions"`
}

// OutputSettings controls terminal output behavior.
type OutputSettings struct {
	// Color is "auto", "always" or "never".
	Color string `koanf:"color" toml:"color"`
}

// LoggingSettings controls log verbosity.
type LoggingSettings struct {
	Verbosity int `koanf:"verbosity" toml:"verbosity"`
}

// DefaultPath returns the user config file location under the XDG config
// directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "stringsmith", "config.toml")
}

// Load merges embedded defaults with the config file at path. An empty path
// means DefaultPath; a missing file is not an error, the defaults stand.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse config file %s", path)
		}
	} else if explicit {
		return nil, errors.Newf(errors.ErrConfigLoad, "config file not found: %s", path)
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Default returns the embedded defaults without touching the filesystem.
func Default() (*Settings, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}
	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	return &settings, nil
}

func (s *Settings) validate() error {
	if len([]rune(s.Template.Delimiter)) != 1 {
		return errors.Newf(errors.ErrConfigParse,
			"template.delimiter must be a single character, got %q", s.Template.Delimiter)
	}
	if len([]rune(s.Template.Escape)) != 1 {
		return errors.Newf(errors.ErrConfigParse,
			"template.escape must be a single character, got %q", s.Template.Escape)
	}
	switch s.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.Newf(errors.ErrConfigParse,
			"output.color must be auto, always or never, got %q", s.Output.Color)
	}
	return nil
}

// DelimiterRune returns the configured delimiter as a rune.
func (s *Settings) DelimiterRune() rune { return []rune(s.Template.Delimiter)[0] }

// EscapeRune returns the configured escape character as a rune.
func (s *Settings) EscapeRune() rune { return []rune(s.Template.Escape)[0] }
