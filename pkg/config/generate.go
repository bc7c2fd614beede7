package config

import (
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/stringsmith/pkg/errors"
)

// Generate renders the given settings as a TOML document suitable for
// writing to the user config file.
func Generate(settings *Settings) (string, error) {
	var buf strings.Builder
	buf.WriteString("# stringsmith configuration.\n")
	buf.WriteString("# Place this file at " + DefaultPath() + "\n\n")

	enc := gotoml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(settings); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.String(), nil
}

// GenerateDefault renders the embedded default configuration, comments
// included.
func GenerateDefault() string {
	return string(defaultConfig)
}
