package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/folio-reports/folio/pkg/errors"
)

// Load reads a report definition from path, dispatching on the file
// extension: .toml, .yaml/.yml, or .json.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "definition file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "read %s", path)
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	def, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "load %s", path)
	}
	return def, nil
}

// Parse decodes a report definition from data in the given format
// ("toml", "yaml", "yml", or "json").
func Parse(data []byte, format string) (*Definition, error) {
	var def Definition
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &def); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "parse TOML")
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "parse YAML")
		}
	case "json":
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "parse JSON")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported definition format: %q", format)
	}

	if len(def.Layouts) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "definition contains no layouts")
	}
	return &def, nil
}
