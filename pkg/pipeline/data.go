package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/folio-reports/folio/pkg/errors"
)

// LoadData reads a data context file. The format is picked by extension:
// .json, .toml, .yaml, and .yml are supported.
func LoadData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "data file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "failed to read data file")
	}

	var data map[string]any
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case "json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "invalid JSON data file")
		}
	case "toml":
		if err := toml.Unmarshal(raw, &data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "invalid TOML data file")
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "invalid YAML data file")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported data format: %s", filepath.Ext(path))
	}

	return data, nil
}

// MergeData deep-merges two data contexts. Overlay values win; maps present
// on both sides merge recursively. Neither input is modified.
func MergeData(base, overlay map[string]any) map[string]any {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}

	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		baseMap, baseOK := merged[k].(map[string]any)
		overlayMap, overlayOK := v.(map[string]any)
		if baseOK && overlayOK {
			merged[k] = MergeData(baseMap, overlayMap)
			continue
		}
		merged[k] = v
	}
	return merged
}
