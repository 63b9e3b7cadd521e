package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kittipatc/opsdesk/internal/core/domain"
)

// LoadCueTable reads an intent cue table from a YAML file. An empty path
// means no override and yields the built-in table.
func LoadCueTable(path string) (domain.CueTable, error) {
	if path == "" {
		return domain.DefaultCueTable(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.CueTable{}, fmt.Errorf("read cue table %s: %w", path, err)
	}
	var table domain.CueTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return domain.CueTable{}, fmt.Errorf("parse cue table %s: %w", path, err)
	}
	if table.Version == "" {
		return domain.CueTable{}, fmt.Errorf("cue table %s: missing version", path)
	}
	return table, nil
}
