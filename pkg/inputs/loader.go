package inputs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyScenario reports a scenario file without content.
var ErrEmptyScenario = errors.New("inputs: scenario is empty")

// Load parses a scenario from JSON or YAML. source names the origin in error
// messages and provides the default scenario name. Names and descriptions are
// stripped of markup and every input is checked for consistency.
func Load(data []byte, source string) (*Scenario, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyScenario, source)
	}

	var scenario Scenario
	if json.Valid(data) {
		if err := json.Unmarshal(data, &scenario); err != nil {
			return nil, fmt.Errorf("inputs: parse %s: %w", source, err)
		}
	} else if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("inputs: parse %s: invalid JSON or YAML: %w", source, err)
	}

	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = nameFromSource(source)
	}
	sanitizeList(scenario.Inputs)
	if err := Check(scenario.Inputs); err != nil {
		return nil, fmt.Errorf("inputs: %s: %w", source, err)
	}
	return &scenario, nil
}

// LoadFile reads and parses the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inputs: read %s: %w", path, err)
	}
	return Load(data, path)
}

// LoadFS reads and parses the scenario called name from fsys.
func LoadFS(fsys fs.FS, name string) (*Scenario, error) {
	if fsys == nil {
		return nil, errors.New("inputs: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("inputs: read %s: %w", name, err)
	}
	return Load(data, name)
}

// Encode renders the scenario as indented JSON, or YAML when asYAML is set.
func (s *Scenario) Encode(asYAML bool) ([]byte, error) {
	if asYAML {
		out, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("inputs: encode yaml: %w", err)
		}
		return out, nil
	}
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("inputs: encode json: %w", err)
	}
	return out, nil
}

func nameFromSource(source string) string {
	base := filepath.Base(source)
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}
