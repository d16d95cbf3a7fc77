package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML settings document. Absent keys keep their defaults and
// the result is normalized.
func Parse(data []byte) (Snapshot, error) {
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("parse settings: %w", err)
	}
	return s.Normalize(), nil
}

// Load reads and parses a YAML settings file.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read settings: %w", err)
	}
	return Parse(data)
}

// Marshal encodes s as a YAML settings document.
func Marshal(s Snapshot) ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return out, nil
}
