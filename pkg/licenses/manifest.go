/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package licenses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Dependency is one entry of a manifest dependency mapping.
type Dependency struct {
	Name    string
	Version string // version specifier as written, never interpreted
	Dev     bool
}

// Manifest holds the dependency mappings of a package.json, in file order.
type Manifest struct {
	Path            string
	Dependencies    []Dependency
	DevDependencies []Dependency

	hasDependencies    bool
	hasDevDependencies bool
}

// HasDependencies reports whether the manifest declared a dependencies field.
func (m *Manifest) HasDependencies() bool { return m.hasDependencies }

// HasDevDependencies reports whether the manifest declared a devDependencies field.
func (m *Manifest) HasDevDependencies() bool { return m.hasDevDependencies }

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 - manifest path comes from the resolved project dir
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// ParseManifest decodes manifest bytes. Key order of the dependency
// mappings is preserved, which a plain map decode would lose.
func ParseManifest(data []byte) (*Manifest, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	m := &Manifest{}
	if raw, ok := top["dependencies"]; ok {
		deps, err := orderedDependencies(raw, false)
		if err != nil {
			return nil, fmt.Errorf("invalid dependencies field: %w", err)
		}
		m.Dependencies = deps
		m.hasDependencies = true
	}
	if raw, ok := top["devDependencies"]; ok {
		deps, err := orderedDependencies(raw, true)
		if err != nil {
			return nil, fmt.Errorf("invalid devDependencies field: %w", err)
		}
		m.DevDependencies = deps
		m.hasDevDependencies = true
	}
	return m, nil
}

func orderedDependencies(raw json.RawMessage, dev bool) ([]Dependency, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object, got %s", bytes.TrimSpace(raw))
	}

	deps := []Dependency{}
	// A repeated key keeps its first position and its last value.
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		var version string
		_ = json.Unmarshal(value, &version)

		if i, seen := index[name]; seen {
			deps[i].Version = version
			continue
		}
		index[name] = len(deps)
		deps = append(deps, Dependency{Name: name, Version: version, Dev: dev})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return deps, nil
}
