package seed

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Preset is a named demo-data profile. Presets ship as YAML so ops can
// drop custom ones next to the binary without a rebuild.
type Preset struct {
	Name        string `yaml:"name"`
	Users       int    `yaml:"users"`
	Projects    int    `yaml:"projects"`
	Clean       bool   `yaml:"clean"`
	Description string `yaml:"description"`
}

// builtinPresets are the profiles bundled with the seeder.
const builtinPresets = `
- name: minimal
  description: a handful of rows, enough to click around
  users: 3
  projects: 6
  clean: true
- name: demo
  description: a believable portfolio with varied engagement
  users: 25
  projects: 40
  clean: true
- name: mega
  description: load-test sized dataset
  users: 500
  projects: 2000
  clean: true
`

// Presets returns the bundled presets keyed by name.
func Presets() (map[string]Preset, error) {
	var list []Preset
	if err := yaml.Unmarshal([]byte(builtinPresets), &list); err != nil {
		return nil, fmt.Errorf("parse bundled presets: %w", err)
	}

	out := make(map[string]Preset, len(list))
	for _, p := range list {
		out[p.Name] = p
	}
	return out, nil
}

// PresetNames returns the bundled preset names, sorted.
func PresetNames() []string {
	presets, err := Presets()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPresetFile reads a single preset from a YAML file on disk.
func LoadPresetFile(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset file: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse preset file %s: %w", path, err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("preset file %s has no name", path)
	}
	return &p, nil
}

// ResolvePreset looks up a bundled preset by name, or loads it from
// disk when the name points at an existing file.
func ResolvePreset(name string) (*Preset, error) {
	if _, err := os.Stat(name); err == nil {
		return LoadPresetFile(name)
	}

	presets, err := Presets()
	if err != nil {
		return nil, err
	}
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (bundled: %v)", name, PresetNames())
	}
	return &p, nil
}
