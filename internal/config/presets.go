package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Preset is a named grid size offered when starting a new layout.
type Preset struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`
	Rows  int    `yaml:"rows" json:"rows"`
	Cols  int    `yaml:"cols" json:"cols"`
}

// DefaultPresets are the built-in grid sizes.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "small", Label: "Small (15x15)", Rows: 15, Cols: 15},
		{Name: "medium", Label: "Medium (25x25)", Rows: 25, Cols: 25},
		{Name: "large", Label: "Large (35x35)", Rows: 35, Cols: 35},
		{Name: "wide_stage", Label: "Wide stage (25x35)", Rows: 25, Cols: 35},
		{Name: "ring_center", Label: "Center ring (30x30)", Rows: 30, Cols: 30},
	}
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets returns the default presets overlaid with the ones in path.
// A preset in the file replaces a default of the same name; new names are
// appended in file order.  An empty path returns the defaults.
func LoadPresets(path string) ([]Preset, error) {
	presets := DefaultPresets()
	if path == "" {
		return presets, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return mergePresets(presets, raw)
}

func mergePresets(presets []Preset, raw []byte) ([]Preset, error) {
	var f presetsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	pos := make(map[string]int, len(presets))
	for i, p := range presets {
		pos[p.Name] = i
	}
	for _, p := range f.Presets {
		if p.Name == "" || p.Rows <= 0 || p.Cols <= 0 {
			return nil, fmt.Errorf("parse presets: invalid preset %+v", p)
		}
		if p.Label == "" {
			p.Label = p.Name
		}
		if i, ok := pos[p.Name]; ok {
			presets[i] = p
			continue
		}
		pos[p.Name] = len(presets)
		presets = append(presets, p)
	}
	return presets, nil
}

// FindPreset looks a preset up by name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames lists preset names alphabetically.
func PresetNames(presets []Preset) []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}
