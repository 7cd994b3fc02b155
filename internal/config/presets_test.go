package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPresets(t *testing.T) {
	p, ok := FindPreset(DefaultPresets(), "wide_stage")
	require.True(t, ok)
	assert.Equal(t, 25, p.Rows)
	assert.Equal(t, 35, p.Cols)
	assert.Equal(t, []string{"large", "medium", "ring_center", "small", "wide_stage"}, PresetNames(DefaultPresets()))
}

func TestLoadPresetsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  - name: small
    rows: 10
    cols: 12
  - name: arena
    label: Arena
    rows: 60
    cols: 80
`), 0o600))

	presets, err := LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, presets, 6)

	small, _ := FindPreset(presets, "small")
	assert.Equal(t, Preset{Name: "small", Label: "small", Rows: 10, Cols: 12}, small)
	assert.Equal(t, "arena", presets[5].Name)
}

func TestLoadPresetsErrors(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = mergePresets(DefaultPresets(), []byte("presets:\n  - name: bad\n    rows: 0\n    cols: 5\n"))
	assert.Error(t, err)

	_, err = mergePresets(DefaultPresets(), []byte("presets: [\n"))
	assert.Error(t, err)

	presets, err := LoadPresets("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPresets(), presets)
}
