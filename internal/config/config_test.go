package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/TheBitDrifter/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
[workload]
workers = 2
entities = 50
seed = 9

[logging]
level = "debug"
format = "json"

[[component]]
name = "a"
size = 4
align = 4
storage = "table"

[[component]]
name = "b"
size = 12
align = 4
storage = "table"
drop = true
`)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workload.Workers)
	assert.Equal(t, 50, cfg.Workload.Entities)
	assert.Equal(t, 2, cfg.Workload.Regions, "unset keys keep defaults")
	assert.Equal(t, int64(9), cfg.Workload.Seed)
	assert.Equal(t, "json", cfg.Logging.Format)
	require.Len(t, cfg.Components, 2)
	assert.Equal(t, ComponentConfig{Name: "b", Size: 12, Align: 4, Storage: "table", Drop: true}, cfg.Components[1])
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Bad toml", `[workload`},
		{"No workers", "[workload]\nworkers = 0"},
		{"Bad align", "[[component]]\nname='x'\nsize=6\nalign=3\nstorage='table'"},
		{"Unknown storage", "[[component]]\nname='x'\nsize=4\nalign=4\nstorage='heap'\n[[component]]\nname='y'\nsize=4\nalign=4\nstorage='table'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestValidateTableComponentLimit(t *testing.T) {
	cfg := Defaults()
	cfg.Components = nil
	for i := range mask.MaxBits {
		cfg.Components = append(cfg.Components, ComponentConfig{
			Name: fmt.Sprintf("c%d", i), Size: 4, Align: 4, Storage: "table",
		})
	}
	cfg.Components = append(cfg.Components, ComponentConfig{Name: "flag", Align: 1, Storage: "sparse_set"})
	require.NoError(t, cfg.Validate())

	cfg.Components = append(cfg.Components, ComponentConfig{Name: "extra", Size: 4, Align: 4, Storage: "table"})
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table components are supported")
}

func TestValidateRejectsOverAlignment(t *testing.T) {
	cfg := Defaults()
	cfg.Components[0].Align = 8192
	cfg.Components[0].Size = 8192
	assert.Error(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockbench.toml")
	require.NoError(t, os.WriteFile(path, []byte("[workload]\nrounds = 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workload.Rounds)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
