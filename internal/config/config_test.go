package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)
	assert.Equal(t, float32(60), cfg.Simulation.FPS)
	assert.Equal(t, 1, cfg.Simulation.Frames)
	assert.True(t, cfg.IK.Enabled)
	assert.InDelta(t, 1.0/60.0, cfg.Simulation.StepSeconds(), 1e-6)
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
logging:
  level: debug
simulation:
  fps: 30
  frames: 120
ik:
  enabled: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, float32(30), cfg.Simulation.FPS)
	assert.Equal(t, 120, cfg.Simulation.Frames)
	assert.False(t, cfg.IK.Enabled)
	// untouched sections keep defaults
	assert.Equal(t, 1, cfg.Simulation.MaxSubSteps)
	assert.Equal(t, float32(0.08), cfg.Export.GLTFScale)
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("simulation: [1, 2"), 0644))

	assert.Error(t, loadFromFile(Default(), configPath))
	assert.Error(t, loadFromFile(Default(), filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Simulation.Frames = 42
	require.NoError(t, Save(cfg, path))

	loaded := &Config{}
	require.NoError(t, loadFromFile(loaded, path))
	assert.Equal(t, cfg, loaded)
}

func TestStepSecondsZeroFPS(t *testing.T) {
	s := SimulationConfig{}
	assert.InDelta(t, 1.0/60.0, s.StepSeconds(), 1e-6)
}
