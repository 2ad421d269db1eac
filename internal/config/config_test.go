package config

import (
	"os"
	"path/filepath"
	"testing"

	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, world.DefaultGeneratorSettings(), cfg.GeneratorSettings())
	assert.GreaterOrEqual(t, cfg.Streaming.Workers, 1)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, cfg.SpawnPosition())
	assert.Equal(t, mgl32.Vec3{1, 2, 1}, cfg.PlayerSettings().Box.Max)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
generator:
  seed: 42
  layers:
    - {scale: 50, amplitude: 8}
streaming:
  draw_distance: 40
  workers: 0
player:
  flying: true
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Generator.Seed)
	assert.Equal(t, -2, cfg.Generator.WaterLevel, "unset keys keep defaults")
	assert.Equal(t, []world.NoiseLayer{{Scale: 50, Amplitude: 8}}, cfg.GeneratorSettings().Layers)
	assert.Equal(t, maxDrawDistance, cfg.Streaming.DrawDistance)
	assert.Equal(t, 1, cfg.Streaming.Workers)
	assert.True(t, cfg.PlayerSettings().Flying)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 60, cfg.Session.TickRateHz)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvPath, writeConfig(t, "session: {tick_rate_hz: 20}\n"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Session.TickRateHz)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "generator: [oops"))
	assert.ErrorContains(t, err, "unmarshal yaml")

	_, err = Load(writeConfig(t, "session: {tick_rate_hz: 0}\ngenerator: {layers: []}\n"))
	assert.ErrorContains(t, err, "tick_rate_hz")
	assert.ErrorContains(t, err, "layers is empty")
}

func TestValidateRejectsBadLayerScale(t *testing.T) {
	cfg := Default()
	cfg.Generator.Layers = []LayerConfig{{Scale: 0, Amplitude: 1}}
	assert.ErrorContains(t, cfg.Validate(), "layers[0].scale")
}

func TestValidateRejectsShallowStoneDepth(t *testing.T) {
	for _, depth := range []int{0, -2} {
		cfg := Default()
		cfg.Generator.StoneDepth = depth
		assert.ErrorContains(t, cfg.Validate(), "stone_depth", "depth %d", depth)
	}

	_, err := Load(writeConfig(t, "generator: {stone_depth: 0}\n"))
	assert.ErrorContains(t, err, "stone_depth")
}

func TestStreamerSettings(t *testing.T) {
	cfg := Default()
	cfg.Streaming.LoadsPerSecond = 30
	s := cfg.StreamerSettings()
	assert.Equal(t, world.StreamerSettings{DrawDistance: 4, DrawDistanceY: 2, LoadsPerSecond: 30}, s)
}
