package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"mini-voxel/internal/physics"
	"mini-voxel/internal/player"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when Load gets no path.
const EnvPath = "MINI_VOXEL_CONFIG"

const (
	minDrawDistance = 1
	maxDrawDistance = 16
)

type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Streaming StreamingConfig `yaml:"streaming"`
	Player    PlayerConfig    `yaml:"player"`
	Session   SessionConfig   `yaml:"session"`
	Input     InputConfig     `yaml:"input"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type LayerConfig struct {
	Scale     float64 `yaml:"scale"`
	Amplitude float64 `yaml:"amplitude"`
}

type GeneratorConfig struct {
	Seed       int64         `yaml:"seed"`
	WaterLevel int           `yaml:"water_level"`
	StoneDepth int           `yaml:"stone_depth"`
	Layers     []LayerConfig `yaml:"layers"`
}

type StreamingConfig struct {
	DrawDistance   int     `yaml:"draw_distance"`
	DrawDistanceY  int     `yaml:"draw_distance_y"`
	LoadsPerSecond float64 `yaml:"loads_per_second"`
	Workers        int     `yaml:"workers"`
	QueueSize      int     `yaml:"queue_size"`
}

type PlayerConfig struct {
	Gravity          float32    `yaml:"gravity"`
	JumpVelocity     float32    `yaml:"jump_velocity"`
	TerminalVelocity float32    `yaml:"terminal_velocity"`
	MoveSpeed        float32    `yaml:"move_speed"`
	EyeHeight        float32    `yaml:"eye_height"`
	Reach            float32    `yaml:"reach"`
	LookSensitivity  float32    `yaml:"look_sensitivity"`
	Flying           bool       `yaml:"flying"`
	Spawn            [3]float32 `yaml:"spawn"`
	BoxSize          [3]float32 `yaml:"box_size"`
}

type SessionConfig struct {
	TickRateHz int `yaml:"tick_rate_hz"`
}

type InputConfig struct {
	Bindings map[string]string `yaml:"bindings"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	gs := world.DefaultGeneratorSettings()
	layers := make([]LayerConfig, len(gs.Layers))
	for i, l := range gs.Layers {
		layers[i] = LayerConfig{Scale: l.Scale, Amplitude: l.Amplitude}
	}
	ps := player.DefaultSettings()

	return Config{
		Generator: GeneratorConfig{
			Seed:       gs.Seed,
			WaterLevel: gs.WaterLevel,
			StoneDepth: gs.StoneDepth,
			Layers:     layers,
		},
		Streaming: StreamingConfig{
			DrawDistance:  4,
			DrawDistanceY: 2,
			Workers:       max(runtime.NumCPU()-1, 1),
			QueueSize:     64,
		},
		Player: PlayerConfig{
			Gravity:          ps.Gravity,
			JumpVelocity:     ps.JumpVelocity,
			TerminalVelocity: ps.TerminalVelocity,
			MoveSpeed:        ps.MoveSpeed,
			EyeHeight:        ps.EyeHeight,
			Reach:            ps.Reach,
			LookSensitivity:  ps.LookSensitivity,
			Spawn:            [3]float32{0, 2, 0},
			BoxSize:          [3]float32(ps.Box.Size()),
		},
		Session: SessionConfig{TickRateHz: 60},
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Addr: ":2112"},
	}
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path falls back to $MINI_VOXEL_CONFIG, and to the defaults alone
// when that is unset too.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal yaml: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate clamps tunables into their supported range and rejects values
// that cannot work at all.
func (c *Config) Validate() error {
	c.Streaming.DrawDistance = clamp(c.Streaming.DrawDistance, minDrawDistance, maxDrawDistance)
	c.Streaming.DrawDistanceY = clamp(c.Streaming.DrawDistanceY, 0, maxDrawDistance)
	if c.Streaming.Workers < 1 {
		c.Streaming.Workers = 1
	}
	if c.Streaming.QueueSize < 1 {
		c.Streaming.QueueSize = 1
	}
	if c.Streaming.LoadsPerSecond < 0 {
		c.Streaming.LoadsPerSecond = 0
	}

	var errs []error
	if len(c.Generator.Layers) == 0 {
		errs = append(errs, errors.New("generator.layers is empty"))
	}
	for i, l := range c.Generator.Layers {
		if l.Scale <= 0 {
			errs = append(errs, fmt.Errorf("generator.layers[%d].scale must be positive", i))
		}
	}
	if c.Generator.StoneDepth < 1 {
		errs = append(errs, errors.New("generator.stone_depth must be at least 1"))
	}
	if c.Session.TickRateHz <= 0 {
		errs = append(errs, errors.New("session.tick_rate_hz must be positive"))
	}
	if c.Player.MoveSpeed < 0 || c.Player.Reach <= 0 {
		errs = append(errs, errors.New("player.move_speed must be >= 0 and player.reach > 0"))
	}
	for i, s := range c.Player.BoxSize {
		if s <= 0 {
			errs = append(errs, fmt.Errorf("player.box_size[%d] must be positive", i))
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not text or json", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GeneratorSettings converts the generator section for world.NewGenerator.
func (c Config) GeneratorSettings() world.GeneratorSettings {
	layers := make([]world.NoiseLayer, len(c.Generator.Layers))
	for i, l := range c.Generator.Layers {
		layers[i] = world.NoiseLayer{Scale: l.Scale, Amplitude: l.Amplitude}
	}
	return world.GeneratorSettings{
		Seed:       c.Generator.Seed,
		WaterLevel: c.Generator.WaterLevel,
		StoneDepth: c.Generator.StoneDepth,
		Layers:     layers,
	}
}

func (c Config) StreamerSettings() world.StreamerSettings {
	return world.StreamerSettings{
		DrawDistance:   c.Streaming.DrawDistance,
		DrawDistanceY:  c.Streaming.DrawDistanceY,
		LoadsPerSecond: c.Streaming.LoadsPerSecond,
	}
}

func (c Config) PlayerSettings() player.Settings {
	p := c.Player
	return player.Settings{
		Gravity:          p.Gravity,
		JumpVelocity:     p.JumpVelocity,
		TerminalVelocity: p.TerminalVelocity,
		MoveSpeed:        p.MoveSpeed,
		EyeHeight:        p.EyeHeight,
		Reach:            p.Reach,
		LookSensitivity:  p.LookSensitivity,
		Flying:           p.Flying,
		Box:              physics.NewBox(mgl32.Vec3(p.BoxSize)),
	}
}

// SpawnPosition returns the configured spawn point.
func (c Config) SpawnPosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Player.Spawn)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
