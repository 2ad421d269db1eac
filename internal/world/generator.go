package world

import (
	"math"

	"mini-voxel/internal/profiling"

	"github.com/aquilax/go-perlin"
)

// NoiseLayer is one height contribution: noise sampled at (x/Scale, z/Scale)
// and multiplied by Amplitude.
type NoiseLayer struct {
	Scale     float64
	Amplitude float64
}

// GeneratorSettings parameterises terrain generation.
type GeneratorSettings struct {
	Seed       int64
	WaterLevel int // voxels at or below this height fill with water
	StoneDepth int // average soil thickness above stone
	Layers     []NoiseLayer
}

// DefaultGeneratorSettings returns gentle rolling hills around y=0 with a
// shallow sea at y=-2.
func DefaultGeneratorSettings() GeneratorSettings {
	return GeneratorSettings{
		Seed:       1,
		WaterLevel: -2,
		StoneDepth: 4,
		Layers: []NoiseLayer{
			{Scale: 94, Amplitude: 5},
			{Scale: 100, Amplitude: 4},
		},
	}
}

const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 1

	soilNoiseScale = 1.0 / 24.0
	soilVariation  = 3.0
	soilOctaves    = 2
	soilSeedMask   = 0x5eed

	minSoilDepth = 1
)

// Generator computes voxels as a pure function of world position and seed.
// It is read-only after construction and safe for concurrent use.
type Generator struct {
	settings GeneratorSettings
	layers   []*perlin.Perlin
	soil     *perlin.Perlin
}

func NewGenerator(s GeneratorSettings) *Generator {
	g := &Generator{
		settings: s,
		layers:   make([]*perlin.Perlin, len(s.Layers)),
		soil:     perlin.NewPerlin(perlinAlpha, perlinBeta, soilOctaves, s.Seed^soilSeedMask),
	}
	for i := range s.Layers {
		g.layers[i] = perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, s.Seed+int64(i)*7919)
	}
	return g
}

func (g *Generator) Settings() GeneratorSettings {
	return g.settings
}

// HeightAt returns the continuous surface height of column (x, z).
func (g *Generator) HeightAt(x, z int) float64 {
	h := 0.0
	for i, l := range g.settings.Layers {
		h += g.layers[i].Noise2D(float64(x)/l.Scale, float64(z)/l.Scale) * l.Amplitude
	}
	return h
}

// SurfaceAt returns the y of the highest terrain voxel in column (x, z).
func (g *Generator) SurfaceAt(x, z int) int {
	return int(math.Floor(g.HeightAt(x, z)))
}

// soilDepth is the dirt thickness above stone in column (x, z). It never
// drops below one voxel, so the surface always keeps its grass or dirt.
func (g *Generator) soilDepth(x, z int) int {
	n := g.soil.Noise2D(float64(x)*soilNoiseScale, float64(z)*soilNoiseScale)
	n = math.Max(-1, math.Min(1, n))
	return max(minSoilDepth, g.settings.StoneDepth+int(math.Round(n*soilVariation)))
}

// ComputeVoxel returns the generated voxel at c.
func (g *Generator) ComputeVoxel(c Coord) Voxel {
	surface := g.SurfaceAt(c.X, c.Z)
	return g.columnVoxel(c.Y, surface, g.soilDepth(c.X, c.Z))
}

func (g *Generator) columnVoxel(y, surface, soil int) Voxel {
	switch {
	case y <= surface-soil:
		return Stone
	case y == surface && surface > g.settings.WaterLevel:
		return Grass
	case y <= surface:
		return Dirt
	case y <= g.settings.WaterLevel:
		return Water
	default:
		return Air
	}
}

// FillChunk generates the full buffer for chunk cc. The column terms are
// computed once per (x, z) and reused down the column.
func (g *Generator) FillChunk(cc Coord) ChunkData {
	defer profiling.Track("world.FillChunk")()
	data := NewChunkData()
	origin := ChunkOrigin(cc)
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			x, z := origin.X+lx, origin.Z+lz
			surface := g.SurfaceAt(x, z)
			soil := g.soilDepth(x, z)
			for ly := range ChunkSize {
				if v := g.columnVoxel(origin.Y+ly, surface, soil); v != Air {
					data[localIndex(lx, ly, lz)] = byte(v)
				}
			}
		}
	}
	return data
}
