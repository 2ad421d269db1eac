package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCoordOfNegative(t *testing.T) {
	assert.Equal(t, Coord{X: -1, Y: 0, Z: 0}, ChunkCoordOf(Coord{X: -1, Y: 0, Z: 0}))
	assert.Equal(t, Coord{X: -1, Y: -1, Z: 1}, ChunkCoordOf(Coord{X: -32, Y: -33, Z: 32}))
	assert.Equal(t, Coord{X: -2, Y: 0, Z: 0}, ChunkCoordOf(Coord{X: -33, Y: 31, Z: 0}))
	assert.Equal(t, Coord{X: 31, Y: 0, Z: 0}, LocalCoordOf(Coord{X: -1}))
}

func TestLocalIndexRoundTrip(t *testing.T) {
	coords := []Coord{
		{0, 0, 0}, {31, 31, 31}, {-1, -1, -1}, {-32, 5, 64}, {-33, -64, 100}, {1000, -1000, 7},
	}
	for _, c := range coords {
		cc := ChunkCoordOf(c)
		idx := LocalIndex(c)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, ChunkVolume)

		lx := idx / (ChunkSize * ChunkSize)
		ly := (idx / ChunkSize) % ChunkSize
		lz := idx % ChunkSize
		back := ChunkOrigin(cc).Add(Coord{X: lx, Y: ly, Z: lz})
		assert.Equal(t, c, back, "round trip of %v", c)
	}
}

func TestLocalIndexLayout(t *testing.T) {
	assert.Equal(t, 0, LocalIndex(Coord{}))
	assert.Equal(t, 1, LocalIndex(Coord{Z: 1}))
	assert.Equal(t, ChunkSize, LocalIndex(Coord{Y: 1}))
	assert.Equal(t, ChunkSize*ChunkSize, LocalIndex(Coord{X: 1}))
	assert.Equal(t, ChunkVolume-1, LocalIndex(Coord{X: -1, Y: -1, Z: -1}))
}

func TestVoxelCoordOf(t *testing.T) {
	assert.Equal(t, Coord{X: 0, Y: -1, Z: -3}, VoxelCoordOf(mgl32.Vec3{0.5, -0.25, -2.5}))
	assert.Equal(t, Coord{X: -1, Y: 2, Z: 0}, VoxelCoordOf(mgl32.Vec3{-1, 2, 0}))
}

func TestCoordMapPrunesEmptyLevels(t *testing.T) {
	var m CoordMap[int]
	a := Coord{1, 2, 3}
	b := Coord{1, 2, 4}
	c := Coord{-5, 0, 0}

	m.Set(a, 10)
	m.Set(b, 20)
	m.Set(c, 30)
	m.Set(a, 11)
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get(a)
	assert.True(t, ok)
	assert.Equal(t, 11, v)

	_, ok = m.Get(Coord{1, 2, 5})
	assert.False(t, ok)

	assert.True(t, m.Delete(a))
	assert.False(t, m.Delete(a))
	assert.True(t, m.Delete(b))
	_, hasX := m.data[1]
	assert.False(t, hasX, "x level should be pruned once empty")

	assert.True(t, m.Delete(c))
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.data)
}

func TestCoordMapForEach(t *testing.T) {
	var m CoordMap[string]
	m.Set(Coord{0, 0, 0}, "a")
	m.Set(Coord{-1, 4, 2}, "b")

	seen := map[Coord]string{}
	m.ForEach(func(c Coord, v string) { seen[c] = v })
	assert.Equal(t, map[Coord]string{{0, 0, 0}: "a", {-1, 4, 2}: "b"}, seen)
	assert.ElementsMatch(t, []Coord{{0, 0, 0}, {-1, 4, 2}}, m.Keys())
}

func TestVoxelPredicates(t *testing.T) {
	assert.False(t, Air.IsSolid())
	assert.False(t, Water.IsSolid())
	assert.True(t, Water.IsTransparent())
	assert.True(t, Dirt.IsSolid())
	assert.True(t, Stone.IsOpaque())
	assert.True(t, Unloaded.IsSolid())
	assert.False(t, Air.IsTransparent())
	assert.False(t, Air.IsOpaque())

	v, ok := ParseVoxel("stone")
	assert.True(t, ok)
	assert.Equal(t, Stone, v)
	_, ok = ParseVoxel("unloaded")
	assert.False(t, ok)
}
