package physics

import (
	"testing"

	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

var agentBox = NewBox(mgl32.Vec3{1, 2, 1})

func TestSweptDeltaStopsOnFloor(t *testing.T) {
	e := New(newGrid(world.Air).set(0, 0, 0, world.Stone))

	d, collided := e.SweptDelta(mgl32.Vec3{0, 5, 0}, agentBox, AxisY, -10)
	assert.True(t, collided)
	assert.InDelta(t, -4, d, 1e-5)
}

func TestSweptDeltaFreeFall(t *testing.T) {
	e := New(newGrid(world.Air))

	d, collided := e.SweptDelta(mgl32.Vec3{0.5, 5, 0.5}, agentBox, AxisY, -3)
	assert.False(t, collided)
	assert.Equal(t, float32(-3), d)

	d, collided = e.SweptDelta(mgl32.Vec3{0.5, 5, 0.5}, agentBox, AxisY, 0)
	assert.False(t, collided)
	assert.Zero(t, d)
}

func TestSweptDeltaRestingContact(t *testing.T) {
	e := New(newGrid(world.Air).set(0, 0, 0, world.Dirt))

	d, collided := e.SweptDelta(mgl32.Vec3{0, 1, 0}, agentBox, AxisY, -0.1)
	assert.True(t, collided)
	assert.Zero(t, d)
}

func TestSweptDeltaWallAndCeiling(t *testing.T) {
	g := newGrid(world.Air).
		set(3, 0, 0, world.Stone).
		set(0, 4, 0, world.Stone)
	e := New(g)

	d, collided := e.SweptDelta(mgl32.Vec3{0.5, 0, 0}, agentBox, AxisX, 5)
	assert.True(t, collided)
	assert.InDelta(t, 1.5, d, 1e-5)

	d, collided = e.SweptDelta(mgl32.Vec3{4, 0, 0}, agentBox, AxisX, -2)
	assert.True(t, collided)
	assert.Zero(t, d)

	d, collided = e.SweptDelta(mgl32.Vec3{0, 0.5, 0}, agentBox, AxisY, 3)
	assert.True(t, collided)
	assert.InDelta(t, 1.5, d, 1e-5)
}

func TestSweptDeltaFootprintSpansVoxels(t *testing.T) {
	// the box straddles x=0..1.5, so a pillar under x=1 also supports it
	e := New(newGrid(world.Air).set(1, 0, 0, world.Stone))

	d, collided := e.SweptDelta(mgl32.Vec3{0.5, 3, 0}, agentBox, AxisY, -5)
	assert.True(t, collided)
	assert.InDelta(t, -2, d, 1e-5)
}

func TestUnloadedIsSolid(t *testing.T) {
	e := New(newGrid(world.Unloaded).set(0, 4, 0, world.Air).set(0, 5, 0, world.Air).set(0, 6, 0, world.Air))

	d, collided := e.SweptDelta(mgl32.Vec3{0, 5, 0}, agentBox, AxisY, -2)
	assert.True(t, collided)
	assert.InDelta(t, -1, d, 1e-5)
}

func TestWaterIsNotSolid(t *testing.T) {
	e := New(newGrid(world.Air).set(0, 0, 0, world.Water).set(0, -1, 0, world.Stone))

	d, collided := e.SweptDelta(mgl32.Vec3{0, 2, 0}, agentBox, AxisY, -5)
	assert.True(t, collided)
	assert.InDelta(t, -2, d, 1e-5)
}

func TestSweptDeltaNeverOvershoots(t *testing.T) {
	g := newGrid(world.Air)
	for x := -3; x <= 3; x++ {
		for z := -3; z <= 3; z++ {
			g.set(x, 0, z, world.Stone)
			if (x+z)%3 == 0 {
				g.set(x, 3, z, world.Stone)
			}
		}
	}
	e := New(g)

	for _, pos := range []mgl32.Vec3{{0, 1, 0}, {-1.5, 1.2, 0.3}, {0.25, 1.001, -2}, {2, 1.5, 2}} {
		for _, delta := range []float32{-3, -0.5, -0.01, 0.01, 0.7, 4} {
			for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
				d, collided := e.SweptDelta(pos, agentBox, axis, delta)
				if delta > 0 {
					assert.True(t, d >= 0 && d <= delta, "pos %v axis %d delta %v got %v", pos, axis, delta, d)
				} else {
					assert.True(t, d <= 0 && d >= delta, "pos %v axis %d delta %v got %v", pos, axis, delta, d)
				}
				assert.Equal(t, collided, d != delta, "pos %v axis %d delta %v got %v", pos, axis, delta, d)
			}
		}
	}
}

func TestSweptDelta3(t *testing.T) {
	e := New(newGrid(world.Air).set(0, 0, 0, world.Stone))

	d, collided := e.SweptDelta3(mgl32.Vec3{0, 1, 0}, agentBox, mgl32.Vec3{0.5, -1, 0.25})
	assert.True(t, collided)
	assert.Equal(t, mgl32.Vec3{0.5, 0, 0.25}, d)

	d, collided = e.SweptDelta3(mgl32.Vec3{0, 1, 0}, agentBox, mgl32.Vec3{0.5, 1, 0.25})
	assert.False(t, collided)
	assert.Equal(t, mgl32.Vec3{0.5, 1, 0.25}, d)
}

func TestBoxIntersectsVoxel(t *testing.T) {
	pos := mgl32.Vec3{0.5, 0, 0.5}
	assert.True(t, agentBox.IntersectsVoxel(pos, world.Coord{X: 0, Y: 1, Z: 0}))
	assert.True(t, agentBox.IntersectsVoxel(pos, world.Coord{X: 1, Y: 0, Z: 1}))
	assert.False(t, agentBox.IntersectsVoxel(pos, world.Coord{X: 0, Y: 2, Z: 0}), "touching the top is not overlap")
	assert.False(t, agentBox.IntersectsVoxel(pos, world.Coord{X: 0, Y: -1, Z: 0}))
	assert.Equal(t, mgl32.Vec3{0.5, 1, 0.5}, agentBox.Center())
}

func TestOverlaps(t *testing.T) {
	e := New(newGrid(world.Air).set(1, 1, 1, world.Stone))
	assert.True(t, e.Overlaps(mgl32.Vec3{0.5, 0.5, 0.5}, agentBox))
	assert.False(t, e.Overlaps(mgl32.Vec3{0, 0, 0}, agentBox))
}

func BenchmarkSweptDelta3(b *testing.B) {
	e := New(newGrid(world.Air).set(0, 0, 0, world.Stone))
	pos := mgl32.Vec3{0.3, 4, 0.7}
	delta := mgl32.Vec3{0.2, -3, 0.1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.SweptDelta3(pos, agentBox, delta)
	}
}
