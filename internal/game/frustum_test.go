package game

import (
	"testing"

	"mini-voxel/internal/meshing"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func lookingDownZ() Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(fovY), 1, nearClip, farClip)
	view := mgl32.LookAtV(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	return NewFrustum(proj.Mul4(view))
}

func TestFrustumIntersectsAABB(t *testing.T) {
	f := lookingDownZ()
	one := mgl32.Vec3{1, 1, 1}

	ahead := mgl32.Vec3{0, 0, -10}
	assert.True(t, f.IntersectsAABB(ahead.Sub(one), ahead.Add(one)))

	behind := mgl32.Vec3{0, 0, 10}
	assert.False(t, f.IntersectsAABB(behind.Sub(one), behind.Add(one)))

	beyond := mgl32.Vec3{0, 0, -2000}
	assert.False(t, f.IntersectsAABB(beyond.Sub(one), beyond.Add(one)))

	aside := mgl32.Vec3{100, 0, -10}
	assert.False(t, f.IntersectsAABB(aside.Sub(one), aside.Add(one)))

	around := mgl32.Vec3{50, 50, 50}
	assert.True(t, f.IntersectsAABB(around.Mul(-1), around), "box containing the eye")
}

func TestVisibleChunks(t *testing.T) {
	s := newTestSession(t, nil)
	s.Player.Position = mgl32.Vec3{0, 0, 0}

	g := meshing.Geometry{Opaque: meshing.MeshBuffers{Positions: []float32{0, 0, 0}}}
	ahead := world.Coord{Z: -2}
	behind := world.Coord{Z: 3}
	s.setMesh(ahead, g)
	s.setMesh(behind, g)
	s.setMesh(world.Coord{}, g)

	visible := s.VisibleChunks(16.0 / 9)
	assert.Contains(t, visible, ahead)
	assert.Contains(t, visible, world.Coord{})
	assert.NotContains(t, visible, behind)

	s.Player.Yaw = mgl32.DegToRad(180)
	visible = s.VisibleChunks(16.0 / 9)
	assert.Contains(t, visible, behind)
	assert.NotContains(t, visible, ahead)
}
