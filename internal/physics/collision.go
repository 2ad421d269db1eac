package physics

import (
	"math"

	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// contactEpsilon lets a box resting exactly on a boundary count as touching
// the voxel on the other side instead of already overlapping it.
const contactEpsilon = 0.01

// VoxelSource is the read side of the voxel grid used by physics.
type VoxelSource interface {
	GetVoxel(c world.Coord) world.Voxel
}

// Engine answers collision and ray queries against a voxel grid. It holds
// no state of its own beyond the source.
type Engine struct {
	voxels VoxelSource
}

func New(voxels VoxelSource) *Engine {
	return &Engine{voxels: voxels}
}

func (e *Engine) solidAt(axis Axis, along, a1, a2 int, p1, p2 Axis) bool {
	var c [3]int
	c[axis], c[p1], c[p2] = along, a1, a2
	return e.voxels.GetVoxel(world.Coord{X: c[0], Y: c[1], Z: c[2]}).IsSolid()
}

// SweptDelta moves box at pos by delta along one axis and returns how far
// it can actually go before touching a solid voxel, and whether it was
// stopped. Unloaded voxels are solid. The result never exceeds delta in
// magnitude and never reverses its direction.
func (e *Engine) SweptDelta(pos mgl32.Vec3, box Box, axis Axis, delta float32) (float32, bool) {
	if delta == 0 {
		return 0, false
	}
	p1, p2 := axis.perpendicular()

	d := float64(delta)
	capped := d
	collided := false

	lo1, hi1 := float64(pos[p1]+box.Min[p1]), float64(pos[p1]+box.Max[p1])
	lo2, hi2 := float64(pos[p2]+box.Min[p2]), float64(pos[p2]+box.Max[p2])

	for a1 := int(math.Floor(lo1)); float64(a1) < hi1; a1++ {
		for a2 := int(math.Floor(lo2)); float64(a2) < hi2; a2++ {
			if d > 0 {
				top := float64(pos[axis] + box.Max[axis])
				for v := int(math.Ceil(top - contactEpsilon)); float64(v) < top+d; v++ {
					if e.solidAt(axis, v, a1, a2, p1, p2) && capped > float64(v)-top {
						capped = float64(v) - top
						collided = true
					}
				}
			} else {
				bottom := float64(pos[axis] + box.Min[axis])
				for v := int(math.Floor(bottom+contactEpsilon)) - 1; float64(v+1) > bottom+d; v-- {
					if e.solidAt(axis, v, a1, a2, p1, p2) && capped < float64(v+1)-bottom {
						capped = float64(v+1) - bottom
						collided = true
					}
				}
			}
		}
	}

	if d > 0 {
		capped = math.Max(capped, 0)
	} else {
		capped = math.Min(capped, 0)
	}
	return float32(capped), collided
}

// SweptDelta3 applies SweptDelta independently on each axis. Collision is
// reported if any axis was stopped.
func (e *Engine) SweptDelta3(pos mgl32.Vec3, box Box, delta mgl32.Vec3) (mgl32.Vec3, bool) {
	x, cx := e.SweptDelta(pos, box, AxisX, delta.X())
	y, cy := e.SweptDelta(pos, box, AxisY, delta.Y())
	z, cz := e.SweptDelta(pos, box, AxisZ, delta.Z())
	return mgl32.Vec3{x, y, z}, cx || cy || cz
}

// Overlaps reports whether the box at pos overlaps any solid voxel.
func (e *Engine) Overlaps(pos mgl32.Vec3, box Box) bool {
	lo := world.VoxelCoordOf(pos.Add(box.Min))
	hi := world.VoxelCoordOf(pos.Add(box.Max))
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				c := world.Coord{X: x, Y: y, Z: z}
				if box.IntersectsVoxel(pos, c) && e.voxels.GetVoxel(c).IsSolid() {
					return true
				}
			}
		}
	}
	return false
}
