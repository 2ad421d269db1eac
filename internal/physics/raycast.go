package physics

import (
	"math"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// RaycastResult describes the first solid voxel found along a segment.
type RaycastResult struct {
	Position mgl32.Vec3  // point where the segment enters the voxel
	Normal   mgl32.Vec3  // face crossed to enter it; zero when the ray starts inside
	Voxel    world.Voxel // voxel type hit
	Coord    world.Coord // voxel hit
	Adjacent world.Coord // voxel in front of the entered face
	Distance float32     // distance from start to Position
}

// Raycast walks the voxels crossed by the segment start→end in order
// (Amanatides & Woo) and returns the first solid one. Unloaded voxels are
// not targetable and are passed through.
func (e *Engine) Raycast(start, end mgl32.Vec3) (RaycastResult, bool) {
	defer profiling.Track("physics.Raycast")()

	sx, sy, sz := float64(start.X()), float64(start.Y()), float64(start.Z())
	dx := float64(end.X()) - sx
	dy := float64(end.Y()) - sy
	dz := float64(end.Z()) - sz
	length := math.Sqrt(dx*dx + dy*dy + dz*dz)

	ix, iy, iz := int(math.Floor(sx)), int(math.Floor(sy)), int(math.Floor(sz))
	if length == 0 {
		return e.hitAt(start, world.Coord{X: ix, Y: iy, Z: iz}, mgl32.Vec3{}, 0)
	}
	dx, dy, dz = dx/length, dy/length, dz/length

	stepX, stepY, stepZ := stepOf(dx), stepOf(dy), stepOf(dz)
	txDelta, tyDelta, tzDelta := math.Abs(1/dx), math.Abs(1/dy), math.Abs(1/dz)
	txMax := boundary(txDelta, stepX, sx, ix)
	tyMax := boundary(tyDelta, stepY, sy, iy)
	tzMax := boundary(tzDelta, stepZ, sz, iz)

	t := 0.0
	stepped := -1
	for t <= length {
		c := world.Coord{X: ix, Y: iy, Z: iz}
		if v := e.voxels.GetVoxel(c); v != world.Unloaded && v.IsSolid() {
			var n mgl32.Vec3
			switch stepped {
			case 0:
				n[0] = float32(-stepX)
			case 1:
				n[1] = float32(-stepY)
			case 2:
				n[2] = float32(-stepZ)
			}
			pos := mgl32.Vec3{float32(sx + t*dx), float32(sy + t*dy), float32(sz + t*dz)}
			return e.hitAt(pos, c, n, float32(t))
		}

		switch {
		case txMax < tyMax && txMax < tzMax:
			ix += stepX
			t = txMax
			txMax += txDelta
			stepped = 0
		case txMax >= tyMax && tyMax < tzMax:
			iy += stepY
			t = tyMax
			tyMax += tyDelta
			stepped = 1
		default:
			iz += stepZ
			t = tzMax
			tzMax += tzDelta
			stepped = 2
		}
	}
	return RaycastResult{}, false
}

func (e *Engine) hitAt(pos mgl32.Vec3, c world.Coord, n mgl32.Vec3, dist float32) (RaycastResult, bool) {
	v := e.voxels.GetVoxel(c)
	if v == world.Unloaded || !v.IsSolid() {
		return RaycastResult{}, false
	}
	return RaycastResult{
		Position: pos,
		Normal:   n,
		Voxel:    v,
		Coord:    c,
		Adjacent: c.Add(world.Coord{X: int(n[0]), Y: int(n[1]), Z: int(n[2])}),
		Distance: dist,
	}, true
}

func stepOf(d float64) int {
	if d > 0 {
		return 1
	}
	return -1
}

// boundary returns the ray parameter of the first voxel boundary crossed
// on one axis. Axes the ray does not move along never cross.
func boundary(tDelta float64, step int, s float64, i int) float64 {
	if math.IsInf(tDelta, 0) {
		return math.Inf(1)
	}
	if step > 0 {
		return tDelta * (float64(i) + 1 - s)
	}
	return tDelta * (s - float64(i))
}
