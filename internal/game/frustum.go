package game

import (
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	fovY     = 70.0
	nearClip = 0.1
	farClip  = 1000.0

	// frustumMargin inflates boxes so chunks at the screen edge are not
	// dropped by float error.
	frustumMargin = 1.0
)

type plane struct {
	n mgl32.Vec3
	d float32
}

func (p plane) distance(v mgl32.Vec3) float32 {
	return p.n.Dot(v) + p.d
}

// Frustum is the view volume as six inward-facing planes: left, right,
// bottom, top, near, far.
type Frustum [6]plane

// NewFrustum extracts the planes of a projection*view matrix.
func NewFrustum(clip mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := clip.Row(0), clip.Row(1), clip.Row(2), clip.Row(3)
	rows := [6]mgl32.Vec4{
		r3.Add(r0), r3.Sub(r0),
		r3.Add(r1), r3.Sub(r1),
		r3.Add(r2), r3.Sub(r2),
	}
	var f Frustum
	for i, r := range rows {
		n := r.Vec3()
		l := n.Len()
		if l == 0 {
			f[i] = plane{n: n, d: r.W()}
			continue
		}
		f[i] = plane{n: n.Mul(1 / l), d: r.W() / l}
	}
	return f
}

// IntersectsAABB reports whether the box overlaps the frustum. It may
// report false positives near corners, never false negatives.
func (f Frustum) IntersectsAABB(lo, hi mgl32.Vec3) bool {
	for _, p := range f {
		var pos mgl32.Vec3
		for i := range 3 {
			if p.n[i] < 0 {
				pos[i] = lo[i]
			} else {
				pos[i] = hi[i]
			}
		}
		if p.distance(pos) < 0 {
			return false
		}
	}
	return true
}

// ViewFrustum returns the player's view volume for a viewport aspect ratio.
func (s *Session) ViewFrustum(aspect float32) Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(fovY), aspect, nearClip, farClip)
	return NewFrustum(proj.Mul4(s.Player.ViewMatrix()))
}

// VisibleChunks returns the meshed chunks inside the player's view, the
// set a renderer draws this frame.
func (s *Session) VisibleChunks(aspect float32) []world.Coord {
	f := s.ViewFrustum(aspect)
	margin := mgl32.Vec3{frustumMargin, frustumMargin, frustumMargin}
	var out []world.Coord
	s.meshes.ForEach(func(cc world.Coord, _ meshing.Geometry) {
		lo := world.ChunkOrigin(cc).Vec3()
		hi := lo.Add(mgl32.Vec3{world.ChunkSize, world.ChunkSize, world.ChunkSize})
		if f.IntersectsAABB(lo.Sub(margin), hi.Add(margin)) {
			out = append(out, cc)
		}
	})
	return out
}
