package physics

import (
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis selects a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// perpendicular returns the two axes orthogonal to a.
func (a Axis) perpendicular() (Axis, Axis) {
	switch a {
	case AxisX:
		return AxisY, AxisZ
	case AxisZ:
		return AxisY, AxisX
	default:
		return AxisX, AxisZ
	}
}

// Box is an axis-aligned bounding box given as offsets from an agent's
// position.
type Box struct {
	Min, Max mgl32.Vec3
}

// NewBox returns a box from the origin to size.
func NewBox(size mgl32.Vec3) Box {
	return Box{Max: size}
}

// Size returns the box extent on each axis.
func (b Box) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box centre relative to the agent position.
func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// IntersectsVoxel reports whether the box placed at pos overlaps the unit
// cube of voxel c. Touching faces do not count as overlap.
func (b Box) IntersectsVoxel(pos mgl32.Vec3, c world.Coord) bool {
	return pos.X()+b.Max.X() > float32(c.X) &&
		pos.Y()+b.Max.Y() > float32(c.Y) &&
		pos.Z()+b.Max.Z() > float32(c.Z) &&
		pos.X()+b.Min.X() < float32(c.X+1) &&
		pos.Y()+b.Min.Y() < float32(c.Y+1) &&
		pos.Z()+b.Min.Z() < float32(c.Z+1)
}
