package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkSize is the edge length of a cubic chunk in voxels.
const (
	ChunkSize   = 32
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// Coord is an integer lattice position. It is used both for voxel
// coordinates and for chunk coordinates.
type Coord struct {
	X, Y, Z int
}

func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Vec3 returns the coordinate as a float vector (the voxel's min corner).
func (c Coord) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

// ChunkCoordOf returns the chunk containing voxel c.
func ChunkCoordOf(c Coord) Coord {
	return Coord{
		X: floorDiv(c.X, ChunkSize),
		Y: floorDiv(c.Y, ChunkSize),
		Z: floorDiv(c.Z, ChunkSize),
	}
}

// LocalCoordOf returns c relative to its chunk origin, each axis in [0, ChunkSize).
func LocalCoordOf(c Coord) Coord {
	return Coord{X: mod(c.X, ChunkSize), Y: mod(c.Y, ChunkSize), Z: mod(c.Z, ChunkSize)}
}

// ChunkOrigin returns the voxel coordinate of the chunk's min corner.
func ChunkOrigin(cc Coord) Coord {
	return Coord{X: cc.X * ChunkSize, Y: cc.Y * ChunkSize, Z: cc.Z * ChunkSize}
}

// LocalIndex maps a voxel coordinate to its offset inside the owning
// chunk buffer. Layout is x-major: lx*N*N + ly*N + lz.
func LocalIndex(c Coord) int {
	return localIndex(mod(c.X, ChunkSize), mod(c.Y, ChunkSize), mod(c.Z, ChunkSize))
}

func localIndex(lx, ly, lz int) int {
	return lx*ChunkSize*ChunkSize + ly*ChunkSize + lz
}

// VoxelCoordOf returns the voxel containing world position p.
func VoxelCoordOf(p mgl32.Vec3) Coord {
	return Coord{X: floorF(p.X()), Y: floorF(p.Y()), Z: floorF(p.Z())}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorF(f float32) int {
	i := int(f)
	if float32(i) > f {
		i--
	}
	return i
}
