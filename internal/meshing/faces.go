package meshing

import "mini-voxel/internal/world"

// corner is one vertex of a unit face: position within the voxel cube and
// its texture coordinate within the atlas tile.
type corner struct {
	pos [3]float32
	uv  [2]float32
}

// faceDef describes one of the six cube faces. uvRow selects the atlas row:
// 0 for sides, 1 for tops, 2 for bottoms.
type faceDef struct {
	face    world.Face
	dir     [3]int
	uvRow   int
	corners [4]corner
}

var voxelFaces = [world.FaceCount]faceDef{
	{
		face:  world.FaceLeft,
		dir:   [3]int{-1, 0, 0},
		uvRow: 0,
		corners: [4]corner{
			{pos: [3]float32{0, 1, 0}, uv: [2]float32{0, 1}},
			{pos: [3]float32{0, 0, 0}, uv: [2]float32{0, 0}},
			{pos: [3]float32{0, 1, 1}, uv: [2]float32{1, 1}},
			{pos: [3]float32{0, 0, 1}, uv: [2]float32{1, 0}},
		},
	},
	{
		face:  world.FaceRight,
		dir:   [3]int{1, 0, 0},
		uvRow: 0,
		corners: [4]corner{
			{pos: [3]float32{1, 1, 1}, uv: [2]float32{0, 1}},
			{pos: [3]float32{1, 0, 1}, uv: [2]float32{0, 0}},
			{pos: [3]float32{1, 1, 0}, uv: [2]float32{1, 1}},
			{pos: [3]float32{1, 0, 0}, uv: [2]float32{1, 0}},
		},
	},
	{
		face:  world.FaceBottom,
		dir:   [3]int{0, -1, 0},
		uvRow: 2,
		corners: [4]corner{
			{pos: [3]float32{1, 0, 1}, uv: [2]float32{1, 0}},
			{pos: [3]float32{0, 0, 1}, uv: [2]float32{0, 0}},
			{pos: [3]float32{1, 0, 0}, uv: [2]float32{1, 1}},
			{pos: [3]float32{0, 0, 0}, uv: [2]float32{0, 1}},
		},
	},
	{
		face:  world.FaceTop,
		dir:   [3]int{0, 1, 0},
		uvRow: 1,
		corners: [4]corner{
			{pos: [3]float32{0, 1, 1}, uv: [2]float32{1, 1}},
			{pos: [3]float32{1, 1, 1}, uv: [2]float32{0, 1}},
			{pos: [3]float32{0, 1, 0}, uv: [2]float32{1, 0}},
			{pos: [3]float32{1, 1, 0}, uv: [2]float32{0, 0}},
		},
	},
	{
		face:  world.FaceBack,
		dir:   [3]int{0, 0, -1},
		uvRow: 0,
		corners: [4]corner{
			{pos: [3]float32{1, 0, 0}, uv: [2]float32{0, 0}},
			{pos: [3]float32{0, 0, 0}, uv: [2]float32{1, 0}},
			{pos: [3]float32{1, 1, 0}, uv: [2]float32{0, 1}},
			{pos: [3]float32{0, 1, 0}, uv: [2]float32{1, 1}},
		},
	},
	{
		face:  world.FaceFront,
		dir:   [3]int{0, 0, 1},
		uvRow: 0,
		corners: [4]corner{
			{pos: [3]float32{0, 0, 1}, uv: [2]float32{0, 0}},
			{pos: [3]float32{1, 0, 1}, uv: [2]float32{1, 0}},
			{pos: [3]float32{0, 1, 1}, uv: [2]float32{0, 1}},
			{pos: [3]float32{1, 1, 1}, uv: [2]float32{1, 1}},
		},
	},
}

// quadIndices is the two-triangle winding shared by every face.
var quadIndices = [6]uint32{0, 1, 2, 2, 1, 3}
