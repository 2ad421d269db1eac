package meshing

import "mini-voxel/internal/world"

// Atlas describes the texture atlas layout: one column per voxel type and
// three rows (side, top, bottom) of square tiles.
type Atlas struct {
	TileSize int
	Width    int
	Height   int
	Columns  map[world.Voxel]int
}

// DefaultAtlas is a 256x48 atlas of 16px tiles.
func DefaultAtlas() Atlas {
	return Atlas{
		TileSize: 16,
		Width:    256,
		Height:   48,
		Columns: map[world.Voxel]int{
			world.Dirt:  6,
			world.Grass: 7,
			world.Stone: 3,
			world.Water: 12,
		},
	}
}

// Column returns the atlas column for v; unknown types use column 0.
func (a Atlas) Column(v world.Voxel) int {
	return a.Columns[v]
}

// UV maps a corner of a tile to normalised atlas coordinates. v grows
// upward, so rows are counted from the top edge.
func (a Atlas) UV(column, row int, c [2]float32) (float32, float32) {
	ts := float32(a.TileSize)
	u := (float32(column) + c[0]) * ts / float32(a.Width)
	v := 1 - (float32(row)+1-c[1])*ts/float32(a.Height)
	return u, v
}
