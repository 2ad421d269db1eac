package physics

import "mini-voxel/internal/world"

// gridSource is a sparse voxel grid; unset voxels read as fill.
type gridSource struct {
	voxels map[world.Coord]world.Voxel
	fill   world.Voxel
}

func newGrid(fill world.Voxel) *gridSource {
	return &gridSource{voxels: make(map[world.Coord]world.Voxel), fill: fill}
}

func (g *gridSource) set(x, y, z int, v world.Voxel) *gridSource {
	g.voxels[world.Coord{X: x, Y: y, Z: z}] = v
	return g
}

func (g *gridSource) GetVoxel(c world.Coord) world.Voxel {
	if v, ok := g.voxels[c]; ok {
		return v
	}
	return g.fill
}
