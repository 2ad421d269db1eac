package meshing

import (
	"mini-voxel/internal/world"

	"github.com/google/uuid"
)

// GeometryRequest asks a worker to extract the mesh of one chunk. The
// buffers belong to the worker once sent; callers pass copies of cached
// chunks, never the cached buffers themselves.
type GeometryRequest struct {
	ID        uuid.UUID
	Coord     world.Coord
	Chunk     world.ChunkData
	Neighbors world.Neighbors
}

// GeometryResponse carries the extracted surfaces back to the requester.
type GeometryResponse struct {
	ID       uuid.UUID
	Coord    world.Coord
	Geometry Geometry
	Err      error
}

// NewGeometryRequest snapshots chunk cc and its neighbours from w.
func NewGeometryRequest(w *world.World, cc world.Coord) (GeometryRequest, error) {
	chunk, ok := w.Chunk(cc)
	if !ok {
		return GeometryRequest{}, world.ErrChunkNotLoaded
	}
	nb, err := w.Neighbors(cc)
	if err != nil {
		return GeometryRequest{}, err
	}
	return GeometryRequest{
		ID:        uuid.New(),
		Coord:     cc,
		Chunk:     chunk.Clone(),
		Neighbors: nb.Clone(),
	}, nil
}
