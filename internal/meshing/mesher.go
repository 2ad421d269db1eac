package meshing

import (
	"errors"
	"fmt"
	"math"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"
)

var (
	ErrMissingNeighbor = errors.New("meshing: neighbour chunk missing")
	ErrBadChunkSize    = errors.New("meshing: chunk buffer has wrong size")
)

// MeshBuffers is one renderable surface. Positions are chunk-local; every
// face contributes four vertices and six indices. Exactly one of Indices16
// and Indices32 is used, the narrowest that can address every vertex.
type MeshBuffers struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices16 []uint16
	Indices32 []uint32
}

func (m MeshBuffers) VertexCount() int { return len(m.Positions) / 3 }
func (m MeshBuffers) FaceCount() int   { return m.VertexCount() / 4 }
func (m MeshBuffers) Empty() bool      { return len(m.Positions) == 0 }

func (m MeshBuffers) IndexCount() int {
	return len(m.Indices16) + len(m.Indices32)
}

// IndexWidth returns the index size in bytes, or 0 for an empty mesh.
func (m MeshBuffers) IndexWidth() int {
	switch {
	case len(m.Indices32) > 0:
		return 4
	case len(m.Indices16) > 0:
		return 2
	default:
		return 0
	}
}

// Index returns the i-th index regardless of width.
func (m MeshBuffers) Index(i int) uint32 {
	if m.Indices32 != nil {
		return m.Indices32[i]
	}
	return uint32(m.Indices16[i])
}

// Geometry is the extractor output for one chunk. Opaque and transparent
// voxels go to separate surfaces so they can be drawn in separate passes.
type Geometry struct {
	Opaque      MeshBuffers
	Transparent MeshBuffers
}

func (g Geometry) Empty() bool {
	return g.Opaque.Empty() && g.Transparent.Empty()
}

func (g Geometry) FaceCount() int {
	return g.Opaque.FaceCount() + g.Transparent.FaceCount()
}

// sampler reads voxels of a chunk, stepping one voxel into the face
// neighbours at the borders.
type sampler struct {
	chunk     world.ChunkData
	neighbors world.Neighbors
}

func (s sampler) at(x, y, z int) world.Voxel {
	data := s.chunk
	switch {
	case x < 0:
		x, data = world.ChunkSize-1, s.neighbors[world.FaceLeft]
	case x >= world.ChunkSize:
		x, data = 0, s.neighbors[world.FaceRight]
	case y < 0:
		y, data = world.ChunkSize-1, s.neighbors[world.FaceBottom]
	case y >= world.ChunkSize:
		y, data = 0, s.neighbors[world.FaceTop]
	case z < 0:
		z, data = world.ChunkSize-1, s.neighbors[world.FaceBack]
	case z >= world.ChunkSize:
		z, data = 0, s.neighbors[world.FaceFront]
	}
	return data.At(x, y, z)
}

// faceVisible decides whether a voxel of type v shows its face toward nb.
func faceVisible(v, nb world.Voxel) bool {
	return nb == world.Air || (!v.IsTransparent() && nb.IsTransparent())
}

// Extract builds the face-culled surfaces of chunk. Faces are emitted only
// where a voxel borders Air, or where an opaque voxel borders a transparent
// one. All six neighbours must be supplied.
func Extract(chunk world.ChunkData, neighbors world.Neighbors, atlas Atlas) (Geometry, error) {
	defer profiling.Track("meshing.Extract")()

	if !chunk.Valid() {
		return Geometry{}, ErrBadChunkSize
	}
	for f := range world.FaceCount {
		if neighbors[f] == nil {
			return Geometry{}, fmt.Errorf("%s: %w", f, ErrMissingNeighbor)
		}
		if !neighbors[f].Valid() {
			return Geometry{}, fmt.Errorf("%s neighbour: %w", f, ErrBadChunkSize)
		}
	}

	s := sampler{chunk: chunk, neighbors: neighbors}
	return Geometry{
		Opaque:      buildSurface(s, atlas, false),
		Transparent: buildSurface(s, atlas, true),
	}, nil
}

func buildSurface(s sampler, atlas Atlas, transparent bool) MeshBuffers {
	var (
		positions, normals, uvs []float32
		indices                 []uint32
	)

	for x := range world.ChunkSize {
		for y := range world.ChunkSize {
			for z := range world.ChunkSize {
				v := s.chunk.At(x, y, z)
				if v == world.Air || v.IsTransparent() != transparent {
					continue
				}
				column := atlas.Column(v)
				for _, fd := range voxelFaces {
					nb := s.at(x+fd.dir[0], y+fd.dir[1], z+fd.dir[2])
					if !faceVisible(v, nb) {
						continue
					}
					base := uint32(len(positions) / 3)
					for _, c := range fd.corners {
						positions = append(positions,
							float32(x)+c.pos[0], float32(y)+c.pos[1], float32(z)+c.pos[2])
						normals = append(normals,
							float32(fd.dir[0]), float32(fd.dir[1]), float32(fd.dir[2]))
						u, tv := atlas.UV(column, fd.uvRow, c.uv)
						uvs = append(uvs, u, tv)
					}
					for _, qi := range quadIndices {
						indices = append(indices, base+qi)
					}
				}
			}
		}
	}

	if len(positions) == 0 {
		return MeshBuffers{}
	}

	m := MeshBuffers{Positions: positions, Normals: normals, UVs: uvs}
	if len(positions)/3 <= math.MaxUint16+1 {
		m.Indices16 = make([]uint16, len(indices))
		for i, idx := range indices {
			m.Indices16[i] = uint16(idx)
		}
	} else {
		m.Indices32 = indices
	}
	return m
}
