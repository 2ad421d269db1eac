package world

// Face names one of the six axis-aligned neighbours of a voxel or chunk.
type Face int

const (
	FaceLeft   Face = iota // -X
	FaceRight              // +X
	FaceBottom             // -Y
	FaceTop                // +Y
	FaceBack               // -Z
	FaceFront              // +Z
	FaceCount
)

var faceOffsets = [FaceCount]Coord{
	FaceLeft:   {X: -1},
	FaceRight:  {X: 1},
	FaceBottom: {Y: -1},
	FaceTop:    {Y: 1},
	FaceBack:   {Z: -1},
	FaceFront:  {Z: 1},
}

var faceNames = [FaceCount]string{"left", "right", "bottom", "top", "back", "front"}

// Offset returns the unit step toward the neighbour across this face.
func (f Face) Offset() Coord {
	return faceOffsets[f]
}

func (f Face) String() string {
	if f < 0 || f >= FaceCount {
		return "invalid"
	}
	return faceNames[f]
}

// Neighbors holds the six face-adjacent chunk buffers of a chunk, indexed by Face.
type Neighbors [FaceCount]ChunkData

func (n Neighbors) Left() ChunkData   { return n[FaceLeft] }
func (n Neighbors) Right() ChunkData  { return n[FaceRight] }
func (n Neighbors) Bottom() ChunkData { return n[FaceBottom] }
func (n Neighbors) Top() ChunkData    { return n[FaceTop] }
func (n Neighbors) Back() ChunkData   { return n[FaceBack] }
func (n Neighbors) Front() ChunkData  { return n[FaceFront] }

// Clone deep-copies every present neighbour buffer.
func (n Neighbors) Clone() Neighbors {
	var out Neighbors
	for i, d := range n {
		if d != nil {
			out[i] = d.Clone()
		}
	}
	return out
}
