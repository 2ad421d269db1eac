package world

// ChunkData is the dense voxel buffer of one chunk: ChunkVolume bytes laid
// out by LocalIndex. A nil ChunkData means "not available".
type ChunkData []byte

// NewChunkData returns an all-Air chunk buffer.
func NewChunkData() ChunkData {
	return make(ChunkData, ChunkVolume)
}

// FilledChunk returns a chunk buffer where every voxel is v.
func FilledChunk(v Voxel) ChunkData {
	d := NewChunkData()
	if v != Air {
		for i := range d {
			d[i] = byte(v)
		}
	}
	return d
}

// Valid reports whether the buffer has the size of a chunk.
func (d ChunkData) Valid() bool {
	return len(d) == ChunkVolume
}

// At returns the voxel at local coordinates. Out of range coordinates read as Air.
func (d ChunkData) At(lx, ly, lz int) Voxel {
	if lx < 0 || lx >= ChunkSize || ly < 0 || ly >= ChunkSize || lz < 0 || lz >= ChunkSize {
		return Air
	}
	return Voxel(d[localIndex(lx, ly, lz)])
}

// Set writes v at local coordinates and reports whether the stored value changed.
func (d ChunkData) Set(lx, ly, lz int, v Voxel) bool {
	if lx < 0 || lx >= ChunkSize || ly < 0 || ly >= ChunkSize || lz < 0 || lz >= ChunkSize {
		return false
	}
	i := localIndex(lx, ly, lz)
	if d[i] == byte(v) {
		return false
	}
	d[i] = byte(v)
	return true
}

// Clone returns an independent copy of the buffer.
func (d ChunkData) Clone() ChunkData {
	if d == nil {
		return nil
	}
	out := make(ChunkData, len(d))
	copy(out, d)
	return out
}

// IsEmpty reports whether every voxel is Air.
func (d ChunkData) IsEmpty() bool {
	for _, b := range d {
		if b != byte(Air) {
			return false
		}
	}
	return true
}

// Count returns the number of voxels equal to v.
func (d ChunkData) Count(v Voxel) int {
	n := 0
	for _, b := range d {
		if b == byte(v) {
			n++
		}
	}
	return n
}
