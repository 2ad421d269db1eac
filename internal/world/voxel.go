package world

// Voxel is the material stored in one lattice cell. Chunk buffers hold one
// byte per voxel.
type Voxel uint8

const (
	Air Voxel = iota
	Dirt
	Stone
	Water
	Grass

	// Unloaded is returned for voxels whose chunk is not resident. It is
	// never stored in a chunk buffer.
	Unloaded Voxel = 0xFF
)

var voxelNames = map[Voxel]string{
	Air:      "air",
	Dirt:     "dirt",
	Stone:    "stone",
	Water:    "water",
	Grass:    "grass",
	Unloaded: "unloaded",
}

func (v Voxel) String() string {
	if name, ok := voxelNames[v]; ok {
		return name
	}
	return "unknown"
}

// IsTransparent reports whether light and sight pass through the voxel
// while it still gets rendered. Air is not transparent, it is empty.
func (v Voxel) IsTransparent() bool {
	return v == Water
}

// IsSolid reports whether the voxel blocks movement. Unloaded voxels are
// solid so agents cannot fall into chunks that have not arrived yet.
func (v Voxel) IsSolid() bool {
	return v != Air && v != Water
}

// IsOpaque reports whether the voxel hides faces behind it.
func (v Voxel) IsOpaque() bool {
	return v != Air && !v.IsTransparent()
}

// ParseVoxel maps a name produced by String back to its voxel.
func ParseVoxel(name string) (Voxel, bool) {
	for v, n := range voxelNames {
		if n == name && v != Unloaded {
			return v, true
		}
	}
	return Air, false
}
