package player

import (
	"mini-voxel/internal/physics"
	"mini-voxel/internal/world"
)

// Target returns the voxel the player is looking at, within reach.
func (p *Player) Target() (physics.RaycastResult, bool) {
	eye := p.EyePosition()
	end := eye.Add(p.LookDirection().Mul(p.settings.Reach))
	return p.physics.Raycast(eye, end)
}

// CanPlaceAt reports whether a voxel at c would leave the player's box
// clear.
func (p *Player) CanPlaceAt(c world.Coord) bool {
	return !p.settings.Box.IntersectsVoxel(p.Position, c)
}
