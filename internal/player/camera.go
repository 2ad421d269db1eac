package player

import (
	"github.com/go-gl/mathgl/mgl32"
)

// HandleLook turns the view by a relative pointer motion.
func (p *Player) HandleLook(dx, dy float64) {
	s := p.settings.LookSensitivity
	p.Yaw -= float32(dx) * s
	p.Pitch = mgl32.Clamp(p.Pitch-float32(dy)*s, -MaxPitch, MaxPitch)
}

// EyePosition is centred on the box in x and z, EyeHeight above the feet.
func (p *Player) EyePosition() mgl32.Vec3 {
	c := p.settings.Box.Center()
	return mgl32.Vec3{
		p.Position.X() + c.X(),
		p.Position.Y() + p.settings.EyeHeight,
		p.Position.Z() + c.Z(),
	}
}

// LookDirection returns the unit facing vector. Yaw 0 and pitch 0 face -Z.
func (p *Player) LookDirection() mgl32.Vec3 {
	rot := mgl32.Rotate3DY(p.Yaw).Mul3(mgl32.Rotate3DX(p.Pitch))
	return rot.Mul3x1(mgl32.Vec3{0, 0, -1})
}

// ViewMatrix returns the camera transform for the renderer.
func (p *Player) ViewMatrix() mgl32.Mat4 {
	eye := p.EyePosition()
	return mgl32.LookAtV(eye, eye.Add(p.LookDirection()), mgl32.Vec3{0, 1, 0})
}
