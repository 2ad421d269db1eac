package player

import (
	"mini-voxel/internal/physics"
	"mini-voxel/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Update advances the player by dt seconds: horizontal intents first, then
// the vertical step, each through the collision engine.
func (p *Player) Update(dt float32) {
	defer profiling.Track("player.Update")()
	if dt <= 0 {
		return
	}
	p.moveHorizontal(dt)
	if p.Flying {
		p.fly(dt)
	} else {
		p.fall(dt)
	}
}

// horizontalDelta turns held intents into a world-space move of length
// dt*MoveSpeed per pressed direction, rotated by yaw only.
func (p *Player) horizontalDelta(dt float32) mgl32.Vec3 {
	d := dt * p.settings.MoveSpeed
	var local mgl32.Vec3
	if p.intents.forward {
		local[2] -= d
	}
	if p.intents.backward {
		local[2] += d
	}
	if p.intents.left {
		local[0] -= d
	}
	if p.intents.right {
		local[0] += d
	}
	return mgl32.Rotate3DY(p.Yaw).Mul3x1(local)
}

func (p *Player) moveHorizontal(dt float32) {
	delta := p.horizontalDelta(dt)
	if delta.X() == 0 && delta.Z() == 0 {
		return
	}
	capped, _ := p.physics.SweptDelta3(p.Position, p.settings.Box, delta)
	p.Position = p.Position.Add(mgl32.Vec3{capped.X(), 0, capped.Z()})
}

func (p *Player) fly(dt float32) {
	p.intents.jump = false
	var dy float32
	if p.intents.flyUp {
		dy += dt * p.settings.MoveSpeed
	}
	if p.intents.flyDown {
		dy -= dt * p.settings.MoveSpeed
	}
	if dy != 0 {
		p.moveVertical(dy)
	}
}

func (p *Player) fall(dt float32) {
	if p.intents.jump {
		p.intents.jump = false
		if p.OnGround {
			p.YVelocity = p.settings.JumpVelocity
			p.OnGround = false
		}
	}
	p.YVelocity -= dt * p.settings.Gravity
	if t := p.settings.TerminalVelocity; t > 0 && p.YVelocity < -t {
		p.YVelocity = -t
	}

	falling := p.YVelocity < 0
	if p.moveVertical(dt * p.YVelocity) {
		p.YVelocity = 0
		p.OnGround = falling
		return
	}
	p.OnGround = false
}

// moveVertical applies dy through the collision engine and reports whether
// the move was stopped.
func (p *Player) moveVertical(dy float32) bool {
	capped, collided := p.physics.SweptDelta(p.Position, p.settings.Box, physics.AxisY, dy)
	p.Position[1] += capped
	return collided
}
