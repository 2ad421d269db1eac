package player

import (
	"mini-voxel/internal/input"
	"mini-voxel/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	Gravity          = 19.6
	JumpVelocity     = 10.0
	TerminalVelocity = 78.4
	MoveSpeed        = 40.0
	EyeHeight        = 1.75
	Reach            = 10.0
	LookSensitivity  = 0.005

	// MaxPitch keeps the camera just short of straight up or down.
	MaxPitch = 1.57
)

// Settings holds the tunables of the agent controller.
type Settings struct {
	Gravity          float32
	JumpVelocity     float32
	TerminalVelocity float32 // maximum falling speed, positive
	MoveSpeed        float32 // voxels per second
	EyeHeight        float32 // above the feet
	Reach            float32
	LookSensitivity  float32 // radians per mouse unit
	Flying           bool    // start in free-fly mode
	Box              physics.Box
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:          Gravity,
		JumpVelocity:     JumpVelocity,
		TerminalVelocity: TerminalVelocity,
		MoveSpeed:        MoveSpeed,
		EyeHeight:        EyeHeight,
		Reach:            Reach,
		LookSensitivity:  LookSensitivity,
		Box:              physics.NewBox(mgl32.Vec3{1, 2, 1}),
	}
}

// intents are the held movement inputs, updated from input events and
// consumed by Update.
type intents struct {
	forward, backward bool
	left, right       bool
	flyUp, flyDown    bool
	jump              bool
}

// Player is the agent controller. Position is the min corner of Box.
//
// A Player is owned by the simulation goroutine, like the World it moves
// through.
type Player struct {
	Position  mgl32.Vec3
	YVelocity float32
	Yaw       float32 // radians, rotation about +Y
	Pitch     float32 // radians, positive looks up
	Flying    bool
	OnGround  bool

	settings Settings
	physics  *physics.Engine
	intents  intents
	sub      *input.Subscription
}

func New(engine *physics.Engine, spawn mgl32.Vec3, s Settings) *Player {
	return &Player{
		Position: spawn,
		Flying:   s.Flying,
		settings: s,
		physics:  engine,
	}
}

func (p *Player) Settings() Settings {
	return p.settings
}

func (p *Player) Box() physics.Box {
	return p.settings.Box
}

// Bind subscribes the player to im. A previous binding is released first.
func (p *Player) Bind(im *input.InputManager) {
	p.Unbind()
	p.sub = im.Subscribe(p)
}

// Unbind releases the input subscription and drops any held intents.
func (p *Player) Unbind() {
	if p.sub != nil {
		p.sub.Close()
		p.sub = nil
	}
	p.intents = intents{}
}

// HandleAction records a pressed or released action.
func (p *Player) HandleAction(a input.Action, pressed bool) {
	switch a {
	case input.ActionMoveForward:
		p.intents.forward = pressed
	case input.ActionMoveBackward:
		p.intents.backward = pressed
	case input.ActionMoveLeft:
		p.intents.left = pressed
	case input.ActionMoveRight:
		p.intents.right = pressed
	case input.ActionJump:
		p.intents.flyUp = pressed
		if pressed && !p.Flying {
			p.intents.jump = true
		}
	case input.ActionDescend:
		p.intents.flyDown = pressed
	case input.ActionToggleFly:
		if pressed {
			p.SetFlying(!p.Flying)
		}
	}
}

// SetFlying switches free-fly mode. Entering it cancels vertical velocity.
func (p *Player) SetFlying(on bool) {
	p.Flying = on
	if on {
		p.YVelocity = 0
		p.OnGround = false
	}
}
