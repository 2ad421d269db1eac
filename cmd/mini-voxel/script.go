package main

import (
	"mini-voxel/internal/game"

	"go.uber.org/zap"
)

// script plays the part of the window layer: it feeds key and mouse
// events into the session and consumes mesh updates like a renderer would.
type script struct {
	enabled bool
	log     *zap.Logger

	frame    uint64
	meshed   int
	faces    int
	holdJump bool
	holdDig  bool
}

func (sc *script) step(s *game.Session) {
	for _, u := range s.TakeMeshUpdates() {
		sc.meshed++
		sc.faces += u.Geometry.FaceCount()
	}
	if sc.frame%600 == 0 {
		sc.log.Info("render handoff",
			zap.Uint64("frame", sc.frame),
			zap.Int("mesh_updates", sc.meshed),
			zap.Int("faces", sc.faces),
			zap.Int("visible", len(s.VisibleChunks(16.0/9))))
	}
	defer func() { sc.frame++ }()

	if !sc.enabled {
		return
	}
	in := s.Input

	if sc.frame == 0 {
		in.HandleKeyEvent("w", true)
	}
	if sc.holdJump {
		in.HandleKeyEvent("space", false)
		sc.holdJump = false
	}
	if sc.holdDig {
		in.HandleKeyEvent("mouse_left", false)
		sc.holdDig = false
	}

	switch {
	case sc.frame%240 == 120:
		in.HandleMouseMove(150, 0)
	case sc.frame%90 == 45 && s.Player.OnGround:
		in.HandleKeyEvent("space", true)
		sc.holdJump = true
	case sc.frame%300 == 299:
		in.HandleMouseMove(0, 200)
		in.HandleKeyEvent("mouse_left", true)
		sc.holdDig = true
	case sc.frame%300 == 0 && sc.frame > 0:
		in.HandleMouseMove(0, -200)
	}
}
