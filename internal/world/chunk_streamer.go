package world

import (
	"sort"

	"mini-voxel/internal/profiling"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// StreamerSettings controls which chunks are kept loaded around a viewer.
type StreamerSettings struct {
	DrawDistance   int     // horizontal radius in chunks
	DrawDistanceY  int     // vertical radius in chunks
	LoadsPerSecond float64 // 0 means unlimited
}

// Streamer keeps the chunks around a viewer resident. Each frame the
// owner calls Enqueue with the viewer's chunk and then Drain, which keeps
// at most one load in flight.
type Streamer struct {
	world    *World
	settings StreamerSettings
	limiter  *rate.Limiter
	log      *zap.Logger

	queue    []Coord
	inFlight Coord
	busy     bool
}

func NewStreamer(w *World, s StreamerSettings, log *zap.Logger) *Streamer {
	limit := rate.Inf
	if s.LoadsPerSecond > 0 {
		limit = rate.Limit(s.LoadsPerSecond)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Streamer{
		world:    w,
		settings: s,
		limiter:  rate.NewLimiter(limit, 1),
		log:      log,
	}
}

// Enqueue replaces the load queue with every absent chunk within draw
// distance of center, nearest first. It returns the queue length.
func (s *Streamer) Enqueue(center Coord) int {
	defer profiling.Track("world.Enqueue")()
	r, ry := s.settings.DrawDistance, s.settings.DrawDistanceY
	cache := s.world.Cache()

	s.queue = s.queue[:0]
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if dx*dx+dz*dz > r*r {
				continue
			}
			for dy := -ry; dy <= ry; dy++ {
				cc := Coord{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz}
				if cache.State(cc) == SlotAbsent {
					s.queue = append(s.queue, cc)
				}
			}
		}
	}
	sort.Slice(s.queue, func(i, j int) bool {
		return distSq(s.queue[i], center) < distSq(s.queue[j], center)
	})
	return len(s.queue)
}

func distSq(a, b Coord) int {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Drain merges finished loads and, when nothing of ours is in flight,
// issues the next queued request. It returns the chunks that became
// resident during this call.
func (s *Streamer) Drain() ([]Coord, error) {
	installed, err := s.world.Poll()
	if err != nil {
		s.log.Warn("chunk load failed", zap.Error(err))
	}

	if s.busy && s.world.Cache().State(s.inFlight) != SlotLoading {
		s.busy = false
	}
	if s.busy || len(s.queue) == 0 || !s.limiter.Allow() {
		return installed, err
	}

	for len(s.queue) > 0 {
		cc := s.queue[0]
		s.queue = s.queue[1:]
		if s.world.RequestChunk(cc) {
			s.inFlight = cc
			s.busy = true
			break
		}
	}
	return installed, err
}

// QueueLength returns the number of chunks waiting to be requested.
func (s *Streamer) QueueLength() int {
	return len(s.queue)
}

// InFlight returns the chunk currently being loaded by the streamer.
func (s *Streamer) InFlight() (Coord, bool) {
	return s.inFlight, s.busy
}
