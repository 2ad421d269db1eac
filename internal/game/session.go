package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mini-voxel/internal/compute"
	"mini-voxel/internal/config"
	"mini-voxel/internal/input"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/physics"
	"mini-voxel/internal/player"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MeshUpdate is handed to the renderer when a chunk's geometry changes. An
// empty Geometry means the chunk has nothing left to draw.
type MeshUpdate struct {
	Coord    world.Coord
	Geometry meshing.Geometry
}

type pendingMesh struct {
	id     uuid.UUID
	coord  world.Coord
	ch     <-chan meshing.GeometryResponse
	issued time.Time
}

// Session wires the world, the compute workers and the player into the
// per-frame simulation sequence. All methods must be called from the
// goroutine that drives Step, including input delivery to Input.
type Session struct {
	World  *world.World
	Player *player.Player
	Input  *input.InputManager

	cfg        config.Config
	log        *zap.Logger
	metrics    *metrics.Metrics
	gen        *world.Generator
	dispatcher *compute.Dispatcher
	streamer   *world.Streamer

	meshes      world.CoordMap[meshing.Geometry]
	meshDirty   world.CoordMap[struct{}]
	meshing     *pendingMesh
	updates     []MeshUpdate
	placeVoxel  world.Voxel
	frames      uint64
	lastSummary time.Time
}

// NewSession builds a session from cfg. m may be nil.
func NewSession(cfg config.Config, log *zap.Logger, m *metrics.Metrics) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	im, err := input.NewInputManager(cfg.Input.Bindings)
	if err != nil {
		return nil, err
	}

	gen := world.NewGenerator(cfg.GeneratorSettings())
	d := compute.New(gen, compute.Options{
		Workers:   cfg.Streaming.Workers,
		QueueSize: cfg.Streaming.QueueSize,
		Atlas:     meshing.DefaultAtlas(),
	}, log, m)

	w := world.New(d, log)
	p := player.New(physics.New(w), cfg.SpawnPosition(), cfg.PlayerSettings())
	p.Bind(im)

	return &Session{
		World:       w,
		Player:      p,
		Input:       im,
		cfg:         cfg,
		log:         log,
		metrics:     m,
		gen:         gen,
		dispatcher:  d,
		streamer:    world.NewStreamer(w, cfg.StreamerSettings(), log),
		placeVoxel:  world.Dirt,
		lastSummary: time.Now(),
	}, nil
}

// Close releases the input binding and stops the compute workers.
func (s *Session) Close() {
	s.Player.Unbind()
	s.dispatcher.Close()
}

// Spawn puts the player on the terrain surface of its spawn column and
// waits until the chunk there and its neighbours are resident.
func (s *Session) Spawn(ctx context.Context) error {
	c := world.VoxelCoordOf(s.Player.Position)
	s.Player.Position[1] = float32(s.gen.SurfaceAt(c.X, c.Z) + 1)

	cc := world.ChunkCoordOf(world.VoxelCoordOf(s.Player.Position))
	if _, _, err := s.World.LoadChunkAndNeighbors(ctx, cc); err != nil {
		return fmt.Errorf("load spawn chunk %v: %w", cc, err)
	}
	s.log.Info("player spawned", zap.Float32s("position", s.Player.Position[:]), zap.Stringer("chunk", cc))
	return nil
}

// Step advances the simulation by dt seconds: stream nearby chunks, merge
// at most one load, apply edits, move the player and pump the mesher.
func (s *Session) Step(dt float32) error {
	start := time.Now()
	profiling.ResetFrame()
	defer profiling.Track("session.Step")()

	center := world.ChunkCoordOf(world.VoxelCoordOf(s.Player.Position))
	s.streamer.Enqueue(center)
	_, loadErr := s.streamer.Drain()

	s.handleEdits()
	s.Player.Update(dt)
	meshErr := s.pumpMeshes()

	cache := s.World.Cache()
	s.metrics.SetChunks(cache.ResidentCount(), cache.LoadingCount())
	s.metrics.SetQueueDepth(s.dispatcher.QueueLength())
	s.metrics.ObserveFrame(time.Since(start))

	s.Input.PostUpdate()
	s.frames++
	if time.Since(s.lastSummary) >= 5*time.Second {
		s.logSummary()
	}
	return errors.Join(loadErr, meshErr)
}

func (s *Session) handleEdits() {
	if s.Input.JustPressed(input.ActionBreak) {
		s.BreakTarget()
	}
	if s.Input.JustPressed(input.ActionPlace) {
		s.PlaceTarget(s.placeVoxel)
	}
}

// SetPlaceVoxel selects the voxel type placed by the place action.
func (s *Session) SetPlaceVoxel(v world.Voxel) {
	if v != world.Unloaded {
		s.placeVoxel = v
	}
}

// BreakTarget clears the voxel the player is looking at.
func (s *Session) BreakTarget() (world.Coord, bool) {
	hit, ok := s.Player.Target()
	if !ok {
		return world.Coord{}, false
	}
	return hit.Coord, s.World.UpdateVoxel(hit.Coord, world.Air)
}

// PlaceTarget puts v against the face the player is looking at, unless it
// would overlap the player.
func (s *Session) PlaceTarget(v world.Voxel) (world.Coord, bool) {
	hit, ok := s.Player.Target()
	if !ok || hit.Normal.Len() == 0 {
		return world.Coord{}, false
	}
	c := hit.Adjacent
	if !s.Player.CanPlaceAt(c) {
		return c, false
	}
	return c, s.World.UpdateVoxel(c, v)
}

// pumpMeshes merges a finished geometry response and issues the next one.
// Only one chunk is meshed at a time.
func (s *Session) pumpMeshes() error {
	defer profiling.Track("session.pumpMeshes")()
	for _, cc := range s.World.TakeDirty() {
		s.meshDirty.Set(cc, struct{}{})
	}

	var err error
	if s.meshing != nil {
		select {
		case resp := <-s.meshing.ch:
			err = s.mergeMesh(resp)
			s.meshing = nil
		default:
			return nil
		}
	}

	for s.meshing == nil {
		cc, ok := s.nextDirty()
		if !ok {
			break
		}
		s.meshDirty.Delete(cc)

		chunk, ok := s.World.Chunk(cc)
		if !ok {
			continue
		}
		if chunk.IsEmpty() {
			s.setMesh(cc, meshing.Geometry{})
			continue
		}
		req, reqErr := meshing.NewGeometryRequest(s.World, cc)
		if reqErr != nil {
			err = errors.Join(err, reqErr)
			continue
		}
		s.meshing = &pendingMesh{
			id:     req.ID,
			coord:  cc,
			ch:     s.dispatcher.GenerateGeometry(req),
			issued: time.Now(),
		}
	}
	return err
}

// nextDirty picks the dirty chunk nearest the player among those whose
// neighbours are all resident.
func (s *Session) nextDirty() (world.Coord, bool) {
	center := world.ChunkCoordOf(world.VoxelCoordOf(s.Player.Position))
	var (
		best  world.Coord
		bestD = -1
	)
	s.meshDirty.ForEach(func(cc world.Coord, _ struct{}) {
		if !s.World.NeighborsResident(cc) {
			return
		}
		d := cc.Sub(center)
		dist := d.X*d.X + d.Y*d.Y + d.Z*d.Z
		if bestD < 0 || dist < bestD {
			best, bestD = cc, dist
		}
	})
	return best, bestD >= 0
}

func (s *Session) mergeMesh(resp meshing.GeometryResponse) error {
	p := s.meshing
	if resp.Err != nil {
		if !errors.Is(resp.Err, compute.ErrClosed) {
			s.meshDirty.Set(p.coord, struct{}{})
		}
		return fmt.Errorf("mesh chunk %v: %w", p.coord, resp.Err)
	}
	if resp.ID != p.id {
		return fmt.Errorf("mesh chunk %v: response id %v, want %v", p.coord, resp.ID, p.id)
	}
	s.log.Debug("chunk meshed",
		zap.Stringer("chunk", p.coord), zap.Int("faces", resp.Geometry.FaceCount()), zap.Duration("took", time.Since(p.issued)))
	s.setMesh(p.coord, resp.Geometry)
	return nil
}

func (s *Session) setMesh(cc world.Coord, g meshing.Geometry) {
	_, had := s.meshes.Get(cc)
	if g.Empty() {
		if !had {
			return
		}
		s.meshes.Delete(cc)
	} else {
		s.meshes.Set(cc, g)
	}
	s.updates = append(s.updates, MeshUpdate{Coord: cc, Geometry: g})
}

// TakeMeshUpdates returns the geometry changes since the last call, in the
// order they completed.
func (s *Session) TakeMeshUpdates() []MeshUpdate {
	out := s.updates
	s.updates = nil
	return out
}

// Mesh returns the current geometry of chunk cc.
func (s *Session) Mesh(cc world.Coord) (meshing.Geometry, bool) {
	return s.meshes.Get(cc)
}

func (s *Session) MeshCount() int {
	return s.meshes.Len()
}

func (s *Session) Frames() uint64 {
	return s.frames
}

// Stats is a snapshot of the session for status output.
type Stats struct {
	Frames     uint64
	Resident   int
	Loading    int
	Meshes     int
	MeshQueue  int
	LoadQueue  int
	Position   [3]float32
	OnGround   bool
	Flying     bool
	SlowestOps string
}

func (s *Session) Stats() Stats {
	cache := s.World.Cache()
	return Stats{
		Frames:     s.frames,
		Resident:   cache.ResidentCount(),
		Loading:    cache.LoadingCount(),
		Meshes:     s.meshes.Len(),
		MeshQueue:  s.meshDirty.Len(),
		LoadQueue:  s.streamer.QueueLength(),
		Position:   s.Player.Position,
		OnGround:   s.Player.OnGround,
		Flying:     s.Player.Flying,
		SlowestOps: profiling.TopN(3),
	}
}

func (s *Session) logSummary() {
	st := s.Stats()
	s.log.Info("session",
		zap.Uint64("frames", st.Frames),
		zap.Int("resident", st.Resident),
		zap.Int("loading", st.Loading),
		zap.Int("meshes", st.Meshes),
		zap.Int("mesh_queue", st.MeshQueue),
		zap.Int("load_queue", st.LoadQueue),
		zap.Float32s("position", st.Position[:]),
		zap.String("slowest", st.SlowestOps),
	)
	s.lastSummary = time.Now()
}

// RunOptions controls Run.
type RunOptions struct {
	// MaxFrames stops the loop after that many steps; zero runs until ctx
	// is done.
	MaxFrames uint64
	// BeforeStep runs on the loop goroutine ahead of every step, for
	// scripted input.
	BeforeStep func(s *Session)
}

// Run steps the session at the configured tick rate until ctx is done or
// MaxFrames is reached. Cancellation is a normal stop and returns nil.
// Step errors are logged and do not stop the loop.
func (s *Session) Run(ctx context.Context, opts RunOptions) error {
	ticker := NewTicker(s.cfg.Session.TickRateHz)
	dt := float32(ticker.Interval().Seconds())
	defer s.logSummary()

	for opts.MaxFrames == 0 || s.frames < opts.MaxFrames {
		if err := ticker.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if opts.BeforeStep != nil {
			opts.BeforeStep(s)
		}
		if err := s.Step(dt); err != nil {
			s.log.Warn("step", zap.Uint64("frame", s.frames), zap.Error(err))
		}
	}
	return nil
}
