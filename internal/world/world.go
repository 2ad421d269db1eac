package world

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mini-voxel/internal/profiling"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNeighborNotLoaded = errors.New("world: neighbour chunk not loaded")
	ErrChunkNotLoaded    = errors.New("world: chunk not loaded")
)

// LoadChunkRequest asks a loader to produce the voxels of one chunk.
type LoadChunkRequest struct {
	ID    uuid.UUID
	Coord Coord
}

// LoadChunkResponse carries a freshly generated chunk. Ownership of Voxels
// moves to whoever receives the response.
type LoadChunkResponse struct {
	ID     uuid.UUID
	Coord  Coord
	Voxels ChunkData
	Err    error
}

// ChunkLoader produces chunk data off the caller's goroutine. The returned
// channel delivers exactly one response.
type ChunkLoader interface {
	LoadChunk(req LoadChunkRequest) <-chan LoadChunkResponse
}

type pendingLoad struct {
	id     uuid.UUID
	ch     <-chan LoadChunkResponse
	issued time.Time
}

// World is the voxel grid facade: point queries, edits and asynchronous
// chunk loading over a Cache.
//
// World has a single owner. Every method that mutates state must be called
// from the owner goroutine; background work only ever produces responses
// that the owner merges.
type World struct {
	cache   *Cache
	loader  ChunkLoader
	log     *zap.Logger
	pending CoordMap[pendingLoad]
	dirty   CoordMap[struct{}]
}

func New(loader ChunkLoader, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		cache:  NewCache(),
		loader: loader,
		log:    log,
	}
}

func (w *World) Cache() *Cache {
	return w.cache
}

// Chunk returns the resident buffer of chunk cc.
func (w *World) Chunk(cc Coord) (ChunkData, bool) {
	return w.cache.Get(cc)
}

// GetVoxel returns the voxel at c, or Unloaded when its chunk is not resident.
func (w *World) GetVoxel(c Coord) Voxel {
	data, ok := w.cache.Get(ChunkCoordOf(c))
	if !ok {
		return Unloaded
	}
	return Voxel(data[LocalIndex(c)])
}

// UpdateVoxel writes v at c. Edits to chunks that are not resident are
// dropped and reported as false. The edited chunk, and any resident
// neighbour sharing the touched border, are marked dirty.
func (w *World) UpdateVoxel(c Coord, v Voxel) bool {
	if v == Unloaded {
		return false
	}
	cc := ChunkCoordOf(c)
	data, ok := w.cache.Get(cc)
	if !ok {
		w.log.Debug("edit dropped, chunk not resident",
			zap.Stringer("voxel", c), zap.Stringer("chunk", cc), zap.Stringer("state", w.cache.State(cc)))
		return false
	}
	l := LocalCoordOf(c)
	if !data.Set(l.X, l.Y, l.Z, v) {
		return true
	}
	w.markDirty(cc)

	if l.X == 0 {
		w.markDirtyIfResident(cc.Add(FaceLeft.Offset()))
	} else if l.X == ChunkSize-1 {
		w.markDirtyIfResident(cc.Add(FaceRight.Offset()))
	}
	if l.Y == 0 {
		w.markDirtyIfResident(cc.Add(FaceBottom.Offset()))
	} else if l.Y == ChunkSize-1 {
		w.markDirtyIfResident(cc.Add(FaceTop.Offset()))
	}
	if l.Z == 0 {
		w.markDirtyIfResident(cc.Add(FaceBack.Offset()))
	} else if l.Z == ChunkSize-1 {
		w.markDirtyIfResident(cc.Add(FaceFront.Offset()))
	}
	return true
}

func (w *World) markDirty(cc Coord) {
	w.dirty.Set(cc, struct{}{})
}

func (w *World) markDirtyIfResident(cc Coord) {
	if w.cache.State(cc) == SlotResident {
		w.markDirty(cc)
	}
}

// MarkDirty flags a resident chunk for re-meshing.
func (w *World) MarkDirty(cc Coord) {
	w.markDirtyIfResident(cc)
}

// TakeDirty returns and clears the set of chunks whose contents or
// neighbourhood changed since the last call.
func (w *World) TakeDirty() []Coord {
	out := w.dirty.Keys()
	for _, cc := range out {
		w.dirty.Delete(cc)
	}
	return out
}

// RequestChunk issues an asynchronous load for cc unless it is already
// resident or loading. It reports whether a request was issued.
func (w *World) RequestChunk(cc Coord) bool {
	if !w.cache.MarkLoading(cc) {
		return false
	}
	req := LoadChunkRequest{ID: uuid.New(), Coord: cc}
	w.pending.Set(cc, pendingLoad{id: req.ID, ch: w.loader.LoadChunk(req), issued: time.Now()})
	w.log.Debug("chunk load posted", zap.Stringer("chunk", cc), zap.Stringer("id", req.ID))
	return true
}

// PendingCount returns the number of issued loads not merged yet.
func (w *World) PendingCount() int {
	return w.pending.Len()
}

// Poll merges every load response that has already arrived, without
// blocking, and returns the chunks that became resident.
func (w *World) Poll() ([]Coord, error) {
	defer profiling.Track("world.Poll")()
	var (
		installed []Coord
		errs      []error
	)
	for _, cc := range w.pending.Keys() {
		p, _ := w.pending.Get(cc)
		select {
		case resp := <-p.ch:
			if err := w.merge(cc, p, resp); err != nil {
				errs = append(errs, err)
				continue
			}
			installed = append(installed, cc)
		default:
		}
	}
	return installed, errors.Join(errs...)
}

func (w *World) merge(cc Coord, p pendingLoad, resp LoadChunkResponse) error {
	w.pending.Delete(cc)
	if resp.Err != nil {
		w.cache.ClearLoading(cc)
		return fmt.Errorf("load chunk %v: %w", cc, resp.Err)
	}
	if resp.Coord != cc {
		w.cache.ClearLoading(cc)
		return fmt.Errorf("load chunk %v: response for %v", cc, resp.Coord)
	}
	if resp.ID != p.id {
		w.cache.ClearLoading(cc)
		return fmt.Errorf("load chunk %v: response id %v, want %v", cc, resp.ID, p.id)
	}
	if err := w.cache.Install(cc, resp.Voxels); err != nil {
		w.cache.ClearLoading(cc)
		return fmt.Errorf("install chunk %v: %w", cc, err)
	}
	w.log.Debug("chunk load received",
		zap.Stringer("chunk", cc), zap.Stringer("id", p.id), zap.Duration("took", time.Since(p.issued)))

	w.markDirty(cc)
	for f := range FaceCount {
		w.markDirtyIfResident(cc.Add(f.Offset()))
	}
	return nil
}

// LoadChunk makes cc resident and returns its buffer, issuing a request if
// none is outstanding. ctx bounds only the wait: an abandoned request stays
// pending and is merged by a later Poll.
func (w *World) LoadChunk(ctx context.Context, cc Coord) (ChunkData, error) {
	if data, ok := w.cache.Get(cc); ok {
		return data, nil
	}
	w.RequestChunk(cc)
	return w.await(ctx, cc)
}

func (w *World) await(ctx context.Context, cc Coord) (ChunkData, error) {
	if data, ok := w.cache.Get(cc); ok {
		return data, nil
	}
	p, ok := w.pending.Get(cc)
	if !ok {
		return nil, fmt.Errorf("await chunk %v: %w", cc, ErrChunkNotLoaded)
	}
	select {
	case resp := <-p.ch:
		if err := w.merge(cc, p, resp); err != nil {
			return nil, err
		}
		data, _ := w.cache.Get(cc)
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadChunkAndNeighbors loads cc and its six face neighbours. All missing
// requests are issued before waiting on any of them.
func (w *World) LoadChunkAndNeighbors(ctx context.Context, cc Coord) (ChunkData, Neighbors, error) {
	w.RequestChunk(cc)
	for f := range FaceCount {
		w.RequestChunk(cc.Add(f.Offset()))
	}

	data, err := w.await(ctx, cc)
	if err != nil {
		return nil, Neighbors{}, err
	}
	for f := range FaceCount {
		if _, err := w.await(ctx, cc.Add(f.Offset())); err != nil {
			return nil, Neighbors{}, err
		}
	}
	nb, err := w.Neighbors(cc)
	if err != nil {
		return nil, Neighbors{}, err
	}
	return data, nb, nil
}

// Neighbors returns the six face-adjacent buffers of cc. A missing
// neighbour is an error; it is never substituted with empty space.
func (w *World) Neighbors(cc Coord) (Neighbors, error) {
	var nb Neighbors
	for f := range FaceCount {
		n := cc.Add(f.Offset())
		data, ok := w.cache.Get(n)
		if !ok {
			return Neighbors{}, fmt.Errorf("chunk %v %s neighbour %v: %w", cc, f, n, ErrNeighborNotLoaded)
		}
		nb[f] = data
	}
	return nb, nil
}

// NeighborsResident reports whether all six face neighbours of cc are resident.
func (w *World) NeighborsResident(cc Coord) bool {
	for f := range FaceCount {
		if w.cache.State(cc.Add(f.Offset())) != SlotResident {
			return false
		}
	}
	return true
}
