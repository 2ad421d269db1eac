package compute

import (
	"context"
	"errors"
	"sync"
	"time"

	"mini-voxel/internal/meshing"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/world"

	"go.uber.org/zap"
)

// ErrClosed is returned for requests that reach a closed dispatcher.
var ErrClosed = errors.New("compute: dispatcher closed")

const (
	kindLoadChunk = "load_chunk"
	kindGeometry  = "geometry"
)

// job is one unit of work. Exactly one of the payloads is set and its
// reply channel has room for the single response.
type job struct {
	load    *world.LoadChunkRequest
	loadOut chan world.LoadChunkResponse

	geom    *meshing.GeometryRequest
	geomOut chan meshing.GeometryResponse
}

func (j job) kind() string {
	if j.load != nil {
		return kindLoadChunk
	}
	return kindGeometry
}

// Options configures a Dispatcher.
type Options struct {
	Workers   int
	QueueSize int
	Atlas     meshing.Atlas
}

// Dispatcher runs chunk generation and mesh extraction on a fixed pool of
// worker goroutines. Every request gets a dedicated reply channel that
// receives exactly one response, and the data in it belongs to the receiver.
type Dispatcher struct {
	gen     *world.Generator
	atlas   meshing.Atlas
	log     *zap.Logger
	metrics *metrics.Metrics

	jobQueue chan job
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts the worker goroutines. m may be nil.
func New(gen *world.Generator, opts Options, log *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		gen:      gen,
		atlas:    opts.Atlas,
		log:      log,
		metrics:  m,
		jobQueue: make(chan job, opts.QueueSize),
		workers:  opts.Workers,
		ctx:      ctx,
		cancel:   cancel,
	}
	for i := range opts.Workers {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

// LoadChunk implements world.ChunkLoader.
func (d *Dispatcher) LoadChunk(req world.LoadChunkRequest) <-chan world.LoadChunkResponse {
	out := make(chan world.LoadChunkResponse, 1)
	if !d.submit(job{load: &req, loadOut: out}) {
		out <- world.LoadChunkResponse{ID: req.ID, Coord: req.Coord, Err: ErrClosed}
	}
	return out
}

// GenerateGeometry queues mesh extraction for one chunk.
func (d *Dispatcher) GenerateGeometry(req meshing.GeometryRequest) <-chan meshing.GeometryResponse {
	out := make(chan meshing.GeometryResponse, 1)
	if !d.submit(job{geom: &req, geomOut: out}) {
		out <- meshing.GeometryResponse{ID: req.ID, Coord: req.Coord, Err: ErrClosed}
	}
	return out
}

// submit blocks until the job is queued. It fails only once Close has begun.
func (d *Dispatcher) submit(j job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	d.jobQueue <- j
	d.metrics.SetQueueDepth(len(d.jobQueue))
	return true
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case j := <-d.jobQueue:
			d.run(id, j)
		case <-d.ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) run(id int, j job) {
	start := time.Now()
	var err error

	switch {
	case j.load != nil:
		resp := world.LoadChunkResponse{ID: j.load.ID, Coord: j.load.Coord}
		resp.Voxels = d.gen.FillChunk(j.load.Coord)
		j.loadOut <- resp
		d.log.Debug("chunk generated",
			zap.Int("worker", id), zap.Stringer("chunk", j.load.Coord), zap.Duration("took", time.Since(start)))

	case j.geom != nil:
		resp := meshing.GeometryResponse{ID: j.geom.ID, Coord: j.geom.Coord}
		resp.Geometry, err = meshing.Extract(j.geom.Chunk, j.geom.Neighbors, d.atlas)
		resp.Err = err
		j.geomOut <- resp
		if err == nil {
			d.metrics.AddFaces(resp.Geometry.Opaque.FaceCount(), resp.Geometry.Transparent.FaceCount())
		}
		d.log.Debug("geometry generated",
			zap.Int("worker", id),
			zap.Stringer("chunk", j.geom.Coord),
			zap.Int("opaque", resp.Geometry.Opaque.FaceCount()),
			zap.Int("transparent", resp.Geometry.Transparent.FaceCount()),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
	}

	d.metrics.ObserveRequest(j.kind(), time.Since(start), err)
	d.metrics.SetQueueDepth(len(d.jobQueue))
}

// Close stops the workers. Jobs still queued are answered with ErrClosed;
// later requests are answered with ErrClosed immediately.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()

	for {
		select {
		case j := <-d.jobQueue:
			switch {
			case j.load != nil:
				j.loadOut <- world.LoadChunkResponse{ID: j.load.ID, Coord: j.load.Coord, Err: ErrClosed}
			case j.geom != nil:
				j.geomOut <- meshing.GeometryResponse{ID: j.geom.ID, Coord: j.geom.Coord, Err: ErrClosed}
			}
		default:
			return
		}
	}
}

// QueueLength returns the number of jobs waiting for a worker.
func (d *Dispatcher) QueueLength() int {
	return len(d.jobQueue)
}

func (d *Dispatcher) Workers() int {
	return d.workers
}
