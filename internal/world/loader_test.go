package world

import (
	"sync"

	"github.com/google/uuid"
)

// genLoader answers every request immediately from a Generator.
type genLoader struct {
	gen *Generator

	mu       sync.Mutex
	requests []Coord
}

func newGenLoader() *genLoader {
	return &genLoader{gen: NewGenerator(DefaultGeneratorSettings())}
}

func (l *genLoader) LoadChunk(req LoadChunkRequest) <-chan LoadChunkResponse {
	l.mu.Lock()
	l.requests = append(l.requests, req.Coord)
	l.mu.Unlock()

	ch := make(chan LoadChunkResponse, 1)
	ch <- LoadChunkResponse{ID: req.ID, Coord: req.Coord, Voxels: l.gen.FillChunk(req.Coord)}
	return ch
}

func (l *genLoader) count(cc Coord) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range l.requests {
		if r == cc {
			n++
		}
	}
	return n
}

// manualLoader holds responses until the test releases them.
type manualLoader struct {
	fill  Voxel
	chans map[Coord]chan LoadChunkResponse
	reqs  map[Coord]LoadChunkRequest
}

func newManualLoader(fill Voxel) *manualLoader {
	return &manualLoader{
		fill:  fill,
		chans: make(map[Coord]chan LoadChunkResponse),
		reqs:  make(map[Coord]LoadChunkRequest),
	}
}

func (l *manualLoader) LoadChunk(req LoadChunkRequest) <-chan LoadChunkResponse {
	ch := make(chan LoadChunkResponse, 1)
	l.chans[req.Coord] = ch
	l.reqs[req.Coord] = req
	return ch
}

func (l *manualLoader) release(cc Coord) bool {
	_, ok := l.chans[cc]
	if !ok {
		return false
	}
	return l.releaseAs(cc, l.reqs[cc].ID)
}

// releaseAs answers the request for cc under the given request id.
func (l *manualLoader) releaseAs(cc Coord, id uuid.UUID) bool {
	ch, ok := l.chans[cc]
	if !ok {
		return false
	}
	ch <- LoadChunkResponse{ID: id, Coord: cc, Voxels: FilledChunk(l.fill)}
	delete(l.chans, cc)
	return true
}
