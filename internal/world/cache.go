package world

import (
	"errors"
	"sync"
)

// SlotState describes what the cache holds for a chunk coordinate.
type SlotState uint8

const (
	SlotAbsent SlotState = iota
	SlotLoading
	SlotResident
)

func (s SlotState) String() string {
	switch s {
	case SlotLoading:
		return "loading"
	case SlotResident:
		return "resident"
	default:
		return "absent"
	}
}

var (
	ErrBadChunkSize    = errors.New("world: chunk buffer has wrong size")
	ErrAlreadyResident = errors.New("world: chunk already resident")
)

type slot struct {
	state SlotState
	data  ChunkData
}

// Cache stores chunk buffers by chunk coordinate. A coordinate is absent,
// loading (a placeholder without data) or resident. Placeholders are never
// returned as chunk data.
//
// Mutations belong to a single owner goroutine. The lock only lets other
// goroutines read counters and resident buffers safely between mutations.
type Cache struct {
	mu       sync.RWMutex
	slots    CoordMap[slot]
	resident int
	modCount uint64 // bumped on every install
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the resident buffer for cc.
func (c *Cache) Get(cc Coord) (ChunkData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots.Get(cc)
	if !ok || s.state != SlotResident {
		return nil, false
	}
	return s.data, true
}

func (c *Cache) State(cc Coord) SlotState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.slots.Get(cc)
	if !ok {
		return SlotAbsent
	}
	return s.state
}

// MarkLoading installs a loading placeholder. It returns false when cc is
// already loading or resident, in which case no new request may be issued.
func (c *Cache) MarkLoading(cc Coord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slots.Has(cc) {
		return false
	}
	c.slots.Set(cc, slot{state: SlotLoading})
	return true
}

// ClearLoading drops a loading placeholder, leaving cc absent. Resident
// chunks are untouched.
func (c *Cache) ClearLoading(cc Coord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots.Get(cc); ok && s.state == SlotLoading {
		c.slots.Delete(cc)
	}
}

// Install makes data the resident buffer for cc, replacing a placeholder.
// The cache takes ownership of data.
func (c *Cache) Install(cc Coord, data ChunkData) error {
	if !data.Valid() {
		return ErrBadChunkSize
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots.Get(cc); ok && s.state == SlotResident {
		return ErrAlreadyResident
	}
	c.slots.Set(cc, slot{state: SlotResident, data: data})
	c.resident++
	c.modCount++
	return nil
}

// ResidentCount returns the number of chunks with data.
func (c *Cache) ResidentCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resident
}

// LoadingCount returns the number of outstanding placeholders.
func (c *Cache) LoadingCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slots.Len() - c.resident
}

func (c *Cache) ModCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modCount
}

// ForEachResident calls fn for every resident chunk. fn must not call back
// into the cache.
func (c *Cache) ForEachResident(fn func(cc Coord, data ChunkData)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.slots.ForEach(func(cc Coord, s slot) {
		if s.state == SlotResident {
			fn(cc, s.data)
		}
	})
}
