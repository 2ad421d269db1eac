package world

// CoordMap is a sparse map keyed by integer coordinates, stored as three
// nested levels (x, then y, then z). Empty inner levels are pruned on
// Delete so the structure never grows unbounded with stale keys.
//
// The zero value is ready to use. CoordMap is not safe for concurrent use.
type CoordMap[T any] struct {
	data map[int]map[int]map[int]T
	size int
}

// Get returns the value at c and whether it was present.
func (m *CoordMap[T]) Get(c Coord) (T, bool) {
	var zero T
	ys, ok := m.data[c.X]
	if !ok {
		return zero, false
	}
	zs, ok := ys[c.Y]
	if !ok {
		return zero, false
	}
	v, ok := zs[c.Z]
	return v, ok
}

func (m *CoordMap[T]) Has(c Coord) bool {
	_, ok := m.Get(c)
	return ok
}

// Set stores v at c, creating intermediate levels on demand.
func (m *CoordMap[T]) Set(c Coord, v T) {
	if m.data == nil {
		m.data = make(map[int]map[int]map[int]T)
	}
	ys, ok := m.data[c.X]
	if !ok {
		ys = make(map[int]map[int]T)
		m.data[c.X] = ys
	}
	zs, ok := ys[c.Y]
	if !ok {
		zs = make(map[int]T)
		ys[c.Y] = zs
	}
	if _, exists := zs[c.Z]; !exists {
		m.size++
	}
	zs[c.Z] = v
}

// Delete removes c and prunes any level left empty. It reports whether c was present.
func (m *CoordMap[T]) Delete(c Coord) bool {
	ys, ok := m.data[c.X]
	if !ok {
		return false
	}
	zs, ok := ys[c.Y]
	if !ok {
		return false
	}
	if _, ok := zs[c.Z]; !ok {
		return false
	}
	delete(zs, c.Z)
	m.size--
	if len(zs) == 0 {
		delete(ys, c.Y)
		if len(ys) == 0 {
			delete(m.data, c.X)
		}
	}
	return true
}

// Len returns the number of stored entries.
func (m *CoordMap[T]) Len() int {
	return m.size
}

// ForEach calls fn for every entry in unspecified order. fn must not
// modify the map.
func (m *CoordMap[T]) ForEach(fn func(c Coord, v T)) {
	for x, ys := range m.data {
		for y, zs := range ys {
			for z, v := range zs {
				fn(Coord{X: x, Y: y, Z: z}, v)
			}
		}
	}
}

// Keys returns all stored coordinates in unspecified order.
func (m *CoordMap[T]) Keys() []Coord {
	out := make([]Coord, 0, m.size)
	m.ForEach(func(c Coord, _ T) { out = append(out, c) })
	return out
}
