// Package assoc implements the sparse four-key association store:
// (word i at position pi, word k at position pk) → signed strength.
// Missing keys read as zero and entries that reach zero are deleted,
// so iteration only ever sees live, non-zero associations.
package assoc

// #region key

// Key identifies one directional association: word I at argument
// position Pi co-occurring with word K at position Pk. The map is
// asymmetric; callers wanting both directions must read both keys.
type Key struct {
	I  int
	Pi int
	K  int
	Pk int
}

// #endregion key

// #region map

// Map is the sparse association store. Not goroutine-safe; the owning
// vocabulary serializes access under its lock.
type Map struct {
	entries map[Key]int
}

// NewMap returns an empty association map.
func NewMap() *Map {
	return &Map{entries: make(map[Key]int)}
}

// #endregion map

// #region operations

// Add applies delta to the key. A zero delta is a no-op; an update that
// lands on zero removes the entry entirely.
func (m *Map) Add(i, pi, k, pk, delta int) {
	if delta == 0 {
		return
	}
	key := Key{I: i, Pi: pi, K: k, Pk: pk}
	v := m.entries[key] + delta
	if v == 0 {
		delete(m.entries, key)
		return
	}
	m.entries[key] = v
}

// Get returns the stored strength, or zero for an absent key.
func (m *Map) Get(i, pi, k, pk int) int {
	return m.entries[Key{I: i, Pi: pi, K: k, Pk: pk}]
}

// Len returns the number of live (non-zero) entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Range calls fn for each live entry in unspecified order until fn
// returns false. Behavior under concurrent mutation is undefined.
func (m *Map) Range(fn func(Key, int) bool) {
	for key, v := range m.entries {
		if !fn(key, v) {
			return
		}
	}
}

// #endregion operations
