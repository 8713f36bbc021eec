// Entry is the central entity of the domain.
package core

// Entry is a single localized string, identified by its key.
// Values may span several lines.
type Entry struct {
	Key   string
	Value string
}

// List is the ordered representation of a string table, as stored by the
// list-shaped JSON/RTON documents and by the plain-text file.
//
// Lists decoded from plain text never hold duplicate keys. Lists decoded
// from JSON or RTON may; consumers fold them as documented on each method.
type List []Entry

// Keys returns the keys in list order, duplicates included.
func (l List) Keys() []string {
	keys := make([]string, len(l))
	for i, e := range l {
		keys[i] = e.Key
	}
	return keys
}

// ToMap reshapes the list into a Map. The first occurrence of a key wins.
func (l List) ToMap() *Map {
	m := NewMap(len(l))
	for _, e := range l {
		if m.Has(e.Key) {
			continue
		}
		m.Set(e.Key, e.Value)
	}
	return m
}

// Map is the keyed representation of a string table.
// It remembers insertion order so that encoding is deterministic; Set on an
// existing key replaces the value in place.
type Map struct {
	keys   []string
	values map[string]string
}

// NewMap creates an empty Map with room for size entries.
func NewMap(size int) *Map {
	return &Map{
		keys:   make([]string, 0, size),
		values: make(map[string]string, size),
	}
}

// MapOf builds a Map from entries, later entries overwriting earlier ones.
func MapOf(entries ...Entry) *Map {
	m := NewMap(len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value for key. The boolean is false when the key is absent.
func (m *Map) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key (last write wins).
func (m *Map) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	entries := make([]Entry, len(m.keys))
	for i, k := range m.keys {
		entries[i] = Entry{Key: k, Value: m.values[k]}
	}
	return entries
}

// ToList reshapes the map into a List in insertion order.
func (m *Map) ToList() List {
	return List(m.Entries())
}

// Equal reports whether both maps hold the same keys and values, ignoring order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		ov, ok := other.Get(k)
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// ExcludeSet holds keys ignored by diff computations. A nil set excludes nothing.
type ExcludeSet map[string]struct{}

// NewExcludeSet builds a set from keys.
func NewExcludeSet(keys ...string) ExcludeSet {
	s := make(ExcludeSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports whether key is excluded.
func (s ExcludeSet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}
