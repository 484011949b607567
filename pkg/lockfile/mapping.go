package lockfile

import "slices"

// Identity uniquely names one package entry in a lockfile.
type Identity struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (id Identity) String() string { return id.Name + "@" + id.Version }

// Entry is one committed package section.
type Entry struct {
	Identity
	Dependencies []string `json:"dependencies"`
}

// Mapping is an ordered map from package identity to dependency names.
//
// Entries keep the order their sections first appeared in the source. When an
// identity appears twice, the later section's dependencies replace the
// earlier ones in place.
//
// The zero value is an empty mapping ready for reads. A Mapping returned by
// [Parse] or [Read] is never modified again.
type Mapping struct {
	entries []Entry
	index   map[Identity]int
}

func newMapping() *Mapping {
	return &Mapping{index: make(map[Identity]int)}
}

func (m *Mapping) put(id Identity, deps []string) {
	if i, ok := m.index[id]; ok {
		m.entries[i].Dependencies = deps
		return
	}
	m.index[id] = len(m.entries)
	m.entries = append(m.entries, Entry{Identity: id, Dependencies: deps})
}

// Len returns the number of package entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Lookup returns the dependency names stored for id. The returned slice is a
// copy; callers may modify it freely.
func (m *Mapping) Lookup(id Identity) ([]string, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(m.entries[i].Dependencies), true
}

// Entries returns a copy of all entries in source order.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = Entry{Identity: e.Identity, Dependencies: slices.Clone(e.Dependencies)}
	}
	return out
}

// Versions returns every version recorded for name, in source order.
func (m *Mapping) Versions(name string) []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, e := range m.entries {
		if e.Name == name {
			out = append(out, e.Version)
		}
	}
	return out
}
