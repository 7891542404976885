package domain

// Registry is the immutable, validated name -> RepositoryEntry mapping
// built once at startup. Lookups return an explicit not-found result
// instead of a zero entry.
type Registry struct {
	entries []RepositoryEntry
	byName  map[string]RepositoryEntry
}

// NewRegistry builds a registry from validated entries, preserving order.
func NewRegistry(entries []RepositoryEntry) *Registry {
	byName := make(map[string]RepositoryEntry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	return &Registry{entries: entries, byName: byName}
}

// Resolve returns the entry for the given name and whether it exists.
func (r *Registry) Resolve(name string) (RepositoryEntry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []RepositoryEntry {
	return r.entries
}

// Len returns the number of registered repositories.
func (r *Registry) Len() int {
	return len(r.entries)
}
