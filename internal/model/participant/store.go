package participant

// Store exposes participant retrieval for the orchestrator and handlers.
type Store interface {
	List() []Participant
	FindByName(name string) (Participant, bool)
}

// MemoryStore implements Store with an in-memory slice; the roster is fixed
// for the lifetime of a process.
type MemoryStore struct {
	items []Participant
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied roster.
func NewMemoryStore(items []Participant) *MemoryStore {
	return &MemoryStore{items: append([]Participant(nil), items...)}
}

// List returns the configured participants.
func (s *MemoryStore) List() []Participant {
	return append([]Participant(nil), s.items...)
}

// FindByName looks up a participant by speaker name.
func (s *MemoryStore) FindByName(name string) (Participant, bool) {
	for _, item := range s.items {
		if item.Name == name {
			return item, true
		}
	}
	return Participant{}, false
}
