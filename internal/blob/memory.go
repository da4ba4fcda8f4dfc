package blob

import "sync"

// MemoryStore is an in-memory implementation of the Store interface,
// useful for tests and throwaway sessions. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	metadata  map[string]Metadata
	keyspace  map[string]string
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string][]byte),
		metadata:  make(map[string]Metadata),
		keyspace:  make(map[string]string),
	}
}

func (m *MemoryStore) Put(id string, data []byte, meta Metadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.snapshots[id] = stored
	m.metadata[id] = meta
	return nil
}

func (m *MemoryStore) Get(id string) ([]byte, *Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.snapshots[id]
	if !ok {
		return nil, nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	meta := m.metadata[id]
	return out, &meta, nil
}

func (m *MemoryStore) ListKeys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.snapshots))
	for id := range m.snapshots {
		keys = append(keys, id)
	}
	return keys, nil
}

func (m *MemoryStore) PutMeta(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyspace[key] = value
	return nil
}

func (m *MemoryStore) GetMeta(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keyspace[key], nil
}

func (m *MemoryStore) Close() error { return nil }

// Compile-time check that MemoryStore implements the Store interface
var _ Store = (*MemoryStore)(nil)
