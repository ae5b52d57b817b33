package store

import "encoding/json"

// MemStore is an in-memory Store. It backs tests and ephemeral runs where
// nothing should touch the filesystem.
type MemStore struct {
	data map[string][]byte

	// Saves counts successful Save calls.
	Saves int

	// SaveErr, when set, makes every Save fail without storing anything.
	SaveErr error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

// Load decodes the stored bytes for key into v.
func (m *MemStore) Load(key string, v any) bool {
	data, ok := m.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Save replaces the stored value for key.
func (m *MemStore) Save(key string, v any) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = data
	m.Saves++
	return nil
}

// Seed stores raw bytes under key without counting as a Save. Tests use it
// to stage pre-existing (possibly corrupt) state.
func (m *MemStore) Seed(key string, raw []byte) {
	m.data[key] = raw
}

// Raw returns the stored bytes for key.
func (m *MemStore) Raw(key string) ([]byte, bool) {
	data, ok := m.data[key]
	return data, ok
}

// Verify MemStore implements the Store interface
var _ Store = (*MemStore)(nil)
