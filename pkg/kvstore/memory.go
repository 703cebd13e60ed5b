package kvstore

import "sync"

// Memory is a Store that never leaves the process
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Get(group, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[group][key]
	return value, ok, nil
}

func (m *Memory) Set(group, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[group] == nil {
		m.data[group] = make(map[string]string)
	}
	m.data[group][key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
