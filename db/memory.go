package db

import (
	"sort"
	"strings"
	"sync"
)

// MemoryKV is an in-process KV. Nothing survives the process; it backs the
// "memory" storage backend and tests.
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string]string
	seq    map[string]int
	next   int
	closed bool
}

var _ KV = (*MemoryKV)(nil)

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data: make(map[string]string),
		seq:  make(map[string]int),
	}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, &StoreError{Op: "get", Key: key, Err: ErrClosed}
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return &StoreError{Op: "set", Key: key, Err: ErrClosed}
	}
	m.next++
	m.data[key] = value
	m.seq[key] = m.next
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return &StoreError{Op: "delete", Key: key, Err: ErrClosed}
	}
	delete(m.data, key)
	delete(m.seq, key)
	return nil
}

func (m *MemoryKV) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, &StoreError{Op: "keys", Key: prefix, Err: ErrClosed}
	}
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return m.seq[keys[i]] > m.seq[keys[j]]
	})
	return keys, nil
}

func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
