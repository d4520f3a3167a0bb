package storage

import (
    "context"
    "io"
    "sync"

    "github.com/local/vibedoc/internal/apperr"
)

// MemoryStore keeps files in process memory. Used for local runs and tests.
type MemoryStore struct {
    mu    sync.RWMutex
    files map[string][]byte
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{files: map[string][]byte{}}
}

func (m *MemoryStore) Put(_ context.Context, key, _ string, r io.Reader, _ int64) error {
    b, err := io.ReadAll(r)
    if err != nil { return err }
    m.mu.Lock()
    m.files[key] = b
    m.mu.Unlock()
    return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    b, ok := m.files[key]
    if !ok { return nil, apperr.NotFound("file", key) }
    return append([]byte(nil), b...), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
