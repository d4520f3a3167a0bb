package orchestrator

import (
    "context"
    "sync"
    "time"
)

// Stage is a step of the enrichment pipeline for one form.
type Stage string

const (
    StageUploaded        Stage = "UPLOADED"
    StageQueued          Stage = "QUEUED"
    StageMetadataFetched Stage = "METADATA_FETCHED"
    StageEnriched        Stage = "ENRICHED"
    StageValuesSuggested Stage = "VALUES_SUGGESTED"
    StagePersisted       Stage = "PERSISTED"
    StageFailed          Stage = "FAILED"
)

// Terminal reports whether no further transition follows.
func (s Stage) Terminal() bool { return s == StagePersisted || s == StageFailed }

type Status struct {
    Stage    Stage          `json:"stage"`
    Message  string         `json:"message"`
    Start    *time.Time     `json:"startTime,omitempty"`
    End      *time.Time     `json:"endTime,omitempty"`
    Metadata map[string]any `json:"metadata,omitempty"`
}

type StatusStore interface {
    Set(ctx context.Context, formID uint, st Status) error
    Get(ctx context.Context, formID uint) (Status, bool, error)
}

// MemoryStatus keeps stages in process. Used when no Redis is configured.
type MemoryStatus struct {
    mu sync.RWMutex
    m  map[uint]Status
}

func NewMemoryStatus() *MemoryStatus { return &MemoryStatus{m: map[uint]Status{}} }

func (s *MemoryStatus) Set(_ context.Context, formID uint, st Status) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.m[formID] = st
    return nil
}

func (s *MemoryStatus) Get(_ context.Context, formID uint) (Status, bool, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    st, ok := s.m[formID]
    return st, ok, nil
}
