package orchestrator

import (
    "context"

    "github.com/local/vibedoc/internal/store"
)

type redisStatusAdapter struct{ s *store.RedisStatus }

func NewStatusAdapter(s *store.RedisStatus) StatusStore { return &redisStatusAdapter{s: s} }

func (a *redisStatusAdapter) Set(ctx context.Context, formID uint, st Status) error {
    return a.s.Set(ctx, formID, store.PipelineStatus{
        Stage:    string(st.Stage),
        Message:  st.Message,
        Start:    st.Start,
        End:      st.End,
        Metadata: st.Metadata,
    })
}

func (a *redisStatusAdapter) Get(ctx context.Context, formID uint) (Status, bool, error) {
    st, ok, err := a.s.Get(ctx, formID)
    if !ok || err != nil { return Status{}, ok, err }
    return Status{
        Stage:    Stage(st.Stage),
        Message:  st.Message,
        Start:    st.Start,
        End:      st.End,
        Metadata: st.Metadata,
    }, true, nil
}
