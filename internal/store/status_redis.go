package store

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// PipelineStatus is the last recorded stage of a form's enrichment run.
type PipelineStatus struct {
    Stage    string                 `json:"stage"`
    Message  string                 `json:"message"`
    Start    *time.Time             `json:"start_time,omitempty"`
    End      *time.Time             `json:"end_time,omitempty"`
    Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type RedisStatus struct {
    client *redis.Client
    keyNS  string
    ttl    time.Duration
}

func NewRedisStatus(redisURL string) (*RedisStatus, error) {
    opt, err := redis.ParseURL(redisURL)
    if err != nil { return nil, fmt.Errorf("parse redis url: %w", err) }
    c := redis.NewClient(opt)
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    if err := c.Ping(ctx).Err(); err != nil {
        _ = c.Close()
        return nil, fmt.Errorf("redis ping: %w", err)
    }
    return NewRedisStatusFromClient(c), nil
}

// NewRedisStatusFromClient shares an existing connection (the queue uses the same Redis).
func NewRedisStatusFromClient(c *redis.Client) *RedisStatus {
    return &RedisStatus{client: c, keyNS: "form", ttl: 7 * 24 * time.Hour}
}

func (s *RedisStatus) key(formID uint) string { return fmt.Sprintf("%s:%d:pipeline", s.keyNS, formID) }

// Set overwrites the hash for formID. Missing start/end fields are cleared so a
// rerun does not inherit the previous run's end time.
func (s *RedisStatus) Set(ctx context.Context, formID uint, st PipelineStatus) error {
    m := map[string]interface{}{
        "stage":   st.Stage,
        "message": st.Message,
    }
    var clear []string
    if st.Start != nil { m["start"] = st.Start.Format(time.RFC3339Nano) } else { clear = append(clear, "start") }
    if st.End != nil { m["end"] = st.End.Format(time.RFC3339Nano) } else { clear = append(clear, "end") }
    if st.Metadata != nil {
        b, _ := json.Marshal(st.Metadata)
        m["metadata"] = string(b)
    } else {
        clear = append(clear, "metadata")
    }
    key := s.key(formID)
    pipe := s.client.TxPipeline()
    if len(clear) > 0 { pipe.HDel(ctx, key, clear...) }
    pipe.HSet(ctx, key, m)
    pipe.Expire(ctx, key, s.ttl)
    _, err := pipe.Exec(ctx)
    return err
}

func (s *RedisStatus) Get(ctx context.Context, formID uint) (PipelineStatus, bool, error) {
    res, err := s.client.HGetAll(ctx, s.key(formID)).Result()
    if err != nil { return PipelineStatus{}, false, err }
    if len(res) == 0 { return PipelineStatus{}, false, nil }
    st := PipelineStatus{Stage: res["stage"], Message: res["message"]}
    if v := res["start"]; v != "" {
        if t, err := time.Parse(time.RFC3339Nano, v); err == nil { st.Start = &t }
    }
    if v := res["end"]; v != "" {
        if t, err := time.Parse(time.RFC3339Nano, v); err == nil { st.End = &t }
    }
    if v := res["metadata"]; v != "" {
        _ = json.Unmarshal([]byte(v), &st.Metadata)
    }
    return st, true, nil
}

func (s *RedisStatus) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

func (s *RedisStatus) Close() error { return s.client.Close() }

// Client returns the underlying Redis client
func (s *RedisStatus) Client() *redis.Client { return s.client }
