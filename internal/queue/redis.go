package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "strings"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// Job is the payload of one enrichment request.
type Job struct {
    FormID     uint      `json:"form_id"`
    EnqueuedAt time.Time `json:"enqueued_at"`
}

// RedisQueue implements Redis Streams + consumer groups for enrichment jobs.
type RedisQueue struct {
    client    *redis.Client
    Stream    string
    Group     string
    DLQStream string
}

// NewRedisQueue connects to Redis and ensures stream & group.
func NewRedisQueue(redisURL, stream, group string) (*RedisQueue, error) {
    opt, err := redis.ParseURL(redisURL)
    if err != nil {
        return nil, fmt.Errorf("parse redis url: %w", err)
    }
    c := redis.NewClient(opt)
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    if err := c.Ping(ctx).Err(); err != nil {
        _ = c.Close()
        return nil, fmt.Errorf("redis ping: %w", err)
    }
    return NewRedisQueueFromClient(ctx, c, stream, group)
}

func NewRedisQueueFromClient(ctx context.Context, c *redis.Client, stream, group string) (*RedisQueue, error) {
    q := &RedisQueue{
        client:    c,
        Stream:    stream,
        Group:     group,
        DLQStream: stream + ":dlq",
    }
    // MKSTREAM creates the stream if missing
    if err := c.XGroupCreateMkStream(ctx, stream, group, "$").Err(); err != nil && !isBusyGroupErr(err) {
        return nil, fmt.Errorf("xgroup create: %w", err)
    }
    return q, nil
}

func isBusyGroupErr(err error) bool {
    if err == nil { return false }
    // go-redis may return a generic error string from Redis
    return strings.Contains(strings.ToUpper(err.Error()), "BUSYGROUP")
}

func (q *RedisQueue) Close() error { return q.client.Close() }

// Client returns the underlying Redis client so the stage tracker can share it.
func (q *RedisQueue) Client() *redis.Client { return q.client }

// Ping checks redis connectivity.
func (q *RedisQueue) Ping(ctx context.Context) error { return q.client.Ping(ctx).Err() }

// EnqueueForm adds an enrichment job as a single-field entry {data: <json>}.
func (q *RedisQueue) EnqueueForm(ctx context.Context, formID uint) error {
    b, err := json.Marshal(Job{FormID: formID, EnqueuedAt: time.Now().UTC()})
    if err != nil { return err }
    return q.client.XAdd(ctx, &redis.XAddArgs{
        Stream: q.Stream,
        Values: map[string]any{"data": string(b)},
    }).Err()
}

// Dequeue blocks up to timeout for one message. A nil job with nil error means nothing arrived.
// The message stays pending until Ack.
func (q *RedisQueue) Dequeue(ctx context.Context, consumer string, timeout time.Duration) (string, *Job, error) {
    res, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
        Group:    q.Group,
        Consumer: consumer,
        Streams:  []string{q.Stream, ">"},
        Count:    1,
        Block:    timeout,
    }).Result()
    if err != nil {
        if errors.Is(err, redis.Nil) { return "", nil, nil }
        return "", nil, err
    }
    if len(res) == 0 || len(res[0].Messages) == 0 { return "", nil, nil }
    msg := res[0].Messages[0]
    job, err := decodeJob(msg)
    if err != nil { return msg.ID, nil, err }
    return msg.ID, job, nil
}

func decodeJob(msg redis.XMessage) (*Job, error) {
    var raw []byte
    switch t := msg.Values["data"].(type) {
    case string:
        raw = []byte(t)
    case []byte:
        raw = t
    }
    var job Job
    if err := json.Unmarshal(raw, &job); err != nil || job.FormID == 0 {
        return nil, fmt.Errorf("malformed job %s: %q", msg.ID, string(raw))
    }
    return &job, nil
}

// Reclaim takes over entries that stayed pending longer than minIdle, which
// means the consumer that read them died before Ack. Jobs run once, so each
// is parked on the dead-letter stream and acknowledged rather than rerun.
// It returns the number of entries reclaimed.
func (q *RedisQueue) Reclaim(ctx context.Context, consumer string, minIdle time.Duration) (int, error) {
    n := 0
    start := "0-0"
    for {
        msgs, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
            Stream:   q.Stream,
            Group:    q.Group,
            Consumer: consumer,
            MinIdle:  minIdle,
            Start:    start,
            Count:    50,
        }).Result()
        if err != nil { return n, fmt.Errorf("xautoclaim: %w", err) }
        for _, msg := range msgs {
            if job, err := decodeJob(msg); err == nil {
                if err := q.AddDLQ(ctx, job.FormID, "abandoned: not acknowledged within "+minIdle.String()); err != nil {
                    return n, err
                }
            }
            if err := q.Ack(ctx, msg.ID); err != nil { return n, err }
            n++
        }
        if next == "" || next == "0-0" { return n, nil }
        start = next
    }
}

// Ack marks a message as processed.
func (q *RedisQueue) Ack(ctx context.Context, msgID string) error {
    if msgID == "" { return nil }
    return q.client.XAck(ctx, q.Stream, q.Group, msgID).Err()
}

// AddDLQ records a failed job with its reason. Jobs are not retried automatically.
func (q *RedisQueue) AddDLQ(ctx context.Context, formID uint, reason string) error {
    return q.client.XAdd(ctx, &redis.XAddArgs{Stream: q.DLQStream, Values: map[string]any{"form_id": formID, "reason": reason}}).Err()
}

// Depths returns approximate stream and dlq lengths for metrics.
func (q *RedisQueue) Depths(ctx context.Context) (int64, int64, error) {
    pipe := q.client.Pipeline()
    xlen := pipe.XLen(ctx, q.Stream)
    dxlen := pipe.XLen(ctx, q.DLQStream)
    if _, err := pipe.Exec(ctx); err != nil { return 0, 0, err }
    return xlen.Val(), dxlen.Val(), nil
}
