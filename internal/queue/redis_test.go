package queue

import (
    "context"
    "fmt"
    "testing"
    "time"

    redis "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "github.com/testcontainers/testcontainers-go"
    "github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
    t.Helper()
    if testing.Short() {
        t.Skip("integration test")
    }
    testcontainers.SkipIfProviderIsNotHealthy(t)
    ctx := context.Background()
    rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
        ContainerRequest: testcontainers.ContainerRequest{
            Image:        "redis:7-alpine",
            ExposedPorts: []string{"6379/tcp"},
            WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
        },
        Started: true,
    })
    if err != nil {
        t.Skipf("redis container unavailable: %v", err)
    }
    t.Cleanup(func() { _ = rc.Terminate(ctx) })
    host, err := rc.Host(ctx)
    require.NoError(t, err)
    port, err := rc.MappedPort(ctx, "6379")
    require.NoError(t, err)
    c := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
    t.Cleanup(func() { _ = c.Close() })
    return c
}

func TestRedisQueueRoundTrip(t *testing.T) {
    c := setupRedis(t)
    ctx := context.Background()
    q, err := NewRedisQueueFromClient(ctx, c, "jobs:forms:enrich", "workers:enrich")
    require.NoError(t, err)

    // a second constructor on the same group is fine
    _, err = NewRedisQueueFromClient(ctx, c, "jobs:forms:enrich", "workers:enrich")
    require.NoError(t, err)

    msgID, job, err := q.Dequeue(ctx, "w-0", 50*time.Millisecond)
    require.NoError(t, err)
    assert.Nil(t, job)
    assert.Empty(t, msgID)

    require.NoError(t, q.EnqueueForm(ctx, 42))
    msgID, job, err = q.Dequeue(ctx, "w-0", time.Second)
    require.NoError(t, err)
    require.NotNil(t, job)
    assert.Equal(t, uint(42), job.FormID)
    assert.False(t, job.EnqueuedAt.IsZero())

    pending, err := c.XPending(ctx, q.Stream, q.Group).Result()
    require.NoError(t, err)
    assert.Equal(t, int64(1), pending.Count)
    require.NoError(t, q.Ack(ctx, msgID))
    pending, err = c.XPending(ctx, q.Stream, q.Group).Result()
    require.NoError(t, err)
    assert.Equal(t, int64(0), pending.Count)

    require.NoError(t, q.AddDLQ(ctx, 42, "fatal: no fields"))
    stream, dlq, err := q.Depths(ctx)
    require.NoError(t, err)
    assert.Equal(t, int64(1), stream)
    assert.Equal(t, int64(1), dlq)

    entries, err := c.XRange(ctx, q.DLQStream, "-", "+").Result()
    require.NoError(t, err)
    require.Len(t, entries, 1)
    assert.Equal(t, "42", entries[0].Values["form_id"])
    assert.Equal(t, "fatal: no fields", entries[0].Values["reason"])
}

func TestRedisQueueMalformedJob(t *testing.T) {
    c := setupRedis(t)
    ctx := context.Background()
    q, err := NewRedisQueueFromClient(ctx, c, "jobs:test", "g")
    require.NoError(t, err)

    require.NoError(t, c.XAdd(ctx, &redis.XAddArgs{Stream: q.Stream, Values: map[string]any{"data": "not json"}}).Err())
    msgID, job, err := q.Dequeue(ctx, "w-0", time.Second)
    assert.Error(t, err)
    assert.Nil(t, job)
    assert.NotEmpty(t, msgID)
}

func TestRedisQueueReclaimParksAbandonedJobs(t *testing.T) {
    c := setupRedis(t)
    ctx := context.Background()
    q, err := NewRedisQueueFromClient(ctx, c, "jobs:reclaim", "g")
    require.NoError(t, err)

    require.NoError(t, q.EnqueueForm(ctx, 9))
    require.NoError(t, c.XAdd(ctx, &redis.XAddArgs{Stream: q.Stream, Values: map[string]any{"data": "not json"}}).Err())
    // a consumer reads both and dies without Ack
    _, job, err := q.Dequeue(ctx, "dead-0", time.Second)
    require.NoError(t, err)
    require.NotNil(t, job)
    _, _, err = q.Dequeue(ctx, "dead-0", time.Second)
    require.Error(t, err)

    // nothing is idle long enough yet
    n, err := q.Reclaim(ctx, "w-reclaim", time.Hour)
    require.NoError(t, err)
    assert.Zero(t, n)

    time.Sleep(60 * time.Millisecond)
    n, err = q.Reclaim(ctx, "w-reclaim", 50*time.Millisecond)
    require.NoError(t, err)
    assert.Equal(t, 2, n)

    pending, err := c.XPending(ctx, q.Stream, q.Group).Result()
    require.NoError(t, err)
    assert.Equal(t, int64(0), pending.Count)

    entries, err := c.XRange(ctx, q.DLQStream, "-", "+").Result()
    require.NoError(t, err)
    require.Len(t, entries, 1)
    assert.Equal(t, "9", entries[0].Values["form_id"])
    assert.Equal(t, "abandoned: not acknowledged within 50ms", entries[0].Values["reason"])

    // the group moves on to new work
    require.NoError(t, q.EnqueueForm(ctx, 10))
    _, job, err = q.Dequeue(ctx, "w-0", time.Second)
    require.NoError(t, err)
    require.NotNil(t, job)
    assert.Equal(t, uint(10), job.FormID)
}
