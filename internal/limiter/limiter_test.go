package limiter

import (
    "context"
    "fmt"
    "sync"
    "sync/atomic"
    "testing"
    "time"

    redis "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "github.com/testcontainers/testcontainers-go"
    "github.com/testcontainers/testcontainers-go/wait"

    "github.com/local/vibedoc/internal/ai"
)

type slowClient struct {
    inflight atomic.Int32
    peak     atomic.Int32
    err      error
    calls    atomic.Int32
}

func (c *slowClient) Name() string { return "openai" }

func (c *slowClient) Chat(ctx context.Context, _ ai.ChatRequest) (ai.ChatResponse, error) {
    c.calls.Add(1)
    n := c.inflight.Add(1)
    defer c.inflight.Add(-1)
    for {
        p := c.peak.Load()
        if n <= p || c.peak.CompareAndSwap(p, n) { break }
    }
    time.Sleep(20 * time.Millisecond)
    if c.err != nil { return ai.ChatResponse{}, c.err }
    return ai.ChatResponse{Text: "{}"}, nil
}

func TestGuardBoundsInflight(t *testing.T) {
    next := &slowClient{}
    g := Guard(next, New(nil, Options{MaxInflight: 2}))

    var wg sync.WaitGroup
    for i := 0; i < 8; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            _, err := g.Chat(context.Background(), ai.ChatRequest{Model: "m"})
            assert.NoError(t, err)
        }()
    }
    wg.Wait()
    assert.Equal(t, int32(8), next.calls.Load())
    assert.LessOrEqual(t, next.peak.Load(), int32(2))
}

func TestAcquireHonoursContext(t *testing.T) {
    lim := New(nil, Options{MaxInflight: 1})
    release, err := lim.Acquire(context.Background(), "openai", "m")
    require.NoError(t, err)
    defer release()

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
    defer cancel()
    _, err = lim.Acquire(ctx, "openai", "m")
    assert.ErrorIs(t, err, context.DeadlineExceeded)
}

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

func TestCooldownIsShared(t *testing.T) {
    rdb := setupRedis(t)
    ctx := context.Background()
    next := &slowClient{err: fmt.Errorf("429: %w", ai.ErrRateLimited)}
    first := Guard(next, New(rdb, Options{BaseBackoff: time.Minute}))
    second := Guard(&slowClient{}, New(rdb, Options{}))

    _, err := first.Chat(ctx, ai.ChatRequest{Model: "m"})
    require.True(t, ai.IsRateLimited(err))

    // another process sharing Redis fails fast without calling its provider
    _, err = second.Chat(ctx, ai.ChatRequest{Model: "m"})
    assert.True(t, ai.IsRateLimited(err))
    assert.Contains(t, err.Error(), "cooling down")

    second.lim.Reset(ctx, "openai", "m")
    _, err = second.Chat(ctx, ai.ChatRequest{Model: "m"})
    assert.NoError(t, err)
}

func TestOpenDoublesUpToMax(t *testing.T) {
    rdb := setupRedis(t)
    ctx := context.Background()
    lim := New(rdb, Options{BaseBackoff: time.Second, MaxBackoff: 3 * time.Second})
    assert.Equal(t, time.Second, lim.Open(ctx, "p", "m"))
    assert.Equal(t, 2*time.Second, lim.Open(ctx, "p", "m"))
    assert.Equal(t, 3*time.Second, lim.Open(ctx, "p", "m"))
    assert.True(t, lim.IsOpen(ctx, "p", "m"))
    lim.Reset(ctx, "p", "m")
    assert.False(t, lim.IsOpen(ctx, "p", "m"))
}
