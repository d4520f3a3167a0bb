package limiter

import (
    "context"
    "fmt"
    "strings"
    "sync"
    "time"

    redis "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/ai"
)

// Adaptive bounds in-flight chat calls per provider:model inside this process
// and shares a rate-limit cooldown across processes through Redis.
type Adaptive struct {
    rdb         *redis.Client // nil disables the shared cooldown
    maxInflight int
    baseBackoff time.Duration
    maxBackoff  time.Duration
    mu          sync.Mutex
    sem         map[string]chan struct{}
}

type Options struct {
    MaxInflight int
    BaseBackoff time.Duration
    MaxBackoff  time.Duration
}

func New(rdb *redis.Client, opts Options) *Adaptive {
    if opts.MaxInflight <= 0 { opts.MaxInflight = 4 }
    if opts.BaseBackoff <= 0 { opts.BaseBackoff = 30 * time.Second }
    if opts.MaxBackoff <= 0 { opts.MaxBackoff = 5 * time.Minute }
    return &Adaptive{rdb: rdb, maxInflight: opts.MaxInflight, baseBackoff: opts.BaseBackoff, maxBackoff: opts.MaxBackoff, sem: map[string]chan struct{}{}}
}

func (a *Adaptive) key(provider, model string) string {
    return fmt.Sprintf("cb:%s:%s", strings.ToLower(provider), strings.ToLower(model))
}

// IsOpen reports whether a cooldown is active for provider/model.
func (a *Adaptive) IsOpen(ctx context.Context, provider, model string) bool {
    if a.rdb == nil { return false }
    ts, err := a.rdb.Get(ctx, a.key(provider, model)).Int64()
    if err != nil { return false }
    return time.Now().Unix() < ts
}

// Open starts or extends the cooldown. Each consecutive call doubles it up to maxBackoff.
func (a *Adaptive) Open(ctx context.Context, provider, model string) time.Duration {
    if a.rdb == nil { return 0 }
    k := a.key(provider, model)
    attempts, _ := a.rdb.Incr(ctx, k+":attempts").Result()
    if attempts < 1 { attempts = 1 }
    d := a.maxBackoff
    if attempts < 16 {
        d = a.baseBackoff * time.Duration(int64(1)<<(attempts-1))
        if d > a.maxBackoff { d = a.maxBackoff }
    }
    until := time.Now().Add(d).Unix()
    _ = a.rdb.Set(ctx, k, until, d).Err()
    _ = a.rdb.Expire(ctx, k+":attempts", a.maxBackoff*2).Err()
    return d
}

// Reset clears the cooldown and its attempt counter.
func (a *Adaptive) Reset(ctx context.Context, provider, model string) {
    if a.rdb == nil { return }
    k := a.key(provider, model)
    _ = a.rdb.Del(ctx, k, k+":attempts").Err()
}

// Acquire waits for an in-process slot for provider:model.
func (a *Adaptive) Acquire(ctx context.Context, provider, model string) (func(), error) {
    key := strings.ToLower(provider) + ":" + strings.ToLower(model)
    a.mu.Lock()
    ch, ok := a.sem[key]
    if !ok {
        ch = make(chan struct{}, a.maxInflight)
        a.sem[key] = ch
    }
    a.mu.Unlock()
    select {
    case ch <- struct{}{}:
        return func() { <-ch }, nil
    case <-ctx.Done():
        return nil, ctx.Err()
    }
}

// Guarded is an ai.Client that goes through an Adaptive limiter.
type Guarded struct {
    next ai.Client
    lim  *Adaptive
}

func Guard(next ai.Client, lim *Adaptive) *Guarded {
    return &Guarded{next: next, lim: lim}
}

func (g *Guarded) Name() string { return g.next.Name() }

// Chat fails fast while a cooldown is open; a rate-limited answer opens one.
func (g *Guarded) Chat(ctx context.Context, req ai.ChatRequest) (ai.ChatResponse, error) {
    provider := g.next.Name()
    if g.lim.IsOpen(ctx, provider, req.Model) {
        return ai.ChatResponse{}, fmt.Errorf("%s/%s cooling down: %w", provider, req.Model, ai.ErrRateLimited)
    }
    release, err := g.lim.Acquire(ctx, provider, req.Model)
    if err != nil { return ai.ChatResponse{}, err }
    defer release()

    resp, err := g.next.Chat(ctx, req)
    switch {
    case ai.IsRateLimited(err):
        d := g.lim.Open(context.WithoutCancel(ctx), provider, req.Model)
        log.Warn().Str("provider", provider).Str("model", req.Model).Dur("cooldown", d).Msg("rate limited; cooling down")
    case err == nil:
        g.lim.Reset(ctx, provider, req.Model)
    }
    return resp, err
}
