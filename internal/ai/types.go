package ai

import (
    "context"
    "errors"
    "time"

    "github.com/local/vibedoc/internal/metrics"
)

// ChatRequest is a single-turn system + user exchange.
type ChatRequest struct {
    Model       string
    System      string
    User        string
    Temperature float64
    JSON        bool // ask the provider for a JSON object response
    MaxTokens   int
}

type ChatResponse struct {
    Text      string
    TokensIn  int
    TokensOut int
}

// Client interface for chat providers (OpenAI-compatible, Anthropic, Vertex).
type Client interface {
    Name() string
    Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

var (
    ErrRateLimited    = errors.New("rate_limited")
    ErrContentRefused = errors.New("content_refused")
)

func IsRateLimited(err error) bool    { return errors.Is(err, ErrRateLimited) }
func IsContentRefused(err error) bool { return errors.Is(err, ErrContentRefused) }

func observe(provider string, start time.Time, err error) {
    metrics.ObserveProvider(provider, "chat", metrics.Result(err), time.Since(start))
}
