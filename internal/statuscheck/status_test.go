package statuscheck

import (
    "context"
    "errors"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var up = pingFunc(func(context.Context) error { return nil })

func TestSummaryReady(t *testing.T) {
    c := New(Options{Database: up, Storage: up, PDFCo: up, LLMEngine: "openai", LLMKey: "sk"})
    s := c.Summary(context.Background())
    assert.True(t, s.Ready)
    assert.Equal(t, "Not used", s.Redis.Message)
    assert.True(t, s.LLM.OK)
}

func TestSummaryNotReady(t *testing.T) {
    down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
    c := New(Options{Database: down, Storage: up, LLMEngine: "anthropic", RequireRedis: true})
    s := c.Summary(context.Background())
    assert.False(t, s.Ready)
    assert.Equal(t, "connection refused", s.Database.Message)
    assert.Equal(t, "client unavailable", s.Redis.Message)
    assert.Equal(t, "API key missing", s.LLM.Message)
    assert.False(t, s.PDFCo.OK)
}

func TestTrimError(t *testing.T) {
    assert.Equal(t, "timeout", trimError(context.DeadlineExceeded))
    assert.Len(t, trimError(errors.New(strings.Repeat("x", 300))), 120)
}
