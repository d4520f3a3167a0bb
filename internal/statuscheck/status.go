package statuscheck

import (
    "context"
    "errors"
    "strings"
    "time"
)

// Pinger models the minimal capability we need from a dependency.
type Pinger interface {
    Ping(ctx context.Context) error
}

// Checker aggregates readiness checks for the service's external dependencies.
type Checker struct {
    database   Pinger
    redis      Pinger
    storage    Pinger
    pdfco      Pinger
    llmEngine  string
    llmKey     string
    needsRedis bool
}

// Options configures the Checker. A nil Redis is fine unless RequireRedis is set.
type Options struct {
    Database     Pinger
    Redis        Pinger
    Storage      Pinger
    PDFCo        Pinger
    LLMEngine    string
    LLMKey       string
    RequireRedis bool
}

// Status represents the readiness of a subsystem.
type Status struct {
    OK      bool   `json:"ok"`
    Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
    Ready    bool   `json:"ready"`
    Database Status `json:"database"`
    Redis    Status `json:"redis"`
    Storage  Status `json:"storage"`
    PDFCo    Status `json:"pdfco"`
    LLM      Status `json:"llm"`
}

func New(opts Options) *Checker {
    return &Checker{
        database:   opts.Database,
        redis:      opts.Redis,
        storage:    opts.Storage,
        pdfco:      opts.PDFCo,
        llmEngine:  opts.LLMEngine,
        llmKey:     strings.TrimSpace(opts.LLMKey),
        needsRedis: opts.RequireRedis,
    }
}

// Summary returns the current status snapshot. Ready is false when the
// database, storage or a required Redis is down.
func (c *Checker) Summary(ctx context.Context) Summary {
    s := Summary{
        Database: ping(ctx, c.database, 2*time.Second),
        Storage:  ping(ctx, c.storage, 5*time.Second),
        PDFCo:    ping(ctx, c.pdfco, time.Second),
        LLM:      c.checkLLM(),
    }
    if c.redis == nil && !c.needsRedis {
        s.Redis = Status{OK: true, Message: "Not used"}
    } else {
        s.Redis = ping(ctx, c.redis, 2*time.Second)
    }
    s.Ready = s.Database.OK && s.Storage.OK && s.Redis.OK
    return s
}

func ping(ctx context.Context, p Pinger, timeout time.Duration) Status {
    if p == nil {
        return Status{OK: false, Message: "client unavailable"}
    }
    ctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()
    if err := p.Ping(ctx); err != nil {
        return Status{OK: false, Message: trimError(err)}
    }
    return Status{OK: true, Message: "Connected"}
}

// checkLLM only looks for credentials; a live call would spend tokens.
func (c *Checker) checkLLM() Status {
    if c.llmEngine == "vertex" {
        return Status{OK: true, Message: "Application default credentials"}
    }
    if c.llmKey == "" {
        return Status{OK: false, Message: "API key missing"}
    }
    return Status{OK: true, Message: "Configured (" + c.llmEngine + ")"}
}

func trimError(err error) string {
    if err == nil {
        return ""
    }
    var netErr interface{ Timeout() bool }
    if errors.As(err, &netErr) && netErr.Timeout() {
        return "timeout"
    }
    if errors.Is(err, context.DeadlineExceeded) {
        return "timeout"
    }
    msg := err.Error()
    if len(msg) > 120 {
        return msg[:120]
    }
    return msg
}
