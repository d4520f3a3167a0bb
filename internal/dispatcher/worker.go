package dispatcher

import (
    "context"
    "fmt"
    "os"
    "sync"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/local/vibedoc/internal/metrics"
    "github.com/local/vibedoc/internal/models"
    "github.com/local/vibedoc/internal/queue"
)

type Queue interface {
    Dequeue(ctx context.Context, consumer string, timeout time.Duration) (string, *queue.Job, error)
    Ack(ctx context.Context, msgID string) error
    AddDLQ(ctx context.Context, formID uint, reason string) error
    Reclaim(ctx context.Context, consumer string, minIdle time.Duration) (int, error)
    Depths(ctx context.Context) (int64, int64, error)
}

// Runner executes the enrichment pipeline for one form.
type Runner interface {
    Enrich(ctx context.Context, formID uint) ([]models.Input, error)
}

type Config struct {
    Concurrency  int
    PollInterval time.Duration
    // ReclaimIdle is how long an entry may stay unacknowledged before it is
    // treated as abandoned by a dead consumer.
    ReclaimIdle time.Duration
}

// Worker consumes enrichment jobs. Each job runs once; failures are parked on
// the dead-letter stream and the form stays without inputs until reprocessed.
type Worker struct {
    cfg    Config
    q      Queue
    run    Runner
    host   string
    ctx    context.Context
    cancel context.CancelFunc
    wg     sync.WaitGroup
}

func New(cfg Config, q Queue, run Runner) *Worker {
    if cfg.Concurrency <= 0 { cfg.Concurrency = 2 }
    if cfg.PollInterval <= 0 { cfg.PollInterval = 2 * time.Second }
    if cfg.ReclaimIdle <= 0 { cfg.ReclaimIdle = 15 * time.Minute }
    host, _ := os.Hostname()
    if host == "" { host = "worker" }
    ctx, cancel := context.WithCancel(context.Background())
    return &Worker{cfg: cfg, q: q, run: run, host: host, ctx: ctx, cancel: cancel}
}

func (w *Worker) Start() {
    for i := 0; i < w.cfg.Concurrency; i++ {
        w.wg.Add(1)
        go w.loop(i)
    }
    w.wg.Add(2)
    go w.reportDepth()
    go w.reclaim()
}

// Stop stops dequeuing and waits for in-flight jobs or ctx, whichever ends first.
func (w *Worker) Stop(ctx context.Context) error {
    w.cancel()
    done := make(chan struct{})
    go func() { w.wg.Wait(); close(done) }()
    select {
    case <-done:
        return nil
    case <-ctx.Done():
        return ctx.Err()
    }
}

func (w *Worker) loop(id int) {
    defer w.wg.Done()
    consumer := fmt.Sprintf("%s-%d", w.host, id)
    log.Info().Int("worker", id).Str("consumer", consumer).Msg("enrichment worker started")
    for {
        if w.ctx.Err() != nil {
            log.Info().Int("worker", id).Msg("enrichment worker stopped")
            return
        }
        msgID, job, err := w.q.Dequeue(w.ctx, consumer, w.cfg.PollInterval)
        if err != nil {
            if w.ctx.Err() != nil { continue }
            log.Error().Err(err).Str("msg_id", msgID).Msg("queue dequeue error")
            if msgID != "" { _ = w.q.Ack(context.Background(), msgID) }
            time.Sleep(500 * time.Millisecond)
            continue
        }
        if job == nil { continue }
        w.process(id, msgID, job)
    }
}

// process runs one job to completion even if Stop is called meanwhile.
func (w *Worker) process(id int, msgID string, job *queue.Job) {
    ctx := context.WithoutCancel(w.ctx)
    l := log.With().Int("worker", id).Uint("form_id", job.FormID).Str("msg_id", msgID).Logger()
    l.Info().Dur("waited", time.Since(job.EnqueuedAt)).Msg("processing form")

    inputs, err := w.run.Enrich(ctx, job.FormID)
    if err != nil {
        class := classify(err)
        l.Error().Err(err).Str("class", class).Msg("enrichment job failed")
        if dlqErr := w.q.AddDLQ(ctx, job.FormID, class+": "+err.Error()); dlqErr != nil {
            l.Warn().Err(dlqErr).Msg("dlq write failed")
        }
    } else {
        l.Info().Int("inputs", len(inputs)).Msg("enrichment job done")
    }
    if err := w.q.Ack(ctx, msgID); err != nil {
        l.Warn().Err(err).Msg("ack failed")
    }
}

func (w *Worker) reportDepth() {
    defer w.wg.Done()
    ticker := time.NewTicker(15 * time.Second)
    defer ticker.Stop()
    for {
        select {
        case <-w.ctx.Done():
            return
        case <-ticker.C:
            ctx, cancel := context.WithTimeout(w.ctx, 2*time.Second)
            stream, dlq, err := w.q.Depths(ctx)
            cancel()
            if err != nil { continue }
            metrics.SetQueueDepth("stream", stream)
            metrics.SetQueueDepth("dlq", dlq)
        }
    }
}

// reclaim parks entries left pending by consumers that died mid-job.
func (w *Worker) reclaim() {
    defer w.wg.Done()
    consumer := w.host + "-reclaim"
    ticker := time.NewTicker(max(w.cfg.ReclaimIdle/2, time.Millisecond))
    defer ticker.Stop()
    for {
        ctx, cancel := context.WithTimeout(w.ctx, 10*time.Second)
        n, err := w.q.Reclaim(ctx, consumer, w.cfg.ReclaimIdle)
        cancel()
        switch {
        case err != nil && w.ctx.Err() == nil:
            log.Warn().Err(err).Msg("reclaim pending jobs failed")
        case n > 0:
            log.Warn().Int("jobs", n).Dur("idle", w.cfg.ReclaimIdle).Msg("abandoned jobs parked on dlq")
        }
        select {
        case <-w.ctx.Done():
            return
        case <-ticker.C:
        }
    }
}
