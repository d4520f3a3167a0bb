package logger

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    "github.com/axiomhq/axiom-go/axiom"
    "github.com/axiomhq/axiom-go/axiom/ingest"
    "github.com/rs/zerolog"
)

const (
    axiomBatchSize  = 200
    axiomBufferSize = 1000
)

// ingester is the part of *axiom.Client the sink uses.
type ingester interface {
    IngestEvents(ctx context.Context, dataset string, events []axiom.Event, options ...ingest.Option) (*ingest.Status, error)
}

// axiomSink is a zerolog.LevelWriter that batches events for Axiom. Debug and
// trace lines are dropped; a full buffer drops events rather than block logging.
type axiomSink struct {
    client  ingester
    dataset string
    ch      chan axiom.Event
    done    chan struct{}
    wg      sync.WaitGroup
    once    sync.Once
}

func newAxiomSink(token, orgID, dataset string, flushEvery time.Duration) (*axiomSink, error) {
    opts := []axiom.Option{axiom.SetToken(token)}
    if orgID != "" { opts = append(opts, axiom.SetOrganizationID(orgID)) }
    c, err := axiom.NewClient(opts...)
    if err != nil { return nil, err }
    return startSink(c, dataset, flushEvery), nil
}

func startSink(c ingester, dataset string, flushEvery time.Duration) *axiomSink {
    if dataset == "" { dataset = "dev_" + serviceName }
    if flushEvery <= 0 { flushEvery = 10 * time.Second }
    s := &axiomSink{
        client:  c,
        dataset: dataset,
        ch:      make(chan axiom.Event, axiomBufferSize),
        done:    make(chan struct{}),
    }
    s.wg.Add(1)
    go s.run(flushEvery)
    return s
}

func (s *axiomSink) Write(p []byte) (int, error) {
    return s.WriteLevel(zerolog.InfoLevel, p)
}

func (s *axiomSink) WriteLevel(l zerolog.Level, p []byte) (int, error) {
    if l < zerolog.InfoLevel { return len(p), nil }
    ev := axiom.Event{}
    if err := json.Unmarshal(p, &ev); err != nil {
        ev = axiom.Event{"message": string(p), "level": l.String()}
    }
    if _, ok := ev[ingest.TimestampField]; !ok {
        ev[ingest.TimestampField] = time.Now()
    }
    select {
    case s.ch <- ev:
    default:
    }
    return len(p), nil
}

func (s *axiomSink) run(flushEvery time.Duration) {
    defer s.wg.Done()
    ticker := time.NewTicker(flushEvery)
    defer ticker.Stop()
    batch := make([]axiom.Event, 0, axiomBatchSize)
    flush := func() {
        if len(batch) == 0 { return }
        ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
        _, _ = s.client.IngestEvents(ctx, s.dataset, batch)
        cancel()
        batch = batch[:0]
    }
    for {
        select {
        case ev := <-s.ch:
            batch = append(batch, ev)
            if len(batch) >= axiomBatchSize { flush() }
        case <-ticker.C:
            flush()
        case <-s.done:
            for {
                select {
                case ev := <-s.ch:
                    batch = append(batch, ev)
                    if len(batch) >= axiomBatchSize { flush() }
                default:
                    flush()
                    return
                }
            }
        }
    }
}

// Close flushes buffered events and stops the sink.
func (s *axiomSink) Close() error {
    s.once.Do(func() { close(s.done) })
    s.wg.Wait()
    return nil
}
