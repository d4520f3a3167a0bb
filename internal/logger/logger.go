package logger

import (
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
    lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "vibedoc"

// Options defines logger initialization parameters.
type Options struct {
    Level      string
    Pretty     bool
    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool

    // Axiom
    SendToAxiom  bool
    AxiomAPIKey  string
    AxiomOrgID   string
    AxiomDataset string
    AxiomFlush   time.Duration
}

var sink *axiomSink

// Init replaces the global zerolog logger. Output goes to stdout (console
// format when Pretty), to a rotated file when File is set, and to Axiom at
// info and above when enabled. An Axiom setup failure is reported on stderr
// and logging continues without it.
func Init(opts Options) error {
    writers := []io.Writer{stdout(opts.Pretty)}
    if opts.File != "" {
        w, err := rotatingFile(opts)
        if err != nil { return err }
        writers = append(writers, w)
    }
    if opts.SendToAxiom && opts.AxiomAPIKey != "" {
        s, err := newAxiomSink(opts.AxiomAPIKey, opts.AxiomOrgID, opts.AxiomDataset, opts.AxiomFlush)
        if err != nil {
            fmt.Fprintf(os.Stderr, "Axiom disabled: %v\n", err)
        } else {
            sink = s
            writers = append(writers, s)
        }
    }

    zerolog.TimeFieldFormat = time.RFC3339
    zerolog.DurationFieldUnit = time.Millisecond
    lvl, err := zerolog.ParseLevel(opts.Level)
    if err != nil || lvl == zerolog.NoLevel { lvl = zerolog.InfoLevel }

    log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
        Level(lvl).
        With().Timestamp().Str("service", serviceName).
        Logger()
    return nil
}

func stdout(pretty bool) io.Writer {
    if pretty { return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339} }
    return os.Stdout
}

func rotatingFile(opts Options) (io.Writer, error) {
    if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
        return nil, fmt.Errorf("create logs dir: %w", err)
    }
    return &lumberjack.Logger{
        Filename:   opts.File,
        MaxSize:    opts.MaxSizeMB,
        MaxBackups: opts.MaxBackups,
        MaxAge:     opts.MaxAgeDays,
        Compress:   opts.Compress,
    }, nil
}

// Close flushes the Axiom sink, if any.
func Close() {
    if sink != nil {
        _ = sink.Close()
        sink = nil
    }
}

// Get returns the global logger.
func Get() *zerolog.Logger { return &log.Logger }

// Component returns a child of the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
    return log.Logger.With().Str("component", name).Logger()
}
