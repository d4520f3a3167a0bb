package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/joho/godotenv"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"
    "github.com/spf13/pflag"

    _ "github.com/local/vibedoc/docs"
    "github.com/local/vibedoc/internal/ai"
    "github.com/local/vibedoc/internal/api/handlers"
    "github.com/local/vibedoc/internal/api/middleware"
    "github.com/local/vibedoc/internal/api/routes"
    cfgpkg "github.com/local/vibedoc/internal/config"
    "github.com/local/vibedoc/internal/dispatcher"
    "github.com/local/vibedoc/internal/fill"
    "github.com/local/vibedoc/internal/limiter"
    logpkg "github.com/local/vibedoc/internal/logger"
    "github.com/local/vibedoc/internal/metrics"
    "github.com/local/vibedoc/internal/orchestrator"
    "github.com/local/vibedoc/internal/pdf"
    "github.com/local/vibedoc/internal/pdfco"
    "github.com/local/vibedoc/internal/queue"
    "github.com/local/vibedoc/internal/repository"
    "github.com/local/vibedoc/internal/service"
    "github.com/local/vibedoc/internal/statuscheck"
    "github.com/local/vibedoc/internal/storage"
    "github.com/local/vibedoc/internal/store"
)

func main() {
    envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
    role := pflag.String("role", "all", "what to run: all, api or worker")
    migrateOnly := pflag.Bool("migrate", false, "migrate the database schema and exit")
    pflag.Parse()

    if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
        log.Warn().Err(err).Str("file", *envFile).Msg("could not load env file")
    }
    cfg := cfgpkg.FromEnv()

    _ = logpkg.Init(logpkg.Options{
        Level:        cfg.Logging.Level,
        Pretty:       cfg.Logging.Pretty,
        File:         cfg.Logging.File,
        MaxSizeMB:    cfg.Logging.MaxSizeMB,
        MaxBackups:   cfg.Logging.MaxBackups,
        MaxAgeDays:   cfg.Logging.MaxAgeDays,
        Compress:     cfg.Logging.Compress,
        SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey:  cfg.Axiom.APIKey,
        AxiomOrgID:   cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush:   cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()
    metrics.Init()

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    // Database
    db, err := repository.Open(cfg.Database.DSN, cfg.Database.AutoMigrate || *migrateOnly)
    if err != nil { log.Fatal().Err(err).Msg("failed to open database") }
    if *migrateOnly {
        log.Info().Msg("schema migrated")
        return
    }
    repos := repository.NewRepositories(db)

    // File storage
    files, err := storage.New(ctx, cfg.Storage)
    if err != nil { log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to init file storage") }

    // Remote PDF API and chat model
    pdfAPI := pdfco.New(cfg.PDFCo.BaseURL, cfg.PDFCo.APIKey, cfg.PDFCo.Timeout)
    llm, err := ai.New(ctx, cfg.LLM)
    if err != nil { log.Fatal().Err(err).Str("engine", cfg.LLM.Engine).Msg("failed to init LLM client") }

    var extractor pdf.TextExtractor
    var textSource orchestrator.TextSource = orchestrator.RemoteText{API: pdfAPI}
    if cfg.Pipeline.TextExtractor != "pdfco" {
        extractor, err = pdf.NewTextExtractor(cfg.Pipeline.TextExtractor)
        if err != nil { log.Fatal().Err(err).Msg("invalid TEXT_EXTRACTOR") }
        textSource = orchestrator.LocalText{Store: files, Extractor: extractor}
    }
    var fieldSource orchestrator.FieldFetcher = orchestrator.RemoteFields{API: pdfAPI}
    if cfg.Pipeline.FieldSource == "local" {
        fieldSource = orchestrator.LocalFields{Store: files}
    }

    // Queue and status store. Queue mode needs Redis; sync mode uses it for
    // stage tracking when it answers and falls back to memory otherwise.
    queued := cfg.Pipeline.Mode == "queue"
    var (
        rq     *queue.RedisQueue
        status orchestrator.StatusStore
        redisP statuscheck.Pinger
        rdb    *redis.Client
    )
    if queued {
        rq, err = queue.NewRedisQueue(cfg.Queue.RedisURL, cfg.Queue.Stream, cfg.Queue.Group)
        if err != nil { log.Fatal().Err(err).Msg("failed to connect to redis") }
        defer rq.Close()
        redisP, rdb = rq, rq.Client()
        status = orchestrator.NewStatusAdapter(store.NewRedisStatusFromClient(rdb))
    } else if rs, err := store.NewRedisStatus(cfg.Queue.RedisURL); err == nil {
        defer rs.Close()
        redisP, rdb = rs, rs.Client()
        status = orchestrator.NewStatusAdapter(rs)
    } else {
        log.Warn().Err(err).Msg("redis unavailable; pipeline status kept in memory")
    }

    guarded := limiter.Guard(llm, limiter.New(rdb, limiter.Options{MaxInflight: cfg.LLM.MaxInflight}))
    llmOpts := orchestrator.LLMOptions{Model: cfg.LLM.Model, Temperature: cfg.LLM.Temperature}
    deps := orchestrator.Dependencies{
        Projects:  repos.Project,
        Forms:     repos.Form,
        Inputs:    repos.Input,
        Documents: repos.Document,
        Fields:    fieldSource,
        Text:      textSource,
        Enricher:  orchestrator.NewEnricher(guarded, llmOpts),
        Suggester: orchestrator.NewSuggester(guarded, llmOpts),
        Status:    status,
    }
    if queued { deps.Queue = rq }
    orch := orchestrator.New(deps, orchestrator.Options{
        PublicBaseURL: cfg.Storage.PublicBaseURL,
        JobTimeout:    cfg.Pipeline.JobTimeout,
    })

    // Worker
    if queued && (*role == "all" || *role == "worker") {
        w := dispatcher.New(dispatcher.Config{
            Concurrency:  cfg.Pipeline.Concurrency,
            PollInterval: cfg.Queue.PollInterval,
            ReclaimIdle:  cfg.Queue.ReclaimIdle,
        }, rq, orch)
        w.Start()
        defer func() {
            sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
            defer cancel()
            if err := w.Stop(sctx); err != nil { log.Warn().Err(err).Msg("worker stop timed out") }
        }()
    }
    if *role == "worker" {
        if !queued { log.Fatal().Msg("role=worker requires PIPELINE_MODE=queue") }
        log.Info().Msg("worker running")
        <-ctx.Done()
        return
    }

    // HTTP API
    filler := fill.NewService(repos.Form,
        fill.NewLocal(files, pdf.PDFCPUFiller{}),
        fill.NewRemote(pdfAPI),
        cfg.Storage.PublicBaseURL)
    svcs := service.New(repos, files, orch)
    toolOpts := service.ToolOptions{Extractor: extractor}
    if extractor == nil { toolOpts.RemoteText = pdfAPI }
    if cfg.Pipeline.FieldSource != "local" { toolOpts.RemoteFlds = pdfAPI }
    svcs.Tools = service.NewToolService(toolOpts)

    llmKey := cfg.LLM.OpenAIKey
    if cfg.LLM.Engine == "anthropic" { llmKey = cfg.LLM.AnthropicKey }
    checker := statuscheck.New(statuscheck.Options{
        Database:     repos,
        Redis:        redisP,
        Storage:      files,
        PDFCo:        pdfAPI,
        LLMEngine:    cfg.LLM.Engine,
        LLMKey:       llmKey,
        RequireRedis: queued,
    })

    gin.SetMode(gin.ReleaseMode)
    r := gin.New()
    r.Use(gin.Recovery(), middleware.RequestLogger())
    routes.RegisterRoutes(r, handlers.New(svcs, filler, checker, handlers.Options{
        MaxUploadBytes: cfg.HTTP.MaxUploadMB << 20,
        Queued:         queued,
    }), routes.Options{
        JWTSecret:      cfg.HTTP.JWTSecret,
        AllowedOrigins: cfg.HTTP.AllowedOrigins,
    })

    srv := &http.Server{Addr: ":" + cfg.HTTP.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
    go func() {
        log.Info().Str("port", cfg.HTTP.Port).Str("mode", cfg.Pipeline.Mode).Str("llm", llm.Name()).Msg("HTTP server listening")
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    <-ctx.Done()
    sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(sctx); err != nil { log.Warn().Err(err).Msg("http shutdown") }
    log.Info().Msg("shutdown complete")
}
