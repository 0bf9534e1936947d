package main

import (
  "context"
  "errors"
  "net/http"
  "os"
  "os/signal"
  "syscall"
  "time"

  "github.com/prometheus/client_golang/prometheus"
  "github.com/prometheus/client_golang/prometheus/collectors"
  "github.com/rs/zerolog"
  "github.com/rs/zerolog/log"

  "tvinup/internal/config"
  "tvinup/internal/database"
  "tvinup/internal/email"
  "tvinup/internal/handlers"
  "tvinup/internal/tracing"
)

func main() {
  ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
  defer cancel()

  log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

  // Load configuration
  cfg, err := config.LoadConfig()
  if err != nil {
    log.Fatal().Err(err).Msg("failed to load config")
  }
  if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
    zerolog.SetGlobalLevel(level)
  }

  shutdownTracing, err := tracing.Init(ctx, "tvinup-landing")
  if err != nil {
    log.Fatal().Err(err).Msg("failed to initialize tracing")
  }

  // Initialize database
  db, err := database.New(cfg)
  if err != nil {
    log.Fatal().Err(err).Msg("failed to connect to database")
  }
  defer db.Close()

  // Initialize database schema
  if err := db.InitDB(ctx); err != nil {
    log.Fatal().Err(err).Msg("failed to initialize database")
  }

  reg := prometheus.NewRegistry()
  reg.MustRegister(
    collectors.NewGoCollector(),
    collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
  )

  // Create handler with dependencies
  h, err := handlers.New(db, email.New(cfg), cfg, reg)
  if err != nil {
    log.Fatal().Err(err).Msg("failed to create handler")
  }

  srv := &http.Server{
    Addr:              cfg.Addr(),
    Handler:           h.Routes(),
    ReadHeaderTimeout: 10 * time.Second,
  }

  go func() {
    log.Info().Str("addr", srv.Addr).Msg("▶ starting server")
    if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
      log.Error().Err(err).Msg("server error")
      cancel()
    }
  }()

  <-ctx.Done()
  log.Info().Msg("shutting down server")

  shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer shutdownCancel()
  if err := srv.Shutdown(shutdownCtx); err != nil {
    log.Error().Err(err).Msg("server forced to shutdown")
  }
  if err := shutdownTracing(shutdownCtx); err != nil {
    log.Error().Err(err).Msg("failed to flush traces")
  }
}
