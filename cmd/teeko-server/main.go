package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/app"
    "github.com/jaminalder/codex-teeko/internal/config"
    "github.com/jaminalder/codex-teeko/internal/logger"
    "github.com/jaminalder/codex-teeko/internal/web"
)

func main() {
    cfg := config.Load()
    logger.Init(cfg.LogLevel, cfg.LogFormat)
    log.Info().
        Int("depth", cfg.Depth).
        Bool("prune", cfg.Prune).
        Int("nodeBudget", cfg.NodeBudget).
        Dur("timeout", cfg.Timeout).
        Msg("Config loaded")

    svc := app.NewService(app.Settings{Search: cfg.SearchOptions(), Timeout: cfg.Timeout})
    srv := &http.Server{
        Addr:              ":" + cfg.Port,
        Handler:           web.NewServer(svc),
        ReadHeaderTimeout: 10 * time.Second,
    }

    go func() {
        log.Info().Str("port", cfg.Port).Msg("Server starting")
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatal().Err(err).Msg("Server failed")
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit
    log.Info().Msg("Shutting down server...")

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(ctx); err != nil {
        log.Error().Err(err).Msg("Server forced to shutdown")
    }
    log.Info().Msg("Server stopped")
}
