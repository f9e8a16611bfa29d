package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "os/signal"
    "strings"

    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/config"
    "github.com/jaminalder/codex-teeko/internal/console"
    "github.com/jaminalder/codex-teeko/internal/domain"
    "github.com/jaminalder/codex-teeko/internal/engine"
    "github.com/jaminalder/codex-teeko/internal/logger"
)

func main() {
    cfg := config.Load()
    depth := flag.Int("depth", cfg.Depth, "search depth in plies")
    prune := flag.Bool("prune", cfg.Prune, "use alpha-beta pruning")
    side := flag.String("agent", "random", "colour the agent plays (black, red, random)")
    debug := flag.Bool("debug", false, "enable debug logging")
    flag.Parse()

    level := cfg.LogLevel
    if *debug {
        level = "debug"
    }
    logger.Init(level, "console")

    agentSide := engine.RandomSide()
    switch strings.ToLower(*side) {
    case "black":
        agentSide = domain.Black
    case "red":
        agentSide = domain.Red
    }
    opts := cfg.SearchOptions()
    opts.Depth, opts.Prune = *depth, *prune
    agent := engine.NewAgent(agentSide, opts)

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
    defer stop()

    fmt.Printf("Hello, the agent plays %s\n", agentSide)
    if err := console.NewLoop(os.Stdin, os.Stdout, agent).Run(ctx); err != nil {
        log.Fatal().Err(err).Msg("Game aborted")
    }
}
