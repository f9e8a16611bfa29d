package config

import (
    "os"
    "strconv"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/engine"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
    Port       string
    LogLevel   string
    LogFormat  string
    Depth      int
    Prune      bool
    NodeBudget int
    Timeout    time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
    return &Config{
        Port:       envOrDefault("PORT", "8080"),
        LogLevel:   envOrDefault("LOG_LEVEL", "info"),
        LogFormat:  envOrDefault("LOG_FORMAT", "console"),
        Depth:      envInt("SEARCH_DEPTH", engine.DefaultDepth),
        Prune:      envBool("SEARCH_PRUNE", true),
        NodeBudget: envInt("SEARCH_NODE_BUDGET", 0),
        Timeout:    envDuration("SEARCH_TIMEOUT", 0),
    }
}

// SearchOptions returns the engine settings described by c.
func (c *Config) SearchOptions() engine.Options {
    return engine.Options{Depth: c.Depth, Prune: c.Prune, NodeBudget: c.NodeBudget}
}

func envOrDefault(key, fallback string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return fallback
}

func envInt(key string, fallback int) int {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    n, err := strconv.Atoi(v)
    if err != nil || n < 0 {
        log.Warn().Str("key", key).Str("value", v).Msg("Ignoring invalid integer setting")
        return fallback
    }
    return n
}

func envBool(key string, fallback bool) bool {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    b, err := strconv.ParseBool(v)
    if err != nil {
        log.Warn().Str("key", key).Str("value", v).Msg("Ignoring invalid boolean setting")
        return fallback
    }
    return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return fallback
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        log.Warn().Str("key", key).Str("value", v).Msg("Ignoring invalid duration setting")
        return fallback
    }
    return d
}
