package logger

import (
    "io"
    "os"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. format "json" writes structured
// lines; anything else uses the human-readable console writer.
func Init(level, format string) {
    InitWriter(os.Stderr, level, format)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level, format string) {
    lvl, err := zerolog.ParseLevel(level)
    if err != nil || lvl == zerolog.NoLevel {
        lvl = zerolog.InfoLevel
    }
    zerolog.SetGlobalLevel(lvl)
    zerolog.TimeFieldFormat = time.RFC3339

    if format == "json" {
        log.Logger = zerolog.New(w).With().Timestamp().Logger()
        return
    }
    log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
}
