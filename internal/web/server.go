package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/app"
)

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service) http.Handler {
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(requestLogger)
    r.Use(middleware.Recoverer)

    h := &handlers{svc: s, tpl: loadTemplates()}
    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Get("/state", h.state)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}

// requestLogger logs each request with its id, status and duration.
func requestLogger(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
        next.ServeHTTP(ww, r)
        log.Info().
            Str("requestId", middleware.GetReqID(r.Context())).
            Str("method", r.Method).
            Str("path", r.URL.Path).
            Int("status", ww.Status()).
            Dur("duration", time.Since(start)).
            Msg("Request completed")
    })
}
