package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/app"
    "github.com/jaminalder/codex-teeko/internal/domain"
)

type handlers struct {
    svc *app.Service
    tpl *templates
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardData(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func parseAgentSide(v string) domain.Cell {
    switch strings.ToLower(v) {
    case "black":
        return domain.Black
    case "red":
        return domain.Red
    default:
        return domain.Empty
    }
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    gs, err := h.svc.CreateGame(r.Context(), parseAgentSide(r.Form.Get("agent")))
    if err != nil {
        log.Error().Err(err).Msg("Failed to create game")
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    _, _, _ = h.svc.Join(id, pid)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.game, "", newBoardData(*gs, "")))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, ""))
}

// parseMove reads r, c and the optional from coordinate of the play form.
func parseMove(r *http.Request) (domain.Move, error) {
    ri, err := strconv.Atoi(r.Form.Get("r"))
    if err != nil {
        return domain.Move{}, domain.ErrOutOfBounds
    }
    ci, err := strconv.Atoi(r.Form.Get("c"))
    if err != nil {
        return domain.Move{}, domain.ErrOutOfBounds
    }
    m := domain.Drop(ri, ci)
    if from := r.Form.Get("from"); from != "" {
        p, err := domain.ParsePos(from)
        if err != nil {
            return domain.Move{}, err
        }
        m.From = &p
    }
    return m, nil
}

// errorMessage maps recoverable errors to what the player sees; the player retries.
func errorMessage(err error) string {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    case errors.Is(err, domain.ErrBadCoordinate):
        return "Source must look like B3"
    case errors.Is(err, domain.ErrSourceRequired):
        return "Enter the piece to move from"
    case errors.Is(err, domain.ErrUnexpectedSource):
        return "No source during the drop phase"
    case errors.Is(err, domain.ErrNotYourPiece):
        return "You don't have a piece there"
    case errors.Is(err, domain.ErrNotAdjacent):
        return "Can only move to an adjacent space"
    default:
        return "Invalid move"
    }
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()

    var gs *app.GameState
    m, err := parseMove(r)
    if err == nil {
        gs, err = h.svc.Play(r.Context(), id, pid, m)
    }
    var errMsg string
    if err != nil {
        if errors.Is(err, app.ErrNotFound) {
            http.NotFound(w, r)
            return
        }
        if !isRecoverable(err) {
            log.Error().Err(err).Str("gameId", id).Msg("Play failed")
            http.Error(w, "internal error", http.StatusInternalServerError)
            return
        }
        errMsg = errorMessage(err)
        if g, ok := h.svc.Get(id); ok {
            gs = g
        }
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, errMsg))
}

var recoverable = []error{
    app.ErrNotYourTurn, app.ErrNotAPlayer,
    domain.ErrOccupied, domain.ErrOutOfBounds, domain.ErrGameOver, domain.ErrBadCoordinate,
    domain.ErrSourceRequired, domain.ErrUnexpectedSource, domain.ErrNotYourPiece, domain.ErrNotAdjacent,
}

func isRecoverable(err error) bool {
    for _, target := range recoverable {
        if errors.Is(err, target) {
            return true
        }
    }
    return false
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(newStateView(*gs))
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case gs, ok := <-ch:
            if !ok { return }
            frag := strings.ReplaceAll(string(h.renderBoard(gs, "")), "\n", "")
            _, _ = fmt.Fprintf(w, "event: board\n")
            _, _ = fmt.Fprintf(w, "data: %s\n\n", frag)
            flusher.Flush()
        }
    }
}
