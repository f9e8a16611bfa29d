package web

import (
    "context"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/app"
    "github.com/jaminalder/codex-teeko/internal/domain"
)

const (
    writeWait  = 10 * time.Second
    pongWait   = 60 * time.Second
    pingPeriod = 54 * time.Second // Must be less than pongWait
    maxMsgSize = 512
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
}

// moveView is the JSON form of a move, coordinates as "B3".
type moveView struct {
    To   string `json:"to"`
    From string `json:"from,omitempty"`
}

// stateView is the JSON snapshot pushed on the websocket and served by /state.
type stateView struct {
    ID        string       `json:"id"`
    Board     [5][5]string `json:"board"`
    Turn      string       `json:"turn"`
    Phase     string       `json:"phase"`
    Winner    string       `json:"winner,omitempty"`
    Over      bool         `json:"over"`
    Moves     int          `json:"moves"`
    HumanSide string       `json:"human"`
    AgentSide string       `json:"agent"`
    LastMove  *moveView    `json:"last_move,omitempty"`
}

func newStateView(gs app.GameState) stateView {
    v := stateView{
        ID:        gs.ID,
        Turn:      gs.Game.Turn.String(),
        Phase:     gs.Game.Board.Phase().String(),
        Over:      gs.Game.Over,
        Moves:     gs.Game.Moves,
        HumanSide: gs.HumanSide.String(),
        AgentSide: gs.AgentSide.String(),
    }
    if gs.Game.Winner != domain.Empty {
        v.Winner = gs.Game.Winner.String()
    }
    for r := 0; r < domain.Size; r++ {
        for c := 0; c < domain.Size; c++ {
            v.Board[r][c] = gs.Game.Board.At(r, c).String()
        }
    }
    if m := gs.LastMove; m != nil {
        v.LastMove = &moveView{To: m.To.String()}
        if m.From != nil {
            v.LastMove.From = m.From.String()
        }
    }
    return v
}

// ws streams JSON snapshots of one game until the client goes away.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Error().Err(err).Msg("WebSocket upgrade failed")
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        return
    }
    defer unsub()

    go readPump(conn, cancel)
    log.Info().Str("gameId", id).Msg("WebSocket client connected")

    ticker := time.NewTicker(pingPeriod)
    defer ticker.Stop()

    conn.SetWriteDeadline(time.Now().Add(writeWait))
    if err := conn.WriteJSON(newStateView(*gs)); err != nil {
        return
    }
    for {
        select {
        case <-ctx.Done():
            return
        case snap, ok := <-ch:
            conn.SetWriteDeadline(time.Now().Add(writeWait))
            if !ok {
                conn.WriteMessage(websocket.CloseMessage, []byte{})
                return
            }
            if err := conn.WriteJSON(newStateView(snap)); err != nil {
                return
            }
        case <-ticker.C:
            conn.SetWriteDeadline(time.Now().Add(writeWait))
            if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
                return
            }
        }
    }
}

// readPump discards client messages and cancels the stream once the peer is gone.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
    defer cancel()
    conn.SetReadLimit(maxMsgSize)
    conn.SetReadDeadline(time.Now().Add(pongWait))
    conn.SetPongHandler(func(string) error {
        conn.SetReadDeadline(time.Now().Add(pongWait))
        return nil
    })
    for {
        if _, _, err := conn.ReadMessage(); err != nil {
            if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
                log.Warn().Err(err).Msg("WebSocket unexpected close")
            }
            return
        }
    }
}
