package web

import (
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"
    "time"

    "github.com/gorilla/websocket"

    "github.com/jaminalder/codex-teeko/internal/app"
    "github.com/jaminalder/codex-teeko/internal/domain"
    "github.com/jaminalder/codex-teeko/internal/engine"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
    t.Helper()
    s := app.NewService(app.Settings{Search: engine.Options{Depth: 1}})
    h := NewServer(s)
    return s, h
}

func postForm(h http.Handler, path string, form url.Values, playerID string) *httptest.ResponseRecorder {
    req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    if playerID != "" {
        req.AddCookie(&http.Cookie{Name: "player_id", Value: playerID})
    }
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    return rr
}

func TestIndexPage(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
        t.Fatalf("index should contain create form; got body: %q", body)
    }
}

func TestCreateRedirectsToGame(t *testing.T) {
    svc, h := newTestServer(t)
    rr := postForm(h, "/game", url.Values{"agent": {"black"}}, "")
    if rr.Code != http.StatusSeeOther {
        t.Fatalf("expected redirect, got %d", rr.Code)
    }
    loc := rr.Result().Header.Get("Location")
    if !strings.HasPrefix(loc, "/game/") {
        t.Fatalf("expected redirect to /game/{id}, got %q", loc)
    }
    gs, ok := svc.Get(strings.TrimPrefix(loc, "/game/"))
    if !ok || gs.AgentSide != domain.Black || gs.Game.Moves != 1 {
        t.Fatalf("expected a game where the agent opened as black")
    }
}

func TestGamePageSetsCookieAndAutoClaims(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(context.Background(), domain.Red)

    req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    var playerID string
    for _, c := range rr.Result().Cookies() {
        if c.Name == "player_id" {
            playerID = c.Value
            break
        }
    }
    if playerID == "" {
        t.Fatalf("expected player_id cookie to be set")
    }
    latest, ok := svc.Get(gs.ID)
    if !ok || latest.Human != playerID {
        t.Fatalf("expected auto-claim of the human seat; have %q pid=%q", latest.Human, playerID)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+gs.ID+"/events") {
        t.Fatalf("expected SSE wiring in page; got body: %q", body)
    }
    if strings.Count(body, "name=\"r\"") != 25 {
        t.Fatalf("expected a 5x5 grid of cells")
    }
}

func TestJoinEndpointReturnsBoardFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(context.Background(), domain.Red)
    rr := postForm(h, "/game/"+gs.ID+"/join", url.Values{}, "p2")
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.Contains(rr.Body.String(), "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Human != "p2" {
        t.Fatalf("expected seat for p2, got %q", latest.Human)
    }
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(context.Background(), domain.Red)
    svc.Join(gs.ID, "p1")

    rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"r": {"2"}, "c": {"2"}}, "p1")
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.Contains(rr.Body.String(), "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Game.Moves != 2 || latest.Game.Board.At(2, 2) != domain.Black {
        t.Fatalf("expected human move and agent reply, moves=%d", latest.Game.Moves)
    }
}

func TestPlayEndpointShowsValidationErrors(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(context.Background(), domain.Red)
    svc.Join(gs.ID, "p1")

    cases := []struct {
        form url.Values
        pid  string
        want string
    }{
        {url.Values{"r": {"7"}, "c": {"0"}}, "p1", "Out of bounds"},
        {url.Values{"r": {"0"}, "c": {"0"}, "from": {"A1"}}, "p1", "No source during the drop phase"},
        {url.Values{"r": {"0"}, "c": {"0"}, "from": {"Z9"}}, "p1", "Source must look like B3"},
        {url.Values{"r": {"0"}, "c": {"0"}}, "intruder", "You are a spectator"},
    }
    for _, tc := range cases {
        rr := postForm(h, "/game/"+gs.ID+"/play", tc.form, tc.pid)
        if rr.Code != http.StatusOK {
            t.Fatalf("%v: expected 200, got %d", tc.form, rr.Code)
        }
        if !strings.Contains(rr.Body.String(), tc.want) {
            t.Fatalf("%v: expected %q in body, got %q", tc.form, tc.want, rr.Body.String())
        }
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Game.Moves != 0 {
        t.Fatalf("invalid moves must not be applied, moves=%d", latest.Game.Moves)
    }
}

func TestPlayUnknownGame(t *testing.T) {
    _, h := newTestServer(t)
    rr := postForm(h, "/game/nope/play", url.Values{"r": {"0"}, "c": {"0"}}, "p1")
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rr.Code)
    }
}

func TestStateEndpointReturnsJSON(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(context.Background(), domain.Black)

    req := httptest.NewRequest("GET", "/game/"+gs.ID+"/state", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    var v stateView
    if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if v.ID != gs.ID || v.AgentSide != "b" || v.Moves != 1 || v.Phase != "drop" || v.LastMove == nil {
        t.Fatalf("unexpected state view: %+v", v)
    }
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
    _, h := newTestServer(t)
    rrCreate := postForm(h, "/game", url.Values{}, "")
    loc := rrCreate.Result().Header.Get("Location")
    if loc == "" {
        t.Fatalf("missing redirect location")
    }
    req := httptest.NewRequest("GET", loc+"/events", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    ct := rr.Result().Header.Get("Content-Type")
    if !strings.HasPrefix(ct, "text/event-stream") {
        io.Copy(io.Discard, rr.Result().Body)
        t.Fatalf("expected text/event-stream, got %q", ct)
    }
}

func TestWebsocketStreamsSnapshots(t *testing.T) {
    svc, h := newTestServer(t)
    srv := httptest.NewServer(h)
    defer srv.Close()

    gs, _ := svc.CreateGame(context.Background(), domain.Red)
    svc.Join(gs.ID, "p1")

    wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gs.ID + "/ws"
    conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
    if err != nil {
        t.Fatalf("dial: %v", err)
    }
    defer conn.Close()
    conn.SetReadDeadline(time.Now().Add(5 * time.Second))

    var first stateView
    if err := conn.ReadJSON(&first); err != nil {
        t.Fatalf("read initial snapshot: %v", err)
    }
    if first.Moves != 0 || first.HumanSide != "b" {
        t.Fatalf("unexpected initial snapshot: %+v", first)
    }

    if _, err := svc.Play(context.Background(), gs.ID, "p1", domain.Drop(0, 0)); err != nil {
        t.Fatalf("play: %v", err)
    }
    for want := 1; want <= 2; want++ {
        var v stateView
        if err := conn.ReadJSON(&v); err != nil {
            t.Fatalf("read snapshot %d: %v", want, err)
        }
        if v.Moves != want {
            t.Fatalf("expected snapshot after %d moves, got %d", want, v.Moves)
        }
    }
}
