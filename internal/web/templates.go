package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"

    "github.com/jaminalder/codex-teeko/internal/app"
    "github.com/jaminalder/codex-teeko/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(b domain.Board, r, c int) string {
            switch b.At(r, c) { case domain.Black: return "●"; case domain.Red: return "○"; default: return "" }
        },
        "colLetter": func(c int) string { return string(rune('A' + c)) },
        "sideName": func(c domain.Cell) string {
            switch c { case domain.Black: return "Black"; case domain.Red: return "Red"; default: return "" }
        },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Teeko</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Teeko</h1>
<form action="/game" method="post">
  <label>Agent plays
    <select name="agent">
      <option value="random">random</option>
      <option value="black">black (moves first)</option>
      <option value="red">red</option>
    </select>
  </label>
  <button>Create</button>
</form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">
    {{if .Over}}{{sideName .Winner}} wins.
    {{else}}{{sideName .Turn}} to move ({{.Phase}} phase). You are {{sideName .HumanSide}}.{{end}}
  </p>
  {{if eq .Phase "move"}}
  <label>Move from <input id="from" name="from" size="2" placeholder="B3"></label>
  {{end}}
  {{range $r := iter 5}}
  <div class="row">
    <span>{{$r}}</span>
    {{range $c := iter 5}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" hx-include="#from" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit">{{cellSymbol $.Board $r $c}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <div class="cols">{{range $c := iter 5}}<span>{{colLetter $c}}</span>{{end}}</div>
</div>
`

// boardData is the view model of the board fragment.
type boardData struct {
    ID        string
    Board     domain.Board
    Turn      domain.Cell
    Winner    domain.Cell
    Over      bool
    Phase     string
    HumanSide domain.Cell
    Error     string
}

func newBoardData(gs app.GameState, errMsg string) boardData {
    return boardData{
        ID:        gs.ID,
        Board:     gs.Game.Board,
        Turn:      gs.Game.Turn,
        Winner:    gs.Game.Winner,
        Over:      gs.Game.Over,
        Phase:     gs.Game.Board.Phase().String(),
        HumanSide: gs.HumanSide,
        Error:     errMsg,
    }
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}
