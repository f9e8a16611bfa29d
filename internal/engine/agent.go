package engine

import (
    "context"
    "errors"
    "fmt"
    "math/rand"

    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/domain"
)

// ErrNoMoves is returned when the agent has no legal action on the board.
var ErrNoMoves = errors.New("no legal moves")

// Agent plays one colour. Each agent owns its own settings; nothing is shared
// between instances.
type Agent struct {
    Side domain.Cell
    opts Options
}

// NewAgent returns an agent playing side.
func NewAgent(side domain.Cell, opts Options) *Agent {
    return &Agent{Side: side, opts: opts}
}

// RandomSide picks Black or Red with equal probability.
func RandomSide() domain.Cell {
    if rand.Intn(2) == 0 {
        return domain.Black
    }
    return domain.Red
}

// Options returns the search settings of the agent.
func (a *Agent) Options() Options { return a.opts }

// MakeMove searches b and returns the move the agent plays. b is not modified.
func (a *Agent) MakeMove(ctx context.Context, b domain.Board) (domain.Move, Result, error) {
    if err := b.Validate(); err != nil {
        return domain.Move{}, Result{}, err
    }
    if b.Winner() != domain.Empty {
        return domain.Move{}, Result{}, domain.ErrGameOver
    }
    if len(b.Successors(a.Side)) == 0 {
        return domain.Move{}, Result{}, ErrNoMoves
    }

    res := Search(ctx, b, a.Side, a.opts)
    m, err := Extract(b, res.Board)
    if err != nil {
        log.Error().Err(err).Str("side", a.Side.String()).Msg("Search returned an unusable successor")
        return domain.Move{}, res, fmt.Errorf("extract move: %w", err)
    }

    ev := log.Debug().
        Str("side", a.Side.String()).
        Str("phase", b.Phase().String()).
        Float64("value", res.Value).
        Int("nodes", res.Stats.Nodes).
        Int("leaves", res.Stats.Leaves).
        Int("terminals", res.Stats.Terminals).
        Int("cutoffs", res.Stats.Cutoffs).
        Bool("truncated", res.Stats.Truncated).
        Dur("elapsed", res.Stats.Elapsed).
        Interface("to", m.To)
    if m.From != nil {
        ev = ev.Interface("from", *m.From)
    }
    ev.Msg("Search complete")
    return m, res, nil
}
