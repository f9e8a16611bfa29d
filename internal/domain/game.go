package domain

import "errors"

// Game holds the current state of a Teeko match.
type Game struct {
    Board  Board
    Turn   Cell
    Winner Cell
    Over   bool
    Moves  int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds      = errors.New("out of bounds")
    ErrOccupied         = errors.New("cell occupied")
    ErrGameOver         = errors.New("game over")
    ErrNotYourPiece     = errors.New("no piece of yours at source")
    ErrNotAdjacent      = errors.New("can only move to an adjacent space")
    ErrSourceRequired   = errors.New("move phase requires a source cell")
    ErrUnexpectedSource = errors.New("drop phase does not take a source cell")
)

// New returns a new game with Black to move.
func New() Game {
    return Game{Turn: Black}
}

// Validate checks m for side against the current board without applying it.
func (g *Game) Validate(m Move, side Cell) error {
    if g.Over {
        return ErrGameOver
    }
    if !m.To.InBounds() {
        return ErrOutOfBounds
    }
    if g.Board.Phase() == DropPhase {
        if m.From != nil {
            return ErrUnexpectedSource
        }
    } else {
        if m.From == nil {
            return ErrSourceRequired
        }
        if !m.From.InBounds() {
            return ErrOutOfBounds
        }
        if g.Board[m.From.index()] != side {
            return ErrNotYourPiece
        }
        dr, dc := abs(m.To.Row-m.From.Row), abs(m.To.Col-m.From.Col)
        if dr > 1 || dc > 1 || (dr == 0 && dc == 0) {
            return ErrNotAdjacent
        }
    }
    if g.Board[m.To.index()] != Empty {
        return ErrOccupied
    }
    return nil
}

// Play validates and applies m for the side to move.
func (g *Game) Play(m Move) error {
    if err := g.Validate(m, g.Turn); err != nil {
        return err
    }
    g.Apply(m)
    return nil
}

// Apply commits m for the side to move. The move is assumed valid.
func (g *Game) Apply(m Move) {
    if m.From != nil {
        g.Board[m.From.index()] = Empty
    }
    g.Board[m.To.index()] = g.Turn
    g.Moves++

    if w := g.Board.Winner(); w != Empty {
        g.Winner = w
        g.Over = true
        return
    }
    g.Turn = g.Turn.Opponent()
}

func abs(v int) int {
    if v < 0 {
        return -v
    }
    return v
}
