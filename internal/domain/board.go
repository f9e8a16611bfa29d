package domain

import "errors"

// Size is the board edge length.
const Size = 5

// PiecesPerSide is the number of markers each side places before sliding.
const PiecesPerSide = 4

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    Black
    Red
)

// Opponent returns the other colour. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case Black:
        return Red
    case Red:
        return Black
    default:
        return Empty
    }
}

func (c Cell) String() string {
    switch c {
    case Black:
        return "b"
    case Red:
        return "r"
    default:
        return "."
    }
}

// Pos addresses a cell by row and column (0..4).
type Pos struct {
    Row int
    Col int
}

// InBounds reports whether p lies on the board.
func (p Pos) InBounds() bool {
    return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Pos) index() int { return p.Row*Size + p.Col }

// Move is a destination plus, in the move phase, the source of the slide.
type Move struct {
    To   Pos
    From *Pos
}

// Drop returns a placement move.
func Drop(r, c int) Move { return Move{To: Pos{r, c}} }

// Slide returns a move-phase move from (fr, fc) to (r, c).
func Slide(fr, fc, r, c int) Move {
    from := Pos{fr, fc}
    return Move{To: Pos{r, c}, From: &from}
}

// Phase is derived from the board; it is never stored.
type Phase uint8

const (
    DropPhase Phase = iota
    MovePhase
)

func (p Phase) String() string {
    if p == MovePhase {
        return "move"
    }
    return "drop"
}

// ErrMalformedBoard is returned when a board holds invalid cells or too many markers.
var ErrMalformedBoard = errors.New("malformed board")

// Board is a fixed 5x5 board stored row-major.
type Board [Size * Size]Cell

// At returns the cell at row r, column c.
func (b Board) At(r, c int) Cell { return b[r*Size+c] }

// Set returns a copy of b with (r, c) set to v.
func (b Board) Set(r, c int, v Cell) Board {
    b[r*Size+c] = v
    return b
}

// Count returns the number of markers of the given colour.
func (b Board) Count(side Cell) int {
    n := 0
    for _, c := range b {
        if c == side {
            n++
        }
    }
    return n
}

// Phase reports drop while either side has fewer than four markers.
func (b Board) Phase() Phase {
    if b.Count(Black) < PiecesPerSide || b.Count(Red) < PiecesPerSide {
        return DropPhase
    }
    return MovePhase
}

// Validate rejects unknown cell values and more than four markers per side.
func (b Board) Validate() error {
    for _, c := range b {
        if c > Red {
            return ErrMalformedBoard
        }
    }
    if b.Count(Black) > PiecesPerSide || b.Count(Red) > PiecesPerSide {
        return ErrMalformedBoard
    }
    return nil
}

// neighbours in N, NE, E, SE, S, SW, W, NW order.
var neighbours = [8][2]int{
    {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
    {1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// Successors returns every board reachable by one legal action of side.
// Order is row-major, then neighbour order for slides.
func (b Board) Successors(side Cell) []Board {
    if b.Phase() == DropPhase {
        out := make([]Board, 0, len(b))
        for i, c := range b {
            if c == Empty {
                next := b
                next[i] = side
                out = append(out, next)
            }
        }
        return out
    }

    out := make([]Board, 0, PiecesPerSide*len(neighbours))
    for r := 0; r < Size; r++ {
        for c := 0; c < Size; c++ {
            if b.At(r, c) != side {
                continue
            }
            for _, d := range neighbours {
                to := Pos{r + d[0], c + d[1]}
                if !to.InBounds() || b[to.index()] != Empty {
                    continue
                }
                next := b
                next[r*Size+c] = Empty
                next[to.index()] = side
                out = append(out, next)
            }
        }
    }
    return out
}

// Window is one winning shape: four cell indices.
type Window [4]int

// Windows lists every horizontal, vertical, diagonal and 2x2 winning shape.
var Windows = buildWindows()

func buildWindows() []Window {
    var ws []Window
    idx := func(r, c int) int { return r*Size + c }
    // rows
    for r := 0; r < Size; r++ {
        for c := 0; c+3 < Size; c++ {
            ws = append(ws, Window{idx(r, c), idx(r, c+1), idx(r, c+2), idx(r, c+3)})
        }
    }
    // cols
    for c := 0; c < Size; c++ {
        for r := 0; r+3 < Size; r++ {
            ws = append(ws, Window{idx(r, c), idx(r+1, c), idx(r+2, c), idx(r+3, c)})
        }
    }
    // diagonals, top-left to bottom-right
    for r := 0; r+3 < Size; r++ {
        for c := 0; c+3 < Size; c++ {
            ws = append(ws, Window{idx(r, c), idx(r+1, c+1), idx(r+2, c+2), idx(r+3, c+3)})
        }
    }
    // diagonals, bottom-left to top-right
    for r := 3; r < Size; r++ {
        for c := 0; c+3 < Size; c++ {
            ws = append(ws, Window{idx(r, c), idx(r-1, c+1), idx(r-2, c+2), idx(r-3, c+3)})
        }
    }
    // 2x2 blocks
    for r := 0; r+1 < Size; r++ {
        for c := 0; c+1 < Size; c++ {
            ws = append(ws, Window{idx(r, c), idx(r, c+1), idx(r+1, c), idx(r+1, c+1)})
        }
    }
    return ws
}

// Winner returns the colour holding a complete winning shape, or Empty.
func (b Board) Winner() Cell {
    for _, w := range Windows {
        first := b[w[0]]
        if first != Empty && b[w[1]] == first && b[w[2]] == first && b[w[3]] == first {
            return first
        }
    }
    return Empty
}

// Diff returns the indices where a and b differ.
func Diff(a, b Board) []Pos {
    var out []Pos
    for i := range a {
        if a[i] != b[i] {
            out = append(out, Pos{i / Size, i % Size})
        }
    }
    return out
}
