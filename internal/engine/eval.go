package engine

import "github.com/jaminalder/codex-teeko/internal/domain"

// Value is the proven outcome of b for self: +1 win, -1 loss, 0 no winner yet.
func Value(b domain.Board, self domain.Cell) float64 {
    switch b.Winner() {
    case domain.Empty:
        return 0
    case self:
        return 1
    default:
        return -1
    }
}

// Heuristic scores a non-terminal board by the largest partial winning shape
// each side has built. A count of 3 scores ±0.5, so the result never reaches
// the ±1 of a proven outcome.
func Heuristic(b domain.Board, self domain.Cell) float64 {
    s, o := BestCounts(b, self)
    if s >= o {
        return float64(s) / 6
    }
    return -float64(o) / 6
}

// BestCounts returns the most markers self and its opponent hold in any one
// winning window. Windows mixing both colours still count for each side.
func BestCounts(b domain.Board, self domain.Cell) (mine, theirs int) {
    opp := self.Opponent()
    for _, w := range domain.Windows {
        var s, o int
        for _, i := range w {
            switch b[i] {
            case self:
                s++
            case opp:
                o++
            }
        }
        if s > mine {
            mine = s
        }
        if o > theirs {
            theirs = o
        }
    }
    return mine, theirs
}
