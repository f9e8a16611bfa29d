package engine

import (
    "errors"
    "fmt"

    "github.com/jaminalder/codex-teeko/internal/domain"
)

// ErrInconsistentSuccessor means the search returned a board that no single
// legal action could produce from the root. It is a programming error.
var ErrInconsistentSuccessor = errors.New("successor inconsistent with root board")

// Extract turns the chosen successor back into a move from before.
func Extract(before, after domain.Board) (domain.Move, error) {
    d := domain.Diff(before, after)
    switch len(d) {
    case 1:
        to := d[0]
        if before.At(to.Row, to.Col) != domain.Empty || after.At(to.Row, to.Col) == domain.Empty {
            return domain.Move{}, fmt.Errorf("%w: drop at %v", ErrInconsistentSuccessor, to)
        }
        return domain.Move{To: to}, nil
    case 2:
        from, to := d[0], d[1]
        if after.At(from.Row, from.Col) != domain.Empty {
            from, to = to, from
        }
        if after.At(from.Row, from.Col) != domain.Empty ||
            before.At(to.Row, to.Col) != domain.Empty ||
            before.At(from.Row, from.Col) != after.At(to.Row, to.Col) {
            return domain.Move{}, fmt.Errorf("%w: slide %v -> %v", ErrInconsistentSuccessor, from, to)
        }
        return domain.Move{To: to, From: &from}, nil
    default:
        return domain.Move{}, fmt.Errorf("%w: %d cells differ", ErrInconsistentSuccessor, len(d))
    }
}
