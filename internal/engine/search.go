package engine

import (
    "context"
    "math"
    "time"

    "github.com/jaminalder/codex-teeko/internal/domain"
)

// DefaultDepth is the ply cutoff used when Options.Depth is zero.
const DefaultDepth = 3

// Options tune a search.
type Options struct {
    Depth      int
    Prune      bool
    NodeBudget int
}

// Stats counts the work done by one search.
type Stats struct {
    Nodes     int
    Leaves    int
    Terminals int
    Cutoffs   int
    Truncated bool
    Elapsed   time.Duration
}

// Result is the value of the root and the successor that achieves it.
// Board equals the root when the root is terminal, at the cutoff, or has no
// successors.
type Result struct {
    Value float64
    Board domain.Board
    Stats Stats
}

type searcher struct {
    ctx   context.Context
    self  domain.Cell
    opp   domain.Cell
    opts  Options
    stats Stats
}

// Search runs a depth-limited minimax from b with self to move.
// Ties keep the first successor in generation order, with or without pruning.
// The context and node budget are checked between siblings; once either is
// exhausted each open node returns its best value so far.
func Search(ctx context.Context, b domain.Board, self domain.Cell, opts Options) Result {
    if opts.Depth <= 0 {
        opts.Depth = DefaultDepth
    }
    s := &searcher{ctx: ctx, self: self, opp: self.Opponent(), opts: opts}
    start := time.Now()
    v, next := s.maxValue(b, 0, math.Inf(-1), math.Inf(1))
    s.stats.Elapsed = time.Since(start)
    return Result{Value: v, Board: next, Stats: s.stats}
}

func (s *searcher) exhausted() bool {
    if s.opts.NodeBudget > 0 && s.stats.Nodes >= s.opts.NodeBudget {
        return true
    }
    return s.ctx.Err() != nil
}

// leaf returns the value of b when it is not expanded, or ok=false.
func (s *searcher) leaf(b domain.Board, depth int) (float64, bool) {
    s.stats.Nodes++
    if v := Value(b, s.self); v != 0 {
        s.stats.Terminals++
        return v, true
    }
    if depth >= s.opts.Depth {
        s.stats.Leaves++
        return Heuristic(b, s.self), true
    }
    return 0, false
}

func (s *searcher) maxValue(b domain.Board, depth int, alpha, beta float64) (float64, domain.Board) {
    if v, ok := s.leaf(b, depth); ok {
        return v, b
    }
    succ := b.Successors(s.self)
    if len(succ) == 0 {
        s.stats.Leaves++
        return Heuristic(b, s.self), b
    }

    best, chosen := math.Inf(-1), b
    for i, next := range succ {
        if i > 0 && s.exhausted() {
            s.stats.Truncated = true
            break
        }
        v, _ := s.minValue(next, depth+1, alpha, beta)
        if v > best {
            best, chosen = v, next
        }
        if s.opts.Prune {
            if best >= beta {
                s.stats.Cutoffs++
                break
            }
            alpha = math.Max(alpha, best)
        }
    }
    return best, chosen
}

func (s *searcher) minValue(b domain.Board, depth int, alpha, beta float64) (float64, domain.Board) {
    if v, ok := s.leaf(b, depth); ok {
        return v, b
    }
    succ := b.Successors(s.opp)
    if len(succ) == 0 {
        s.stats.Leaves++
        return Heuristic(b, s.self), b
    }

    best, chosen := math.Inf(1), b
    for i, next := range succ {
        if i > 0 && s.exhausted() {
            s.stats.Truncated = true
            break
        }
        v, _ := s.maxValue(next, depth+1, alpha, beta)
        if v < best {
            best, chosen = v, next
        }
        if s.opts.Prune {
            if best <= alpha {
                s.stats.Cutoffs++
                break
            }
            beta = math.Min(beta, best)
        }
    }
    return best, chosen
}
