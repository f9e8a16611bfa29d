// Package console plays Teeko against the agent on a text terminal.
package console

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "strings"

    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/domain"
    "github.com/jaminalder/codex-teeko/internal/engine"
)

// ErrInputClosed is returned when the player's input ends before the game does.
var ErrInputClosed = errors.New("input closed")

// Render writes the board as rows "0: b . r . ." and a column footer.
func Render(w io.Writer, b domain.Board) {
    for r := 0; r < domain.Size; r++ {
        cells := make([]string, domain.Size)
        for c := range cells {
            cells[c] = b.At(r, c).String()
        }
        fmt.Fprintf(w, "%d: %s\n", r, strings.Join(cells, " "))
    }
    fmt.Fprintln(w, "   A B C D E")
}

// Loop sequences turns between a human on in/out and the agent.
type Loop struct {
    in    *bufio.Scanner
    out   io.Writer
    agent *engine.Agent
    game  domain.Game
}

// NewLoop returns a loop for a fresh game.
func NewLoop(in io.Reader, out io.Writer, agent *engine.Agent) *Loop {
    return &Loop{in: bufio.NewScanner(in), out: out, agent: agent, game: domain.New()}
}

// Game returns the current game state.
func (l *Loop) Game() domain.Game { return l.game }

// Run plays until the game ends. Invalid human moves are reported and asked
// again; agent failures end the loop.
func (l *Loop) Run(ctx context.Context) error {
    human := l.agent.Side.Opponent()
    for !l.game.Over {
        Render(l.out, l.game.Board)
        if l.game.Turn == l.agent.Side {
            m, _, err := l.agent.MakeMove(ctx, l.game.Board)
            if err != nil {
                return fmt.Errorf("agent move: %w", err)
            }
            if err := l.game.Play(m); err != nil {
                return fmt.Errorf("agent move %+v: %w", m, err)
            }
            if m.From != nil {
                fmt.Fprintf(l.out, "%s moved from %s to %s\n", l.agent.Side, m.From, m.To)
            } else {
                fmt.Fprintf(l.out, "%s moved at %s\n", l.agent.Side, m.To)
            }
            continue
        }

        fmt.Fprintf(l.out, "%s's turn\n", human)
        for {
            m, err := l.readMove()
            if err != nil {
                if errors.Is(err, ErrInputClosed) {
                    return err
                }
                fmt.Fprintln(l.out, err)
                continue
            }
            if err := l.game.Play(m); err != nil {
                log.Debug().Err(err).Interface("move", m).Msg("Rejected human move")
                fmt.Fprintln(l.out, err)
                continue
            }
            break
        }
    }

    Render(l.out, l.game.Board)
    if l.game.Winner == l.agent.Side {
        fmt.Fprintln(l.out, "AI wins! Game over.")
    } else {
        fmt.Fprintln(l.out, "You win! Game over.")
    }
    return nil
}

func (l *Loop) readMove() (domain.Move, error) {
    if l.game.Board.Phase() == domain.DropPhase {
        to, err := l.prompt("Move (e.g. B3): ")
        if err != nil {
            return domain.Move{}, err
        }
        return domain.Move{To: to}, nil
    }
    from, err := l.prompt("Move from (e.g. B3): ")
    if err != nil {
        return domain.Move{}, err
    }
    to, err := l.prompt("Move to (e.g. B3): ")
    if err != nil {
        return domain.Move{}, err
    }
    return domain.Move{To: to, From: &from}, nil
}

func (l *Loop) prompt(label string) (domain.Pos, error) {
    fmt.Fprint(l.out, label)
    if !l.in.Scan() {
        return domain.Pos{}, ErrInputClosed
    }
    return domain.ParsePos(l.in.Text())
}
