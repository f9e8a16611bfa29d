package app

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/codex-teeko/internal/domain"
    "github.com/jaminalder/codex-teeko/internal/engine"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
)

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID        string
    Game      domain.Game
    Human     string
    HumanSide domain.Cell
    AgentSide domain.Cell
    LastMove  *domain.Move
    Version   int
    Created   time.Time
    Updated   time.Time
}

// Settings configure the agents created by the service.
type Settings struct {
    Search  engine.Options
    Timeout time.Duration
}

// subscriberBuffer leaves room for two full turns of human move plus agent reply.
const subscriberBuffer = 4

type subscriber struct {
    ch        chan GameState
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games, their agents and subscribers.
type Service struct {
    mu       sync.Mutex
    games    map[string]*GameState
    agents   map[string]*engine.Agent
    subs     map[string]map[*subscriber]struct{}
    settings Settings
}

// NewService creates a service whose agents search with settings.
func NewService(settings Settings) *Service {
    return &Service{
        games:    make(map[string]*GameState),
        agents:   make(map[string]*engine.Agent),
        subs:     make(map[string]map[*subscriber]struct{}),
        settings: settings,
    }
}

// CreateGame registers a new game. agentSide Empty picks a colour at random.
// When the agent holds Black it plays its first drop before returning.
func (s *Service) CreateGame(ctx context.Context, agentSide domain.Cell) (*GameState, error) {
    if agentSide == domain.Empty {
        agentSide = engine.RandomSide()
    }
    s.mu.Lock()
    id := uuid.NewString()
    now := time.Now()
    gs := &GameState{
        ID:        id,
        Game:      domain.New(),
        HumanSide: agentSide.Opponent(),
        AgentSide: agentSide,
        Created:   now,
        Updated:   now,
    }
    s.games[id] = gs
    s.agents[id] = engine.NewAgent(agentSide, s.settings.Search)
    s.mu.Unlock()

    log.Info().Str("gameId", id).Str("agent", agentSide.String()).Msg("Game created")
    return s.agentTurn(ctx, id)
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Join seats the player as the human opponent if the seat is free; returns
// Empty for spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return domain.Empty, nil, ErrNotFound
    }
    side := domain.Empty
    if gs.Human == "" || gs.Human == playerID {
        gs.Human = playerID
        side = gs.HumanSide
    }
    gs.Updated = time.Now()
    cp := *gs
    return side, &cp, nil
}

// Play validates seat, turn and move, applies it, broadcasts, then lets the
// agent reply. The returned state includes the agent's reply when there is one.
func (s *Service) Play(ctx context.Context, id, playerID string, m domain.Move) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Human == "" || gs.Human != playerID {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    if gs.Game.Over {
        s.mu.Unlock()
        return nil, domain.ErrGameOver
    }
    if gs.Game.Turn != gs.HumanSide {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    if err := gs.Game.Play(m); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    s.recordLocked(gs, m)
    s.broadcastLocked(id, *gs)
    s.mu.Unlock()

    log.Info().Str("gameId", id).Interface("move", m).Msg("Human moved")
    return s.agentTurn(ctx, id)
}

// agentTurn runs the agent if it is to move. The search works on a snapshot
// without holding the lock; the reply is dropped if the game changed meanwhile.
func (s *Service) agentTurn(ctx context.Context, id string) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Game.Over || gs.Game.Turn != gs.AgentSide {
        cp := *gs
        s.mu.Unlock()
        return &cp, nil
    }
    board, version, agent := gs.Game.Board, gs.Version, s.agents[id]
    s.mu.Unlock()

    if s.settings.Timeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
        defer cancel()
    }
    m, res, err := agent.MakeMove(ctx, board)
    if err != nil {
        log.Error().Err(err).Str("gameId", id).Msg("Agent failed to move")
        return nil, err
    }

    s.mu.Lock()
    if gs.Version != version {
        cp := *gs
        s.mu.Unlock()
        log.Warn().Str("gameId", id).Msg("Discarding stale agent move")
        return &cp, nil
    }
    if err := gs.Game.Play(m); err != nil {
        s.mu.Unlock()
        log.Error().Err(err).Str("gameId", id).Interface("move", m).Msg("Agent produced an illegal move")
        return nil, err
    }
    s.recordLocked(gs, m)
    cp := *gs
    s.broadcastLocked(id, cp)
    s.mu.Unlock()

    log.Info().
        Str("gameId", id).
        Interface("move", m).
        Float64("value", res.Value).
        Int("nodes", res.Stats.Nodes).
        Bool("over", cp.Game.Over).
        Msg("Agent moved")
    return &cp, nil
}

func (s *Service) recordLocked(gs *GameState, m domain.Move) {
    mv := m
    gs.LastMove = &mv
    gs.Version++
    gs.Updated = time.Now()
}

// broadcastLocked fans out a snapshot without blocking; slow subscribers are
// closed and dropped.
func (s *Service) broadcastLocked(id string, snapshot GameState) {
    set := s.subs[id]
    dropped := 0
    for sub := range set {
        select {
        case sub.ch <- snapshot:
        default:
            sub.close()
            delete(set, sub)
            dropped++
        }
    }
    if dropped > 0 {
        log.Debug().Str("gameId", id).Int("dropped", dropped).Msg("Dropped slow subscribers")
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, func() {}, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan GameState, subscriberBuffer)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}
