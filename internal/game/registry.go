package game

import "errors"

var (
	// ErrAlreadyConfiguring means the host already has an unfinished draft.
	ErrAlreadyConfiguring = errors.New("host already configuring a game")
	// ErrGameInProgress means another game is already started.
	ErrGameInProgress = errors.New("a game is already in progress")
)

// Registry holds every draft and the single running game, keyed by host id.
// Any number of drafts may coexist; at most one game may be started at a
// time, and the registry is the only place allowed to flip that flag.
// Not safe for concurrent use on its own; the engine serializes access.
type Registry struct {
	games map[int64]*Game
}

func NewRegistry() *Registry {
	return &Registry{games: make(map[int64]*Game)}
}

// Create registers a new draft for the host. Rejected when the host already
// has a draft or when any game is running.
func (r *Registry) Create(chatID, hostID int64) (*Game, error) {
	if r.Active() != nil {
		return nil, ErrGameInProgress
	}
	if _, ok := r.games[hostID]; ok {
		return nil, ErrAlreadyConfiguring
	}
	g := NewGame(chatID, hostID)
	r.games[hostID] = g
	return g, nil
}

func (r *Registry) ByHost(hostID int64) *Game {
	return r.games[hostID]
}

// Active returns the started game, if any.
func (r *Registry) Active() *Game {
	for _, g := range r.games {
		if g.Started {
			return g
		}
	}
	return nil
}

// MarkStarted promotes a draft to the running game, re-checking the
// single-started invariant before the mutation.
func (r *Registry) MarkStarted(g *Game) error {
	if active := r.Active(); active != nil && active != g {
		return ErrGameInProgress
	}
	g.Started = true
	return nil
}

func (r *Registry) Remove(hostID int64) {
	delete(r.games, hostID)
}
