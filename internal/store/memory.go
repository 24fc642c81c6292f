// internal/store/memory.go
//
// In-memory store of live games for the HTTP server.
//
// Characteristics:
//   - Bounded: an LRU cache evicts the least recently used game once full.
//   - Each game has its own mutex; With serializes guesses on one game
//     without blocking the others.
//   - State is lost when the process restarts. Finished games are also
//     recorded in SQLite by the server.
package store

import (
	"context"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/robalobadob/mastermind/internal/game"
)

// DefaultSize is the number of live games kept when no size is configured.
const DefaultSize = 4096

var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live games.
type Store interface {
	// Save adds or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// With runs fn while holding the game's lock. Games are only reachable
	// through it; fn must not retain g.
	With(ctx context.Context, id string, fn func(g *game.Game) error) error

	// Len reports how many games are held.
	Len() int
}

type entry struct {
	mu sync.Mutex
	g  *game.Game
}

type memory struct {
	games *lru.Cache[string, *entry]
}

// NewMemoryStore constructs an LRU-bounded Store holding up to size games.
func NewMemoryStore(size int) (Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, err
	}
	return &memory{games: c}, nil
}

func (m *memory) Save(_ context.Context, g *game.Game) error {
	if g == nil || g.ID == "" {
		return errors.New("game without id")
	}
	m.games.Add(g.ID, &entry{g: g})
	return nil
}

func (m *memory) With(ctx context.Context, id string, fn func(g *game.Game) error) error {
	e, ok := m.games.Get(id)
	if !ok {
		return ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.g)
}

func (m *memory) Len() int { return m.games.Len() }
