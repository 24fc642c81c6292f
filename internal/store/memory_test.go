package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.New([]string{"red", "green", "blue", "yellow"}, game.MaxRows, 4)
	require.NoError(t, err)
	return g
}

// lookup reports whether id is held, touching it as a use.
func lookup(s Store, id string) error {
	return s.With(context.Background(), id, func(*game.Game) error { return nil })
}

func TestSaveWith(t *testing.T) {
	s, err := NewMemoryStore(0)
	require.NoError(t, err)
	ctx := context.Background()

	g := newGame(t)
	require.NoError(t, s.Save(ctx, g))
	var got *game.Game
	require.NoError(t, s.With(ctx, g.ID, func(held *game.Game) error {
		got = held
		return nil
	}))
	assert.Same(t, g, got)

	assert.ErrorIs(t, lookup(s, "missing"), ErrNotFound)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	s, err := NewMemoryStore(2)
	require.NoError(t, err)
	ctx := context.Background()

	a, b, c := newGame(t), newGame(t), newGame(t)
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))
	require.NoError(t, lookup(s, a.ID))
	require.NoError(t, s.Save(ctx, c))

	assert.Equal(t, 2, s.Len())
	assert.ErrorIs(t, lookup(s, b.ID), ErrNotFound)
	assert.NoError(t, lookup(s, a.ID))
}

func TestWithSerializesGuesses(t *testing.T) {
	s, err := NewMemoryStore(8)
	require.NoError(t, err)
	ctx := context.Background()
	g := newGame(t)
	require.NoError(t, s.Save(ctx, g))

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.With(ctx, g.ID, func(g *game.Game) error {
				_, _, err := g.ApplyGuess([]string{"pink", "pink", "pink", "pink"})
				return err
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 40, g.Row())
	assert.Len(t, g.Results, 40)
}
