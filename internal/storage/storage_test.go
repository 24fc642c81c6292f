package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
)

func openTest(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func addUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, "user_"+id, "x", now())
	require.NoError(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTest(t)
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpenFileCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db))
	assert.FileExists(t, path)
}

func playTo(t *testing.T, g *game.Game, guesses ...[]string) {
	t.Helper()
	for _, guess := range guesses {
		_, _, err := g.ApplyGuess(guess)
		require.NoError(t, err)
	}
}

func TestProgressBumpsStatsOnce(t *testing.T) {
	db := openTest(t)
	addUser(t, db, "u1")
	games := NewGames(db)
	ctx := context.Background()
	owner := Owner{UserID: "u1"}

	g, err := game.New([]string{"red", "green", "blue", "yellow"}, 12, 4)
	require.NoError(t, err)
	require.NoError(t, games.Start(ctx, g, owner, "human"))

	playTo(t, g, []string{"pink", "pink", "pink", "pink"})
	require.NoError(t, games.Progress(ctx, g, owner))

	playTo(t, g, []string{"red", "green", "blue", "yellow"})
	require.NoError(t, games.Progress(ctx, g, owner))
	require.NoError(t, games.Progress(ctx, g, owner))

	st, err := games.StatsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Stats{GamesPlayed: 1, Wins: 1, Streak: 1}, st)

	recent, err := games.Recent(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, g.ID, recent[0].ID)
	assert.Equal(t, 2, recent[0].RowsUsed)
	assert.Equal(t, string(game.OutcomeGuesserWon), recent[0].Status)
	assert.NotEmpty(t, recent[0].FinishedAt)
}

func TestLossResetsStreak(t *testing.T) {
	db := openTest(t)
	addUser(t, db, "u1")
	games := NewGames(db)
	ctx := context.Background()
	owner := Owner{UserID: "u1"}

	win, err := game.New([]string{"red"}, 1, 1)
	require.NoError(t, err)
	require.NoError(t, games.Start(ctx, win, owner, "human"))
	playTo(t, win, []string{"red"})
	require.NoError(t, games.Progress(ctx, win, owner))

	loss, err := game.New([]string{"red"}, 1, 1)
	require.NoError(t, err)
	require.NoError(t, games.Start(ctx, loss, owner, "human"))
	playTo(t, loss, []string{"blue"})
	require.Equal(t, game.OutcomeMakerWon, loss.Outcome)
	require.NoError(t, games.Progress(ctx, loss, owner))

	st, err := games.StatsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, Stats{GamesPlayed: 2, Wins: 1, Streak: 0}, st)
}

func TestClaimAnonymous(t *testing.T) {
	db := openTest(t)
	addUser(t, db, "u1")
	games := NewGames(db)
	ctx := context.Background()

	g, err := game.New([]string{"red", "green", "blue", "yellow"}, 12, 4)
	require.NoError(t, err)
	require.NoError(t, games.Start(ctx, g, Owner{AnonymousID: "anon"}, "computer"))

	recent, err := games.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	require.NoError(t, games.ClaimAnonymous(ctx, "anon", "u1"))
	recent, err = games.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "computer", recent[0].Guesser)
}

func TestStatsForUnknownUser(t *testing.T) {
	_, err := NewGames(openTest(t)).StatsFor(context.Background(), "nobody")
	assert.Error(t, err)
}
