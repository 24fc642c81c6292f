package daily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/peg"
	"github.com/robalobadob/mastermind/internal/storage"
)

func TestPatternForIsDeterministic(t *testing.T) {
	day := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	later := day.Add(20 * time.Hour)

	a := PatternFor(day, "salt", 4)
	assert.True(t, a.Equal(PatternFor(later, "salt", 4)), "same UTC day, same pattern")
	assert.Equal(t, "2024-05-01", DateKey(later))

	for slots := 1; slots <= 8; slots++ {
		p := PatternFor(day, "salt", slots)
		require.True(t, p.Valid(slots))
		if slots <= peg.NumColors {
			seen := map[peg.Color]bool{}
			for _, c := range p {
				assert.False(t, seen[c], "duplicate %v in %v", c, p)
				seen[c] = true
			}
		}
	}
}

func TestPatternForDependsOnSalt(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	differs := false
	for i := 0; i < 20 && !differs; i++ {
		d := day.AddDate(0, 0, i)
		differs = !PatternFor(d, "one", 6).Equal(PatternFor(d, "two", 6))
	}
	assert.True(t, differs)
}

func TestSource(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	src := Source{Salt: "s", Now: func() time.Time { return day }}
	tokens, err := src.Pattern(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, PatternFor(day, "s", 4).Tokens(), tokens)
}

func TestStoreLeaderboard(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, storage.Migrate(db))

	ctx := context.Background()
	s := NewStore(db)
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "slow", Date: "2024-05-01", Rows: 3, ElapsedMs: 9000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "fast", Date: "2024-05-01", Rows: 3, ElapsedMs: 1000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "best", Date: "2024-05-01", Rows: 2, ElapsedMs: 50000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "best", Date: "2024-05-01", Rows: 1, ElapsedMs: 1}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "other", Date: "2024-05-02", Rows: 1, ElapsedMs: 1}))

	played, err := s.AlreadyPlayed(ctx, "best", "2024-05-01")
	require.NoError(t, err)
	assert.True(t, played)
	played, err = s.AlreadyPlayed(ctx, "best", "2024-05-02")
	require.NoError(t, err)
	assert.False(t, played)

	top, err := s.Leaderboard(ctx, "2024-05-01", 0)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, LBRow{UserID: "best", Rows: 2, ElapsedMs: 50000}, top[0])
	assert.Equal(t, "fast", top[1].UserID)
	assert.Equal(t, "slow", top[2].UserID)
}
