package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// Owner identifies who a game belongs to: a signed-in user or an anonymous cookie.
type Owner struct {
	UserID      string
	AnonymousID string
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `anonymous_id=?`, o.AnonymousID
}

// GameRow is a persisted game summary.
type GameRow struct {
	ID         string `json:"id"`
	Guesser    string `json:"guesser"`
	Rows       int    `json:"rows"`
	Slots      int    `json:"slots"`
	RowsUsed   int    `json:"rowsUsed"`
	Status     string `json:"status"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// Stats are a user's counters.
type Stats struct {
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
	Streak      int `json:"streak"`
}

// Games records game history and user stats.
type Games struct{ db *sql.DB }

func NewGames(db *sql.DB) *Games { return &Games{db: db} }

// Start inserts the owner row for a new game. The secret is never stored.
func (s *Games) Start(ctx context.Context, g *game.Game, owner Owner, guesser string) error {
	var userID, anonID any
	if owner.UserID != "" {
		userID = owner.UserID
	} else {
		anonID = owner.AnonymousID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, guesser, rows_budget, slots, status, started_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		g.ID, userID, anonID, guesser, g.Rows, g.Slots, string(game.OutcomePlaying), now())
	return err
}

// Progress stores the row count and, once terminal, the outcome. Finishing a
// signed-in user's game bumps their stats in the same transaction.
func (s *Games) Progress(ctx context.Context, g *game.Game, owner Owner) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	where, arg := owner.clause()
	if _, err := tx.ExecContext(ctx, `UPDATE games SET rows_used=? WHERE id=? AND `+where, g.Row(), g.ID, arg); err != nil {
		return err
	}
	if g.Outcome.Finished() {
		res, err := tx.ExecContext(ctx,
			`UPDATE games SET status=?, finished_at=? WHERE id=? AND finished_at IS NULL AND `+where,
			string(g.Outcome), now(), g.ID, arg)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 && owner.UserID != "" {
			if err := bumpStats(ctx, tx, owner.UserID, g.Outcome == game.OutcomeGuesserWon); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// bumpStats increments games played; updates wins and streak.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var st Stats
	if err := tx.QueryRowContext(ctx,
		`SELECT games_played, wins, streak FROM users WHERE id=?`, userID,
	).Scan(&st.GamesPlayed, &st.Wins, &st.Streak); err != nil {
		return err
	}
	st.GamesPlayed++
	if won {
		st.Wins++
		st.Streak++
	} else {
		st.Streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`,
		st.GamesPlayed, st.Wins, st.Streak, userID)
	return err
}

// StatsFor loads a user's counters.
func (s *Games) StatsFor(ctx context.Context, userID string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT games_played, wins, streak FROM users WHERE id=?`, userID,
	).Scan(&st.GamesPlayed, &st.Wins, &st.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return st, errors.New("user not found")
	}
	return st, err
}

// Recent lists a user's latest games, newest first.
func (s *Games) Recent(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, guesser, rows_budget, slots, rows_used, status, started_at, COALESCE(finished_at,'')
		 FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var r GameRow
		if err := rows.Scan(&r.ID, &r.Guesser, &r.Rows, &r.Slots, &r.RowsUsed, &r.Status, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous moves an anonymous player's games to a user account.
func (s *Games) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339Nano) }
