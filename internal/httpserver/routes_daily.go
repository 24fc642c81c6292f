// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player gets one game per UTC day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on a win.
// The secret is derived from date + salt, so every player faces the same one.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // active sessions keyed by playerID|date
	mu       sync.Mutex               // guards sessions and their games
}

// dailySession holds in-memory state for one player's daily game.
type dailySession struct {
	Game  *game.Game
	Start time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router, opts Options) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     opts.DailySalt,
		now:      now,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the signed-in user ID, or the anonymous cookie ID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	o := d.srv.owner(w, r)
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonymousID
}

type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Rows   int    `json:"rows"`
	Slots  int    `json:"slots"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses today's session.
// A player with a stored result for today gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("check daily result")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[key]
	if !ok {
		secret := daily.PatternFor(now, d.salt, game.DefaultSlots).Tokens()
		g, err := game.New(secret, game.DefaultRows, game.DefaultSlots)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sess = &dailySession{Game: g, Start: time.Now()}
		d.sessions[key] = sess
	}
	g := sess.Game
	writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID, Date: date, Rows: g.Rows, Slots: g.Slots, Played: g.Outcome.Finished()})
}

type dailyGuessReq struct {
	GameID string   `json:"gameId"`
	Guess  []string `json:"guess"`
}

type dailyGuessRes struct {
	Feedback game.Feedback `json:"feedback"`
	Code     string        `json:"code"`
	State    string        `json:"state"` // in_progress | won | lost | aborted_invalid_input | locked
	Rows     int           `json:"rows"`
}

// handleGuess applies a guess to today's session; a win is stored for the leaderboard.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	date := daily.DateKey(d.now())

	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	if !ok || sess.Game.ID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no session")
		return
	}
	g := sess.Game
	fb, outcome, err := g.ApplyGuess(p.Guess)
	rows := g.Row()
	d.mu.Unlock()

	res := dailyGuessRes{Feedback: fb, Code: fb.Code(), Rows: rows}
	switch {
	case errors.Is(err, game.ErrGameFinished):
		res.State = "locked"
		writeJSON(w, http.StatusOK, res)
		return
	case errors.Is(err, game.ErrInvalidGuess):
		res.State = string(game.OutcomeAborted)
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch outcome {
	case game.OutcomeGuesserWon:
		res.State = "won"
		elapsed := int(time.Since(sess.Start).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{UserID: uid, Date: date, Rows: rows, ElapsedMs: elapsed}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	case game.OutcomeMakerWon:
		res.State = "lost"
	default:
		res.State = "in_progress"
	}
	writeJSON(w, http.StatusOK, res)
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
