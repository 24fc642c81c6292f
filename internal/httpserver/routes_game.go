package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/peg"
	"github.com/robalobadob/mastermind/internal/store"
)

type newGameReq struct {
	Rows   int      `json:"rows"`
	Slots  int      `json:"slots"`
	Secret []string `json:"secret"` // optional fixed secret (testing)
}

type newGameRes struct {
	GameID string   `json:"gameId"`
	Rows   int      `json:"rows"`
	Slots  int      `json:"slots"`
	Colors []string `json:"colors"`
}

// handleNewGame creates a live game and persists an owner row for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	cfg, err := budget(req.Rows, req.Slots)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := game.New(secretOrRandom(req.Secret, cfg.Slots), cfg.Rows, cfg.Slots)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if err := s.games.Start(r.Context(), g, s.owner(w, r), "human"); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Rows: g.Rows, Slots: g.Slots, Colors: peg.Names()})
}

type guessReq struct {
	GameID string   `json:"gameId"`
	Guess  []string `json:"guess"`
}

type guessRes struct {
	Feedback game.Feedback `json:"feedback"`
	Code     string        `json:"code"`
	Row      int           `json:"row"`
	State    game.Outcome  `json:"state"`
	Reason   string        `json:"reason,omitempty"`
	Secret   []string      `json:"secret,omitempty"` // revealed once the game is over
}

// handleGuess applies one guess to a live game and persists progress.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		res    guessRes
		status = http.StatusOK
		played *game.Game
	)
	err := s.store.With(r.Context(), req.GameID, func(g *game.Game) error {
		fb, outcome, err := g.ApplyGuess(req.Guess)
		if err != nil && !errors.Is(err, game.ErrInvalidGuess) {
			return err
		}
		if err != nil {
			status = http.StatusUnprocessableEntity
		}
		res = guessRes{Feedback: fb, Code: fb.Code(), Row: g.Row(), State: outcome, Reason: g.Reason}
		if outcome.Finished() {
			res.Secret = g.Secret.Tokens()
		}
		played = g
		return s.games.Progress(r.Context(), g, s.owner(w, r))
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, game.ErrGameFinished):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case err != nil && played == nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	case err != nil:
		log.Warn().Err(err).Str("gameId", req.GameID).Msg("persist progress")
	}
	writeJSON(w, status, res)
}

type rowView struct {
	Guess    []string      `json:"guess"`
	Feedback game.Feedback `json:"feedback"`
	Code     string        `json:"code"`
	Phase    string        `json:"phase,omitempty"`
}

type gameView struct {
	GameID string       `json:"gameId"`
	Rows   int          `json:"rows"`
	Slots  int          `json:"slots"`
	Row    int          `json:"row"`
	State  game.Outcome `json:"state"`
	Reason string       `json:"reason,omitempty"`
	Played []rowView    `json:"played"`
	Secret []string     `json:"secret,omitempty"`
}

func rowsView(rows []game.Row) []rowView {
	out := make([]rowView, len(rows))
	for i, row := range rows {
		out[i] = rowView{Guess: row.Guess.Tokens(), Feedback: row.Feedback, Code: row.Feedback.Code()}
	}
	return out
}

// handleGetGame returns the public state of a game. The secret stays hidden while playing.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var view gameView
	err := s.store.With(r.Context(), chi.URLParam(r, "id"), func(g *game.Game) error {
		view = gameView{
			GameID: g.ID,
			Rows:   g.Rows,
			Slots:  g.Slots,
			Row:    g.Row(),
			State:  g.Outcome,
			Reason: g.Reason,
			Played: rowsView(g.Played()),
		}
		if g.Outcome.Finished() {
			view.Secret = g.Secret.Tokens()
		}
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
