// internal/httpserver/routes_solve.go
//
// Computer guesser endpoints.
//   - POST /game/solve    → play a whole game with the adaptive solver, return every row
//   - GET  /game/solve/ws → same game, streamed over a websocket one row at a time
//
// The request names an optional secret (random otherwise) and an optional seed
// so a run can be replayed exactly.
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/peg"
	"github.com/robalobadob/mastermind/internal/player"
	"github.com/robalobadob/mastermind/internal/solver"
)

type solveReq struct {
	Rows   int      `json:"rows"`
	Slots  int      `json:"slots"`
	Secret []string `json:"secret"`
	Seed   uint64   `json:"seed"`
}

type solveRes struct {
	GameID  string       `json:"gameId"`
	Outcome game.Outcome `json:"outcome"`
	Winner  string       `json:"winner,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	Secret  []string     `json:"secret"`
	Played  []rowView    `json:"played"`
}

// solveSink collects rows and tags each with the solver phase that produced it.
type solveSink struct {
	sv     *solver.Solver
	rows   []rowView
	onRow  func(n int, row rowView) error
	result game.Result
	err    error
}

func (k *solveSink) Row(n int, guess peg.Pattern, fb game.Feedback) {
	row := rowView{Guess: guess.Tokens(), Feedback: fb, Code: fb.Code(), Phase: k.sv.Phase().String()}
	k.rows = append(k.rows, row)
	if k.onRow != nil && k.err == nil {
		k.err = k.onRow(n, row)
	}
}

func (k *solveSink) Finish(res game.Result) { k.result = res }

// prepare validates a solve request and returns the game config and solver.
func (req solveReq) prepare() (game.Config, []string, *solver.Solver, error) {
	cfg, err := budget(req.Rows, req.Slots)
	if err != nil {
		return cfg, nil, nil, err
	}
	secret := secretOrRandom(req.Secret, cfg.Slots)
	if _, err := peg.ParsePattern(secret, cfg.Slots); err != nil {
		return cfg, nil, nil, err
	}
	var opts []solver.Option
	if req.Seed != 0 {
		opts = append(opts, solver.WithSeed(req.Seed))
	}
	return cfg, secret, solver.New(opts...), nil
}

func (s *Server) solve(ctx context.Context, req solveReq, onRow func(int, rowView) error) (solveRes, error) {
	cfg, secret, sv, err := req.prepare()
	if err != nil {
		return solveRes{}, err
	}
	sink := &solveSink{sv: sv, onRow: onRow}
	res, err := game.Run(ctx, cfg, player.Fixed(secret), sv, sink)
	if err != nil {
		return solveRes{}, err
	}
	if sink.err != nil {
		return solveRes{}, sink.err
	}
	log.Info().Str("gameId", res.GameID).Str("outcome", string(res.Outcome)).Int("rows", len(res.Rows)).Msg("solver game")
	return solveRes{
		GameID:  res.GameID,
		Outcome: res.Outcome,
		Winner:  res.Winner,
		Reason:  res.Reason,
		Secret:  res.Secret.Tokens(),
		Played:  sink.rows,
	}, nil
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	res, err := s.solve(r.Context(), req, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------ websocket ----------------------------------

type wsMessage struct {
	Type   string    `json:"type"` // row | result | error
	N      int       `json:"n,omitempty"`
	Row    *rowView  `json:"row,omitempty"`
	Result *solveRes `json:"result,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || origin == s.origin {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

// handleSolveWS reads one solve request and streams the game row by row.
func (s *Server) handleSolveWS(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var req solveReq
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Error: "bad_json"})
		return
	}

	send := func(n int, row rowView) error {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		return conn.WriteJSON(wsMessage{Type: "row", N: n, Row: &row})
	}
	res, err := s.solve(r.Context(), req, send)
	if err != nil {
		_ = conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()})
		return
	}
	_ = conn.WriteJSON(wsMessage{Type: "result", Result: &res})
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
