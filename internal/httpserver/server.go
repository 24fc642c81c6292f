// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Solver endpoints: POST /game/solve, GET /game/solve/ws (websocket stream).
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Live games are held in the store; SQLite keeps the history and user stats.
//   - An invalid guess ends the game as aborted_invalid_input, as in the terminal game.
package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/peg"
	"github.com/robalobadob/mastermind/internal/player"
	"github.com/robalobadob/mastermind/internal/storage"
	"github.com/robalobadob/mastermind/internal/store"
)

// Options carries the settings the server needs from configuration.
type Options struct {
	Tokens       auth.Tokens
	ClientOrigin string
	DailySalt    string
	Now          func() time.Time // daily clock; defaults to time.Now
}

// Server bundles router, live game store, and DB-backed repositories.
type Server struct {
	r      *chi.Mux
	store  store.Store
	db     *sql.DB
	users  *auth.Users
	games  *storage.Games
	tokens auth.Tokens
	origin string
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:      chi.NewRouter(),
		store:  st,
		db:     db,
		users:  auth.NewUsers(db),
		games:  storage.NewGames(db),
		tokens: opts.Tokens,
		origin: opts.ClientOrigin,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.cors)

	optional := auth.OptionalAuth(s.tokens, s.users)

	// The websocket stream outlives the handler timeout below.
	s.r.With(optional).Get("/game/solve/ws", s.handleSolveWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "mastermind",
				"colors":  peg.Names(),
				"endpoints": []string{
					"/health", "POST /game/new", "POST /game/guess", "GET /game/{id}",
					"POST /game/solve", "GET /game/solve/ws", "/daily/*", "/auth/*",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})

		r.Group(func(r chi.Router) {
			r.Use(optional)
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/guess", s.handleGuess)
			r.Get("/game/{id}", s.handleGetGame)
			r.Post("/game/solve", s.handleSolve)
			s.mountDaily(r, opts)
		})

		s.mountAuthRoutes(r)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("reqId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// owner resolves who a request plays as: the signed-in user or the anonymous cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) storage.Owner {
	if me := auth.UserFrom(r.Context()); me != nil {
		return storage.Owner{UserID: me.ID}
	}
	return storage.Owner{AnonymousID: s.tokens.EnsureAnonID(w, r)}
}

// budget fills in defaults and validates a requested rows/slots pair.
func budget(rows, slots int) (game.Config, error) {
	cfg := game.DefaultConfig()
	if rows != 0 {
		cfg.Rows = rows
	}
	if slots != 0 {
		cfg.Slots = slots
	}
	return cfg, game.CheckBudget(cfg.Rows, cfg.Slots)
}

// secretOrRandom returns the requested secret or a random one.
func secretOrRandom(secret []string, slots int) []string {
	if len(secret) == 0 {
		return player.RandomPattern(slots).Tokens()
	}
	return secret
}
