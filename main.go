// main.go
//
// mastermind: the code-breaking game, in a terminal or over HTTP.
//
//	mastermind [play] [-guesser human|computer] [-maker human|computer|daily] [-rows N] [-slots N]
//	mastermind serve  [-port P] [-db PATH]
//
// Configuration also comes from the environment and a .env file; see internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/player"
	"github.com/robalobadob/mastermind/internal/solver"
	"github.com/robalobadob/mastermind/internal/storage"
	"github.com/robalobadob/mastermind/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "mastermind:", err)
		os.Exit(2)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeServe:
		err = serve(ctx, cfg)
	default:
		err = play(ctx, cfg)
	}
	if err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Mode == config.ModePlay {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	live, err := store.NewMemoryStore(cfg.StoreSize)
	if err != nil {
		return err
	}
	srv := httpserver.New(live, db, httpserver.Options{
		Tokens: auth.Tokens{
			Secret:      []byte(cfg.JWTSecret),
			ExpiresDays: cfg.JWTExpiresDays,
			CookieName:  cfg.CookieName,
			Secure:      cfg.Production,
		},
		ClientOrigin: cfg.ClientOrigin,
		DailySalt:    cfg.DailySalt,
	})
	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting mastermind server")
	return srv.Start(ctx, ":"+cfg.Port)
}

func play(ctx context.Context, cfg *config.Config) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	human := player.NewHuman(line)
	var maker game.PatternSource
	switch cfg.Maker {
	case config.RoleHuman:
		maker = player.NewHuman(hiddenPrompter{line})
	case config.RoleDaily:
		maker = daily.Source{Salt: cfg.DailySalt}
	default:
		maker = player.Random{}
	}
	var breaker game.GuessSource = human
	if cfg.Guesser == config.RoleComputer {
		var opts []solver.Option
		if cfg.Seed != 0 {
			opts = append(opts, solver.WithSeed(cfg.Seed))
		}
		breaker = solver.New(opts...)
	}
	if cfg.InputTimeout > 0 {
		maker = withPatternTimeout(maker, cfg.InputTimeout)
		if cfg.Guesser == config.RoleHuman {
			breaker = withGuessTimeout(breaker, cfg.InputTimeout)
		}
	}

	player.Banner(os.Stdout)
	_, err := game.Run(ctx, game.Config{Rows: cfg.Rows, Slots: cfg.Slots}, maker, breaker, player.NewTerminal(os.Stdout, cfg.Rows))
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
		fmt.Fprintln(os.Stdout, "\nInput closed; game abandoned.")
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(os.Stdout, "\nNo input in time; game abandoned.")
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	}
	return err
}

// hiddenPrompter reads without echo, so the guesser cannot watch the pattern being typed.
type hiddenPrompter struct{ *liner.State }

func (h hiddenPrompter) Prompt(p string) (string, error) {
	s, err := h.State.PasswordPrompt(p)
	if errors.Is(err, liner.ErrNotTerminalOutput) {
		return h.State.Prompt(p)
	}
	return s, err
}

func withPatternTimeout(src game.PatternSource, d time.Duration) game.PatternSource {
	return game.PatternFunc(func(ctx context.Context, slots int) ([]string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return src.Pattern(ctx, slots)
	})
}

func withGuessTimeout(src game.GuessSource, d time.Duration) game.GuessSource {
	return game.GuessFunc(func(ctx context.Context, slots int, last *game.Feedback) ([]string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return src.Guess(ctx, slots, last)
	})
}
