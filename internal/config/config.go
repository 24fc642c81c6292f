// internal/config/config.go
//
// Runtime configuration for the mastermind binary.
// Sources, lowest to highest precedence:
//   - built-in defaults
//   - .env (loaded into the environment, never overriding it)
//   - environment variables
//   - command-line flags
//
// The first positional argument selects the mode: "play" (default) or "serve".
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/robalobadob/mastermind/internal/game"
)

const (
	ModePlay  = "play"
	ModeServe = "serve"

	RoleHuman    = "human"
	RoleComputer = "computer"
	RoleDaily    = "daily"
)

type Config struct {
	Mode string

	// Game
	Rows         int
	Slots        int
	Guesser      string // human | computer
	Maker        string // human | computer | daily
	Seed         uint64 // 0 picks a random seed
	InputTimeout time.Duration

	LogLevel string

	// Server
	Port           string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	DailySalt      string
	Production     bool
	StoreSize      int
}

// Load reads configuration for the given command-line arguments (without the program name).
func Load(args []string, output io.Writer) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Mode: ModePlay}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.Mode = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("mastermind "+cfg.Mode, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.IntVar(&cfg.Rows, "rows", envInt("MM_ROWS", game.DefaultRows), "rows (guesses) per game")
	fs.IntVar(&cfg.Slots, "slots", envInt("MM_SLOTS", game.DefaultSlots), "pegs per pattern")
	fs.StringVar(&cfg.Guesser, "guesser", getEnv("MM_GUESSER", RoleHuman), "who breaks the code: human|computer")
	fs.StringVar(&cfg.Maker, "maker", getEnv("MM_MAKER", RoleComputer), "who sets the pattern: human|computer|daily")
	fs.Uint64Var(&cfg.Seed, "seed", uint64(envInt("MM_SEED", 0)), "solver random seed (0 = random)")
	fs.DurationVar(&cfg.InputTimeout, "input-timeout", envDuration("MM_INPUT_TIMEOUT", 0), "abort when a human takes longer than this per row (0 = no limit)")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "zerolog level")

	fs.StringVar(&cfg.Port, "port", getEnv("PORT", "5175"), "HTTP port")
	fs.StringVar(&cfg.DBPath, "db", getEnv("DB_PATH", "./data/mastermind.db"), "SQLite database path")
	fs.IntVar(&cfg.StoreSize, "store-size", envInt("STORE_SIZE", 4096), "live games kept in memory")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.JWTSecret = getEnv("JWT_SECRET", "dev_secret_change_me")
	cfg.JWTExpiresDays = envInt("JWT_EXPIRES_DAYS", 14)
	cfg.CookieName = getEnv("COOKIE_NAME", "mastermind_token")
	cfg.ClientOrigin = getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	cfg.DailySalt = getEnv("DAILY_SALT", "local_dev_salt")
	cfg.Production = strings.EqualFold(firstNonEmpty(os.Getenv("APP_ENV"), os.Getenv("NODE_ENV")), "production")
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum values and game limits.
func (c *Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModePlay, ModeServe:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q (want play or serve)", c.Mode))
	}
	if err := game.CheckBudget(c.Rows, c.Slots); err != nil {
		errs = append(errs, err)
	}
	switch c.Guesser {
	case RoleHuman, RoleComputer:
	default:
		errs = append(errs, fmt.Errorf("unknown guesser %q", c.Guesser))
	}
	switch c.Maker {
	case RoleHuman, RoleComputer, RoleDaily:
	default:
		errs = append(errs, fmt.Errorf("unknown maker %q", c.Maker))
	}
	if c.InputTimeout < 0 {
		errs = append(errs, errors.New("input-timeout must not be negative"))
	}
	if c.Mode == ModeServe && c.Production && c.JWTSecret == "dev_secret_change_me" {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	return errors.Join(errs...)
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(getEnv(k, "")); err == nil {
		return n
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(k, "")); err == nil {
		return d
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
