// Package config reads the game settings from flags, environment variables and an
// optional .env file, and builds the logger the binaries write to.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	EnvFile = ".env"

	envFrame = "TETRIS_FRAME"
	envSeed  = "TETRIS_SEED"
	envLog   = "TETRIS_LOG"
	envDebug = "TETRIS_DEBUG"

	// NoLog as the log path disables logging.
	NoLog = "-"
)

type Config struct {
	Frame   time.Duration
	Seed    uint64
	LogPath string
	Debug   bool
}

// Load parses args on top of the environment. Variables set in the process win over
// the ones in EnvFile, and flags win over both.
func Load(name string, frame time.Duration, args []string) (*Config, error) {
	env, err := readEnv()
	if err != nil {
		return nil, err
	}
	c := &Config{
		Frame:   frame,
		LogPath: filepath.Join(os.TempDir(), "tetris.log"),
	}
	if v, ok := env(envFrame); ok {
		if c.Frame, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envFrame, err)
		}
	}
	if v, ok := env(envSeed); ok {
		if c.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envSeed, err)
		}
	}
	if v, ok := env(envDebug); ok {
		if c.Debug, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envDebug, err)
		}
	}
	if v, ok := env(envLog); ok {
		c.LogPath = v
	}

	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.DurationVar(&c.Frame, "frame", c.Frame, "time accounted to the game on every frame")
	fset.Uint64Var(&c.Seed, "seed", c.Seed, "seed of the piece generator, 0 for a random one")
	fset.StringVar(&c.LogPath, "log", c.LogPath, "log file, '-' disables logging")
	fset.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	if c.Frame <= 0 {
		return nil, fmt.Errorf("frame must be positive, got %v", c.Frame)
	}
	if c.LogPath == "" {
		return nil, errors.New("log path can't be empty")
	}
	return c, nil
}

func readEnv() (func(string) (string, bool), error) {
	file, err := godotenv.Read(EnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to read %s: %w", EnvFile, err)
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

// Logger returns a JSON logger writing to the log file, every record tagged with a
// session id, and the function closing the file.
func (c *Config) Logger() (*slog.Logger, func() error, error) {
	if c.LogPath == NoLog {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	f, err := os.OpenFile(c.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return l.With(slog.String("session", uuid.NewString())), f.Close, nil
}
