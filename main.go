package main

import (
	"blocktris/config"
	"blocktris/terminal"
	"blocktris/tetris"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.Load("tetris", 20*time.Millisecond, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(tetris.ExitCode)
	}
	logger, closeLog, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(tetris.ExitCode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, logger)
	stop()
	if err := closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "unable to close log file: %v\n", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) int {
	game, err := tetris.NewGame(&tetris.Options{
		Surface: terminal.New(&terminal.Options{Logger: logger}),
		Frame:   cfg.Frame,
		Seed:    cfg.Seed,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("unable to start the game", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return tetris.ExitCode
	}
	return game.Run(ctx)
}
