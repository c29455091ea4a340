package main

import (
	"blocktris/config"
	"blocktris/tetris"
	"blocktris/window"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// one game frame per ebiten tick.
	cfg, err := config.Load("tetris-window", time.Second/ebiten.DefaultTPS, os.Args[1:])
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
	run(ctx, cfg, logger)
	stop()
	if err := closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "unable to close log file: %v\n", err)
	}
	os.Exit(tetris.ExitCode)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	w := window.New(&window.Options{Title: "Tetris", Logger: logger})
	game, err := tetris.NewGame(&tetris.Options{
		Surface: w,
		Frame:   cfg.Frame,
		Seed:    cfg.Seed,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("unable to start the game", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	if err := w.Run(ctx, game.Step); err != nil {
		logger.Error("window loop failed", slog.String("error", err.Error()))
		return
	}
	if w.Code() == 0 {
		logger.Info("window closed by the player", slog.Int("score", game.Read().Score))
	}
}
