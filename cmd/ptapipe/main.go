package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/astrokit/ptapipe/internal/app"
	"github.com/astrokit/ptapipe/internal/cli"
)

// main is the entrypoint for the ptapipe CLI.
func main() {
	// Minimal logger until the run-specific one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run holds the application logic so tests can drive it with their own
// writer and arguments.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	pipeline := app.New(outW, cfg)
	_, err = pipeline.Run(context.Background(), cfg)
	return err
}
