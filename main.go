package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattsre/go-automaton/utils"
)

const defaultConfigFile = "config.json"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and
// error handling.
func run(out io.Writer, args []string) error {
	cfg, shouldExit, err := parseArgs(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// A single displayed simulation gets the interactive loop; anything
	// else (display disabled, or several runs at once) goes headless.
	if cfg.Display && cfg.Runs == 1 {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		return runInteractive(out, cfg, sigChan)
	}

	return runHeadless(cfg)
}

// parseArgs processes command-line arguments on top of the file-backed
// configuration. It returns the merged config and a boolean indicating
// the program should exit cleanly (help was requested).
func parseArgs(args []string, output io.Writer) (utils.Config, bool, error) {
	flagSet := flag.NewFlagSet("go-automaton", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
go-automaton - Conway's Game of Life in the terminal.

Usage:
  go-automaton [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a JSON configuration file.")
	widthFlag := flagSet.Int("w", 0, "Board width in cells.")
	heightFlag := flagSet.Int("h", 0, "Board height in cells.")
	speedFlag := flagSet.Int("s", 0, "Delay between displayed frames, in milliseconds.")
	noDisplayFlag := flagSet.Bool("nd", false, "Disable rendering and run headless.")
	seedFlag := flagSet.Int64("seed", 0, "Random seed. 0 derives one from the clock.")
	densityFlag := flagSet.Float64("density", 0, "Probability that a cell starts alive, in [0, 1].")
	runsFlag := flagSet.Int("runs", 0, "Number of concurrent headless simulations.")
	maxGenFlag := flagSet.Int("max-gen", 0, "Stop after this many generations. 0 means unlimited.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return utils.Config{}, true, nil
		}
		return utils.Config{}, false, err
	}

	var cfg utils.Config
	if *configFlag != "" {
		loaded, err := utils.LoadConfig(*configFlag)
		if err != nil {
			return utils.Config{}, false, err
		}
		cfg = loaded
	} else if loaded, err := utils.LoadConfig(defaultConfigFile); err == nil {
		cfg = loaded
	} else {
		cfg = utils.DefaultConfig()
	}

	// Flags the caller actually passed override the file values.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			cfg.Width = *widthFlag
		case "h":
			cfg.Height = *heightFlag
		case "s":
			cfg.FrameRate = time.Duration(*speedFlag) * time.Millisecond
		case "nd":
			cfg.Display = !*noDisplayFlag
		case "seed":
			cfg.Seed = *seedFlag
		case "density":
			cfg.RandomDensity = *densityFlag
		case "runs":
			cfg.Runs = *runsFlag
		case "max-gen":
			cfg.MaxGenerations = *maxGenFlag
		}
	})

	return cfg, false, nil
}
