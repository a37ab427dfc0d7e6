package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mattsre/go-automaton/model"
	"github.com/mattsre/go-automaton/utils"
)

// newEngine builds an engine seeded from the config's density and the
// given seed value
func newEngine(cfg utils.Config, seed int64) (*model.Engine, error) {
	rng := rand.New(rand.NewSource(seed))
	return model.NewEngine(cfg.Width, cfg.Height, cfg.FrameRate, model.RandomSeed(rng, cfg.RandomDensity))
}

// deriveSeed produces the seed for run number i. A configured seed
// keeps every run reproducible; otherwise the clock decides.
func deriveSeed(cfg utils.Config, i int64) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed + i
	}
	return time.Now().UnixNano() + i
}

// runInteractive drives a single displayed simulation until the board
// settles, the generation cap is hit, or the user interrupts.
func runInteractive(out io.Writer, cfg utils.Config, sigChan <-chan os.Signal) error {
	engine, err := newEngine(cfg, deriveSeed(cfg, 0))
	if err != nil {
		return errors.Wrap(err, "[runInteractive] failed to build engine")
	}

	renderer := &model.TerminalRenderer{Out: out}
	stats := utils.NewStats()

	renderer.Clear()

	for {
		select {
		case <-sigChan:
			fmt.Fprintln(out, "\nShutting down gracefully...")
			printSummary(out, engine.Generation(), stats)
			return nil
		default:
			// Continue with the next frame
		}

		stepStart := time.Now()
		status := engine.Step()
		stepDuration := time.Since(stepStart)

		stats.Update(engine.Generation(), engine.Population(), stepDuration)

		renderer.Home()
		renderer.Display(engine.Snapshot())
		fmt.Fprintf(out, "Iteration %d: %d microseconds\n",
			engine.Generation(), stepDuration.Microseconds())

		if status == model.Halted {
			fmt.Fprintln(out, "Board has reached a stable or alternating state.")
			break
		}

		if cfg.MaxGenerations > 0 && engine.Generation() >= cfg.MaxGenerations {
			fmt.Fprintf(out, "Reached maximum generations limit (%d)\n", cfg.MaxGenerations)
			break
		}

		time.Sleep(cfg.FrameRate)
	}

	printSummary(out, engine.Generation(), stats)
	return nil
}

// printSummary reports the final timing figures for a displayed run
func printSummary(out io.Writer, generations int, stats *utils.Stats) {
	fmt.Fprintf(out, "Total time for %d iterations: %.3f seconds\n",
		generations, stats.Elapsed().Seconds())
	fmt.Fprintf(out, "Average: %.1f gen/sec, %.1f avg population\n",
		stats.GenerationsPerSecond, stats.AveragePopulation)
}

// runHeadless runs cfg.Runs independent simulations concurrently and
// logs each outcome. Every engine still steps on a single goroutine;
// only whole simulations run in parallel.
func runHeadless(cfg utils.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	for i := 0; i < cfg.Runs; i++ {
		runID := uuid.NewString()[:8]
		seed := deriveSeed(cfg, int64(i))

		eg.Go(func() error {
			engine, err := newEngine(cfg, seed)
			if err != nil {
				return errors.Wrapf(err, "[runHeadless] run %s", runID)
			}

			start := time.Now()
			outcome := "halted"

			for engine.Step() == model.Continuing {
				if cfg.MaxGenerations > 0 && engine.Generation() >= cfg.MaxGenerations {
					outcome = "capped"
					break
				}

				select {
				case <-ctx.Done():
					slog.Warn("run cancelled",
						"run", runID, "generations", engine.Generation())
					return ctx.Err()
				default:
				}
			}

			slog.Info("run finished",
				"run", runID,
				"seed", seed,
				"outcome", outcome,
				"generations", engine.Generation(),
				"population", engine.Population(),
				"elapsed", time.Since(start))
			return nil
		})
	}

	return eg.Wait()
}
