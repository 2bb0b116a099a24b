package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/resemblance/config"
	"github.com/pthm-cable/resemblance/features"
	"github.com/pthm-cable/resemblance/game"
	"github.com/pthm-cable/resemblance/systems"
	"github.com/pthm-cable/resemblance/telemetry"
)

type options struct {
	configPath     string
	motifPath      string
	seed           int64
	runs           int
	player         string
	outputDir      string
	scoresPath     string
	hallOfFamePath string
	logStats       bool
	verbose        bool
	maxGenerations int
}

func main() {
	var opts options

	// CLI flags
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.StringVar(&opts.motifPath, "motif", "", "INI motif file overriding the catalog's asset pools")
	flag.Int64Var(&opts.seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&opts.runs, "runs", 10, "Number of runs to play")
	flag.StringVar(&opts.player, "player", "greedy", "Bot strategy: greedy or random")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.StringVar(&opts.scoresPath, "scores", "", "Hiscore JSON file to update (empty = none)")
	flag.StringVar(&opts.hallOfFamePath, "hall-of-fame", "", "Replay originals sampled from a hall_of_fame.json")
	flag.BoolVar(&opts.logStats, "log-stats", false, "Output selections, runs and bookmarks via slog")
	flag.BoolVar(&opts.verbose, "verbose", false, "Log every lineup and selection")
	flag.IntVar(&opts.maxGenerations, "max-generations", 1000, "Forfeit a run after N selections (0 = unlimited)")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(opts); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Initialize config before anything else
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	if opts.motifPath != "" {
		if err := cfg.ApplyMotif(opts.motifPath); err != nil {
			return err
		}
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed + 1))

	var presenter game.Presenter = game.NopPresenter{}
	if opts.verbose {
		presenter = game.LogPresenter{Catalog: features.FromConfig(cfg.Catalog)}
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:       seed,
		Config:     cfg,
		Presenter:  presenter,
		OutputDir:  opts.outputDir,
		LogStats:   opts.logStats,
		PlayerName: opts.player,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	player, err := game.NewPlayer(opts.player, rng, systems.Scorer{IncludeShrink: cfg.Similarity.IncludeShrink}.Score)
	if err != nil {
		return err
	}

	var replay *telemetry.HallOfFame
	if opts.hallOfFamePath != "" {
		replay, err = telemetry.LoadHallOfFameFromFile(opts.hallOfFamePath, cfg.Telemetry.HallOfFameSize, rng)
		if err != nil {
			return err
		}
		slog.Info("replaying hall of fame", "path", opts.hallOfFamePath, "entries", replay.Size())
	}

	var scores *telemetry.Hiscore
	if opts.scoresPath != "" {
		scores, err = telemetry.LoadHiscore(opts.scoresPath, cfg.Telemetry.HiscoreSize)
		if err != nil {
			return err
		}
	}

	slog.Info("starting headless runs",
		"seed", seed,
		"runs", opts.runs,
		"player", player.Name(),
		"max_generations", opts.maxGenerations,
	)

	for i := 0; i < opts.runs; i++ {
		if replay != nil {
			if original, ok := replay.Sample(); ok {
				if g.Active() {
					g.Reset()
				}
				if err := g.StartWith(original); err != nil {
					return fmt.Errorf("replaying original: %w", err)
				}
			}
		}

		summary, err := game.PlayRun(g, player, opts.maxGenerations)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}

		if scores != nil {
			place, err := scores.Record(player.Name(), telemetry.HiscoreRow{
				Score: summary.Generation,
				Name:  player.Name(),
				Final: summary.FinalScore,
				Seed:  seed,
			})
			if err != nil {
				return err
			}
			if place > 0 {
				slog.Info("hiscore", "run", summary.Run, "place", place, "generation", summary.Generation)
			}
		}
	}

	g.Collector().Aggregate().LogStats()
	slog.Info("finished", "high_score", g.HighScore())

	if scores != nil {
		if err := scores.Save(); err != nil {
			return err
		}
	}
	return nil
}
