// Package game runs a resemblance session: it builds lineups of descendants,
// scores the player's pick against the original face and decides when the
// run is over.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/config"
	"github.com/pthm-cable/resemblance/features"
	"github.com/pthm-cable/resemblance/systems"
	"github.com/pthm-cable/resemblance/telemetry"
)

var (
	// ErrInvalidSelection is returned when the picked ID is not in the current lineup.
	ErrInvalidSelection = errors.New("selection not in current lineup")
	// ErrSessionActive is returned by Start while a run is in progress.
	ErrSessionActive = errors.New("session already active")
	// ErrSessionIdle is returned by run operations when no run is in progress.
	ErrSessionIdle = errors.New("no active session")
)

// closeCallMargin is how far above the threshold a surviving score may be
// and still be bookmarked as a close call.
const closeCallMargin = 0.05

// ScoreFunc compares a candidate against the original.
type ScoreFunc func(original, candidate components.Body) (float64, error)

// Options configures a new Game.
type Options struct {
	Seed       int64
	Config     *config.Config // nil = config.Cfg()
	Presenter  Presenter      // nil = NopPresenter
	Scorer     ScoreFunc      // nil = scorer built from the similarity config
	OutputDir  string         // empty = no CSV output
	LogStats   bool
	PlayerName string

	// RunCallback is called with every finished run.
	RunCallback func(telemetry.RunSummary)
}

// Outcome is the result of one selection.
type Outcome struct {
	Run        int
	ChildID    uint32
	Generation int
	Score      float64
	DecayStage int
	Changes    []systems.Change // how the child differs from its parent
	Ended      bool
}

// Game holds the complete session state.
type Game struct {
	cfg       *config.Config
	rng       *rand.Rand
	rngSeed   int64
	catalog   *features.Catalog
	generator *systems.Generator
	scorer    ScoreFunc
	decay     *systems.DecayTracker
	lineup    *systems.Lineup
	presenter Presenter

	// Run state
	original    components.Body
	hasOriginal bool
	current     *components.Body
	generation  int
	highScore   int
	active      bool
	lastScore   float64
	runScores   []float64
	run         int
	lastSummary telemetry.RunSummary

	// Telemetry
	playerName       string
	logStats         bool
	runCallback      func(telemetry.RunSummary)
	collector        *telemetry.Collector
	hallOfFame       *telemetry.HallOfFame
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
}

// NewGame creates a game with the global config and default options.
func NewGame(seed int64) (*Game, error) {
	return NewGameWithOptions(Options{Seed: seed})
}

// NewGameWithOptions creates a new game instance.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	catalog := features.FromConfig(cfg.Catalog)
	if err := catalog.CheckPools(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	decay, err := systems.NewDecayTracker(cfg.Decay.Stages)
	if err != nil {
		return nil, fmt.Errorf("decay: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:        cfg,
		rng:        rng,
		rngSeed:    opts.Seed,
		catalog:    catalog,
		generator:  systems.NewGenerator(catalog, systems.GeneratorConfigFrom(cfg.Mutation), rng),
		scorer:     opts.Scorer,
		decay:      decay,
		lineup:     systems.NewLineup(),
		presenter:  opts.Presenter,
		playerName: opts.PlayerName,
		logStats:   opts.LogStats,

		runCallback:      opts.RunCallback,
		collector:        telemetry.NewCollector(),
		hallOfFame:       telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize, rng),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Session.SimilarityThreshold, closeCallMargin, decay.MaxStage()),
	}

	if g.scorer == nil {
		g.scorer = systems.Scorer{IncludeShrink: cfg.Similarity.IncludeShrink}.Score
	}
	if g.presenter == nil {
		g.presenter = NopPresenter{}
	}
	if g.playerName == "" {
		g.playerName = "player"
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("output: %w", err)
	}
	g.outputManager = om

	return g, nil
}

// Close writes the hall of fame and closes the output files.
func (g *Game) Close() error {
	if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
		g.outputManager.Close()
		return err
	}
	return g.outputManager.Close()
}

// LineupSize returns the number of candidates offered at a generation.
func LineupSize(cfg config.SessionConfig, generation int) int {
	n := int(cfg.StartingLineupCount + float64(generation)*cfg.LineupIncrementation)
	return max(1, min(cfg.MaxLineupCount, n))
}

// LineupSize returns the number of candidates offered at a generation
// under this game's config.
func (g *Game) LineupSize(generation int) int {
	return LineupSize(g.cfg.Session, generation)
}

// Generation returns the number of selections made in the current run.
func (g *Game) Generation() int {
	return g.generation
}

// HighScore returns the longest run so far. It survives Reset.
func (g *Game) HighScore() int {
	return g.highScore
}

// Active reports whether a run is in progress.
func (g *Game) Active() bool {
	return g.active
}

// Original returns a copy of the run's original body.
func (g *Game) Original() (components.Body, bool) {
	if !g.hasOriginal {
		return components.Body{}, false
	}
	return g.original.Clone(), true
}

// Current returns a copy of the last selected body. Returns false before
// the first selection of a run.
func (g *Game) Current() (components.Body, bool) {
	if g.current == nil {
		return components.Body{}, false
	}
	return g.current.Clone(), true
}

// Lineup returns the candidates currently on offer, left to right.
func (g *Game) Lineup() []systems.Candidate {
	return g.lineup.Candidates()
}

// LastScore returns the resemblance of the last selection; 1 at the start
// of a run.
func (g *Game) LastScore() float64 {
	return g.lastScore
}

// Progress returns the progress bar fill position for the last score.
func (g *Game) Progress() float64 {
	return ProgressPosition(g.lastScore, g.cfg.Progress.Empty, g.cfg.Progress.Full)
}

// DecayStage returns the photo decay stage.
func (g *Game) DecayStage() int {
	return g.decay.CurrentAsset()
}

// DecayAsset returns the photo asset for the current decay stage.
func (g *Game) DecayAsset() string {
	return g.decay.Asset()
}

// Run returns the number of runs started.
func (g *Game) Run() int {
	return g.run
}

// LastSummary returns the summary of the most recently finished run.
func (g *Game) LastSummary() telemetry.RunSummary {
	return g.lastSummary
}

// Catalog returns the feature catalog.
func (g *Game) Catalog() *features.Catalog {
	return g.catalog
}

// Config returns the game's config.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.rngSeed
}

// Collector returns the finished-run statistics.
func (g *Game) Collector() *telemetry.Collector {
	return g.collector
}

// HallOfFame returns the longest runs and their originals.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}
