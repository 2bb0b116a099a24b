package game

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/systems"
	"github.com/pthm-cable/resemblance/telemetry"
)

// Start begins a new run from a freshly generated original.
func (g *Game) Start() error {
	if g.active {
		return ErrSessionActive
	}
	original, err := g.generator.Fresh()
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return g.begin(original)
}

// StartWith begins a new run from a given original, such as one replayed
// from the hall of fame.
func (g *Game) StartWith(original components.Body) error {
	if g.active {
		return ErrSessionActive
	}
	if !original.Face.Complete(g.catalog) {
		return fmt.Errorf("start: incomplete face: %w", systems.ErrInvalidParent)
	}
	if _, ok := g.catalog.Shirt(original.ShirtColor); !ok {
		return fmt.Errorf("start: shirt %d: %w", original.ShirtColor, systems.ErrInvalidParent)
	}
	return g.begin(original.Clone())
}

func (g *Game) begin(original components.Body) error {
	g.original = original
	g.hasOriginal = true
	g.current = nil
	g.generation = 0
	g.lastScore = 1
	g.runScores = g.runScores[:0]
	g.decay.Reset()
	g.run++

	if err := g.lineup.Build(g.generator, g.original, g.LineupSize(0), 0); err != nil {
		g.hasOriginal = false
		return fmt.Errorf("start: %w", err)
	}
	g.active = true

	slog.Debug("run_started", "run", g.run, "lineup", g.lineup.Len())
	g.presenter.ShowLineup(g.original.Clone(), g.lineup.Candidates())
	return nil
}

// SelectChild picks a lineup member as the next generation. An ID that is
// not in the current lineup is rejected without changing any state.
func (g *Game) SelectChild(id uint32) (Outcome, error) {
	if !g.active {
		return Outcome{}, ErrSessionIdle
	}
	child, ok := g.lineup.Get(id)
	if !ok {
		return Outcome{}, fmt.Errorf("child %d: %w", id, ErrInvalidSelection)
	}
	score, err := g.scorer(g.original, child)
	if err != nil {
		return Outcome{}, fmt.Errorf("scoring child %d: %w", id, err)
	}

	parent := g.original
	if g.current != nil {
		parent = *g.current
	}
	lineupSize := g.lineup.Len()

	g.current = &child
	g.generation++
	g.decay.Advance()
	g.lastScore = score
	g.runScores = append(g.runScores, score)

	cfg := g.cfg.Session
	out := Outcome{
		Run:        g.run,
		ChildID:    id,
		Generation: g.generation,
		Score:      score,
		DecayStage: g.decay.CurrentAsset(),
		Changes:    systems.Changes(parent, child),
		Ended:      score-cfg.SimilarityThreshold <= cfg.Epsilon,
	}

	g.recordSelection(out, lineupSize)
	g.presenter.ShowSelection(out)

	if out.Ended {
		g.endRun()
		if cfg.AutoRestart {
			if err := g.Start(); err != nil {
				return out, fmt.Errorf("restart: %w", err)
			}
		}
		return out, nil
	}

	if err := g.lineup.Build(g.generator, child, g.LineupSize(g.generation), g.generation); err != nil {
		g.endRun()
		out.Ended = true
		return out, fmt.Errorf("next lineup: %w", err)
	}
	g.presenter.ShowLineup(child.Clone(), g.lineup.Candidates())
	return out, nil
}

// Forfeit ends the active run as it stands, recording it like any other.
func (g *Game) Forfeit() error {
	if !g.active {
		return ErrSessionIdle
	}
	g.endRun()
	return nil
}

// Reset abandons any run and returns to idle. The high score is kept.
func (g *Game) Reset() {
	g.active = false
	g.original = components.Body{}
	g.hasOriginal = false
	g.current = nil
	g.generation = 0
	g.lastScore = 0
	g.runScores = g.runScores[:0]
	g.lineup.Clear()
	g.decay.Reset()
}

// endRun finishes the active run and emits its summary.
func (g *Game) endRun() {
	previousHigh := g.highScore
	g.highScore = max(g.highScore, g.generation)
	g.active = false
	g.lineup.Clear()

	var meanScore float64
	if len(g.runScores) > 0 {
		meanScore = stat.Mean(g.runScores, nil)
	}

	summary := telemetry.RunSummary{
		Run:        g.run,
		Seed:       g.rngSeed,
		Generation: g.generation,
		FinalScore: g.lastScore,
		MeanScore:  meanScore,
		HighScore:  g.highScore,
		DecayStage: g.decay.CurrentAsset(),
		Player:     g.playerName,
	}
	g.lastSummary = summary

	g.recordRun(summary, g.original, previousHigh)
	g.presenter.ShowSummary(summary)
}
