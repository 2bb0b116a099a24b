package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/systems"
	"github.com/pthm-cable/resemblance/telemetry"
)

// ErrEmptyLineup is returned by a Player asked to choose from nothing.
var ErrEmptyLineup = errors.New("empty lineup")

// Player picks a lineup member given the original.
type Player interface {
	Name() string
	Choose(original components.Body, lineup []systems.Candidate) (uint32, error)
}

// Greedy picks the candidate that most resembles the original. Ties go to
// the leftmost candidate.
type Greedy struct {
	Score ScoreFunc // nil = systems.Score
}

func (Greedy) Name() string { return "greedy" }

func (p Greedy) Choose(original components.Body, lineup []systems.Candidate) (uint32, error) {
	if len(lineup) == 0 {
		return 0, ErrEmptyLineup
	}
	score := p.Score
	if score == nil {
		score = systems.Score
	}

	best, bestScore := lineup[0].ID, -1.0
	for _, c := range lineup {
		s, err := score(original, c.Body)
		if err != nil {
			return 0, fmt.Errorf("scoring candidate %d: %w", c.ID, err)
		}
		if s > bestScore {
			best, bestScore = c.ID, s
		}
	}
	return best, nil
}

// Random picks a candidate uniformly.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random player drawing from rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (*Random) Name() string { return "random" }

func (p *Random) Choose(_ components.Body, lineup []systems.Candidate) (uint32, error) {
	if len(lineup) == 0 {
		return 0, ErrEmptyLineup
	}
	return lineup[p.rng.Intn(len(lineup))].ID, nil
}

// NewPlayer returns the named strategy.
func NewPlayer(name string, rng *rand.Rand, score ScoreFunc) (Player, error) {
	switch name {
	case "greedy":
		return Greedy{Score: score}, nil
	case "random":
		return NewRandom(rng), nil
	}
	return nil, fmt.Errorf("unknown player %q", name)
}

// PlayRun plays one run to its end with p, starting it if needed. A run
// still going after maxGenerations selections is forfeited; 0 means no cap.
func PlayRun(g *Game, p Player, maxGenerations int) (telemetry.RunSummary, error) {
	if !g.Active() {
		if err := g.Start(); err != nil {
			return telemetry.RunSummary{}, err
		}
	}
	original, _ := g.Original()

	for {
		if maxGenerations > 0 && g.Generation() >= maxGenerations {
			if err := g.Forfeit(); err != nil {
				return telemetry.RunSummary{}, err
			}
			return g.LastSummary(), nil
		}

		id, err := p.Choose(original, g.Lineup())
		if err != nil {
			return telemetry.RunSummary{}, fmt.Errorf("%s: %w", p.Name(), err)
		}
		out, err := g.SelectChild(id)
		if err != nil {
			return telemetry.RunSummary{}, err
		}
		if out.Ended {
			return g.LastSummary(), nil
		}
	}
}
