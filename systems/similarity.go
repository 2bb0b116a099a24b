package systems

import (
	"errors"

	"github.com/pthm-cable/resemblance/components"
)

// ErrNoComparablePositions is returned when two bodies share no positions
// to compare.
var ErrNoComparablePositions = errors.New("no comparable positions")

// Scorer computes resemblance between two bodies.
type Scorer struct {
	// IncludeShrink adds the shrunk flags to the compared positions.
	IncludeShrink bool
}

// DefaultScorer compares choices and shrunk flags.
var DefaultScorer = Scorer{IncludeShrink: true}

// Score returns the fraction of compared positions on which a and b agree.
// Lengths are truncated to the shorter face. The result is symmetric and
// lies in [0,1]; identical bodies score 1.
func (s Scorer) Score(a, b components.Body) (float64, error) {
	var equal, total int

	n := min(len(a.Face.Choices), len(b.Face.Choices))
	for i := 0; i < n; i++ {
		if a.Face.Choices[i] == b.Face.Choices[i] {
			equal++
		}
	}
	total += n

	if s.IncludeShrink {
		m := min(len(a.Face.Shrunk), len(b.Face.Shrunk))
		for i := 0; i < m; i++ {
			if a.Face.Shrunk[i] == b.Face.Shrunk[i] {
				equal++
			}
		}
		total += m
	}

	if total == 0 {
		return 0, ErrNoComparablePositions
	}
	return float64(equal) / float64(total), nil
}

// Score compares a and b with DefaultScorer.
func Score(a, b components.Body) (float64, error) {
	return DefaultScorer.Score(a, b)
}
