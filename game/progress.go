package game

import "fmt"

// ProgressPosition maps a score in [0,1] linearly onto a bar between the
// empty and full fill positions. Scores outside [0,1] are clamped.
func ProgressPosition(score, empty, full float64) float64 {
	score = max(0, min(1, score))
	return empty + score*(full-empty)
}

// FormatPercent formats a score as a percentage with one decimal, "66.7%".
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
