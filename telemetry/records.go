// Package telemetry records selections and finished runs, aggregates run
// statistics, and keeps the hall of fame and hiscore table.
package telemetry

import "log/slog"

// SelectionRecord is one player selection.
type SelectionRecord struct {
	Run        int     `csv:"run"`
	Generation int     `csv:"generation"`
	ChildID    uint32  `csv:"child_id"`
	Score      float64 `csv:"score"`
	DecayStage int     `csv:"decay_stage"`
	LineupSize int     `csv:"lineup_size"`
	Changes    string  `csv:"changes"` // dimensions the child changed from its parent, "|" separated
	Ended      bool    `csv:"ended"`
}

// RunSummary describes a finished run.
type RunSummary struct {
	Run        int     `csv:"run"`
	Seed       int64   `csv:"seed"`
	Generation int     `csv:"generation"`
	FinalScore float64 `csv:"final_score"`
	MeanScore  float64 `csv:"mean_score"`
	HighScore  int     `csv:"high_score"`
	DecayStage int     `csv:"decay_stage"`
	Player     string  `csv:"player"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r SelectionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("run", r.Run),
		slog.Int("generation", r.Generation),
		slog.Any("child_id", r.ChildID),
		slog.Float64("score", r.Score),
		slog.Int("decay_stage", r.DecayStage),
		slog.Int("lineup_size", r.LineupSize),
		slog.String("changes", r.Changes),
		slog.Bool("ended", r.Ended),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("run", s.Run),
		slog.Int64("seed", s.Seed),
		slog.Int("generation", s.Generation),
		slog.Float64("final_score", s.FinalScore),
		slog.Float64("mean_score", s.MeanScore),
		slog.Int("high_score", s.HighScore),
		slog.Int("decay_stage", s.DecayStage),
		slog.String("player", s.Player),
	)
}

// LogStats logs the run summary using slog.
func (s RunSummary) LogStats() {
	slog.Info("run_ended",
		"run", s.Run,
		"generation", s.Generation,
		"final_score", s.FinalScore,
		"mean_score", s.MeanScore,
		"high_score", s.HighScore,
		"decay_stage", s.DecayStage,
		"player", s.Player,
	)
}
