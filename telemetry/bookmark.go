package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCloseCall   BookmarkType = "close_call"
	BookmarkPhotoRuined BookmarkType = "photo_ruined"
	BookmarkNewHigh     BookmarkType = "new_high_score"
	BookmarkLongRun     BookmarkType = "long_run"
)

// Bookmark marks a notable moment in a session.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Run         int          `csv:"run"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"run", b.Run,
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector spots notable selections and runs.
type BookmarkDetector struct {
	threshold   float64
	closeMargin float64
	maxStage    int

	// Run length multiple of the running mean that counts as a long run
	longRunFactor float64
	collector     *Collector

	ruinedRun int // last run that already reported photo_ruined
}

// NewBookmarkDetector creates a detector. closeMargin is how far above the
// threshold a surviving score may be to count as a close call; maxStage is
// the last decay stage.
func NewBookmarkDetector(threshold, closeMargin float64, maxStage int) *BookmarkDetector {
	return &BookmarkDetector{
		threshold:     threshold,
		closeMargin:   closeMargin,
		maxStage:      maxStage,
		longRunFactor: 2,
		collector:     NewCollector(),
		ruinedRun:     -1,
	}
}

// CheckSelection returns bookmarks triggered by a selection.
func (bd *BookmarkDetector) CheckSelection(r SelectionRecord) []Bookmark {
	var out []Bookmark

	if !r.Ended && r.Score-bd.threshold <= bd.closeMargin {
		out = append(out, Bookmark{
			Type:        BookmarkCloseCall,
			Run:         r.Run,
			Generation:  r.Generation,
			Description: fmt.Sprintf("survived at %.3f, threshold %.3f", r.Score, bd.threshold),
		})
	}

	if r.DecayStage >= bd.maxStage && bd.ruinedRun != r.Run {
		bd.ruinedRun = r.Run
		out = append(out, Bookmark{
			Type:        BookmarkPhotoRuined,
			Run:         r.Run,
			Generation:  r.Generation,
			Description: fmt.Sprintf("photo reached final decay stage %d", r.DecayStage),
		})
	}

	return out
}

// CheckRun returns bookmarks triggered by a finished run. previousHigh is
// the high score before this run ended.
func (bd *BookmarkDetector) CheckRun(s RunSummary, previousHigh int) []Bookmark {
	var out []Bookmark

	if s.Generation > previousHigh {
		out = append(out, Bookmark{
			Type:        BookmarkNewHigh,
			Run:         s.Run,
			Generation:  s.Generation,
			Description: fmt.Sprintf("high score %d -> %d", previousHigh, s.Generation),
		})
	}

	// Need a few runs before the mean means anything
	if bd.collector.Runs() >= 5 {
		mean := bd.collector.Aggregate().MeanGenerations
		if float64(s.Generation) >= bd.longRunFactor*mean && mean > 0 {
			out = append(out, Bookmark{
				Type:        BookmarkLongRun,
				Run:         s.Run,
				Generation:  s.Generation,
				Description: fmt.Sprintf("%d generations vs mean %.1f", s.Generation, mean),
			})
		}
	}
	bd.collector.RecordRun(s)

	return out
}
