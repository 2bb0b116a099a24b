package game

import (
	"log/slog"
	"strings"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/telemetry"
)

// recordSelection logs and writes a selection and handles its bookmarks.
func (g *Game) recordSelection(o Outcome, lineupSize int) {
	changes := make([]string, len(o.Changes))
	for i, c := range o.Changes {
		changes[i] = c.String()
	}

	rec := telemetry.SelectionRecord{
		Run:        o.Run,
		Generation: o.Generation,
		ChildID:    o.ChildID,
		Score:      o.Score,
		DecayStage: o.DecayStage,
		LineupSize: lineupSize,
		Changes:    strings.Join(changes, "|"),
		Ended:      o.Ended,
	}

	if g.logStats {
		slog.Info("selection", "record", rec)
	}
	if err := g.outputManager.WriteSelection(rec); err != nil {
		slog.Error("failed to write selection", "error", err)
	}

	g.handleBookmarks(g.bookmarkDetector.CheckSelection(rec))
}

// recordRun feeds a finished run to the collector, hall of fame and outputs.
func (g *Game) recordRun(s telemetry.RunSummary, original components.Body, previousHigh int) {
	g.collector.RecordRun(s)
	g.hallOfFame.Consider(s, original)

	if g.runCallback != nil {
		g.runCallback(s)
	}
	if g.logStats {
		s.LogStats()
	}
	if err := g.outputManager.WriteRun(s); err != nil {
		slog.Error("failed to write run", "error", err)
	}

	g.handleBookmarks(g.bookmarkDetector.CheckRun(s, previousHigh))
}

func (g *Game) handleBookmarks(bookmarks []telemetry.Bookmark) {
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
