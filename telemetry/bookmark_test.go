package telemetry

import "testing"

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_CloseCall(t *testing.T) {
	bd := NewBookmarkDetector(0.2, 0.05, 5)

	bms := bd.CheckSelection(SelectionRecord{Run: 1, Generation: 3, Score: 0.22})
	if !hasBookmark(bms, BookmarkCloseCall) {
		t.Error("expected close_call bookmark")
	}

	bms = bd.CheckSelection(SelectionRecord{Run: 1, Generation: 4, Score: 0.6})
	if hasBookmark(bms, BookmarkCloseCall) {
		t.Error("comfortable score should not be a close call")
	}

	// A selection that ended the run is not a close call
	bms = bd.CheckSelection(SelectionRecord{Run: 1, Generation: 5, Score: 0.2, Ended: true})
	if hasBookmark(bms, BookmarkCloseCall) {
		t.Error("ending selection should not be a close call")
	}
}

func TestBookmarkDetector_PhotoRuinedOncePerRun(t *testing.T) {
	bd := NewBookmarkDetector(0.2, 0.05, 2)

	if bms := bd.CheckSelection(SelectionRecord{Run: 1, Score: 0.9, DecayStage: 2}); !hasBookmark(bms, BookmarkPhotoRuined) {
		t.Error("expected photo_ruined bookmark")
	}
	if bms := bd.CheckSelection(SelectionRecord{Run: 1, Score: 0.9, DecayStage: 2}); hasBookmark(bms, BookmarkPhotoRuined) {
		t.Error("photo_ruined reported twice in one run")
	}
	if bms := bd.CheckSelection(SelectionRecord{Run: 2, Score: 0.9, DecayStage: 2}); !hasBookmark(bms, BookmarkPhotoRuined) {
		t.Error("expected photo_ruined bookmark for a new run")
	}
}

func TestBookmarkDetector_NewHigh(t *testing.T) {
	bd := NewBookmarkDetector(0.2, 0.05, 5)

	if bms := bd.CheckRun(RunSummary{Run: 1, Generation: 4}, 3); !hasBookmark(bms, BookmarkNewHigh) {
		t.Error("expected new_high_score bookmark")
	}
	if bms := bd.CheckRun(RunSummary{Run: 2, Generation: 4}, 4); hasBookmark(bms, BookmarkNewHigh) {
		t.Error("tying the high score is not a new high")
	}
}

func TestBookmarkDetector_LongRun(t *testing.T) {
	bd := NewBookmarkDetector(0.2, 0.05, 5)

	for i := 0; i < 5; i++ {
		if bms := bd.CheckRun(RunSummary{Run: i, Generation: 2}, 100); hasBookmark(bms, BookmarkLongRun) {
			t.Fatalf("run %d: long_run before history exists", i)
		}
	}

	if bms := bd.CheckRun(RunSummary{Run: 5, Generation: 4}, 100); !hasBookmark(bms, BookmarkLongRun) {
		t.Error("expected long_run bookmark at 2x the mean")
	}
	if bms := bd.CheckRun(RunSummary{Run: 6, Generation: 3}, 100); hasBookmark(bms, BookmarkLongRun) {
		t.Error("run below 2x the mean flagged as long")
	}
}
