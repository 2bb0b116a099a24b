package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/config"
	"github.com/pthm-cable/resemblance/systems"
	"github.com/pthm-cable/resemblance/telemetry"
)

func init() {
	config.MustInit("")
}

// scripted returns the given scores in order, repeating the last one.
func scripted(scores ...float64) ScoreFunc {
	i := 0
	return func(_, _ components.Body) (float64, error) {
		s := scores[min(i, len(scores)-1)]
		i++
		return s, nil
	}
}

type recordingPresenter struct {
	lineups    [][]systems.Candidate
	selections []Outcome
	summaries  []telemetry.RunSummary
}

func (p *recordingPresenter) ShowLineup(_ components.Body, lineup []systems.Candidate) {
	p.lineups = append(p.lineups, lineup)
}

func (p *recordingPresenter) ShowSelection(o Outcome) {
	p.selections = append(p.selections, o)
}

func (p *recordingPresenter) ShowSummary(s telemetry.RunSummary) {
	p.summaries = append(p.summaries, s)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, scorer ScoreFunc, p Presenter) *Game {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	g, err := NewGameWithOptions(Options{Seed: 42, Config: cfg, Scorer: scorer, Presenter: p})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func firstID(t *testing.T, g *Game) uint32 {
	t.Helper()
	lineup := g.Lineup()
	if len(lineup) == 0 {
		t.Fatal("empty lineup")
	}
	return lineup[0].ID
}

func TestLineupSize(t *testing.T) {
	cfg := config.SessionConfig{StartingLineupCount: 3.0, MaxLineupCount: 7, LineupIncrementation: 0.5}
	tests := []struct {
		generation int
		want       int
	}{
		{0, 3},
		{1, 3},
		{2, 4},
		{3, 4},
		{7, 6},
		{8, 7},
		{50, 7},
	}
	for _, tt := range tests {
		if got := LineupSize(cfg, tt.generation); got != tt.want {
			t.Errorf("LineupSize(%d) = %d, want %d", tt.generation, got, tt.want)
		}
	}
}

func TestNewGame_UsesGlobalConfig(t *testing.T) {
	g, err := NewGame(1)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Close()
	if g.Config() != config.Cfg() {
		t.Error("NewGame should use the global config")
	}
	if g.Active() {
		t.Error("new game should be idle")
	}
}

func TestStart(t *testing.T) {
	p := &recordingPresenter{}
	g := newTestGame(t, nil, nil, p)

	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !g.Active() || g.Generation() != 0 {
		t.Fatalf("after Start: active=%v generation=%d", g.Active(), g.Generation())
	}
	if _, ok := g.Current(); ok {
		t.Error("current should be unset before the first selection")
	}

	original, ok := g.Original()
	if !ok {
		t.Fatal("no original after Start")
	}
	if !original.Face.Complete(g.Catalog()) {
		t.Errorf("original incomplete: %+v", original)
	}

	lineup := g.Lineup()
	if len(lineup) != g.LineupSize(0) {
		t.Fatalf("lineup size = %d, want %d", len(lineup), g.LineupSize(0))
	}
	for _, c := range lineup {
		if n := len(systems.Changes(original, c.Body)); n != g.Config().Mutation.NumDifferences {
			t.Errorf("candidate %d differs in %d dims, want %d", c.ID, n, g.Config().Mutation.NumDifferences)
		}
	}
	if len(p.lineups) != 1 {
		t.Errorf("presenter saw %d lineups, want 1", len(p.lineups))
	}

	if err := g.Start(); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Start: err = %v, want ErrSessionActive", err)
	}
}

func TestSelectChild_ThresholdScenario(t *testing.T) {
	p := &recordingPresenter{}
	g := newTestGame(t, nil, scripted(0.9, 0.5, 0.15), p)

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	for i, wantEnded := range []bool{false, false, true} {
		out, err := g.SelectChild(firstID(t, g))
		if err != nil {
			t.Fatalf("selection %d: %v", i+1, err)
		}
		if out.Ended != wantEnded {
			t.Fatalf("selection %d: ended = %v, want %v", i+1, out.Ended, wantEnded)
		}
		if out.Generation != i+1 {
			t.Errorf("selection %d: generation = %d", i+1, out.Generation)
		}
	}

	if g.Active() {
		t.Error("run should have ended")
	}
	if g.Generation() != 3 {
		t.Errorf("Generation = %d, want 3", g.Generation())
	}
	if g.HighScore() < 3 {
		t.Errorf("HighScore = %d, want >= 3", g.HighScore())
	}
	if len(g.Lineup()) != 0 {
		t.Error("lineup should be cleared after the run ends")
	}
	if len(p.summaries) != 1 {
		t.Fatalf("presenter saw %d summaries, want 1", len(p.summaries))
	}
	if s := p.summaries[0]; s.Generation != 3 || s.FinalScore != 0.15 {
		t.Errorf("summary = %+v", s)
	}
}

func TestSelectChild_ScoreAtThresholdEndsRun(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, scripted(cfg.Session.SimilarityThreshold+cfg.Session.Epsilon/2), nil)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	out, err := g.SelectChild(firstID(t, g))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Ended {
		t.Error("score within epsilon of the threshold should end the run")
	}
}

func TestSelectChild_InvalidSelection(t *testing.T) {
	g := newTestGame(t, nil, scripted(0.9), nil)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	before := g.Lineup()
	if _, err := g.SelectChild(99999); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("unknown id: err = %v, want ErrInvalidSelection", err)
	}
	if g.Generation() != 0 || g.DecayStage() != 0 {
		t.Error("invalid selection changed state")
	}
	after := g.Lineup()
	if len(before) != len(after) || before[0].ID != after[0].ID {
		t.Error("invalid selection changed the lineup")
	}

	// A member of an earlier lineup is stale once a new lineup is built
	stale := before[1].ID
	if _, err := g.SelectChild(before[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SelectChild(stale); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("stale id: err = %v, want ErrInvalidSelection", err)
	}
	if g.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", g.Generation())
	}
}

func TestSelectChild_Idle(t *testing.T) {
	g := newTestGame(t, nil, nil, nil)
	if _, err := g.SelectChild(1); !errors.Is(err, ErrSessionIdle) {
		t.Errorf("err = %v, want ErrSessionIdle", err)
	}
	if err := g.Forfeit(); !errors.Is(err, ErrSessionIdle) {
		t.Errorf("Forfeit: err = %v, want ErrSessionIdle", err)
	}
}

func TestSelectChild_UpdatesCurrentAndDecay(t *testing.T) {
	g := newTestGame(t, nil, scripted(0.9), nil)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	maxStage := len(g.Config().Decay.Stages) - 1

	for i := 1; i <= maxStage+3; i++ {
		id := firstID(t, g)
		want := g.Lineup()[0].Body

		out, err := g.SelectChild(id)
		if err != nil {
			t.Fatalf("selection %d: %v", i, err)
		}
		current, ok := g.Current()
		if !ok || !current.Equal(want) {
			t.Fatalf("selection %d: current is not the selected child", i)
		}
		if got := g.DecayStage(); got != min(i, maxStage) {
			t.Errorf("selection %d: decay stage = %d, want %d", i, got, min(i, maxStage))
		}
		if out.DecayStage != g.DecayStage() {
			t.Errorf("outcome decay stage %d != %d", out.DecayStage, g.DecayStage())
		}
		if len(g.Lineup()) != g.LineupSize(i) {
			t.Errorf("selection %d: lineup size = %d, want %d", i, len(g.Lineup()), g.LineupSize(i))
		}
	}
	if g.DecayAsset() != g.Config().Decay.Stages[maxStage] {
		t.Errorf("DecayAsset = %q", g.DecayAsset())
	}
}

func TestSelectChild_DefaultScorer(t *testing.T) {
	g := newTestGame(t, nil, nil, nil)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	original, _ := g.Original()
	child := g.Lineup()[0]

	want, err := systems.Score(original, child.Body)
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.SelectChild(child.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.Score != want {
		t.Errorf("score = %v, want %v", out.Score, want)
	}
	if g.LastScore() != want {
		t.Errorf("LastScore = %v, want %v", g.LastScore(), want)
	}
}

func TestReset_KeepsHighScore(t *testing.T) {
	g := newTestGame(t, nil, scripted(0.1), nil)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SelectChild(firstID(t, g)); err != nil {
		t.Fatal(err)
	}
	if g.HighScore() != 1 {
		t.Fatalf("HighScore = %d, want 1", g.HighScore())
	}

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	g.Reset()

	if g.Active() {
		t.Error("Reset should leave the session idle")
	}
	if _, ok := g.Original(); ok {
		t.Error("Reset should clear the original")
	}
	if len(g.Lineup()) != 0 || g.DecayStage() != 0 || g.Generation() != 0 {
		t.Error("Reset left run state behind")
	}
	if g.HighScore() != 1 {
		t.Errorf("HighScore after Reset = %d, want 1", g.HighScore())
	}
}

func TestAutoRestart(t *testing.T) {
	cfg := testConfig(t)
	cfg.Session.AutoRestart = true
	g := newTestGame(t, cfg, scripted(0.1), nil)

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	out, err := g.SelectChild(firstID(t, g))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Ended {
		t.Fatal("run should have ended")
	}
	if !g.Active() || g.Run() != 2 || g.Generation() != 0 {
		t.Errorf("after auto restart: active=%v run=%d generation=%d", g.Active(), g.Run(), g.Generation())
	}
	if g.DecayStage() != 0 {
		t.Errorf("decay not reset for the new run: %d", g.DecayStage())
	}
}

func TestStartWith(t *testing.T) {
	g := newTestGame(t, nil, nil, nil)

	if err := g.StartWith(components.NewBody()); !errors.Is(err, systems.ErrInvalidParent) {
		t.Fatalf("unset body: err = %v, want ErrInvalidParent", err)
	}
	if g.Active() {
		t.Fatal("failed StartWith left the session active")
	}

	body := components.NewBody()
	for i := range body.Face.Choices {
		body.Face.Choices[i] = 1
	}
	body.ShirtColor = 0
	if err := g.StartWith(body); err != nil {
		t.Fatalf("StartWith: %v", err)
	}
	original, _ := g.Original()
	if !original.Equal(body) {
		t.Error("original differs from the given body")
	}
}

func TestSameSeedSameOriginal(t *testing.T) {
	a := newTestGame(t, nil, nil, nil)
	b := newTestGame(t, nil, nil, nil)
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	oa, _ := a.Original()
	ob, _ := b.Original()
	if !oa.Equal(ob) {
		t.Error("same seed produced different originals")
	}
}

func TestRunTelemetry(t *testing.T) {
	dir := t.TempDir()
	var runs []telemetry.RunSummary
	g, err := NewGameWithOptions(Options{
		Seed:        7,
		Config:      testConfig(t),
		Scorer:      scripted(0.8, 0.6, 0.1),
		OutputDir:   dir,
		PlayerName:  "tester",
		RunCallback: func(s telemetry.RunSummary) { runs = append(runs, s) },
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}

	summary, err := PlayRun(g, Greedy{}, 0)
	if err != nil {
		t.Fatalf("PlayRun: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if summary.Generation != 3 || summary.Player != "tester" || summary.Seed != 7 {
		t.Errorf("summary = %+v", summary)
	}
	if want := (0.8 + 0.6 + 0.1) / 3; summary.MeanScore < want-1e-9 || summary.MeanScore > want+1e-9 {
		t.Errorf("MeanScore = %v, want %v", summary.MeanScore, want)
	}
	if len(runs) != 1 {
		t.Errorf("RunCallback called %d times, want 1", len(runs))
	}
	if g.Collector().Runs() != 1 || g.HallOfFame().Size() != 1 {
		t.Errorf("collector runs=%d hall size=%d", g.Collector().Runs(), g.HallOfFame().Size())
	}

	for _, name := range []string{"config.yaml", "selections.csv", "runs.csv", "bookmarks.csv", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
