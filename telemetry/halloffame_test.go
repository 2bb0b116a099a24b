package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/features"
)

func testBody(choice int, shrunkNose bool) components.Body {
	b := components.NewBody()
	for i := range b.Face.Choices {
		b.Face.Choices[i] = choice
	}
	b.Face = b.Face.WithShrunk(features.Nose, shrunkNose)
	b.ShirtColor = choice
	return b
}

func TestHallOfFame_OrderAndCapacity(t *testing.T) {
	hof := NewHallOfFame(3, rand.New(rand.NewSource(1)))

	for i, g := range []int{2, 7, 4, 1, 9} {
		hof.Consider(RunSummary{Run: i, Generation: g}, testBody(0, false))
	}

	entries := hof.Entries()
	if len(entries) != 3 {
		t.Fatalf("size = %d, want 3", len(entries))
	}
	want := []int{9, 7, 4}
	for i, e := range entries {
		if e.Generation != want[i] {
			t.Errorf("entry %d generation = %d, want %d", i, e.Generation, want[i])
		}
	}

	if hof.Consider(RunSummary{Run: 9, Generation: 3}, testBody(0, false)) {
		t.Error("run shorter than a full hall should be rejected")
	}
	if top, ok := hof.Top(); !ok || top.Generation != 9 {
		t.Errorf("Top = %+v, %v", top, ok)
	}
}

func TestHallOfFame_SkipsEmptyRuns(t *testing.T) {
	hof := NewHallOfFame(3, rand.New(rand.NewSource(1)))
	if hof.Consider(RunSummary{Generation: 0}, testBody(0, false)) {
		t.Error("zero-generation run should not enter the hall")
	}
	if _, ok := hof.Sample(); ok {
		t.Error("Sample on empty hall should report false")
	}
}

func TestHallOfFame_StoresCopy(t *testing.T) {
	hof := NewHallOfFame(3, rand.New(rand.NewSource(1)))
	body := testBody(1, false)
	hof.Consider(RunSummary{Generation: 5}, body)

	body.Face.Choices[0] = 2

	got, ok := hof.Sample()
	if !ok {
		t.Fatal("Sample reported empty hall")
	}
	if got.Face.Choices[0] != 1 {
		t.Error("hall entry shares memory with the caller's body")
	}
}

func TestHallOfFame_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	hof := NewHallOfFame(5, rand.New(rand.NewSource(1)))
	hof.Consider(RunSummary{Run: 1, Seed: 42, Generation: 6, Player: "greedy"}, testBody(2, true))
	hof.Consider(RunSummary{Run: 2, Seed: 43, Generation: 3, Player: "random"}, testBody(1, false))

	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatalf("WriteHallOfFame: %v", err)
	}

	loaded, err := LoadHallOfFameFromFile(filepath.Join(dir, "hall_of_fame.json"), 5, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("LoadHallOfFameFromFile: %v", err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded size = %d, want 2", loaded.Size())
	}

	top, _ := loaded.Top()
	if top.Seed != 42 || top.Player != "greedy" {
		t.Errorf("top = %+v", top)
	}
	if !top.Original.Equal(testBody(2, true)) {
		t.Errorf("original not restored: %+v", top.Original)
	}
}

func TestLoadHallOfFame_SkipsBadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hof.json")
	data := `[
  {"run": 1, "generation": 4, "original": {"choices": {"head": 1}, "shirt": 0}},
  {"run": 2, "generation": 5, "original": {"choices": {"tail": 1}, "shirt": 0}},
  {"run": 3, "generation": 6, "original": {"choices": {"head": 0}, "shrunk": {"skin": true}, "shirt": 0}}
]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	hof, err := LoadHallOfFameFromFile(path, 10, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("LoadHallOfFameFromFile: %v", err)
	}
	if hof.Size() != 1 {
		t.Errorf("size = %d, want 1", hof.Size())
	}
}

func TestLoadHallOfFame_Missing(t *testing.T) {
	if _, err := LoadHallOfFameFromFile(filepath.Join(t.TempDir(), "none.json"), 3, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for missing file")
	}
}
