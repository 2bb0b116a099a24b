package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/features"
)

// HallEntry is a long run and the original face it started from.
type HallEntry struct {
	Run        int
	Seed       int64
	Generation int
	FinalScore float64
	Player     string
	Original   components.Body
}

// HallOfFame keeps the longest runs, longest first.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
	rng     *rand.Rand
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int, rng *rand.Rand) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
		rng:     rng,
	}
}

// Consider offers a finished run. Returns true if it was added.
func (hof *HallOfFame) Consider(s RunSummary, original components.Body) bool {
	if s.Generation == 0 {
		return false
	}

	entry := HallEntry{
		Run:        s.Run,
		Seed:       s.Seed,
		Generation: s.Generation,
		FinalScore: s.FinalScore,
		Player:     s.Player,
		Original:   original.Clone(),
	}

	var added bool
	hof.entries, added = hof.insertEntry(hof.entries, entry)
	return added
}

// insertEntry adds an entry, maintaining descending order by generation.
// If the hall is full, the shortest run is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) ([]HallEntry, bool) {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Generation < entry.Generation
	})

	// If hall is full and entry would be last (shortest), skip it
	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall, false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall, true
}

// Sample picks an original by tournament selection (k=3) so longer runs
// are favoured. Returns false if the hall is empty.
func (hof *HallOfFame) Sample() (components.Body, bool) {
	if len(hof.entries) == 0 {
		return components.Body{}, false
	}

	const tournamentSize = 3
	var best *HallEntry
	for i := 0; i < tournamentSize; i++ {
		candidate := &hof.entries[hof.rng.Intn(len(hof.entries))]
		if best == nil || candidate.Generation > best.Generation {
			best = candidate
		}
	}
	return best.Original.Clone(), true
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// Top returns the longest run. Returns false if the hall is empty.
func (hof *HallOfFame) Top() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// Entries returns a copy of all entries, longest first.
func (hof *HallOfFame) Entries() []HallEntry {
	out := make([]HallEntry, len(hof.entries))
	copy(out, hof.entries)
	return out
}

// bodyJSON names categories so the file stays readable and survives
// category reordering.
type bodyJSON struct {
	Choices map[string]int  `json:"choices"`
	Shrunk  map[string]bool `json:"shrunk,omitempty"`
	Shirt   int             `json:"shirt"`
}

type hallEntryJSON struct {
	Run        int      `json:"run"`
	Seed       int64    `json:"seed"`
	Generation int      `json:"generation"`
	FinalScore float64  `json:"final_score"`
	Player     string   `json:"player"`
	Original   bodyJSON `json:"original"`
}

func toBodyJSON(b components.Body) bodyJSON {
	out := bodyJSON{Choices: make(map[string]int), Shirt: b.ShirtColor}
	for i := 0; i < features.NumCategories; i++ {
		c := features.Category(i)
		out.Choices[c.String()] = b.Face.Choice(c)
	}
	for _, c := range features.ShrinkableCategories {
		if b.Face.IsShrunk(c) {
			if out.Shrunk == nil {
				out.Shrunk = make(map[string]bool)
			}
			out.Shrunk[c.String()] = true
		}
	}
	return out
}

func fromBodyJSON(bj bodyJSON) (components.Body, error) {
	body := components.NewBody()
	body.ShirtColor = bj.Shirt
	for name, idx := range bj.Choices {
		c, ok := features.Parse(name)
		if !ok {
			return components.Body{}, fmt.Errorf("unknown category %q", name)
		}
		body.Face.Choices[c] = idx
	}
	for name, shrunk := range bj.Shrunk {
		c, ok := features.Parse(name)
		if !ok || !c.IsShrinkable() {
			return components.Body{}, fmt.Errorf("category %q cannot shrink", name)
		}
		body.Face = body.Face.WithShrunk(c, shrunk)
	}
	return body, nil
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := make([]hallEntryJSON, len(hof.entries))
	for i, e := range hof.entries {
		export[i] = hallEntryJSON{
			Run:        e.Run,
			Seed:       e.Seed,
			Generation: e.Generation,
			FinalScore: e.FinalScore,
			Player:     e.Player,
			Original:   toBodyJSON(e.Original),
		}
	}
	return json.MarshalIndent(export, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file. Entries that do
// not decode are skipped with a warning.
func LoadHallOfFameFromFile(path string, maxSize int, rng *rand.Rand) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw []hallEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	if len(raw) > maxSize {
		maxSize = len(raw)
	}
	hof := NewHallOfFame(maxSize, rng)

	for _, ej := range raw {
		original, err := fromBodyJSON(ej.Original)
		if err != nil {
			slog.Warn("hall_of_fame_load: skipping entry", "run", ej.Run, "error", err)
			continue
		}
		hof.entries, _ = hof.insertEntry(hof.entries, HallEntry{
			Run:        ej.Run,
			Seed:       ej.Seed,
			Generation: ej.Generation,
			FinalScore: ej.FinalScore,
			Player:     ej.Player,
			Original:   original,
		})
	}

	return hof, nil
}
