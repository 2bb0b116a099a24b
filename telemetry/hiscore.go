package telemetry

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidMode is returned for mode names that cannot be used as a JSON path key.
var ErrInvalidMode = errors.New("invalid hiscore mode")

var modePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// HiscoreRow is one ranking entry.
type HiscoreRow struct {
	Score int     `json:"score"` // generations survived
	Name  string  `json:"name"`
	Final float64 `json:"final"` // resemblance when the run ended
	Seed  int64   `json:"seed"`
}

// Hiscore is a ranking table per mode stored as a JSON document of the form
// {"modes": {"<mode>": {"ranking": [...]}}}. Other keys in the file are left alone.
type Hiscore struct {
	path string
	data []byte
	size int
}

// LoadHiscore reads the table at path. A missing file yields an empty table.
func LoadHiscore(path string, size int) (*Hiscore, error) {
	if size < 1 {
		size = 10
	}
	h := &Hiscore{path: path, size: size, data: []byte("{}")}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading hiscore: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("hiscore %s: not valid JSON", path)
	}
	h.data = data
	return h, nil
}

func rankingPath(mode string) (string, error) {
	if !modePattern.MatchString(mode) {
		return "", fmt.Errorf("%q: %w", mode, ErrInvalidMode)
	}
	return "modes." + mode + ".ranking", nil
}

// Ranking returns the rows for a mode, best first.
func (h *Hiscore) Ranking(mode string) []HiscoreRow {
	path, err := rankingPath(mode)
	if err != nil {
		return nil
	}

	var rows []HiscoreRow
	gjson.GetBytes(h.data, path).ForEach(func(_, v gjson.Result) bool {
		rows = append(rows, HiscoreRow{
			Score: int(v.Get("score").Int()),
			Name:  v.Get("name").String(),
			Final: v.Get("final").Float(),
			Seed:  v.Get("seed").Int(),
		})
		return true
	})
	return rows
}

// Best returns the top score for a mode, or 0.
func (h *Hiscore) Best(mode string) int {
	rows := h.Ranking(mode)
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Score
}

// Record inserts a row and returns its 1-based place, or 0 if it did not
// make the table. Ties rank below existing rows.
func (h *Hiscore) Record(mode string, row HiscoreRow) (int, error) {
	path, err := rankingPath(mode)
	if err != nil {
		return 0, err
	}

	rows := h.Ranking(mode)
	idx := sort.Search(len(rows), func(i int) bool {
		return rows[i].Score < row.Score
	})
	if idx >= h.size {
		return 0, nil
	}

	rows = append(rows, HiscoreRow{})
	copy(rows[idx+1:], rows[idx:])
	rows[idx] = row
	if len(rows) > h.size {
		rows = rows[:h.size]
	}

	out, err := sjson.SetBytes(h.data, path, rows)
	if err != nil {
		return 0, fmt.Errorf("updating hiscore: %w", err)
	}
	h.data = out
	return idx + 1, nil
}

// Save writes the table back to its file.
func (h *Hiscore) Save() error {
	if err := os.WriteFile(h.path, h.data, 0644); err != nil {
		return fmt.Errorf("writing hiscore: %w", err)
	}
	return nil
}
