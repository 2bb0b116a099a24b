package systems

import "errors"

// ErrNoDecayStages is returned when a tracker is built without display assets.
var ErrNoDecayStages = errors.New("no decay stages")

// DecayTracker walks the photo through its decay stages, one per
// generation. It saturates at the last stage and only goes back on Reset.
type DecayTracker struct {
	assets []string
	stage  int
}

// NewDecayTracker creates a tracker over the ordered decay assets.
func NewDecayTracker(assets []string) (*DecayTracker, error) {
	if len(assets) == 0 {
		return nil, ErrNoDecayStages
	}
	return &DecayTracker{assets: assets}, nil
}

// Advance moves to the next stage. Returns false, changing nothing, if the
// photo is already fully decayed.
func (d *DecayTracker) Advance() bool {
	if d.stage >= d.MaxStage() {
		return false
	}
	d.stage++
	return true
}

// Reset returns to the first stage.
func (d *DecayTracker) Reset() {
	d.stage = 0
}

// CurrentAsset returns the index of the asset to display.
// Always within [0, len(assets)).
func (d *DecayTracker) CurrentAsset() int {
	return d.stage
}

// Stage is an alias of CurrentAsset for readers that think in stages.
func (d *DecayTracker) Stage() int {
	return d.stage
}

// MaxStage is the last reachable stage.
func (d *DecayTracker) MaxStage() int {
	return len(d.assets) - 1
}

// Asset returns the handle of the asset for the current stage.
func (d *DecayTracker) Asset() string {
	return d.assets[d.stage]
}
