package game

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/features"
	"github.com/pthm-cable/resemblance/systems"
	"github.com/pthm-cable/resemblance/telemetry"
)

// Presenter receives what a display layer needs to show. Bodies passed in
// are copies the presenter may keep.
type Presenter interface {
	// ShowLineup offers the candidates derived from parent.
	ShowLineup(parent components.Body, lineup []systems.Candidate)
	ShowSelection(o Outcome)
	ShowSummary(s telemetry.RunSummary)
}

// NopPresenter discards everything.
type NopPresenter struct{}

func (NopPresenter) ShowLineup(components.Body, []systems.Candidate) {}
func (NopPresenter) ShowSelection(Outcome)                          {}
func (NopPresenter) ShowSummary(telemetry.RunSummary)               {}

// LogPresenter writes session events to a slog logger.
type LogPresenter struct {
	Catalog *features.Catalog
	Logger  *slog.Logger // nil = slog.Default()
}

func (p LogPresenter) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p LogPresenter) ShowLineup(parent components.Body, lineup []systems.Candidate) {
	ids := make([]uint32, len(lineup))
	for i, c := range lineup {
		ids[i] = c.ID
	}
	p.logger().Info("lineup",
		"parent", Describe(p.Catalog, parent),
		"size", len(lineup),
		"ids", ids,
	)
}

func (p LogPresenter) ShowSelection(o Outcome) {
	p.logger().Info("selected",
		"run", o.Run,
		"generation", o.Generation,
		"child_id", o.ChildID,
		"score", FormatPercent(o.Score),
		"decay_stage", o.DecayStage,
		"ended", o.Ended,
	)
}

func (p LogPresenter) ShowSummary(s telemetry.RunSummary) {
	p.logger().Info("summary", "run", s)
}

// Describe renders a body with its option names, e.g.
// "head=head-oval skin=#e0ac69 ears=ears-round(shrunk) ... shirt=#3a6ea5".
// A nil catalog prints indices.
func Describe(cat *features.Catalog, b components.Body) string {
	var sb strings.Builder
	for i := 0; i < features.NumCategories; i++ {
		c := features.Category(i)
		idx := b.Face.Choice(c)
		name := fmt.Sprint(idx)
		if cat != nil {
			if opt, ok := cat.Option(c, idx); ok {
				name = opt
			}
		}
		fmt.Fprintf(&sb, "%s=%s", c, name)
		if b.Face.IsShrunk(c) {
			sb.WriteString("(shrunk)")
		}
		sb.WriteByte(' ')
	}

	shirt := fmt.Sprint(b.ShirtColor)
	if cat != nil {
		if s, ok := cat.Shirt(b.ShirtColor); ok {
			shirt = s
		}
	}
	sb.WriteString("shirt=" + shirt)
	return sb.String()
}
