// Package systems implements face generation, resemblance scoring, photo
// decay and the lineup store.
package systems

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/pthm-cable/resemblance/components"
	"github.com/pthm-cable/resemblance/config"
	"github.com/pthm-cable/resemblance/features"
)

var (
	// ErrPoolTooSmall is returned when a new option must differ from the
	// parent's but the pool has fewer than two options.
	ErrPoolTooSmall = errors.New("pool too small to exclude current option")
	// ErrTooManyDifferences is returned when a child would need more
	// distinct category changes than there are categories.
	ErrTooManyDifferences = errors.New("more differences than categories")
	// ErrInvalidParent is returned when a parent holds an index outside its pool.
	ErrInvalidParent = errors.New("parent has an invalid choice")
)

// GeneratorConfig holds the mutation knobs.
type GeneratorConfig struct {
	NumDifferences    int
	ShrinkChance      float64
	FreshShrinkChance float64
}

// GeneratorConfigFrom converts the mutation section of the config.
func GeneratorConfigFrom(cfg config.MutationConfig) GeneratorConfig {
	return GeneratorConfig{
		NumDifferences:    cfg.NumDifferences,
		ShrinkChance:      cfg.ShrinkChance,
		FreshShrinkChance: cfg.FreshShrinkChance,
	}
}

// Generator creates random faces and derives descendants from a parent.
// It is not safe for concurrent use; give each goroutine its own rng.
type Generator struct {
	catalog *features.Catalog
	cfg     GeneratorConfig
	rng     *rand.Rand
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(catalog *features.Catalog, cfg GeneratorConfig, rng *rand.Rand) *Generator {
	return &Generator{catalog: catalog, cfg: cfg, rng: rng}
}

// Catalog returns the catalog the generator draws from.
func (g *Generator) Catalog() *features.Catalog {
	return g.catalog
}

// Fresh builds a random body: a uniform option per category, each
// shrinkable feature shrunk with FreshShrinkChance, and a uniform shirt.
func (g *Generator) Fresh() (components.Body, error) {
	if err := g.catalog.CheckPools(); err != nil {
		return components.Body{}, fmt.Errorf("fresh: %w", err)
	}

	body := components.NewBody()
	for i := 0; i < features.NumCategories; i++ {
		body.Face.Choices[i] = g.rng.Intn(g.catalog.Size(features.Category(i)))
	}
	for slot := range body.Face.Shrunk {
		body.Face.Shrunk[slot] = g.rng.Float64() < g.cfg.FreshShrinkChance
	}
	body.ShirtColor = g.rng.Intn(len(g.catalog.Shirts()))

	return body, nil
}

// FromParent derives a child that differs from parent in exactly
// NumDifferences dimensions. Categories are picked without replacement; a
// shrinkable pick may toggle its shrunk flag instead of swapping its option,
// in which case the category stays eligible for one later swap but cannot
// be toggled again. The shirt is inherited unchanged.
func (g *Generator) FromParent(parent components.Body) (components.Body, error) {
	n := g.cfg.NumDifferences
	if n < 0 || n > features.NumCategories {
		return components.Body{}, fmt.Errorf("from parent: %d differences: %w", n, ErrTooManyDifferences)
	}
	if err := g.catalog.CheckPools(); err != nil {
		return components.Body{}, fmt.Errorf("from parent: %w", err)
	}
	if len(parent.Face.Choices) != features.NumCategories || len(parent.Face.Shrunk) != features.NumShrinkable {
		return components.Body{}, fmt.Errorf("from parent: malformed face: %w", ErrInvalidParent)
	}

	child := parent.Clone()
	eligible := features.All.Categories()
	shrinkEligible := features.Shrinkable

	for i := 0; i < n; i++ {
		pick := g.rng.Intn(len(eligible))
		cat := eligible[pick]
		eligible = append(eligible[:pick], eligible[pick+1:]...)

		if shrinkEligible.Has(cat) && g.rng.Float64() < g.cfg.ShrinkChance {
			slot := features.ShrinkSlot(cat)
			child.Face.Shrunk[slot] = !child.Face.Shrunk[slot]
			shrinkEligible = shrinkEligible.Remove(cat)
			eligible = append(eligible, cat)
			continue
		}

		idx, err := g.indexExcluding(cat, child.Face.Choice(cat))
		if err != nil {
			return components.Body{}, fmt.Errorf("from parent: %w", err)
		}
		child.Face.Choices[cat] = idx
	}

	return child, nil
}

// indexExcluding draws uniformly from the pool without the current index.
func (g *Generator) indexExcluding(cat features.Category, current int) (int, error) {
	size := g.catalog.Size(cat)
	if size < 2 {
		return 0, fmt.Errorf("%s has %d options: %w", cat, size, ErrPoolTooSmall)
	}
	if current < 0 || current >= size {
		return 0, fmt.Errorf("%s index %d of %d: %w", cat, current, size, ErrInvalidParent)
	}

	idx := g.rng.Intn(size - 1)
	if idx >= current {
		idx++
	}
	return idx, nil
}

// Change describes one differing dimension between two bodies.
type Change struct {
	Category features.Category
	Shrink   bool // true when the shrunk flag differs rather than the option
}

// String formats the change as "nose" or "nose:shrink".
func (c Change) String() string {
	if c.Shrink {
		return c.Category.String() + ":shrink"
	}
	return c.Category.String()
}

// Changes lists the dimensions in which b differs from a, options first.
func Changes(a, b components.Body) []Change {
	var out []Change
	for i := 0; i < features.NumCategories; i++ {
		c := features.Category(i)
		if a.Face.Choice(c) != b.Face.Choice(c) {
			out = append(out, Change{Category: c})
		}
	}
	for _, c := range features.ShrinkableCategories {
		if a.Face.IsShrunk(c) != b.Face.IsShrunk(c) {
			out = append(out, Change{Category: c, Shrink: true})
		}
	}
	return out
}
