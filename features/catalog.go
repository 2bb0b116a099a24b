package features

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/resemblance/config"
)

// ErrEmptyPool is returned when a pool has no options to draw from.
var ErrEmptyPool = errors.New("empty option pool")

// Pool is the ordered list of option handles for one category.
type Pool []string

// Catalog holds the option pool for every category plus the shirt colours.
type Catalog struct {
	pools       [NumCategories]Pool
	shirts      Pool
	shrinkScale float64
}

// NewCatalog builds a catalog. Pools may be empty here; generation fails on
// them instead, so a misconfigured catalog is reported where it is used.
func NewCatalog(pools map[Category]Pool, shirts Pool, shrinkScale float64) *Catalog {
	cat := &Catalog{shirts: shirts, shrinkScale: shrinkScale}
	for c, p := range pools {
		if int(c) < NumCategories {
			cat.pools[c] = p
		}
	}
	return cat
}

// FromConfig builds a catalog from the catalog section of the config.
func FromConfig(cfg config.CatalogConfig) *Catalog {
	return NewCatalog(map[Category]Pool{
		Head:  cfg.Heads,
		Skin:  cfg.Skins,
		Ears:  cfg.Ears,
		Eyes:  cfg.Eyes,
		Nose:  cfg.Noses,
		Mouth: cfg.Mouths,
	}, cfg.Shirts, cfg.ShrinkScale)
}

// Pool returns the pool for a category.
func (c *Catalog) Pool(cat Category) Pool {
	return c.pools[cat]
}

// Size returns the number of options for a category.
func (c *Catalog) Size(cat Category) int {
	return len(c.pools[cat])
}

// Shirts returns the shirt colour pool.
func (c *Catalog) Shirts() Pool {
	return c.shirts
}

// Option returns the handle at idx in the category's pool.
func (c *Catalog) Option(cat Category, idx int) (string, bool) {
	p := c.pools[cat]
	if idx < 0 || idx >= len(p) {
		return "", false
	}
	return p[idx], true
}

// Shirt returns the shirt colour handle at idx.
func (c *Catalog) Shirt(idx int) (string, bool) {
	if idx < 0 || idx >= len(c.shirts) {
		return "", false
	}
	return c.shirts[idx], true
}

// Scale returns the display scale of a feature given its shrunk flag.
func (c *Catalog) Scale(cat Category, shrunk bool) float64 {
	if shrunk && cat.IsShrinkable() {
		return c.shrinkScale
	}
	return 1
}

// CheckPools reports the first empty pool, shirts included.
func (c *Catalog) CheckPools() error {
	for i, p := range c.pools {
		if len(p) == 0 {
			return fmt.Errorf("%s: %w", Category(i), ErrEmptyPool)
		}
	}
	if len(c.shirts) == 0 {
		return fmt.Errorf("shirts: %w", ErrEmptyPool)
	}
	return nil
}
