package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// ApplyMotif overlays the catalog with the asset lists of an INI motif
// file. Only pools named in the file are replaced:
//
//	[Catalog]
//	heads        = head-round, head-oval, head-square
//	skins        = #f2d3b1, #e0ac69
//	shrink_scale = 0.4
//
// Section and key names are case-insensitive. Values are comma separated.
// The config is revalidated afterwards.
func (c *Config) ApplyMotif(path string) error {
	options := ini.LoadOptions{
		InsensitiveSections:     true,
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true, // colour values start with '#'
		SkipUnrecognizableLines: true,
	}
	f, err := ini.LoadSources(options, path)
	if err != nil {
		return fmt.Errorf("loading motif: %w", err)
	}

	sec, err := f.GetSection("catalog")
	if err != nil {
		return fmt.Errorf("motif %s: %w", path, err)
	}

	pools := map[string]*[]string{
		"heads":  &c.Catalog.Heads,
		"skins":  &c.Catalog.Skins,
		"ears":   &c.Catalog.Ears,
		"eyes":   &c.Catalog.Eyes,
		"noses":  &c.Catalog.Noses,
		"mouths": &c.Catalog.Mouths,
		"shirts": &c.Catalog.Shirts,
	}

	for _, key := range sec.Keys() {
		name := key.Name()
		if name == "shrink_scale" {
			scale, err := key.Float64()
			if err != nil {
				return fmt.Errorf("motif %s: shrink_scale: %w", path, err)
			}
			c.Catalog.ShrinkScale = scale
			continue
		}

		pool, ok := pools[name]
		if !ok {
			return fmt.Errorf("motif %s: unknown catalog key %q", path, name)
		}
		var opts []string
		for _, opt := range key.Strings(",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				opts = append(opts, opt)
			}
		}
		*pool = opts
	}

	c.computeDerived()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config after motif: %w", err)
	}
	return nil
}
