// Package components defines the plain data a generated face is made of,
// and the ECS components lineup members are stored with.
package components

import "github.com/pthm-cable/resemblance/features"

// Unset marks a category whose option has not been chosen yet.
const Unset = -1

// Face is one generated face: an option index per category and a shrunk flag
// per shrinkable category. Faces are values; use Clone before mutating a
// copy so the slices are not shared.
type Face struct {
	Choices []int  // indexed by features.Category
	Shrunk  []bool // indexed by features.ShrinkSlot
}

// NewFace returns a face with every category unset and nothing shrunk.
func NewFace() Face {
	f := Face{
		Choices: make([]int, features.NumCategories),
		Shrunk:  make([]bool, features.NumShrinkable),
	}
	for i := range f.Choices {
		f.Choices[i] = Unset
	}
	return f
}

// Clone returns a deep copy.
func (f Face) Clone() Face {
	c := Face{
		Choices: make([]int, len(f.Choices)),
		Shrunk:  make([]bool, len(f.Shrunk)),
	}
	copy(c.Choices, f.Choices)
	copy(c.Shrunk, f.Shrunk)
	return c
}

// Choice returns the option index for a category, or Unset.
func (f Face) Choice(c features.Category) int {
	if int(c) >= len(f.Choices) {
		return Unset
	}
	return f.Choices[c]
}

// IsShrunk reports the shrunk flag of a category. Non-shrinkable categories
// are never shrunk.
func (f Face) IsShrunk(c features.Category) bool {
	slot := features.ShrinkSlot(c)
	if slot < 0 || slot >= len(f.Shrunk) {
		return false
	}
	return f.Shrunk[slot]
}

// WithChoice returns a copy of f with the category set to idx.
func (f Face) WithChoice(c features.Category, idx int) Face {
	out := f.Clone()
	out.Choices[c] = idx
	return out
}

// WithShrunk returns a copy of f with the category's shrunk flag set.
// Non-shrinkable categories are returned unchanged.
func (f Face) WithShrunk(c features.Category, shrunk bool) Face {
	slot := features.ShrinkSlot(c)
	if slot < 0 {
		return f.Clone()
	}
	out := f.Clone()
	out.Shrunk[slot] = shrunk
	return out
}

// Complete reports whether every category holds a valid index for the
// given catalog.
func (f Face) Complete(cat *features.Catalog) bool {
	if len(f.Choices) != features.NumCategories {
		return false
	}
	for i, idx := range f.Choices {
		if idx < 0 || idx >= cat.Size(features.Category(i)) {
			return false
		}
	}
	return true
}

// Equal reports whether two faces have the same choices and flags.
func (f Face) Equal(o Face) bool {
	if len(f.Choices) != len(o.Choices) || len(f.Shrunk) != len(o.Shrunk) {
		return false
	}
	for i := range f.Choices {
		if f.Choices[i] != o.Choices[i] {
			return false
		}
	}
	for i := range f.Shrunk {
		if f.Shrunk[i] != o.Shrunk[i] {
			return false
		}
	}
	return true
}
