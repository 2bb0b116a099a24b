// Package features defines the feature categories a face is assembled from
// and the option pools each category draws on.
package features

import (
	"math/bits"
	"strings"
)

// Category is one discrete dimension of a face's appearance.
// The numeric value is a stable index; it carries no other meaning.
type Category uint8

const (
	Head Category = iota
	Skin
	Ears
	Eyes
	Nose
	Mouth
)

// NumCategories is the number of feature categories.
const NumCategories = int(Mouth) + 1

var categoryNames = [NumCategories]string{
	Head:  "head",
	Skin:  "skin",
	Ears:  "ears",
	Eyes:  "eyes",
	Nose:  "nose",
	Mouth: "mouth",
}

// String returns the lowercase category name.
func (c Category) String() string {
	if int(c) >= NumCategories {
		return "unknown"
	}
	return categoryNames[c]
}

// Parse maps a category name back to its Category.
func Parse(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// Set is a bitmask of categories.
type Set uint32

// Of builds a set from the given categories.
func Of(cats ...Category) Set {
	var s Set
	for _, c := range cats {
		s = s.Add(c)
	}
	return s
}

// Has checks if the set contains a category.
func (s Set) Has(c Category) bool {
	return s&(1<<c) != 0
}

// Add adds a category to the set.
func (s Set) Add(c Category) Set {
	return s | 1<<c
}

// Remove removes a category from the set.
func (s Set) Remove(c Category) Set {
	return s &^ (1 << c)
}

// Len returns the number of categories in the set.
func (s Set) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Categories returns the members in index order.
func (s Set) Categories() []Category {
	cats := make([]Category, 0, s.Len())
	for i := 0; i < NumCategories; i++ {
		if s.Has(Category(i)) {
			cats = append(cats, Category(i))
		}
	}
	return cats
}

// All contains every category.
var All = Of(Head, Skin, Ears, Eyes, Nose, Mouth)

// Shrinkable are the categories that also carry a shrunk flag.
var Shrinkable = Of(Ears, Eyes, Nose, Mouth)

// ShrinkableCategories lists the shrinkable categories in shrink-slot order.
var ShrinkableCategories = Shrinkable.Categories()

// NumShrinkable is the number of shrinkable categories.
var NumShrinkable = len(ShrinkableCategories)

// IsShrinkable reports whether c carries a shrunk flag.
func (c Category) IsShrinkable() bool {
	return Shrinkable.Has(c)
}

// ShrinkSlot returns the position of c among the shrinkable categories,
// or -1 if c cannot shrink.
func ShrinkSlot(c Category) int {
	for i, s := range ShrinkableCategories {
		if s == c {
			return i
		}
	}
	return -1
}
