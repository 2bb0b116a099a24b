package components

// Body is a face plus the body-level attributes shown with it.
type Body struct {
	Face       Face
	ShirtColor int // index into the catalog's shirt pool
}

// NewBody returns a body with an unset face and shirt.
func NewBody() Body {
	return Body{Face: NewFace(), ShirtColor: Unset}
}

// Clone returns a deep copy.
func (b Body) Clone() Body {
	return Body{Face: b.Face.Clone(), ShirtColor: b.ShirtColor}
}

// Equal reports whether two bodies are indistinguishable.
func (b Body) Equal(o Body) bool {
	return b.ShirtColor == o.ShirtColor && b.Face.Equal(o.Face)
}

// Member tags a lineup entity with its public ID and position.
type Member struct {
	ID         uint32 // unique for the lifetime of a game
	Slot       int    // left-to-right position in the lineup
	Generation int    // generation the lineup was built for
}
