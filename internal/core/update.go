package core

// Placement is a collectible item position emitted by a placement policy.
// It is not retained by the generator after emission.
type Placement struct {
	Index    int  `json:"index" yaml:"index"` // Control point the item sits on
	Position Vec2 `json:"position" yaml:"position"`
}

// Chunk is a coarse prefabricated terrain segment.
type Chunk struct {
	ID       int     `json:"id" yaml:"id"`
	Prefab   int     `json:"prefab" yaml:"prefab"`
	Position Vec2    `json:"position" yaml:"position"` // Spawn position (left edge)
	Length   float64 `json:"length" yaml:"length"`
}

// End returns the x-coordinate of the chunk's right edge.
func (c Chunk) End() float64 {
	return c.Position.X + c.Length
}

// Update is returned by a generator after an observer advance.
type Update struct {
	Generated bool // Whether any new terrain was produced

	// First and Last bound the newly inserted control points [First, Last).
	// Both are zero for chunk generators.
	First, Last int

	Placements []Placement
	Spawned    []Chunk
	Evicted    []Chunk

	// Trimmed is the number of control points retired behind the observer.
	Trimmed int

	// RetiredBefore is the x-coordinate before which terrain no longer
	// exists. Consumers drop anything they placed behind it.
	RetiredBefore float64
}

// Retired reports whether the update retired any terrain.
func (u Update) Retired() bool {
	return u.Trimmed > 0 || len(u.Evicted) > 0
}

// Merge folds a later update into u, keeping ranges and lists ordered.
func (u *Update) Merge(next Update) {
	if !next.Generated {
		return
	}
	if next.Retired() && (!u.Retired() || next.RetiredBefore > u.RetiredBefore) {
		u.RetiredBefore = next.RetiredBefore
	}
	if !u.Generated {
		u.First = next.First
	}
	u.Generated = true
	u.Last = next.Last
	u.Placements = append(u.Placements, next.Placements...)
	u.Spawned = append(u.Spawned, next.Spawned...)
	u.Evicted = append(u.Evicted, next.Evicted...)
	u.Trimmed += next.Trimmed
}
