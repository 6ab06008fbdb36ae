package engine

// Snapshot is a point-in-time copy of the observable game state, safe to
// serialize and hand to transports without exposing live simulation state.
type Snapshot struct {
	Level      string    `json:"level"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Rules      Rules     `json:"rules"`
	Won        bool      `json:"won"`
	Busy       bool      `json:"busy"`
	TotalMoves int       `json:"total_moves"`
	Snakes     []*Snake  `json:"snakes"`
	Entities   []*Entity `json:"entities"`
}

// Snapshot copies the current state: snakes and entities are deep-copied so
// later moves cannot mutate what a collaborator holds.
func (g *Game) Snapshot() *Snapshot {
	l := g.level

	snap := &Snapshot{
		Level:      g.cfg.Name,
		Width:      l.Board.Width(),
		Height:     l.Board.Height(),
		Rules:      l.Rules,
		Won:        g.won,
		Busy:       g.busy,
		TotalMoves: g.totalMoves,
	}

	for _, s := range l.Snakes {
		snap.Snakes = append(snap.Snakes, &Snake{
			ID:    s.ID,
			Color: s.Color,
			Body:  append([]Position(nil), s.Body...),
		})
	}

	l.Store.ForEach(func(e *Entity) {
		copied := *e
		copied.Cells = append([]Position(nil), e.Cells...)
		copied.Colors = append([]Color(nil), e.Colors...)
		snap.Entities = append(snap.Entities, &copied)
	})

	return snap
}
