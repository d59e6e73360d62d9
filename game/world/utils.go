package world

// InBounds reports whether (x, y) lies on the tile map
func (w *World) InBounds(x, y int) bool {
	return w.tilemap.Index(x, y) >= 0
}

// TileAt returns the tile id at (x, y)
func (w *World) TileAt(x, y int) (byte, bool) {
	idx := w.tilemap.Index(x, y)
	if idx < 0 {
		return 0, false
	}
	return w.tilemap.Tiles[idx], true
}

// TileKindAt returns the movement permission of the tile at (x, y).
// Positions off the map are Prohibited.
func (w *World) TileKindAt(x, y int) TileKind {
	t, ok := w.TileAt(x, y)
	if !ok {
		return Prohibited
	}
	return w.TilePermission(t)
}

// StaticsAt returns every static placed at (x, y)
func (w *World) StaticsAt(x, y int) []Static {
	var out []Static
	for _, s := range w.statics {
		if s.Pos.X == x && s.Pos.Y == y {
			out = append(out, s)
		}
	}
	return out
}

// UnitAt returns the first unit standing on (x, y)
func (w *World) UnitAt(x, y int) (Unit, bool) {
	for _, u := range w.units {
		if u.Pos.X == x && u.Pos.Y == y {
			return u, true
		}
	}
	return Unit{}, false
}

// UnitByID returns the unit with the given id
func (w *World) UnitByID(id int) (Unit, bool) {
	for _, u := range w.units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// UnitsByFaction returns the units of one faction in placement order
func (w *World) UnitsByFaction(f Faction) []Unit {
	var out []Unit
	for _, u := range w.units {
		if u.Faction == f {
			out = append(out, u)
		}
	}
	return out
}

// CountTile counts the tiles with the given id
func (w *World) CountTile(tile byte) int {
	count := 0
	for _, t := range w.tilemap.Tiles {
		if t == tile {
			count++
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// IsTileAtRange reports whether two tiles are exactly r steps apart
func IsTileAtRange(a, b Position, r uint8) bool {
	return ManhattanDistance(a, b) == int(r)
}

// Analysis summarizes a loaded world
type Analysis struct {
	Width         int              `json:"width"`
	Height        int              `json:"height"`
	TileHistogram map[byte]int     `json:"tile_histogram"`
	Statics       int              `json:"statics"`
	PlayerUnits   int              `json:"player_units"`
	EnemyUnits    int              `json:"enemy_units"`
	OutOfBounds   []Position       `json:"out_of_bounds,omitempty"`
	Blocked       []Position       `json:"blocked,omitempty"`
	UnknownTypes  []int            `json:"unknown_unit_types,omitempty"`
	Permissions   map[TileKind]int `json:"permissions"`
}

// Analyze walks the world and reports placement problems: objects off the
// map, units standing on prohibited tiles and units of unregistered types.
func (w *World) Analyze() Analysis {
	width, height := w.MapSize()
	a := Analysis{
		Width:         width,
		Height:        height,
		TileHistogram: make(map[byte]int),
		Statics:       len(w.statics),
		Permissions:   make(map[TileKind]int),
	}

	for _, t := range w.tilemap.Tiles {
		a.TileHistogram[t]++
		a.Permissions[w.TilePermission(t)]++
	}

	for _, s := range w.statics {
		if !w.InBounds(s.Pos.X, s.Pos.Y) {
			a.OutOfBounds = append(a.OutOfBounds, s.Pos)
		}
	}

	seen := make(map[uint8]bool)
	for _, u := range w.units {
		switch u.Faction {
		case Player:
			a.PlayerUnits++
		case Enemy:
			a.EnemyUnits++
		}

		if !w.InBounds(u.Pos.X, u.Pos.Y) {
			a.OutOfBounds = append(a.OutOfBounds, u.Pos)
		} else if !w.TileKindAt(u.Pos.X, u.Pos.Y).CanEnter() {
			a.Blocked = append(a.Blocked, u.Pos)
		}

		if _, ok := w.unitTypes[u.TypeID]; !ok && !seen[u.TypeID] {
			seen[u.TypeID] = true
			a.UnknownTypes = append(a.UnknownTypes, int(u.TypeID))
		}
	}

	return a
}
