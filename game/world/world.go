package world

// World holds the tile map and every placed static and unit.
// The zero value is not usable; create worlds with NewWorld.
type World struct {
	tilemap   TileMap
	statics   []Static
	units     []Unit
	unitTypes map[uint8]UnitType
	tilePerm  map[byte]TileKind
	texts     Texts
	loaded    bool
}

// NewWorld creates an empty world with no map loaded
func NewWorld() *World {
	return &World{
		statics:   []Static{},
		units:     []Unit{},
		unitTypes: make(map[uint8]UnitType),
		tilePerm:  make(map[byte]TileKind),
	}
}

// Replace swaps in a new tile map, statics and units in one step.
// Unit types, tile permissions and texts are left alone.
func (w *World) Replace(tiles TileMap, statics []Static, units []Unit) {
	if statics == nil {
		statics = []Static{}
	}
	if units == nil {
		units = []Unit{}
	}
	w.tilemap = tiles
	w.statics = statics
	w.units = units
	w.loaded = true
}

// Loaded reports whether a map has been committed into the world
func (w *World) Loaded() bool {
	return w.loaded
}

// TileMap returns a copy of the current tile map
func (w *World) TileMap() TileMap {
	m := w.tilemap
	m.Tiles = make([]byte, len(w.tilemap.Tiles))
	copy(m.Tiles, w.tilemap.Tiles)
	return m
}

// MapSize returns the map dimensions as (width, height)
func (w *World) MapSize() (int, int) {
	return int(w.tilemap.Width), int(w.tilemap.Height)
}

// Statics returns a copy of the statics in insertion order, which is also render order
func (w *World) Statics() []Static {
	out := make([]Static, len(w.statics))
	copy(out, w.statics)
	return out
}

// Units returns a copy of the units in placement order
func (w *World) Units() []Unit {
	out := make([]Unit, len(w.units))
	copy(out, w.units)
	return out
}

// RegisterUnitType registers the stats for a unit type id
func (w *World) RegisterUnitType(id uint8, ut UnitType) {
	w.unitTypes[id] = ut
}

// UnitType looks up a registered unit type
func (w *World) UnitType(id uint8) (UnitType, bool) {
	ut, ok := w.unitTypes[id]
	return ut, ok
}

// UnitTypes returns a copy of the unit type registry
func (w *World) UnitTypes() map[uint8]UnitType {
	out := make(map[uint8]UnitType, len(w.unitTypes))
	for id, ut := range w.unitTypes {
		out[id] = ut
	}
	return out
}

// SetTilePermission sets how units interact with a tile id.
// Setting Allowed removes any previous entry.
func (w *World) SetTilePermission(tile byte, kind TileKind) {
	if kind == Allowed {
		delete(w.tilePerm, tile)
		return
	}
	w.tilePerm[tile] = kind
}

// TilePermission returns the kind registered for a tile id, Allowed if none
func (w *World) TilePermission(tile byte) TileKind {
	if kind, ok := w.tilePerm[tile]; ok {
		return kind
	}
	return Allowed
}

// TilePermissions returns a copy of the non-default tile permissions
func (w *World) TilePermissions() map[byte]TileKind {
	out := make(map[byte]TileKind, len(w.tilePerm))
	for tile, kind := range w.tilePerm {
		out[tile] = kind
	}
	return out
}

// SetTexts sets the map title and match texts
func (w *World) SetTexts(t Texts) {
	w.texts = t
}

// Texts returns the map title and match texts
func (w *World) Texts() Texts {
	return w.texts
}
