package service

import (
	"time"

	"github.com/nikhilr612/alesia/game/world"
)

// Entry is a loaded world held by the catalog
type Entry struct {
	ID          string
	Name        string
	Description string
	Filename    string
	World       *world.World
	Revision    string
	LoadedAt    time.Time
}

// WorldInfo provides summary information about a world
type WorldInfo struct {
	ID          string `json:"id"` // The identifier to use in requests
	Name        string `json:"name"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Statics     int    `json:"statics"`
	PlayerUnits int    `json:"player_units"`
	EnemyUnits  int    `json:"enemy_units"`
	Revision    string `json:"revision"`
}

// WorldDetail is the full content of a loaded world
type WorldDetail struct {
	WorldInfo
	Texts     world.Texts              `json:"texts"`
	TileMap   world.TileMap            `json:"tile_map"`
	Statics   []world.Static           `json:"statics"`
	Units     []world.Unit             `json:"units"`
	UnitTypes map[uint8]world.UnitType `json:"unit_types"`
	TileKinds map[byte]world.TileKind  `json:"tile_kinds"`
	Analysis  world.Analysis           `json:"analysis"`
	LoadedAt  time.Time                `json:"loaded_at"`
}

// TileInfo describes a single tile and what stands on it
type TileInfo struct {
	World    string          `json:"world"`
	X        int             `json:"x"`
	Y        int             `json:"y"`
	Tile     byte            `json:"tile"`
	Kind     world.TileKind  `json:"kind"`
	Passable bool            `json:"passable"`
	Statics  []world.Static  `json:"statics"`
	Unit     *world.Unit     `json:"unit,omitempty"`
	UnitType *world.UnitType `json:"unit_type,omitempty"`
}

// NewWorldInfo summarizes a catalog entry
func NewWorldInfo(e *Entry) *WorldInfo {
	width, height := e.World.MapSize()
	return &WorldInfo{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Filename:    e.Filename,
		Width:       width,
		Height:      height,
		Statics:     len(e.World.Statics()),
		PlayerUnits: len(e.World.UnitsByFaction(world.Player)),
		EnemyUnits:  len(e.World.UnitsByFaction(world.Enemy)),
		Revision:    e.Revision,
	}
}
