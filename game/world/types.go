package world

import (
	"encoding/json"
	"fmt"
)

// TileKind describes how units interact with a tile id
type TileKind string

const (
	Allowed    TileKind = "allowed"
	Prohibited TileKind = "prohibited"
	Heal       TileKind = "heal"
	Damage     TileKind = "damage"
)

// CanEnter reports whether units may move onto tiles of this kind
func (k TileKind) CanEnter() bool {
	return k != Prohibited
}

// Faction marks which side controls a unit
type Faction string

const (
	Player Faction = "player"
	Enemy  Faction = "enemy"
)

// Unit tints, as hex colours packed into an int32
const (
	PlayerTint int32 = -1
	EnemyTint  int32 = -0x38ffc328
)

// Tint returns the sprite tint used for units of the faction
func (f Faction) Tint() int32 {
	if f == Player {
		return PlayerTint
	}
	return EnemyTint
}

// TileMap is a width*height grid of tile ids, stored row-major (y outer, x inner)
type TileMap struct {
	Width  uint8  `json:"width"`
	Height uint8  `json:"height"`
	Tiles  []byte `json:"tiles"`
}

// Index returns the flat index of (x, y), or -1 when out of bounds
func (m TileMap) Index(x, y int) int {
	if x < 0 || y < 0 || x >= int(m.Width) || y >= int(m.Height) {
		return -1
	}
	return y*int(m.Width) + x
}

// Row returns the tiles of row y, or nil when out of bounds
func (m TileMap) Row(y int) []byte {
	if y < 0 || y >= int(m.Height) {
		return nil
	}
	start := y * int(m.Width)
	return m.Tiles[start : start+int(m.Width)]
}

type tileMapJSON struct {
	Width  uint8 `json:"width"`
	Height uint8 `json:"height"`
	Tiles  []int `json:"tiles"`
}

// MarshalJSON writes tiles as a flat array of numbers, row-major
func (m TileMap) MarshalJSON() ([]byte, error) {
	tiles := make([]int, len(m.Tiles))
	for i, t := range m.Tiles {
		tiles[i] = int(t)
	}
	return json.Marshal(tileMapJSON{Width: m.Width, Height: m.Height, Tiles: tiles})
}

// UnmarshalJSON reads the layout written by MarshalJSON
func (m *TileMap) UnmarshalJSON(data []byte) error {
	var raw tileMapJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	tiles := make([]byte, len(raw.Tiles))
	for i, t := range raw.Tiles {
		if t < 0 || t > 255 {
			return fmt.Errorf("tile %d: value %d out of range", i, t)
		}
		tiles[i] = byte(t)
	}

	m.Width, m.Height, m.Tiles = raw.Width, raw.Height, tiles
	return nil
}

// Empty reports whether the map holds no tiles
func (m TileMap) Empty() bool {
	return len(m.Tiles) == 0
}

// Position represents x,y tile coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Static is a textured image placed at a tile position
type Static struct {
	TextureID uint8    `json:"texture_id"`
	Pos       Position `json:"pos"`
}

// UnitType holds the stats shared by every unit of a type
type UnitType struct {
	Name      string  `json:"name"`
	Info      string  `json:"info,omitempty"`
	MaxHealth float32 `json:"max_health"`
	Movement  uint8   `json:"movement"`
	Range     uint8   `json:"range"`
}

// Unit is a placed player or enemy unit
type Unit struct {
	ID      int      `json:"id"`
	TypeID  uint8    `json:"type_id"`
	Faction Faction  `json:"faction"`
	Pos     Position `json:"pos"`
	Health  float32  `json:"health"`
	Tint    int32    `json:"tint"`
}

// Texts are the strings shown around a match
type Texts struct {
	Title   string `json:"title,omitempty"`
	Intro   string `json:"intro,omitempty"`
	Victory string `json:"victory,omitempty"`
	Defeat  string `json:"defeat,omitempty"`
}
