package worldfile

import "github.com/nikhilr612/alesia/game/world"

// Snapshot is a fully decoded world file that has not been committed yet
type Snapshot struct {
	Tiles   world.TileMap `json:"tiles"`
	Objects []GameObject  `json:"objects"`
}

// Counts returns the number of statics, player units and enemy units
func (s *Snapshot) Counts() (statics, players, enemies int) {
	for _, o := range s.Objects {
		switch o.Kind {
		case Static:
			statics++
		case PlayerUnit:
			players++
		case EnemyUnit:
			enemies++
		}
	}
	return statics, players, enemies
}

// commit routes every decoded object into the world's static and unit
// collections and swaps them in together with the tile map.
func commit(w *world.World, snap *Snapshot) {
	statics := make([]world.Static, 0, len(snap.Objects))
	var units []world.Unit

	for _, o := range snap.Objects {
		pos := world.Position{X: int(o.X), Y: int(o.Y)}

		switch o.Kind {
		case Static:
			statics = append(statics, world.Static{TextureID: o.Param, Pos: pos})
		case PlayerUnit, EnemyUnit:
			faction := world.Enemy
			if o.Kind == PlayerUnit {
				faction = world.Player
			}

			var health float32
			if ut, ok := w.UnitType(o.Param); ok {
				health = ut.MaxHealth
			}

			units = append(units, world.Unit{
				ID:      len(units),
				TypeID:  o.Param,
				Faction: faction,
				Pos:     pos,
				Health:  health,
				Tint:    faction.Tint(),
			})
		}
	}

	w.Replace(snap.Tiles, statics, units)
}
