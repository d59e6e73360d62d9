package config

import (
	"fmt"

	"github.com/nikhilr612/alesia/game/world"
)

// TilePermissions lists the tile ids that are not freely walkable
type TilePermissions struct {
	Prohibited []byte `json:"prohibited,omitempty"`
	Heal       []byte `json:"heal,omitempty"`
	Damage     []byte `json:"damage,omitempty"`
}

// Manifest is the optional JSON sidecar of a world file
type Manifest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Texts       world.Texts              `json:"texts"`
	Tiles       TilePermissions          `json:"tiles"`
	UnitTypes   map[uint8]world.UnitType `json:"unit_types"`
}

// ValidateManifest validates a world manifest
func ValidateManifest(m *Manifest) error {
	seen := make(map[byte]world.TileKind)
	lists := []struct {
		kind  world.TileKind
		tiles []byte
	}{
		{world.Prohibited, m.Tiles.Prohibited},
		{world.Heal, m.Tiles.Heal},
		{world.Damage, m.Tiles.Damage},
	}
	for _, l := range lists {
		for _, t := range l.tiles {
			if prev, ok := seen[t]; ok && prev != l.kind {
				return fmt.Errorf("manifest validation: tile %d is both %s and %s", t, prev, l.kind)
			}
			seen[t] = l.kind
		}
	}

	for id, ut := range m.UnitTypes {
		if ut.Name == "" {
			return fmt.Errorf("manifest validation: unit type %d: name is required", id)
		}
		if ut.MaxHealth <= 0 {
			return fmt.Errorf("manifest validation: unit type %d: max_health must be positive, got %g", id, ut.MaxHealth)
		}
	}

	return nil
}

// Apply registers the manifest's texts, tile permissions and unit types in w
func (m *Manifest) Apply(w *world.World) {
	w.SetTexts(m.Texts)

	for _, t := range m.Tiles.Prohibited {
		w.SetTilePermission(t, world.Prohibited)
	}
	for _, t := range m.Tiles.Heal {
		w.SetTilePermission(t, world.Heal)
	}
	for _, t := range m.Tiles.Damage {
		w.SetTilePermission(t, world.Damage)
	}

	for id, ut := range m.UnitTypes {
		w.RegisterUnitType(id, ut)
	}
}
