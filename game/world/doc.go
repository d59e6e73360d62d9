// Package world provides the in-memory game world for the isometric
// turn-based engine.
//
// The world package implements:
//   - The tile map (a flat grid of opaque tile-id bytes)
//   - Statics (textured decorations placed on the map)
//   - Player and enemy units, with a registry of unit types
//   - Tile movement permissions (prohibited, heal, damage)
//   - Map texts shown before and after a match
//   - Spatial queries and a summary analysis of a loaded world
//
// Tile Order:
//
// Tiles are stored row-major with y as the outer index and x as the inner
// index, so the tile at (x, y) lives at Tiles[y*Width+x]. Every decoder and
// query in this module relies on that order.
//
// Ownership:
//
// A World is created by the caller with NewWorld and handed to a loader
// (see package worldfile). Loaders never mutate a World piecemeal; they
// build a complete replacement and swap it in with Replace. A World is not
// safe for concurrent mutation; callers that share one across goroutines
// must treat it as read-only once loaded.
//
// Usage:
//
//	w := world.NewWorld()
//	w.RegisterUnitType(3, world.UnitType{Name: "Archer", MaxHealth: 40, Movement: 3, Range: 2})
//	w.SetTilePermission(9, world.Prohibited)
//
//	if err := worldfile.Load(w, "worlds/skirmish.alw"); err != nil {
//		log.Fatal(err)
//	}
//
//	width, height := w.MapSize()
//	kind := w.TileKindAt(1, 0)
package world
