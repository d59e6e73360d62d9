// Package config provides the world catalog for the alesia engine.
//
// The config package handles:
//   - Discovering .alw world files in a world directory
//   - Loading optional JSON manifests that sit beside them
//   - Manifest validation
//   - Loading, caching and reloading worlds
//
// Directory Layout:
//
// Every world is a binary file <id>.alw (see package worldfile). It may have
// a manifest <id>.json next to it that defines:
//   - Display name and description
//   - Title, intro, victory and defeat texts
//   - Tile permissions (prohibited, heal and damage tile ids)
//   - Unit types referenced by the world's units
//
// Usage:
//
//	manager, err := config.NewManager("worlds")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a world (cached after the first call)
//	entry, err := manager.LoadWorld("skirmish")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List available worlds
//	worlds, err := manager.ListWorlds()
//
// Validation:
//
// Manifests are validated for:
//   - Tile ids listed under more than one permission
//   - Unit types without a name or with non-positive health
package config
