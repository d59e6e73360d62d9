// Package service provides the business logic layer for the alesia world server.
//
// The service package implements:
//   - World listing and lookup over a catalog
//   - Tile inspection (tile id, permission, statics and unit on a tile)
//   - World reloading after the file on disk changed
//   - Validation of every world file in the catalog directory
//
// Core Interfaces:
//
// WorldService is the main service interface used by the transports.
// WorldCatalog loads and caches worlds; config.Manager implements it.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the world catalog. Loaded worlds are shared read-only between
// requests; a reload builds a fresh world and swaps the catalog entry.
//
// Usage:
//
//	catalog, err := config.NewManager("worlds")
//	if err != nil {
//		log.Fatal(err)
//	}
//	worlds := service.NewWorldService(catalog)
//
//	detail, err := worlds.GetWorld(ctx, "skirmish")
//	tile, err := worlds.DescribeTile(ctx, "skirmish", 1, 0)
package service
