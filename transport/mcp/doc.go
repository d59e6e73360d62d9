// Package mcp exposes the world catalog to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool calls the REST API of a running
// server and formats the JSON response as text an agent can read.
//
// MCP Tools:
//   - list_worlds: Summary of every loadable world
//   - get_world: Tile map rendered with units (P/E) and statics (#), unit list, placement warnings
//   - describe_tile: Tile id, permission, statics and unit at (x, y)
//   - reload_world: Reread a world from disk
//   - validate_worlds: Validation report for the world directory
//   - world_format: The .alw layout and map legend
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
