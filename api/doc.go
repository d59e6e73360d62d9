// Package api provides the HTTP REST API over the world catalog.
//
// Endpoints:
//
// Worlds:
//   - GET /api/worlds - List loadable worlds with summary counts
//   - GET /api/worlds/{name} - Full world: tile map, statics, units, texts, analysis
//   - GET /api/worlds/{name}/tiles/{x}/{y} - Tile id, permission and occupants at (x, y)
//   - POST /api/worlds/{name}/reload - Reread the world file and notify subscribers
//
// Validation:
//   - GET /api/validate - Validate every .alw file in the world directory
//
// Other:
//   - GET /api/health - Liveness check
//   - GET /ws?world={name} - WebSocket subscription to world events
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the error:
//
//	{
//	  "error": "load world.alw: malformed world file: bad magic number at offset 0",
//	  "code": 422
//	}
//
// Unknown worlds map to 404, bad names and coordinates outside the map to
// 400, malformed world files or manifests to 422 and everything else to 500.
package api
