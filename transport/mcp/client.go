package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nikhilr612/alesia/game/service"
	"github.com/nikhilr612/alesia/game/world"
	"github.com/nikhilr612/alesia/validate"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Alesia World Catalog",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Alesia World Catalog - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Worlds are tactical battle maps stored as .alw files: a grid of tile ids,
decorative statics and player/enemy units.

AVAILABLE TOOLS:
- list_worlds: List every loadable world with its size and unit counts
- get_world: Render a world's tile map with units and statics
- describe_tile: Inspect one tile: id, permission, statics, unit
- reload_world: Reread a world file from disk after editing it
- validate_worlds: Check every world file and report format errors
- world_format: Explain the .alw file layout and the map legend`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	nameProperty := map[string]interface{}{
		"type":        "string",
		"description": "World id (file name without .alw)",
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_worlds",
		Description: "List all loadable worlds",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListWorlds)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_world",
		Description: "Get a world's tile map, units, statics and placement analysis",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameProperty,
			},
			Required: []string{"name"},
		},
	}, c.handleGetWorld)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get detailed info about a specific tile of a world",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameProperty,
				"x": map[string]interface{}{
					"type":        "number",
					"description": "X coordinate (column, 0-based)",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Y coordinate (row, 0-based)",
				},
			},
			Required: []string{"name", "x", "y"},
		},
	}, c.handleDescribeTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reload_world",
		Description: "Reread a world file from disk and notify subscribers",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameProperty,
			},
			Required: []string{"name"},
		},
	}, c.handleReloadWorld)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "validate_worlds",
		Description: "Validate every world file in the world directory",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleValidateWorlds)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "world_format",
		Description: "Explain the .alw world file format and the map legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleWorldFormat)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func worldPath(name string) string {
	return "/api/worlds/" + url.PathEscape(name)
}

func toolArgs(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// Tool handlers

func (c *Client) handleListWorlds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int                 `json:"count"`
		Worlds []service.WorldInfo `json:"worlds"`
	}

	err := c.apiCall("GET", "/api/worlds", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Worlds (%d):\n\n", response.Count)
	for _, w := range response.Worlds {
		result += formatWorldInfo(&w) + "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetWorld(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := toolArgs(request)["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	var detail service.WorldDetail
	err := c.apiCall("GET", worldPath(name), nil, &detail)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatWorldDetail(&detail)), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(request)
	name, _ := args["name"].(string)
	x, okX := args["x"].(float64)
	y, okY := args["y"].(float64)
	if name == "" || !okX || !okY {
		return mcp.NewToolResultError("name, x and y are required"), nil
	}

	var tile service.TileInfo
	err := c.apiCall("GET", fmt.Sprintf("%s/tiles/%d/%d", worldPath(name), int(x), int(y)), nil, &tile)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTileInfo(&tile)), nil
}

func (c *Client) handleReloadWorld(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := toolArgs(request)["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	var response struct {
		Message string              `json:"message"`
		World   service.WorldDetail `json:"world"`
	}
	err := c.apiCall("POST", worldPath(name)+"/reload", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("✓ Reloaded %s (revision %s)\n\n%s",
		response.World.ID, response.World.Revision, formatWorldDetail(&response.World))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleValidateWorlds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Valid   bool              `json:"valid"`
		Count   int               `json:"count"`
		Results []validate.Result `json:"results"`
	}

	err := c.apiCall("GET", "/api/validate", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(validate.Report(response.Results)), nil
}

func (c *Client) handleWorldFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Alesia World Files (.alw)

FILE LAYOUT:
- Bytes 0-3: magic 250 222 0 255
- Byte 4: map width, byte 5: map height (0-255 each)
- width*height tile ids, row by row (row 0 first, left to right)
- 6 zero bytes of padding
- Object records of 6 bytes until end of file: 254 237 type param x y
    type 0 = static (param = texture id)
    type 1 = player unit (param = unit type id)
    type 2 = enemy unit (param = unit type id)

Any other type byte makes the file invalid. Objects may sit outside the
map; validate_worlds reports them as warnings.

MAP LEGEND (get_world):
- P = player unit
- E = enemy unit
- # = static
- x = prohibited tile (units cannot enter)
- + = heal tile
- ! = damage tile
- . = open tile

COORDINATES:
x is the column, y is the row, both starting at 0 in the top left corner.
Use describe_tile to see the raw tile id and what stands on a tile.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatWorldInfo(info *service.WorldInfo) string {
	return fmt.Sprintf("- %s: %s (%dx%d, statics: %d, player units: %d, enemy units: %d)",
		info.ID, info.Name, info.Width, info.Height, info.Statics, info.PlayerUnits, info.EnemyUnits)
}

func formatWorldDetail(detail *service.WorldDetail) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("World: %s (%s)\n", detail.Name, detail.ID))
	if detail.Texts.Title != "" {
		result.WriteString(fmt.Sprintf("Title: %s\n", detail.Texts.Title))
	}
	if detail.Description != "" {
		result.WriteString(fmt.Sprintf("Description: %s\n", detail.Description))
	}
	result.WriteString(fmt.Sprintf("Size: %dx%d | Statics: %d | Player units: %d | Enemy units: %d\n\n",
		detail.Width, detail.Height, detail.Statics, detail.PlayerUnits, detail.EnemyUnits))

	result.WriteString(formatMap(detail))

	if len(detail.Units) > 0 {
		result.WriteString("\nUnits:\n")
		for _, u := range detail.Units {
			typeName := fmt.Sprintf("type %d", u.TypeID)
			if ut, ok := detail.UnitTypes[u.TypeID]; ok {
				typeName = ut.Name
			}
			result.WriteString(fmt.Sprintf("  #%d %s %s at (%d,%d) health %g\n",
				u.ID, u.Faction, typeName, u.Pos.X, u.Pos.Y, u.Health))
		}
	}

	a := detail.Analysis
	if len(a.OutOfBounds) > 0 {
		result.WriteString(fmt.Sprintf("\n⚠️  Objects outside the map: %s\n", formatPositions(a.OutOfBounds)))
	}
	if len(a.Blocked) > 0 {
		result.WriteString(fmt.Sprintf("⚠️  Units on prohibited tiles: %s\n", formatPositions(a.Blocked)))
	}
	if len(a.UnknownTypes) > 0 {
		result.WriteString(fmt.Sprintf("⚠️  Unregistered unit types: %v\n", a.UnknownTypes))
	}

	return result.String()
}

// formatMap renders the tile map with units and statics on top
func formatMap(detail *service.WorldDetail) string {
	m := detail.TileMap
	if m.Empty() {
		return "(empty map)\n"
	}

	statics := make(map[world.Position]bool)
	for _, s := range detail.Statics {
		statics[s.Pos] = true
	}
	units := make(map[world.Position]world.Faction)
	for _, u := range detail.Units {
		units[u.Pos] = u.Faction
	}

	var result strings.Builder
	for y := 0; y < int(m.Height); y++ {
		for x, tile := range m.Row(y) {
			pos := world.Position{X: x, Y: y}
			if faction, ok := units[pos]; ok {
				if faction == world.Player {
					result.WriteString("P")
				} else {
					result.WriteString("E")
				}
				continue
			}
			if statics[pos] {
				result.WriteString("#")
				continue
			}
			result.WriteString(tileChar(detail.TileKinds[tile]))
		}
		result.WriteString("\n")
	}
	return result.String()
}

func tileChar(kind world.TileKind) string {
	switch kind {
	case world.Prohibited:
		return "x"
	case world.Heal:
		return "+"
	case world.Damage:
		return "!"
	default:
		return "."
	}
}

func formatPositions(positions []world.Position) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func formatTileInfo(tile *service.TileInfo) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("Tile (%d,%d) in %s\n", tile.X, tile.Y, tile.World))
	result.WriteString(fmt.Sprintf("Tile id: %d\n", tile.Tile))
	result.WriteString(fmt.Sprintf("Kind: %s\n", tile.Kind))
	if tile.Passable {
		result.WriteString("Passable: yes\n")
	} else {
		result.WriteString("Passable: no\n")
	}

	if len(tile.Statics) > 0 {
		textures := make([]int, len(tile.Statics))
		for i, s := range tile.Statics {
			textures[i] = int(s.TextureID)
		}
		sort.Ints(textures)
		result.WriteString(fmt.Sprintf("Statics (texture ids): %v\n", textures))
	}

	if tile.Unit != nil {
		u := tile.Unit
		result.WriteString(fmt.Sprintf("Unit: #%d %s, type %d, health %g\n", u.ID, u.Faction, u.TypeID, u.Health))
		if tile.UnitType != nil {
			ut := tile.UnitType
			result.WriteString(fmt.Sprintf("  %s: max health %g, movement %d, range %d\n",
				ut.Name, ut.MaxHealth, ut.Movement, ut.Range))
		}
	}

	return result.String()
}
