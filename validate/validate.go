// Package validate checks .alw world files and reports problems in a form
// suited to command line output and API responses. It checks:
//   - The binary format (magic, dimensions, tile block, padding, records)
//   - Statics and units placed outside the tile map
//   - More than one unit on the same tile
//   - Worlds without player or enemy units
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikhilr612/alesia/game/world"
	"github.com/nikhilr612/alesia/game/worldfile"
)

// Extension is the file extension of world files
const Extension = ".alw"

// Result captures the outcome of validating a single file.
// Errors make a file invalid; warnings describe placements the engine
// tolerates but that are probably mistakes.
type Result struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Reason   string   `json:"reason,omitempty"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
	Info     []string `json:"info,omitempty"`
}

// File loads and validates a single world file
func File(path string) Result {
	result := Result{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	w := world.NewWorld()
	if err := worldfile.Load(w, path); err != nil {
		result.Valid = false
		if reason := worldfile.ReasonOf(err); reason != nil {
			result.Reason = reasonCode(reason)
		}
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	checkPlacement(w, &result)

	width, height := w.MapSize()
	statics := len(w.Statics())
	players := len(w.UnitsByFaction(world.Player))
	enemies := len(w.UnitsByFaction(world.Enemy))

	result.Info = append(result.Info, fmt.Sprintf("✓ Map: %dx%d", width, height))
	result.Info = append(result.Info, fmt.Sprintf("✓ Statics: %d", statics))
	result.Info = append(result.Info, fmt.Sprintf("✓ Player units: %d", players))
	result.Info = append(result.Info, fmt.Sprintf("✓ Enemy units: %d", enemies))

	return result
}

// checkPlacement reports objects off the map and stacked units
func checkPlacement(w *world.World, result *Result) {
	for _, s := range w.Statics() {
		if !w.InBounds(s.Pos.X, s.Pos.Y) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Static (texture %d) at (%d,%d) is outside the map", s.TextureID, s.Pos.X, s.Pos.Y))
		}
	}

	occupied := make(map[world.Position]int)
	for _, u := range w.Units() {
		if !w.InBounds(u.Pos.X, u.Pos.Y) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Unit %d (%s) at (%d,%d) is outside the map", u.ID, u.Faction, u.Pos.X, u.Pos.Y))
		}
		if prev, ok := occupied[u.Pos]; ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Units %d and %d share tile (%d,%d)", prev, u.ID, u.Pos.X, u.Pos.Y))
			continue
		}
		occupied[u.Pos] = u.ID
	}

	if len(w.UnitsByFaction(world.Player)) == 0 {
		result.Warnings = append(result.Warnings, "World has no player units")
	}
	if len(w.UnitsByFaction(world.Enemy)) == 0 {
		result.Warnings = append(result.Warnings, "World has no enemy units")
	}
}

// Dir validates every world file in dir, sorted by file name
func Dir(dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read world directory: %w", err)
	}

	results := []Result{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		results = append(results, File(filepath.Join(dir, entry.Name())))
	}
	return results, nil
}

// AllValid reports whether every result is valid
func AllValid(results []Result) bool {
	for _, r := range results {
		if !r.Valid {
			return false
		}
	}
	return true
}

// reasonCode turns a malformed reason into a machine friendly code
func reasonCode(reason error) string {
	switch reason {
	case worldfile.ErrBadMagic:
		return "bad_magic"
	case worldfile.ErrTruncatedHeader:
		return "truncated_header"
	case worldfile.ErrTruncatedTileData:
		return "truncated_tile_data"
	case worldfile.ErrBadPadding:
		return "bad_padding"
	case worldfile.ErrTruncatedObjectRecord:
		return "truncated_object_record"
	case worldfile.ErrBadObjectHeader:
		return "bad_object_header"
	case worldfile.ErrUnknownObjectType:
		return "unknown_object_type"
	default:
		return strings.ReplaceAll(reason.Error(), " ", "_")
	}
}

// Report renders results the way the command line prints them
func Report(results []Result) string {
	var b strings.Builder

	for _, result := range results {
		fmt.Fprintf(&b, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			b.WriteString("✅ VALID\n")
			for _, info := range result.Info {
				b.WriteString("  " + info + "\n")
			}
		} else {
			b.WriteString("❌ INVALID\n")
			for _, err := range result.Errors {
				b.WriteString("  ❌ " + err + "\n")
			}
		}
		for _, warn := range result.Warnings {
			b.WriteString("  ⚠️  " + warn + "\n")
		}
	}

	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("=", 40))
	if AllValid(results) {
		b.WriteString("✅ All worlds are valid!\n")
	} else {
		b.WriteString("❌ Some worlds have errors\n")
	}
	return b.String()
}
