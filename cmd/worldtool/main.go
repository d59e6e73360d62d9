// Command worldtool inspects, validates and analyzes .alw world files from
// the command line. World arguments are either file paths or world ids
// resolved against --world-dir (WORLD_DIR).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nikhilr612/alesia/game/config"
	"github.com/nikhilr612/alesia/game/world"
	"github.com/nikhilr612/alesia/game/worldfile"
	"github.com/nikhilr612/alesia/validate"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "worldtool",
		Usage: "inspect and check .alw world files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "world-dir",
				Aliases: []string{"d"},
				Usage:   "directory used to resolve world ids",
				Value:   "worlds",
				Sources: cli.EnvVars("WORLD_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list loadable worlds in the world directory",
				Action: runList,
			},
			{
				Name:      "inspect",
				Usage:     "print the header, tile map and objects of a world",
				ArgsUsage: "<world>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print the decoded world as JSON"},
				},
				Action: runInspect,
			},
			{
				Name:      "validate",
				Usage:     "validate world files; with no arguments, the whole world directory",
				ArgsUsage: "[world...]",
				Action:    runValidate,
			},
			{
				Name:      "analyze",
				Usage:     "report placement problems and unit engagement ranges",
				ArgsUsage: "<world>",
				Action:    runAnalyze,
			},
			{
				Name:      "tile",
				Usage:     "describe the tile at x y",
				ArgsUsage: "<world> <x> <y>",
				Action:    runTile,
			},
		},
	}
}

// resolve maps a world argument to a file path
func resolve(cmd *cli.Command, arg string) string {
	if _, err := os.Stat(arg); err == nil {
		return arg
	}
	name := arg
	if !strings.HasSuffix(name, validate.Extension) {
		name += validate.Extension
	}
	return filepath.Join(cmd.String("world-dir"), name)
}

// loadWorld loads a world with its manifest applied when one sits next to the file
func loadWorld(cmd *cli.Command, arg string) (*world.World, string, error) {
	path := resolve(cmd, arg)
	dir := filepath.Dir(path)
	id := strings.TrimSuffix(filepath.Base(path), validate.Extension)

	catalog, err := config.NewManager(dir)
	if err != nil {
		return nil, path, err
	}
	manifest, err := catalog.LoadManifest(id)
	if err != nil {
		return nil, path, err
	}

	w := world.NewWorld()
	manifest.Apply(w)
	if err := worldfile.Load(w, path); err != nil {
		return nil, path, err
	}
	return w, path, nil
}

func out(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() != n {
		return fmt.Errorf("%s: expected %d argument(s): %s", cmd.Name, n, cmd.ArgsUsage)
	}
	return nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	catalog, err := config.NewManager(cmd.String("world-dir"))
	if err != nil {
		return err
	}

	worlds, err := catalog.ListWorlds()
	if err != nil {
		return err
	}

	w := out(cmd)
	fmt.Fprintf(w, "Worlds in %s (%d):\n", catalog.Dir(), len(worlds))
	for _, info := range worlds {
		fmt.Fprintf(w, "  %-16s %3dx%-3d statics: %d, player units: %d, enemy units: %d  %s\n",
			info.ID, info.Width, info.Height, info.Statics, info.PlayerUnits, info.EnemyUnits, info.Name)
	}
	return nil
}

func runInspect(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}

	path := resolve(cmd, cmd.Args().First())
	snap, err := worldfile.ReadFile(path)
	if err != nil {
		return err
	}

	w := out(cmd)
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	statics, players, enemies := snap.Counts()
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Size: %dx%d\n", snap.Tiles.Width, snap.Tiles.Height)
	fmt.Fprintf(w, "Objects: %d (statics: %d, player units: %d, enemy units: %d)\n\n",
		len(snap.Objects), statics, players, enemies)

	for y := 0; y < int(snap.Tiles.Height); y++ {
		row := snap.Tiles.Row(y)
		cells := make([]string, len(row))
		for x, tile := range row {
			cells[x] = fmt.Sprintf("%02x", tile)
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}

	if len(snap.Objects) > 0 {
		fmt.Fprintln(w)
		for i, obj := range snap.Objects {
			fmt.Fprintf(w, "%3d %-12s param=%-3d at (%d,%d)\n", i, obj.Kind, obj.Param, obj.X, obj.Y)
		}
	}
	return nil
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	var results []validate.Result
	if cmd.NArg() == 0 {
		var err error
		results, err = validate.Dir(cmd.String("world-dir"))
		if err != nil {
			return err
		}
	} else {
		for _, arg := range cmd.Args().Slice() {
			results = append(results, validate.File(resolve(cmd, arg)))
		}
	}

	fmt.Fprint(out(cmd), validate.Report(results))
	if !validate.AllValid(results) {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}

	wld, path, err := loadWorld(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	a := wld.Analyze()
	w := out(cmd)

	fmt.Fprintf(w, "File: %s\n", path)
	if title := wld.Texts().Title; title != "" {
		fmt.Fprintf(w, "Title: %s\n", title)
	}
	fmt.Fprintf(w, "Size: %dx%d\n", a.Width, a.Height)
	fmt.Fprintf(w, "Statics: %d | Player units: %d | Enemy units: %d\n", a.Statics, a.PlayerUnits, a.EnemyUnits)

	fmt.Fprintln(w, "\nTiles:")
	for tile := 0; tile < 256; tile++ {
		if n := a.TileHistogram[byte(tile)]; n > 0 {
			fmt.Fprintf(w, "  %3d  x%-4d %s\n", tile, n, wld.TilePermission(byte(tile)))
		}
	}

	for _, p := range a.OutOfBounds {
		fmt.Fprintf(w, "⚠️  Object outside the map at (%d, %d)\n", p.X, p.Y)
	}
	for _, p := range a.Blocked {
		fmt.Fprintf(w, "⚠️  Unit on a prohibited tile at (%d, %d)\n", p.X, p.Y)
	}
	for _, id := range a.UnknownTypes {
		fmt.Fprintf(w, "⚠️  Unit type %d has no stats\n", id)
	}

	isolated := isolatedUnits(wld)
	if len(isolated) > 0 {
		fmt.Fprintf(w, "⚠️  %d units cannot reach any enemy in one turn\n", len(isolated))
		for i, u := range isolated {
			if i < 5 {
				fmt.Fprintf(w, "   Unit %d (%s) at (%d, %d)\n", u.ID, u.Faction, u.Pos.X, u.Pos.Y)
			}
		}
		if len(isolated) > 5 {
			fmt.Fprintf(w, "   ... and %d more\n", len(isolated)-5)
		}
	} else if a.PlayerUnits > 0 && a.EnemyUnits > 0 {
		fmt.Fprintln(w, "✅ Every unit can engage an enemy in one turn")
	}

	return nil
}

// isolatedUnits returns units of registered types whose movement plus range
// does not reach any unit of the other faction
func isolatedUnits(w *world.World) []world.Unit {
	var isolated []world.Unit
	for _, u := range w.Units() {
		ut, ok := w.UnitType(u.TypeID)
		if !ok {
			continue
		}

		reach := int(ut.Movement) + int(ut.Range)
		found := false
		for _, other := range w.Units() {
			if other.Faction == u.Faction {
				continue
			}
			if world.ManhattanDistance(u.Pos, other.Pos) <= reach {
				found = true
				break
			}
		}
		if !found {
			isolated = append(isolated, u)
		}
	}
	return isolated
}

func runTile(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 3); err != nil {
		return err
	}

	x, errX := strconv.Atoi(cmd.Args().Get(1))
	y, errY := strconv.Atoi(cmd.Args().Get(2))
	if errX != nil || errY != nil {
		return fmt.Errorf("tile: coordinates must be integers")
	}

	wld, _, err := loadWorld(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	tile, ok := wld.TileAt(x, y)
	if !ok {
		width, height := wld.MapSize()
		return fmt.Errorf("tile: (%d, %d) is outside %dx%d map", x, y, width, height)
	}

	w := out(cmd)
	kind := wld.TileKindAt(x, y)
	fmt.Fprintf(w, "Tile (%d,%d): id %d, %s\n", x, y, tile, kind)
	fmt.Fprintf(w, "Tiles with id %d: %d\n", tile, wld.CountTile(tile))
	for _, s := range wld.StaticsAt(x, y) {
		fmt.Fprintf(w, "Static: texture %d\n", s.TextureID)
	}
	if u, ok := wld.UnitAt(x, y); ok {
		fmt.Fprintf(w, "Unit: #%d %s type %d health %g\n", u.ID, u.Faction, u.TypeID, u.Health)
		if ut, ok := wld.UnitType(u.TypeID); ok {
			fmt.Fprintf(w, "  %s: movement %d, range %d\n", ut.Name, ut.Movement, ut.Range)
			printTargets(w, wld, u, ut.Range)
		}
	}
	return nil
}

// printTargets lists the units of the other faction that u can attack without moving
func printTargets(w io.Writer, wld *world.World, u world.Unit, r uint8) {
	var targets []string
	for _, other := range wld.Units() {
		if other.Faction != u.Faction && world.IsTileAtRange(u.Pos, other.Pos, r) {
			targets = append(targets, fmt.Sprintf("#%d at (%d,%d)", other.ID, other.Pos.X, other.Pos.Y))
		}
	}
	if len(targets) == 0 {
		fmt.Fprintf(w, "  No targets at range %d\n", r)
		return
	}
	fmt.Fprintf(w, "  Targets at range %d: %s\n", r, strings.Join(targets, ", "))
}
