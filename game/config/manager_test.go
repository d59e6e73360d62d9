package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/nikhilr612/alesia/game/world"
	"github.com/nikhilr612/alesia/game/worldfile"
)

func createTestWorldDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "world-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return dir
}

// encodeWorld builds a 3x2 world file with one static, one player unit
// of type 1 and one enemy unit of type 2.
func encodeWorld(tiles ...byte) []byte {
	if len(tiles) == 0 {
		tiles = []byte{1, 1, 2, 1, 3, 1}
	}
	data := []byte{250, 222, 0, 255, 3, 2}
	data = append(data, tiles...)
	data = append(data, 0, 0, 0, 0, 0, 0)
	data = append(data, 254, 237, 0, 7, 2, 0)
	data = append(data, 254, 237, 1, 1, 0, 0)
	data = append(data, 254, 237, 2, 2, 2, 1)
	return data
}

func createValidManifest() *Manifest {
	return &Manifest{
		Name:        "Test World",
		Description: "Test world",
		Texts: world.Texts{
			Title:   "Test",
			Intro:   "Hold the ford.",
			Victory: "The ford is yours.",
			Defeat:  "The ford is lost.",
		},
		Tiles: TilePermissions{
			Prohibited: []byte{2},
			Heal:       []byte{3},
		},
		UnitTypes: map[uint8]world.UnitType{
			1: {Name: "Spearman", MaxHealth: 10, Movement: 3, Range: 1},
			2: {Name: "Archer", MaxHealth: 6, Movement: 2, Range: 3},
		},
	}
}

func writeWorldFile(t *testing.T, dir, name string, data []byte) {
	err := os.WriteFile(filepath.Join(dir, name+".alw"), data, 0644)
	if err != nil {
		t.Fatalf("Failed to write world file: %v", err)
	}
}

func writeManifestFile(t *testing.T, dir, name string, manifest *Manifest) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal manifest: %v", err)
	}

	err = os.WriteFile(filepath.Join(dir, name+".json"), data, 0644)
	if err != nil {
		t.Fatalf("Failed to write manifest file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := createTestWorldDir(t)
		defer os.RemoveAll(dir)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Fatal("Expected manager to be non-nil")
		}
		if manager.Dir() != dir {
			t.Errorf("Expected dir %s, got %s", dir, manager.Dir())
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := createTestWorldDir(t)
		defer os.RemoveAll(dir)
		writeWorldFile(t, dir, "plain", encodeWorld())

		_, err := NewManager(filepath.Join(dir, "plain.alw"))
		if err == nil {
			t.Error("Expected error when world dir is a file")
		}
	})
}

func TestManager_LoadWorld(t *testing.T) {
	dir := createTestWorldDir(t)
	defer os.RemoveAll(dir)

	writeWorldFile(t, dir, "ford", encodeWorld())
	writeManifestFile(t, dir, "ford", createValidManifest())
	writeWorldFile(t, dir, "bare", encodeWorld())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load world with manifest", func(t *testing.T) {
		entry, err := manager.LoadWorld("ford")
		if err != nil {
			t.Fatalf("Failed to load world: %v", err)
		}
		if entry.Name != "Test World" {
			t.Errorf("Expected name 'Test World', got '%s'", entry.Name)
		}
		if entry.Filename != "ford.alw" {
			t.Errorf("Expected filename 'ford.alw', got '%s'", entry.Filename)
		}
		if entry.Revision == "" {
			t.Error("Expected a revision id")
		}

		w := entry.World
		if !w.Loaded() {
			t.Error("Expected world to be loaded")
		}
		if w.Texts().Title != "Test" {
			t.Errorf("Expected title 'Test', got '%s'", w.Texts().Title)
		}
		if kind := w.TileKindAt(2, 0); kind != world.Prohibited {
			t.Errorf("Expected tile (2,0) prohibited, got %s", kind)
		}
		if kind := w.TileKindAt(1, 1); kind != world.Heal {
			t.Errorf("Expected tile (1,1) heal, got %s", kind)
		}

		units := w.Units()
		if len(units) != 2 {
			t.Fatalf("Expected 2 units, got %d", len(units))
		}
		if units[0].Health != 10 {
			t.Errorf("Expected spearman health 10, got %g", units[0].Health)
		}
		if units[1].Health != 6 {
			t.Errorf("Expected archer health 6, got %g", units[1].Health)
		}
	})

	t.Run("load with .alw extension", func(t *testing.T) {
		entry, err := manager.LoadWorld("ford.alw")
		if err != nil {
			t.Fatalf("Failed to load world with extension: %v", err)
		}
		if entry.ID != "ford" {
			t.Errorf("Expected id 'ford', got '%s'", entry.ID)
		}
	})

	t.Run("load without manifest", func(t *testing.T) {
		entry, err := manager.LoadWorld("bare")
		if err != nil {
			t.Fatalf("Failed to load world: %v", err)
		}
		if entry.Name != "bare" {
			t.Errorf("Expected name to default to id, got '%s'", entry.Name)
		}
		for _, u := range entry.World.Units() {
			if u.Health != 0 {
				t.Errorf("Expected unregistered unit health 0, got %g", u.Health)
			}
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		entry1, _ := manager.LoadWorld("ford")

		entry2, err := manager.LoadWorld("ford")
		if err != nil {
			t.Fatalf("Failed to load world from cache: %v", err)
		}

		if entry1 != entry2 {
			t.Error("Expected world to be loaded from cache")
		}
	})

	t.Run("load non-existent world", func(t *testing.T) {
		_, err := manager.LoadWorld("non-existent")
		if !errors.Is(err, ErrWorldNotFound) {
			t.Errorf("Expected ErrWorldNotFound, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		for _, name := range []string{"../ford", "sub/ford", `sub\ford`, "..", ""} {
			_, err := manager.LoadWorld(name)
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("LoadWorld(%q): expected ErrInvalidName, got %v", name, err)
			}
		}
	})

	t.Run("load malformed world", func(t *testing.T) {
		writeWorldFile(t, dir, "broken", []byte{250, 222, 0, 254, 1, 1})

		_, err := manager.LoadWorld("broken")
		if !errors.Is(err, worldfile.ErrMalformed) {
			t.Errorf("Expected ErrMalformed, got %v", err)
		}
		if !errors.Is(err, worldfile.ErrBadMagic) {
			t.Errorf("Expected ErrBadMagic, got %v", err)
		}
	})

	t.Run("load invalid manifest", func(t *testing.T) {
		writeWorldFile(t, dir, "badmeta", encodeWorld())
		manifest := createValidManifest()
		manifest.UnitTypes[1] = world.UnitType{Name: "Ghost"}
		writeManifestFile(t, dir, "badmeta", manifest)

		_, err := manager.LoadWorld("badmeta")
		if !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("Expected ErrInvalidManifest, got %v", err)
		}
	})

	t.Run("load malformed manifest JSON", func(t *testing.T) {
		writeWorldFile(t, dir, "badjson", encodeWorld())
		err := os.WriteFile(filepath.Join(dir, "badjson.json"), []byte(`{"name": "Bad", invalid json}`), 0644)
		if err != nil {
			t.Fatalf("Failed to write manifest: %v", err)
		}

		_, err = manager.LoadWorld("badjson")
		if !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("Expected ErrInvalidManifest, got %v", err)
		}
	})
}

func TestManager_ListWorlds(t *testing.T) {
	dir := createTestWorldDir(t)
	defer os.RemoveAll(dir)

	for _, name := range []string{"delta", "alpha", "charlie"} {
		writeWorldFile(t, dir, name, encodeWorld())
	}

	// Invalid worlds and unrelated files are skipped
	writeWorldFile(t, dir, "broken", []byte{0, 0, 0, 0})
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.Mkdir(filepath.Join(dir, "nested.alw"), 0755)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	worlds, err := manager.ListWorlds()
	if err != nil {
		t.Fatalf("Failed to list worlds: %v", err)
	}
	if len(worlds) != 3 {
		t.Fatalf("Expected 3 worlds, got %d", len(worlds))
	}

	expected := []string{"alpha", "charlie", "delta"}
	for i, info := range worlds {
		if info.ID != expected[i] {
			t.Errorf("Expected world %d to be '%s', got '%s'", i, expected[i], info.ID)
		}
		if info.Width != 3 || info.Height != 2 {
			t.Errorf("Expected 3x2 map, got %dx%d", info.Width, info.Height)
		}
		if info.Statics != 1 || info.PlayerUnits != 1 || info.EnemyUnits != 1 {
			t.Errorf("Unexpected object counts: %+v", info)
		}
	}
}

func TestManager_Reload(t *testing.T) {
	dir := createTestWorldDir(t)
	defer os.RemoveAll(dir)

	writeWorldFile(t, dir, "changeable", encodeWorld())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, err := manager.LoadWorld("changeable")
	if err != nil {
		t.Fatalf("Failed to load world: %v", err)
	}
	if tile, _ := loaded.World.TileAt(0, 0); tile != 1 {
		t.Errorf("Expected initial tile 1, got %d", tile)
	}

	// Modify world file
	writeWorldFile(t, dir, "changeable", encodeWorld(9, 9, 9, 9, 9, 9))

	reloaded, err := manager.Reload("changeable")
	if err != nil {
		t.Fatalf("Failed to reload world: %v", err)
	}
	if tile, _ := reloaded.World.TileAt(0, 0); tile != 9 {
		t.Errorf("Expected reloaded tile 9, got %d", tile)
	}
	if reloaded.Revision == loaded.Revision {
		t.Error("Expected a new revision after reload")
	}

	cached, _ := manager.LoadWorld("changeable")
	if cached != reloaded {
		t.Error("Expected reloaded entry to replace the cached one")
	}

	t.Run("failed reload keeps previous entry", func(t *testing.T) {
		writeWorldFile(t, dir, "changeable", []byte{250, 222, 0, 255, 3, 2, 1})

		_, err := manager.Reload("changeable")
		if !errors.Is(err, worldfile.ErrTruncatedTileData) {
			t.Errorf("Expected ErrTruncatedTileData, got %v", err)
		}

		cached, _ := manager.LoadWorld("changeable")
		if cached != reloaded {
			t.Error("Expected previous entry to stay cached")
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := createTestWorldDir(t)
	defer os.RemoveAll(dir)

	writeWorldFile(t, dir, "ford", encodeWorld())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	before, _ := manager.LoadWorld("ford")
	manager.RefreshCache()
	after, err := manager.LoadWorld("ford")
	if err != nil {
		t.Fatalf("Failed to load world after refresh: %v", err)
	}
	if before == after {
		t.Error("Expected cache refresh to force a new load")
	}
}

func TestValidateManifest(t *testing.T) {
	t.Run("valid manifest", func(t *testing.T) {
		if err := ValidateManifest(createValidManifest()); err != nil {
			t.Errorf("Expected valid manifest to pass validation: %v", err)
		}
	})

	t.Run("empty manifest", func(t *testing.T) {
		if err := ValidateManifest(&Manifest{}); err != nil {
			t.Errorf("Expected empty manifest to pass validation: %v", err)
		}
	})

	t.Run("invalid manifest - tile with two kinds", func(t *testing.T) {
		manifest := createValidManifest()
		manifest.Tiles.Damage = []byte{2}
		if err := ValidateManifest(manifest); err == nil {
			t.Error("Expected error for tile listed as prohibited and damage")
		}
	})

	t.Run("invalid manifest - unit type missing name", func(t *testing.T) {
		manifest := createValidManifest()
		manifest.UnitTypes[3] = world.UnitType{MaxHealth: 4}
		if err := ValidateManifest(manifest); err == nil {
			t.Error("Expected error for unit type missing name")
		}
	})

	t.Run("invalid manifest - non-positive health", func(t *testing.T) {
		manifest := createValidManifest()
		manifest.UnitTypes[3] = world.UnitType{Name: "Peasant", MaxHealth: 0}
		if err := ValidateManifest(manifest); err == nil {
			t.Error("Expected error for zero max health")
		}
	})
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestWorldDir(t)
	defer os.RemoveAll(dir)

	names := []string{"a", "b", "c"}
	for _, name := range names {
		writeWorldFile(t, dir, name, encodeWorld())
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 30)

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := names[i%len(names)]
			var err error
			if i%5 == 0 {
				_, err = manager.Reload(name)
			} else {
				_, err = manager.LoadWorld(name)
			}
			if err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent load failed: %v", err)
	}
}

func TestManager_SampleWorlds(t *testing.T) {
	if _, err := os.Stat("../../worlds"); os.IsNotExist(err) {
		t.Skip("Skipping test - worlds directory not found")
	}

	manager, err := NewManager("../../worlds")
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	entry, err := manager.LoadWorld("skirmish")
	if err != nil {
		t.Fatalf("Failed to load sample world: %v", err)
	}

	w := entry.World
	width, height := w.MapSize()
	if width != 8 || height != 6 {
		t.Errorf("Expected 8x6 map, got %dx%d", width, height)
	}
	if len(w.Statics()) != 5 {
		t.Errorf("Expected 5 statics, got %d", len(w.Statics()))
	}
	if len(w.UnitsByFaction(world.Player)) != 3 || len(w.UnitsByFaction(world.Enemy)) != 3 {
		t.Errorf("Expected 3 units per faction, got %d player and %d enemy",
			len(w.UnitsByFaction(world.Player)), len(w.UnitsByFaction(world.Enemy)))
	}

	a := w.Analyze()
	if len(a.OutOfBounds) != 0 || len(a.Blocked) != 0 || len(a.UnknownTypes) != 0 {
		t.Errorf("Expected no placement problems, got %+v", a)
	}
}
