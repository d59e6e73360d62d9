package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikhilr612/alesia/game/service"
	"github.com/nikhilr612/alesia/game/world"
	"github.com/nikhilr612/alesia/game/worldfile"
)

const (
	worldExt    = ".alw"
	manifestExt = ".json"
)

var (
	ErrWorldNotFound   = errors.New("world not found")
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrInvalidName     = errors.New("invalid world name")
)

var _ service.WorldCatalog = (*Manager)(nil)

// Manager handles world loading and caching
type Manager struct {
	worldDir string
	loader   *worldfile.Loader
	entries  map[string]*service.Entry
	mu       sync.RWMutex
}

// NewManager creates a new world catalog over worldDir
func NewManager(worldDir string) (*Manager, error) {
	return NewManagerWithLoader(worldDir, worldfile.DefaultLoader)
}

// NewManagerWithLoader creates a catalog that reads files with the given loader
func NewManagerWithLoader(worldDir string, loader *worldfile.Loader) (*Manager, error) {
	info, err := os.Stat(worldDir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("world directory does not exist: %s", worldDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat world directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("world directory is not a directory: %s", worldDir)
	}

	return &Manager{
		worldDir: worldDir,
		loader:   loader,
		entries:  make(map[string]*service.Entry),
	}, nil
}

// Dir returns the world directory
func (m *Manager) Dir() string {
	return m.worldDir
}

// LoadWorld loads a world by id, returning the cached entry when present
func (m *Manager) LoadWorld(name string) (*service.Entry, error) {
	id, err := worldID(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if entry, exists := m.entries[id]; exists {
		m.mu.RUnlock()
		return entry, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, exists := m.entries[id]; exists {
		return entry, nil
	}

	entry, err := m.build(id)
	if err != nil {
		return nil, err
	}
	m.entries[id] = entry
	return entry, nil
}

// Reload rereads a world from disk and replaces the cached entry.
// The previous entry stays cached if the new file fails to load.
func (m *Manager) Reload(name string) (*service.Entry, error) {
	id, err := worldID(name)
	if err != nil {
		return nil, err
	}

	entry, err := m.build(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.entries[id] = entry
	m.mu.Unlock()

	return entry, nil
}

// ListWorlds returns information about all loadable worlds
func (m *Manager) ListWorlds() ([]*service.WorldInfo, error) {
	dirEntries, err := os.ReadDir(m.worldDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read world directory: %w", err)
	}

	var worlds []*service.WorldInfo
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), worldExt) {
			continue
		}

		id := strings.TrimSuffix(de.Name(), worldExt)
		entry, err := m.LoadWorld(id)
		if err != nil {
			// Skip worlds that fail to load
			log.Printf("Skipping world %s: %v", de.Name(), err)
			continue
		}

		worlds = append(worlds, service.NewWorldInfo(entry))
	}

	sort.Slice(worlds, func(i, j int) bool { return worlds[i].ID < worlds[j].ID })
	return worlds, nil
}

// RefreshCache drops every cached world so the next load rereads the files
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*service.Entry)
}

// LoadManifest reads and validates the manifest of a world.
// A missing manifest yields a manifest named after the world id.
func (m *Manager) LoadManifest(name string) (*Manifest, error) {
	id, err := worldID(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(m.worldDir, id+manifestExt))
	if os.IsNotExist(err) {
		return &Manifest{Name: id}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := ValidateManifest(&manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if manifest.Name == "" {
		manifest.Name = id
	}

	return &manifest, nil
}

// build loads a world and its manifest from disk into a fresh entry
func (m *Manager) build(id string) (*service.Entry, error) {
	filename := id + worldExt
	path := filepath.Join(m.worldDir, filename)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, id)
	}

	manifest, err := m.LoadManifest(id)
	if err != nil {
		return nil, err
	}

	w := world.NewWorld()
	manifest.Apply(w)
	if err := m.loader.Load(w, path); err != nil {
		return nil, err
	}

	return &service.Entry{
		ID:          id,
		Name:        manifest.Name,
		Description: manifest.Description,
		Filename:    filename,
		World:       w,
		Revision:    uuid.NewString(),
		LoadedAt:    time.Now(),
	}, nil
}

// worldID strips the extension and rejects names that could escape the world directory
func worldID(name string) (string, error) {
	id := strings.TrimSuffix(name, worldExt)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return id, nil
}
