package service

import (
	"context"
	"fmt"

	"github.com/nikhilr612/alesia/game/world"
	"github.com/nikhilr612/alesia/validate"
)

// worldServiceImpl implements the WorldService interface
type worldServiceImpl struct {
	catalog WorldCatalog
}

// NewWorldService creates a new world service instance
func NewWorldService(catalog WorldCatalog) WorldService {
	return &worldServiceImpl{catalog: catalog}
}

// ListWorlds returns every loadable world in the catalog
func (s *worldServiceImpl) ListWorlds(ctx context.Context) ([]*WorldInfo, error) {
	return s.catalog.ListWorlds()
}

// GetWorld returns the full content of a world
func (s *worldServiceImpl) GetWorld(ctx context.Context, name string) (*WorldDetail, error) {
	entry, err := s.catalog.LoadWorld(name)
	if err != nil {
		return nil, err
	}
	return buildDetail(entry), nil
}

// DescribeTile reports the tile at (x, y) and what stands on it
func (s *worldServiceImpl) DescribeTile(ctx context.Context, name string, x, y int) (*TileInfo, error) {
	entry, err := s.catalog.LoadWorld(name)
	if err != nil {
		return nil, err
	}

	w := entry.World
	tile, ok := w.TileAt(x, y)
	if !ok {
		width, height := w.MapSize()
		return nil, fmt.Errorf("%w: (%d, %d) is outside %dx%d map", ErrOutOfBounds, x, y, width, height)
	}

	kind := w.TileKindAt(x, y)
	info := &TileInfo{
		World:    entry.ID,
		X:        x,
		Y:        y,
		Tile:     tile,
		Kind:     kind,
		Passable: kind.CanEnter(),
		Statics:  w.StaticsAt(x, y),
	}
	if info.Statics == nil {
		info.Statics = []world.Static{}
	}

	if u, ok := w.UnitAt(x, y); ok {
		info.Unit = &u
		if ut, ok := w.UnitType(u.TypeID); ok {
			info.UnitType = &ut
		}
	}

	return info, nil
}

// ReloadWorld rereads a world from disk
func (s *worldServiceImpl) ReloadWorld(ctx context.Context, name string) (*WorldDetail, error) {
	entry, err := s.catalog.Reload(name)
	if err != nil {
		return nil, err
	}
	return buildDetail(entry), nil
}

// ValidateWorlds validates every world file in the catalog directory
func (s *worldServiceImpl) ValidateWorlds(ctx context.Context) ([]validate.Result, error) {
	return validate.Dir(s.catalog.Dir())
}

func buildDetail(e *Entry) *WorldDetail {
	w := e.World
	return &WorldDetail{
		WorldInfo: *NewWorldInfo(e),
		Texts:     w.Texts(),
		TileMap:   w.TileMap(),
		Statics:   w.Statics(),
		Units:     w.Units(),
		UnitTypes: w.UnitTypes(),
		TileKinds: w.TilePermissions(),
		Analysis:  w.Analyze(),
		LoadedAt:  e.LoadedAt,
	}
}
