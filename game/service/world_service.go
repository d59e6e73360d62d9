package service

import (
	"context"
	"errors"

	"github.com/nikhilr612/alesia/validate"
)

var (
	ErrOutOfBounds = errors.New("coordinates out of bounds")
)

// WorldService defines all world-related operations
type WorldService interface {
	ListWorlds(ctx context.Context) ([]*WorldInfo, error)
	GetWorld(ctx context.Context, name string) (*WorldDetail, error)
	DescribeTile(ctx context.Context, name string, x, y int) (*TileInfo, error)
	ReloadWorld(ctx context.Context, name string) (*WorldDetail, error)
	ValidateWorlds(ctx context.Context) ([]validate.Result, error)
}

// WorldCatalog loads and caches worlds by id
type WorldCatalog interface {
	LoadWorld(name string) (*Entry, error)
	Reload(name string) (*Entry, error)
	ListWorlds() ([]*WorldInfo, error)
	Dir() string
}
