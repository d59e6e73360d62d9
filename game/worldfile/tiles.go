package worldfile

import "github.com/nikhilr612/alesia/game/world"

// decodeTiles reads the width*height tile block, row-major with y outer
func decodeTiles(c *Cursor, h header) (world.TileMap, error) {
	n := int(h.width) * int(h.height)
	start := c.Offset()
	raw, err := c.ReadExact(n)
	if err != nil {
		return world.TileMap{}, malformed(ErrTruncatedTileData, start)
	}

	tiles := make([]byte, n)
	copy(tiles, raw)

	return world.TileMap{
		Width:  h.width,
		Height: h.height,
		Tiles:  tiles,
	}, nil
}
