// Package worldfile decodes .alw world files into a world.World.
//
// Binary Format:
//
// All values are single unsigned bytes.
//
//	offset          length        content
//	0               4             magic: 250 222 0 255
//	4               1             width
//	5               1             height
//	6               width*height  tile ids, row-major (y outer, x inner)
//	6+w*h           6             padding, all zero
//	12+w*h          6 per record  game objects, repeated to end of file
//
// A game object record is [254 237 type param x y]. Type 0 is a static
// (param is its texture id), type 1 a player unit and type 2 an enemy unit
// (param is the unit type id). Any other type makes the file malformed.
//
// Loading:
//
// The whole file is read into memory, decoded into a Snapshot, and only then
// committed into the target world. A failed load leaves the world exactly as
// it was. Errors are *LoadError values classified as ErrIO, ErrAllocation or
// ErrMalformed; malformed files also match the specific reason:
//
//	err := worldfile.Load(w, path)
//	switch {
//	case errors.Is(err, worldfile.ErrBadMagic):
//		// not a world file
//	case errors.Is(err, worldfile.ErrMalformed):
//		// damaged world file
//	case errors.Is(err, worldfile.ErrIO):
//		// missing or unreadable
//	}
package worldfile
