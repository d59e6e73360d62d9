package worldfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/nikhilr612/alesia/game/world"
)

// DefaultMaxFileSize bounds the in-memory buffer for a single world file.
// The largest tile block is 65025 bytes, so this leaves room for about
// 2.8 million object records.
const DefaultMaxFileSize = 16 << 20

// Options configure a Loader
type Options struct {
	// MaxFileSize is the largest file the loader will buffer. Zero means DefaultMaxFileSize.
	MaxFileSize int64
}

// Loader reads world files into worlds
type Loader struct {
	maxSize int64
}

// DefaultLoader is used by the package level functions
var DefaultLoader = NewLoader(Options{})

// NewLoader creates a loader with the given options
func NewLoader(opts Options) *Loader {
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Loader{maxSize: maxSize}
}

// Load reads the world file at path into w. On failure w is left unchanged.
func Load(w *world.World, path string) error {
	return DefaultLoader.Load(w, path)
}

// LoadFS reads the world file name from fsys into w
func LoadFS(w *world.World, fsys fs.FS, name string) error {
	return DefaultLoader.LoadFS(w, fsys, name)
}

// LoadBytes decodes data into w
func LoadBytes(w *world.World, data []byte) error {
	return DefaultLoader.LoadBytes(w, data)
}

// Decode parses a complete world file without committing it anywhere
func Decode(data []byte) (*Snapshot, error) {
	c := NewCursor(data)

	h, err := readHeader(c)
	if err != nil {
		return nil, err
	}

	tiles, err := decodeTiles(c, h)
	if err != nil {
		return nil, err
	}

	if err := checkPadding(c); err != nil {
		return nil, err
	}

	objects, err := decodeObjects(c)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Tiles: tiles, Objects: objects}, nil
}

// Load reads the world file at path into w
func (l *Loader) Load(w *world.World, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Kind: KindIO, Path: path, Err: err}
	}
	defer f.Close()

	return l.loadFile(w, f, path)
}

// LoadFS reads the world file name from fsys into w
func (l *Loader) LoadFS(w *world.World, fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return &LoadError{Kind: KindIO, Path: name, Err: err}
	}
	defer f.Close()

	return l.loadFile(w, f, name)
}

// LoadBytes decodes data into w
func (l *Loader) LoadBytes(w *world.World, data []byte) error {
	if int64(len(data)) > l.maxSize {
		return &LoadError{Kind: KindAllocation, Err: l.tooLarge(int64(len(data)))}
	}
	return l.decodeInto(w, data, "")
}

// ReadFile reads and decodes path without touching any world
func (l *Loader) ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: KindIO, Path: path, Err: err}
	}
	defer f.Close()

	data, err := l.readAll(f, path)
	if err != nil {
		return nil, err
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, &LoadError{Kind: KindMalformed, Path: path, Err: err}
	}
	return snap, nil
}

// ReadFile reads and decodes path with the default loader
func ReadFile(path string) (*Snapshot, error) {
	return DefaultLoader.ReadFile(path)
}

func (l *Loader) loadFile(w *world.World, f fs.File, path string) error {
	data, err := l.readAll(f, path)
	if err != nil {
		return err
	}
	return l.decodeInto(w, data, path)
}

func (l *Loader) decodeInto(w *world.World, data []byte, path string) error {
	snap, err := Decode(data)
	if err != nil {
		return &LoadError{Kind: KindMalformed, Path: path, Err: err}
	}
	commit(w, snap)
	return nil
}

// readAll buffers the whole file, refusing anything over the size budget
func (l *Loader) readAll(f fs.File, path string) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, &LoadError{Kind: KindIO, Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Kind: KindIO, Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}

	size := info.Size()
	if size > l.maxSize || size > math.MaxInt {
		return nil, &LoadError{Kind: KindAllocation, Path: path, Err: l.tooLarge(size)}
	}

	// The size from Stat is only a hint; the file may grow while we read it.
	data, err := io.ReadAll(io.LimitReader(f, l.maxSize+1))
	if err != nil {
		return nil, &LoadError{Kind: KindIO, Path: path, Err: err}
	}
	if int64(len(data)) > l.maxSize {
		return nil, &LoadError{Kind: KindAllocation, Path: path, Err: l.tooLarge(int64(len(data)))}
	}

	return data, nil
}

func (l *Loader) tooLarge(size int64) error {
	return fmt.Errorf("%d bytes exceeds limit of %d bytes", size, l.maxSize)
}

// IsMalformed reports whether err is a load failure caused by file contents
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
