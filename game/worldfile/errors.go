package worldfile

import (
	"errors"
	"fmt"
)

// Error classes. A *LoadError matches exactly one of these with errors.Is.
var (
	ErrIO         = errors.New("world file i/o error")
	ErrAllocation = errors.New("world file too large to load")
	ErrMalformed  = errors.New("malformed world file")
)

// Malformed reasons. A *FormatError unwraps to one of these.
var (
	ErrBadMagic              = errors.New("file does not begin with magic bytes")
	ErrTruncatedHeader       = errors.New("world size not specified")
	ErrTruncatedTileData     = errors.New("file does not specify all tiles")
	ErrBadPadding            = errors.New("6 byte zero padding after tile data absent")
	ErrTruncatedObjectRecord = errors.New("incomplete game object record")
	ErrBadObjectHeader       = errors.New("game object record does not begin with 254 237")
	ErrUnknownObjectType     = errors.New("unrecognized game object type")
)

// Kind classifies why a load failed
type Kind int

const (
	KindIO Kind = iota
	KindAllocation
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindAllocation:
		return "allocation"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindAllocation:
		return ErrAllocation
	default:
		return ErrMalformed
	}
}

// LoadError is returned by every failed load
type LoadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load world: %v: %v", e.Kind.sentinel(), e.Err)
	}
	return fmt.Sprintf("load world %s: %v: %v", e.Path, e.Kind.sentinel(), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches the class sentinel of the error's kind
func (e *LoadError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// FormatError describes where a file breaks the format
type FormatError struct {
	Reason error
	Offset int
	// Tag is the offending type byte for ErrUnknownObjectType
	Tag byte
}

func (e *FormatError) Error() string {
	if errors.Is(e.Reason, ErrUnknownObjectType) {
		return fmt.Sprintf("%v %d at offset %d", e.Reason, e.Tag, e.Offset)
	}
	return fmt.Sprintf("%v at offset %d", e.Reason, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return e.Reason
}

func malformed(reason error, offset int) error {
	return &FormatError{Reason: reason, Offset: offset}
}

// ReasonOf returns the malformed reason of err, or nil if err is not a format error
func ReasonOf(err error) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return nil
}
