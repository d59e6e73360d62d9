package worldfile

import (
	"bytes"
	"fmt"
)

// ObjectKind is the type tag of a game object record
type ObjectKind uint8

const (
	Static     ObjectKind = 0
	PlayerUnit ObjectKind = 1
	EnemyUnit  ObjectKind = 2
)

func (k ObjectKind) String() string {
	switch k {
	case Static:
		return "static"
	case PlayerUnit:
		return "player_unit"
	case EnemyUnit:
		return "enemy_unit"
	default:
		return fmt.Sprintf("object(%d)", uint8(k))
	}
}

// MarshalText writes the kind by name
func (k ObjectKind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("unknown object kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a name written by MarshalText
func (k *ObjectKind) UnmarshalText(text []byte) error {
	for _, kind := range []ObjectKind{Static, PlayerUnit, EnemyUnit} {
		if string(text) == kind.String() {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown object kind %q", text)
}

func (k ObjectKind) valid() bool {
	return k <= EnemyUnit
}

// GameObject is one decoded record. It only exists between decoding and
// commit; the builder turns it into a world.Static or world.Unit.
type GameObject struct {
	Kind ObjectKind `json:"kind"`
	// Param is the texture id of a static or the type id of a unit
	Param uint8 `json:"param"`
	X     uint8 `json:"x"`
	Y     uint8 `json:"y"`
}

// decodeObjects reads 6-byte records until the buffer is exhausted
func decodeObjects(c *Cursor) ([]GameObject, error) {
	objects := make([]GameObject, 0, c.Remaining()/recordSize)

	for c.Remaining() > 0 {
		start := c.Offset()
		rec, err := c.ReadExact(recordSize)
		if err != nil {
			return nil, malformed(ErrTruncatedObjectRecord, start)
		}
		if !bytes.Equal(rec[:2], recordSig) {
			return nil, malformed(ErrBadObjectHeader, start)
		}

		kind := ObjectKind(rec[2])
		if !kind.valid() {
			return nil, &FormatError{Reason: ErrUnknownObjectType, Offset: start + 2, Tag: rec[2]}
		}

		objects = append(objects, GameObject{
			Kind:  kind,
			Param: rec[3],
			X:     rec[4],
			Y:     rec[5],
		})
	}

	return objects, nil
}
