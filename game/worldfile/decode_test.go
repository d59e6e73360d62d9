package worldfile

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_MinimalFile(t *testing.T) {
	data := []byte{250, 222, 0, 255, 0, 0, 0, 0, 0, 0, 0, 0}

	snap, err := Decode(data)
	require.NoError(t, err)
	require.Zero(t, snap.Tiles.Width)
	require.Zero(t, snap.Tiles.Height)
	require.Empty(t, snap.Tiles.Tiles)
	require.Empty(t, snap.Objects)
}

func TestSnapshot_JSON(t *testing.T) {
	snap, err := Decode(concreteFile())
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"tiles": {"width": 2, "height": 1, "tiles": [5, 9]},
		"objects": [{"kind": "static", "param": 7, "x": 1, "y": 0}]
	}`, string(data))

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, *snap, decoded)

	var kind ObjectKind
	require.Error(t, kind.UnmarshalText([]byte("tower")))
	_, err = ObjectKind(9).MarshalText()
	require.Error(t, err)
}

func TestDecode_ConcreteFile(t *testing.T) {
	snap, err := Decode(concreteFile())
	require.NoError(t, err)

	require.Equal(t, uint8(2), snap.Tiles.Width)
	require.Equal(t, uint8(1), snap.Tiles.Height)
	require.Equal(t, []byte{5, 9}, snap.Tiles.Row(0))
	require.Equal(t, []GameObject{{Kind: Static, Param: 7, X: 1, Y: 0}}, snap.Objects)
}

func TestDecode_RowMajorOrder(t *testing.T) {
	// 3 wide, 2 high: row 0 is 1 2 3, row 1 is 4 5 6
	snap, err := Decode(newFile(3, 2, 1, 2, 3, 4, 5, 6).pad().bytes())
	require.NoError(t, err)

	require.Equal(t, []byte{1, 2, 3}, snap.Tiles.Row(0))
	require.Equal(t, []byte{4, 5, 6}, snap.Tiles.Row(1))
	require.Equal(t, 5, snap.Tiles.Index(2, 1))
	require.Equal(t, byte(6), snap.Tiles.Tiles[snap.Tiles.Index(2, 1)])
	require.Equal(t, -1, snap.Tiles.Index(3, 0))
}

func TestDecode_ObjectsInFileOrder(t *testing.T) {
	data := newFile(1, 1, 0).pad().
		object(2, 4, 9, 9).
		object(0, 1, 0, 0).
		object(1, 3, 200, 255).
		bytes()

	snap, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, []GameObject{
		{Kind: EnemyUnit, Param: 4, X: 9, Y: 9},
		{Kind: Static, Param: 1, X: 0, Y: 0},
		{Kind: PlayerUnit, Param: 3, X: 200, Y: 255},
	}, snap.Objects)

	statics, players, enemies := snap.Counts()
	require.Equal(t, 1, statics)
	require.Equal(t, 1, players)
	require.Equal(t, 1, enemies)
}

func TestDecode_TileDataIsCopied(t *testing.T) {
	data := newFile(2, 1, 5, 9).pad().bytes()
	snap, err := Decode(data)
	require.NoError(t, err)

	data[6] = 100
	require.Equal(t, byte(5), snap.Tiles.Tiles[0])
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		reason error
		offset int
	}{
		{
			name:   "empty file",
			data:   nil,
			reason: ErrBadMagic,
			offset: 0,
		},
		{
			name:   "short magic",
			data:   []byte{250, 222},
			reason: ErrBadMagic,
			offset: 0,
		},
		{
			name:   "wrong magic",
			data:   []byte{249, 222, 0, 255, 0, 0, 0, 0, 0, 0, 0, 0},
			reason: ErrBadMagic,
			offset: 0,
		},
		{
			name:   "last magic byte wrong",
			data:   []byte{250, 222, 0, 254, 0, 0, 0, 0, 0, 0, 0, 0},
			reason: ErrBadMagic,
			offset: 0,
		},
		{
			name:   "missing dimensions",
			data:   []byte{250, 222, 0, 255},
			reason: ErrTruncatedHeader,
			offset: 4,
		},
		{
			name:   "missing height",
			data:   []byte{250, 222, 0, 255, 3},
			reason: ErrTruncatedHeader,
			offset: 5,
		},
		{
			name:   "too few tiles",
			data:   newFile(2, 2, 1, 2, 3).bytes(),
			reason: ErrTruncatedTileData,
			offset: 6,
		},
		{
			name:   "missing padding",
			data:   newFile(2, 1, 5, 9).bytes(),
			reason: ErrBadPadding,
			offset: 8,
		},
		{
			name:   "short padding",
			data:   newFile(2, 1, 5, 9).raw(0, 0, 0).bytes(),
			reason: ErrBadPadding,
			offset: 8,
		},
		{
			name:   "non-zero padding",
			data:   newFile(2, 1, 5, 9).raw(0, 0, 0, 1, 0, 0).bytes(),
			reason: ErrBadPadding,
			offset: 8,
		},
		{
			name:   "incomplete record",
			data:   newFile(2, 1, 5, 9).pad().object(0, 7, 1, 0).raw(0xfe, 0xed, 0).bytes(),
			reason: ErrTruncatedObjectRecord,
			offset: 20,
		},
		{
			name:   "single trailing byte",
			data:   newFile(0, 0).pad().raw(0).bytes(),
			reason: ErrTruncatedObjectRecord,
			offset: 12,
		},
		{
			name:   "bad record header",
			data:   newFile(0, 0).pad().raw(0xfe, 0xee, 0, 1, 2, 3).bytes(),
			reason: ErrBadObjectHeader,
			offset: 12,
		},
		{
			name:   "bad header after good record",
			data:   newFile(0, 0).pad().object(1, 1, 1, 1).raw(0, 0, 0, 0, 0, 0).bytes(),
			reason: ErrBadObjectHeader,
			offset: 18,
		},
		{
			name:   "unknown object type",
			data:   newFile(0, 0).pad().object(3, 1, 2, 3).bytes(),
			reason: ErrUnknownObjectType,
			offset: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Decode(tt.data)
			require.Nil(t, snap)
			require.ErrorIs(t, err, tt.reason)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			require.Equal(t, tt.offset, fe.Offset)
		})
	}
}

func TestDecode_UnknownTypeCarriesTag(t *testing.T) {
	_, err := Decode(newFile(0, 0).pad().object(17, 1, 2, 3).bytes())

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, byte(17), fe.Tag)
	require.Contains(t, fe.Error(), "17")
}

func TestObjectKind_String(t *testing.T) {
	require.Equal(t, "static", Static.String())
	require.Equal(t, "player_unit", PlayerUnit.String())
	require.Equal(t, "enemy_unit", EnemyUnit.String())
	require.Equal(t, "object(9)", ObjectKind(9).String())
}
