package memory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankReadWrite(t *testing.T) {
	bank := NewEmptyBank(0x1000, 16)

	bank.Write(0x1000, 0xAB)
	bank.Write(0x100F, 0xCD)
	bank.Write(0x1010, 0xEE) // past the end, ignored
	bank.Write(0x0FFF, 0xEE) // before the start, ignored

	assert.Equal(t, uint32(0x1000), bank.Base())
	assert.Equal(t, uint32(16), bank.Size())
	assert.Equal(t, uint8(0xAB), bank.Read(0x1000))
	assert.Equal(t, uint8(0xCD), bank.Read(0x100F))
	assert.Equal(t, uint8(0xFF), bank.Read(0x1010), "unmapped reads return open bus")
	assert.Equal(t, uint8(0xFF), bank.Read(0x0FFF), "unmapped reads return open bus")
}

func TestWordsAreLittleEndian(t *testing.T) {
	bank := NewEmptyBank(0, 4)
	bank.WriteWord(2, 0x7F12)

	assert.Equal(t, uint8(0x12), bank.Read(2))
	assert.Equal(t, uint8(0x7F), bank.Read(3))
	assert.Equal(t, uint16(0x7F12), ReadWord(bank, 2))
}

func TestCheck(t *testing.T) {
	bank := NewEmptyBank(0x100, 0x80)

	tests := []struct {
		name    string
		addr    uint32
		n       int
		wantErr bool
	}{
		{"whole region", 0x100, 0x80, false},
		{"last byte", 0x17F, 1, false},
		{"empty read at end", 0x180, 0, false},
		{"one past the end", 0x17F, 2, true},
		{"before base", 0xFF, 1, true},
		{"far away", 0xFFFFFFFF, 128, true},
		{"negative length", 0x100, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(bank, tt.addr, tt.n)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrOutOfBoundsRead), "expected out of bounds, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadFull(t *testing.T) {
	bank := NewBank(0, []byte{1, 2, 3, 4})

	dst := make([]byte, 3)
	require.NoError(t, ReadFull(bank, 1, dst))
	assert.Equal(t, []byte{2, 3, 4}, dst)

	dst = []byte{9, 9}
	err := ReadFull(bank, 3, dst)
	assert.ErrorIs(t, err, ErrOutOfBoundsRead)
	assert.Equal(t, []byte{9, 9}, dst, "nothing is read on a failed bounds check")
}

func TestOffset(t *testing.T) {
	bank := NewEmptyBank(0x200, 0x400)

	off, err := Offset(bank, 3, 128)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x200+3*128), off)

	_, err = Offset(bank, -1, 128)
	assert.ErrorIs(t, err, ErrOutOfBoundsRead)

	_, err = Offset(bank, 1<<40, 128)
	assert.ErrorIs(t, err, ErrOutOfBoundsRead)
}

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palram.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0x7F}, 0644))

	bank, err := LoadBank(path, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), bank.Size())
	assert.Equal(t, uint16(0x7FFF), ReadWord(bank, 0))

	_, err = LoadBank(filepath.Join(dir, "missing.bin"), 0)
	assert.Error(t, err)
}

func TestSnapshotAccessor(t *testing.T) {
	tiles := NewEmptyBank(0, 128)
	palettes := NewEmptyBank(0, 32)
	snap := &Snapshot{TileBank: tiles, PaletteBank: palettes}

	assert.Same(t, tiles, snap.Tiles())
	assert.Same(t, palettes, snap.Palettes())
}
