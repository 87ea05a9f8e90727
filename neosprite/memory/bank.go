package memory

import (
	"fmt"
	"log/slog"
	"os"
)

// Bank is a Reader backed by a plain byte slice. It stands in for a region
// of the emulator heap: loaded from a dump file, or filled by hand in tests.
type Bank struct {
	base uint32
	data []byte
}

// NewBank creates a bank starting at base that exposes data directly,
// without copying it.
func NewBank(base uint32, data []byte) *Bank {
	return &Bank{
		base: base,
		data: data,
	}
}

// NewEmptyBank creates a zero filled bank of the given size.
func NewEmptyBank(base uint32, size int) *Bank {
	return NewBank(base, make([]byte, size))
}

// LoadBank reads a raw memory dump from disk.
func LoadBank(path string, base uint32) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory dump %s: %w", path, err)
	}

	slog.Debug("Loaded memory dump", "path", path, "bytes", len(data), "base", fmt.Sprintf("0x%X", base))

	return NewBank(base, data), nil
}

func (b *Bank) Base() uint32 {
	return b.base
}

func (b *Bank) Size() uint32 {
	return uint32(len(b.data))
}

// Read returns the byte at addr, or 0xFF for unmapped addresses like an
// open bus would. Decoders call Check before reading.
func (b *Bank) Read(addr uint32) uint8 {
	if addr < b.base || addr-b.base >= uint32(len(b.data)) {
		return 0xFF
	}
	return b.data[addr-b.base]
}

// Write stores a byte, silently ignoring unmapped addresses.
func (b *Bank) Write(addr uint32, value uint8) {
	if addr < b.base || addr-b.base >= uint32(len(b.data)) {
		return
	}
	b.data[addr-b.base] = value
}

// WriteWord stores a little-endian 16 bit word.
func (b *Bank) WriteWord(addr uint32, value uint16) {
	b.Write(addr, uint8(value))
	b.Write(addr+1, uint8(value>>8))
}

// Snapshot groups the regions read from a running (or dumped) machine.
// VRAM is optional: it is only needed to extract sprites by slot.
type Snapshot struct {
	TileBank    *Bank
	PaletteBank *Bank
	VRAM        *Bank
}

var _ Accessor = (*Snapshot)(nil)

func (s *Snapshot) Tiles() Reader {
	return s.TileBank
}

func (s *Snapshot) Palettes() Reader {
	return s.PaletteBank
}
