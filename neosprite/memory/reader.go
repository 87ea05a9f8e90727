package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-neosprite/neosprite/bit"
)

// ErrOutOfBoundsRead is returned when a read would fall outside the
// addressable memory of a region.
var ErrOutOfBoundsRead = errors.New("memory: out of bounds read")

// Reader provides read-only access to one emulator memory region.
// Addresses are absolute: the first readable byte is at Base(), the last one
// at Base()+Size()-1.
//
// The emulation loop owning the region may keep writing to it while it is
// being read. Nothing here locks or snapshots, callers that need a stable
// picture must pause the emulator first.
type Reader interface {
	// Base returns the address of the first byte of the region
	Base() uint32

	// Size returns the number of addressable bytes
	Size() uint32

	// Read reads a single byte from the specified address
	Read(addr uint32) uint8
}

// Accessor exposes the two regions the sprite pipeline decodes from.
type Accessor interface {
	// Tiles is the sprite graphics (C-ROM) region, linear 128 byte tiles
	Tiles() Reader

	// Palettes is the palette RAM region, 16 little-endian color words per palette
	Palettes() Reader
}

// Check verifies that n bytes starting at addr are all inside the region.
func Check(r Reader, addr uint32, n int) error {
	base, size := uint64(r.Base()), uint64(r.Size())
	start := uint64(addr)
	end := start + uint64(n)

	if n < 0 || start < base || end > base+size {
		return fmt.Errorf("%w: 0x%X+%d outside [0x%X, 0x%X)", ErrOutOfBoundsRead, addr, n, base, base+size)
	}
	return nil
}

// ReadFull copies len(dst) bytes starting at addr, failing without reading
// anything if the range is not fully addressable.
func ReadFull(r Reader, addr uint32, dst []byte) error {
	if err := Check(r, addr, len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = r.Read(addr + uint32(i))
	}
	return nil
}

// ReadWord reads a little-endian 16 bit word. The caller is expected to have
// checked the bounds.
func ReadWord(r Reader, addr uint32) uint16 {
	return bit.Combine(r.Read(addr+1), r.Read(addr))
}

// Offset turns an index into a byte address inside a region laid out as
// fixed-size records, rejecting negative indices.
func Offset(r Reader, index, recordSize int) (uint32, error) {
	if index < 0 {
		return 0, fmt.Errorf("%w: negative index %d", ErrOutOfBoundsRead, index)
	}
	off := uint64(r.Base()) + uint64(index)*uint64(recordSize)
	if off > uint64(^uint32(0)) {
		return 0, fmt.Errorf("%w: index %d overflows the address space", ErrOutOfBoundsRead, index)
	}
	return uint32(off), nil
}
