package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// IsSet16 will check if the bit at the specified index is set to 1 or not.
func IsSet16(index, value uint16) bool {
	return ((value >> index) & 1) == 1
}

// HighNibble returns the upper 4 bits of a byte, shifted down.
func HighNibble(value uint8) uint8 {
	return (value >> 4) & 0x0F
}

// LowNibble returns the lower 4 bits of a byte.
func LowNibble(value uint8) uint8 {
	return value & 0x0F
}

// ExtractBits16 extracts bits from highBit to lowBit (inclusive)
// Example: ExtractBits16(0xABCD, 15, 8) -> 0xAB
func ExtractBits16(value uint16, highBit, lowBit uint8) uint16 {
	shift := lowBit
	width := highBit - lowBit + 1
	mask := uint16((1 << width) - 1)
	return (value >> shift) & mask
}

// RotateLow adds amount to the lowest width bits of value, wrapping within
// those bits and leaving every higher bit untouched.
// Example: RotateLow(0b1110, 3, 3) -> 0b1001
func RotateLow(value, width, amount int) int {
	mask := (1 << width) - 1
	return (value &^ mask) | ((value + amount) & mask)
}
