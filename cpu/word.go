package cpu

import (
	"strings"
)

// Value is a 24-bit two's complement machine word.
type Value int32

// Address is a 20-bit unsigned memory address.
type Address uint32

// Opcode selects an instruction. Standard opcodes are 0x0 to 0xE, large
// opcodes are 0xF0 to 0xFF.
type Opcode uint8

const (
	VALUE_BITS = 24                     // Width of a machine word.
	VALUE_MASK = (1 << VALUE_BITS) - 1  // Mask of a machine word.
	VALUE_SIGN = 1 << (VALUE_BITS - 1)  // Sign bit of a machine word.
	VALUE_MIN  = -VALUE_SIGN            // Smallest signed word.
	VALUE_MAX  = VALUE_SIGN - 1         // Largest signed word.

	ADDRESS_BITS = 20                      // Width of an address.
	ADDRESS_MASK = (1 << ADDRESS_BITS) - 1 // Mask of an address.
	ADDRESS_MAX  = ADDRESS_MASK            // Largest address.

	OPCODE_LARGE_PREFIX = 0xF    // Upper nibble selecting the large opcode layout.
	OPCODE_STANDARD_MAX = 0xF    // Opcodes above this use the large layout.
	ARGUMENT_LARGE_MASK = 0xFFFF // Argument mask of the large layout.
)

// CoerceToValue wraps v into the signed 24-bit value domain.
func CoerceToValue(v int64) Value {
	if v >= VALUE_MIN && v <= VALUE_MAX {
		return Value(v)
	}

	v &= VALUE_MASK
	if v&VALUE_SIGN != 0 {
		v -= 1 << VALUE_BITS
	}

	return Value(v)
}

// CoerceToAddress checks that v is inside the address domain.
// Addresses never wrap.
func CoerceToAddress(v int64) (addr Address, err error) {
	if v < 0 || v > ADDRESS_MAX {
		err = &ErrRange{Value: v, Min: 0, Max: ADDRESS_MAX}
		return
	}

	addr = Address(v)
	return
}

// IsLarge returns true if the opcode uses the 8-bit opcode, 16-bit argument
// layout.
func (op Opcode) IsLarge() bool {
	return op > OPCODE_STANDARD_MAX
}

// ArgumentMax returns the largest argument the opcode can carry.
func (op Opcode) ArgumentMax() Address {
	if op.IsLarge() {
		return ARGUMENT_LARGE_MASK
	}
	return ADDRESS_MAX
}

// CombineInstruction packs an opcode and its argument into a machine word.
func CombineInstruction(op Opcode, arg Address) Value {
	var raw uint32
	if op.IsLarge() {
		raw = (uint32(op) << 16) | (uint32(arg) & ARGUMENT_LARGE_MASK)
	} else {
		raw = (uint32(op) << 20) | (uint32(arg) & ADDRESS_MASK)
	}

	return CoerceToValue(int64(raw))
}

// raw returns the word as its unsigned 24-bit pattern.
func raw(word Value) uint32 {
	return uint32(word) & VALUE_MASK
}

// ExtractOpcode returns the opcode field of an instruction word.
func ExtractOpcode(word Value) Opcode {
	bits := raw(word)
	if bits>>20 == OPCODE_LARGE_PREFIX {
		return Opcode(bits >> 16)
	}
	return Opcode(bits >> 20)
}

// ExtractArgument returns the argument field of an instruction word.
func ExtractArgument(word Value) (arg Address, err error) {
	bits := raw(word)
	if bits>>20 == OPCODE_LARGE_PREFIX {
		bits &= ARGUMENT_LARGE_MASK
	} else {
		bits &= ADDRESS_MASK
	}

	return CoerceToAddress(int64(bits))
}

// FormatBinary renders the 24 bits of the word, most significant first.
// If compact is set, leading zeros are dropped.
func FormatBinary(word Value, compact bool) string {
	var sb strings.Builder
	bits := raw(word)
	for n := VALUE_BITS - 1; n >= 0; n-- {
		if (bits>>n)&1 != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	text := sb.String()
	if compact {
		text = strings.TrimLeft(text, "0")
		if len(text) == 0 {
			text = "0"
		}
	}

	return text
}

// Bit returns the nth bit from the right as 0 or 1.
func Bit(word Value, n int) int {
	return int((raw(word) >> n) & 1)
}

// SetBit returns the word with the nth bit from the right set to bit.
func SetBit(word Value, n int, bit int) Value {
	bits := raw(word) &^ (1 << n)
	if bit != 0 {
		bits |= 1 << n
	}
	return CoerceToValue(int64(bits))
}
