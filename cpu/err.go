package cpu

import (
	"errors"

	"github.com/ezrec/mima/translate"
)

var f = translate.From

var (
	// Error classes. Concrete errors match one of these with errors.Is.
	ErrOverflow            = errors.New(f("overflow"))
	ErrNotFound            = errors.New(f("not found"))
	ErrMalformedArgument   = errors.New(f("malformed argument"))
	ErrUninitializedMemory = errors.New(f("uninitialized memory"))
	ErrInternal            = errors.New(f("internal invariant violated"))

	// ErrProgramHalt is not a failure: it reports that execution reached a
	// HALT instruction.
	ErrProgramHalt = errors.New(f("program halted"))

	// Instruction decode errors
	ErrDecode = errors.New(f("decode"))
	ErrFetch  = errors.New(f("fetch"))
)

// ErrRange reports a value outside of a required numeric domain.
type ErrRange struct {
	Value int64
	Min   int64
	Max   int64
}

func (err *ErrRange) Error() string {
	return f("%v not in range [%v, %v]", err.Value, err.Min, err.Max)
}

func (err *ErrRange) Unwrap() error {
	return ErrOverflow
}

// ErrMemoryUnset reports a read of a never written memory cell.
type ErrMemoryUnset Address

func (err ErrMemoryUnset) Error() string {
	return f("memory at 0x%05x is uninitialized", uint32(err))
}

func (err ErrMemoryUnset) Is(target error) bool {
	return target == ErrUninitializedMemory
}

// ErrOpcodeUnknown reports an opcode with no registered instruction.
type ErrOpcodeUnknown Opcode

func (err ErrOpcodeUnknown) Error() string {
	return f("opcode 0x%02x unknown", uint8(err))
}

func (err ErrOpcodeUnknown) Is(target error) bool {
	return target == ErrNotFound
}

// ErrNameUnknown reports a mnemonic with no registered instruction.
type ErrNameUnknown string

func (err ErrNameUnknown) Error() string {
	return f("instruction %v unknown", string(err))
}

func (err ErrNameUnknown) Is(target error) bool {
	return target == ErrNotFound
}
