package emulator

import (
	"github.com/ezrec/mima/cpu"
	"github.com/ezrec/mima/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address cpu.Address
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("%05x: line %d: %v", uint32(err.Address), err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
