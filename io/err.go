package io

import (
	"errors"

	"github.com/ezrec/mima/translate"
)

var f = translate.From

var (
	// Dump errors
	ErrDumpFormat = errors.New(f("malformed dump"))
)
