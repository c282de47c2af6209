package asm

import (
	"errors"
	"strings"

	"github.com/ezrec/mima/cpu"
	"github.com/ezrec/mima/translate"
)

var f = translate.From

var (
	ErrUnexpectedInput        = errors.New(f("unexpected input"))
	ErrUnterminatedExpression = errors.New(f("unterminated expression"))
	ErrExpressionResult       = errors.New(f("expression is not an integer"))
)

// ErrSyntax reports source text that matches no statement.
type ErrSyntax struct {
	Pos     Position
	Err     error
	Excerpt string
}

func (err *ErrSyntax) Error() string {
	return f("syntax error at %v: %v: %v", err.Pos, err.Err, err.Excerpt)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrSource attaches a source position to an assembler problem.
type ErrSource struct {
	Pos Position
	Err error
}

func (err *ErrSource) Error() string {
	return f("%v: %v", err.Pos, err.Err)
}

func (err *ErrSource) Unwrap() error {
	return err.Err
}

// ErrLabelDuplicate reports a label declared more than once.
type ErrLabelDuplicate string

func (err ErrLabelDuplicate) Error() string {
	return f("label %v already declared", string(err))
}

// ErrLabelUnknown reports a reference to an undeclared label.
type ErrLabelUnknown string

func (err ErrLabelUnknown) Error() string {
	return f("label %v unknown", string(err))
}

func (err ErrLabelUnknown) Is(target error) bool {
	return target == cpu.ErrNotFound
}

// ErrArgumentMissing reports an instruction without its required argument.
type ErrArgumentMissing string

func (err ErrArgumentMissing) Error() string {
	return f("instruction %v requires an argument", string(err))
}

func (err ErrArgumentMissing) Is(target error) bool {
	return target == cpu.ErrMalformedArgument
}

// ErrArgumentExtra reports an argument given to an instruction without one.
type ErrArgumentExtra string

func (err ErrArgumentExtra) Error() string {
	return f("instruction %v takes no argument", string(err))
}

func (err ErrArgumentExtra) Is(target error) bool {
	return target == cpu.ErrMalformedArgument
}

// ErrNumber reports an integer literal that cannot be parsed.
type ErrNumber string

func (err ErrNumber) Error() string {
	return f("malformed number %v", string(err))
}

func (err ErrNumber) Is(target error) bool {
	return target == cpu.ErrMalformedArgument
}

// ErrExpression reports a failed $(...) evaluation.
type ErrExpression struct {
	Expr string
	Err  error
}

func (err *ErrExpression) Error() string {
	return f("expression $(%v): %v", err.Expr, err.Err)
}

func (err *ErrExpression) Unwrap() error {
	return err.Err
}

func (err *ErrExpression) Is(target error) bool {
	return target == cpu.ErrMalformedArgument
}

// ErrorSet is a list of one or more errors and is itself an error.
type ErrorSet []error

func (errs ErrorSet) Len() int {
	return len(errs)
}

func (errs *ErrorSet) Append(err ...error) {
	*errs = append(*errs, err...)
}

func (errs ErrorSet) Error() string {
	var sb strings.Builder
	for n, err := range errs {
		if n > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (errs ErrorSet) Unwrap() []error {
	return errs
}
