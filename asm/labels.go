package asm

import (
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/mima/cpu"
)

// resolveLabels collects label declarations, binds label references to
// their addresses and evaluates $(...) expressions.
//
// The first declaration of a label wins; later ones are warnings.
func (asm *Assembler) resolveLabels(tree *Tree) (labels map[string]cpu.Address) {
	labels = make(map[string]cpu.Address)

	for id := range tree.OfKind(KIND_LABEL) {
		node := tree.Node(id)
		if _, ok := labels[node.Name]; ok {
			node.Warnings = append(node.Warnings, ErrLabelDuplicate(node.Name))
			continue
		}
		labels[node.Name] = node.Address
	}

	for id := range tree.OfKind(KIND_REFERENCE) {
		node := tree.Node(id)
		addr, ok := labels[node.Name]
		if !ok {
			node.Problems = append(node.Problems, ErrLabelUnknown(node.Name))
			continue
		}
		node.Kind = KIND_CONSTANT
		node.Value = int64(addr)
	}

	for id := range tree.OfKind(KIND_EXPRESSION) {
		node := tree.Node(id)
		value, err := evaluate(node.Expr, labels)
		if err != nil {
			node.Problems = append(node.Problems, err)
			continue
		}
		if asm.Verbose {
			log.Printf("asm: %v: $(%v) = %v", node.Pos, node.Expr, value)
		}
		node.Kind = KIND_CONSTANT
		node.Value = value
	}

	return
}

// evaluate runs a $(...) expression body with starlark. Labels and the
// machine limits are predeclared as integers.
func evaluate(expr string, labels map[string]cpu.Address) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"VALUE_MIN":   starlark.MakeInt64(cpu.VALUE_MIN),
		"VALUE_MAX":   starlark.MakeInt64(cpu.VALUE_MAX),
		"ADDRESS_MAX": starlark.MakeInt64(cpu.ADDRESS_MAX),
	}
	for name, addr := range labels {
		pred[name] = starlark.MakeInt64(int64(addr))
	}

	result, err := starlark.EvalOptions(&opts, &thread, "expr", expr, pred)
	if err != nil {
		err = &ErrExpression{Expr: expr, Err: err}
		return
	}

	number, ok := result.(starlark.Int)
	if !ok {
		err = &ErrExpression{Expr: expr, Err: ErrExpressionResult}
		return
	}

	value, ok = number.Int64()
	if !ok {
		err = &ErrExpression{Expr: expr, Err: ErrExpressionResult}
		return
	}

	return
}
