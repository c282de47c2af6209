package asm

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/ezrec/mima/cpu"
)

var (
	reLabel      = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)[ \t]*:`)
	reMnemonic   = regexp.MustCompile(`^[A-Za-z]{1,5}\b`)
	reNumber     = regexp.MustCompile(`^[+-]?(?:0[xX][0-9a-fA-F]+|0[bB][01]+|[0-9]+)\b`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\b`)
)

// tokenizer builds the syntax tree, one source line at a time.
type tokenizer struct {
	verbose bool
	rd      *Reader
	tree    *Tree
	address int64 // Address of the current source line.
}

// tokenize parses source into a tree. Syntax errors are collected for all
// lines.
func (asm *Assembler) tokenize(source string) (tree *Tree, errs ErrorSet) {
	tk := &tokenizer{
		verbose: asm.Verbose,
		rd:      NewReader(source),
		tree:    NewTree(),
	}

	errs = tk.lines()
	tree = tk.tree

	return
}

// lines tokenizes every remaining line.
func (tk *tokenizer) lines() (errs ErrorSet) {
	for more := !tk.rd.EOF(); more; more = tk.rd.NextLine() {
		err := tk.line()
		if err != nil {
			errs.Append(err)
		}
	}

	return
}

// atEnd returns true if only a comment or nothing is left on the line.
func (tk *tokenizer) atEnd() bool {
	return tk.rd.AtEnd() || tk.rd.Peek(";")
}

func (tk *tokenizer) syntaxError(err error) error {
	pos := tk.rd.Snapshot()
	return &ErrSyntax{
		Pos:     pos,
		Err:     err,
		Excerpt: tk.rd.Excerpt(pos),
	}
}

// node returns a node of the given kind at the reader position.
func (tk *tokenizer) node(kind Kind) Node {
	pos := tk.rd.Snapshot()
	return Node{
		Kind:    kind,
		Pos:     pos,
		Line:    tk.rd.Line(pos),
		Address: cpu.Address(tk.address),
	}
}

func (tk *tokenizer) line() (err error) {
	rd := tk.rd
	root := tk.tree.Root()

	rd.SkipSpace()
	if tk.atEnd() {
		return
	}

	label := tk.node(KIND_LABEL)
	if match, ok := rd.ConsumePattern(reLabel); ok {
		label.Name = match[1]
		id := tk.tree.Add(root, label)
		if tk.verbose {
			log.Printf("asm: %v: label %v", label.Pos, label.Name)
		}
		rd.SkipSpace()
		if tk.atEnd() {
			tk.advance(id)
			return
		}
	}

	var id NodeId
	instr := tk.node(KIND_INSTRUCTION)
	if match, ok := rd.ConsumePattern(reMnemonic); ok {
		instr.Name = match[0]
		id = tk.tree.Add(root, instr)
		rd.SkipSpace()
		if !tk.atEnd() {
			var found bool
			found, err = tk.value(id, true)
			if err != nil {
				return
			}
			if !found {
				err = tk.syntaxError(ErrUnexpectedInput)
				return
			}
		}
	} else {
		var found bool
		found, err = tk.value(root, false)
		if err != nil {
			return
		}
		if !found {
			err = tk.syntaxError(ErrUnexpectedInput)
			return
		}
		id = NodeId(len(tk.tree.Nodes) - 1)
	}

	rd.SkipSpace()
	if !tk.atEnd() {
		err = tk.syntaxError(ErrUnexpectedInput)
		return
	}

	tk.advance(id)

	return
}

// advance moves to the next address. The node for the current line gets a
// problem if the line lies past the address space.
func (tk *tokenizer) advance(id NodeId) {
	if tk.address > cpu.ADDRESS_MAX {
		node := tk.tree.Node(id)
		node.Problems = append(node.Problems, &cpu.ErrRange{Value: tk.address, Min: 0, Max: cpu.ADDRESS_MAX})
	}
	tk.address++
}

// value parses an integer, a $(...) expression or, if reference is set, a
// label reference, and adds it as a child of parent.
func (tk *tokenizer) value(parent NodeId, reference bool) (found bool, err error) {
	rd := tk.rd

	if rd.Peek("$(") {
		node := tk.node(KIND_EXPRESSION)
		rd.Consume("$(")
		text := rd.rest()
		depth := 1
		for n, c := range text {
			switch c {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				node.Expr = text[:n]
				rd.advance(n + 1)
				tk.tree.Add(parent, node)
				found = true
				return
			}
		}
		rd.Restore(node.Pos)
		err = tk.syntaxError(ErrUnterminatedExpression)
		return
	}

	node := tk.node(KIND_CONSTANT)
	if match, ok := rd.ConsumePattern(reNumber); ok {
		var perr error
		node.Value, perr = parseNumber(match[0])
		if perr != nil {
			node.Problems = append(node.Problems, perr)
		}
		tk.tree.Add(parent, node)
		found = true
		return
	}

	if !reference {
		return
	}

	node.Kind = KIND_REFERENCE
	if match, ok := rd.ConsumePattern(reIdentifier); ok {
		node.Name = match[0]
		tk.tree.Add(parent, node)
		found = true
	}

	return
}

// parseNumber parses a decimal, 0x hexadecimal or 0b binary integer with an
// optional sign.
func parseNumber(text string) (value int64, err error) {
	digits := strings.TrimLeft(text, "+-")
	base := 10
	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base = 16
			digits = digits[2:]
		case 'b', 'B':
			base = 2
			digits = digits[2:]
		}
	}

	value, err = strconv.ParseInt(digits, base, 64)
	if err != nil {
		err = ErrNumber(text)
		return
	}

	if strings.HasPrefix(text, "-") {
		value = -value
	}

	return
}
