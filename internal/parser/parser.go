// Package parser reads the line-oriented worker notation into
// ir.Definition values.
//
// One block per worker, blocks separated by exactly one blank line:
//
//	Monkey 0:
//	  Starting items: 79, 98
//	  Operation: new = old * 19
//	  Test: divisible by 23
//	    If true: throw to monkey 2
//	    If false: throw to monkey 3
//
// Parsing is all-or-nothing: on failure no definitions are returned and
// the error is a *ParseError positioned inside the offending block.
package parser

import (
	"fmt"
	"strings"

	"github.com/roach88/keepaway/internal/expr"
	"github.com/roach88/keepaway/internal/ir"
)

const (
	headerPrefix  = "Monkey "
	itemsPrefix   = "  Starting items:"
	opPrefix      = "  Operation: new = "
	testPrefix    = "  Test: divisible by "
	ifTruePrefix  = "    If true: throw to monkey "
	ifFalsePrefix = "    If false: throw to monkey "
)

// Parse parses src into definitions in source order.
// CRLF line endings are accepted and treated as LF.
func Parse(src string) ([]ir.Definition, error) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	p := &parser{src: src, line: 1}

	var (
		defs   []ir.Definition
		blocks []blockRefs
	)
	for {
		d, refs, err := p.block(len(defs))
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
		blocks = append(blocks, refs)

		if p.eof() {
			break
		}
		// The last line of a block was terminated by a newline. Either the
		// input ends there or exactly one blank line separates blocks.
		sep := p.nextLine()
		if sep.text != "" {
			return nil, &ParseError{Pos: sep.pos(0), Expected: "blank line between blocks", Found: quote(sep.text)}
		}
		if p.eof() {
			return nil, &ParseError{Pos: p.pos(), Expected: "worker header after blank line", Found: "end of input"}
		}
	}

	for i, refs := range blocks {
		if err := refs.check(defs[i], len(defs)); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// ParseOperation parses the right-hand side of an operation, e.g. "old * 19".
func ParseOperation(s string) (ir.Expr, error) {
	l := line{text: s, start: 0, no: 1}
	c := &cursor{l: l}
	e, err := c.expr()
	if err != nil {
		return ir.Expr{}, err
	}
	if err := c.end(); err != nil {
		return ir.Expr{}, err
	}
	return e, nil
}

// blockRefs keeps the positions of fields that can only be checked once
// every block has been read.
type blockRefs struct {
	op      ir.Pos
	divisor ir.Pos
	ifTrue  ir.Pos
	ifFalse ir.Pos
}

func (r blockRefs) check(d ir.Definition, n int) error {
	if d.Divisor <= 0 {
		return &ParseError{Pos: r.divisor, Expected: "positive divisor", Found: fmt.Sprint(d.Divisor)}
	}
	if err := expr.Check(d.Operation); err != nil {
		return &ParseError{Pos: r.op, Expected: "operation that can be evaluated", Found: quote(d.Operation.String())}
	}
	if d.IfTrue >= n {
		return &ParseError{Pos: r.ifTrue, Expected: fmt.Sprintf("target below %d", n), Found: fmt.Sprint(d.IfTrue)}
	}
	if d.IfFalse >= n {
		return &ParseError{Pos: r.ifFalse, Expected: fmt.Sprintf("target below %d", n), Found: fmt.Sprint(d.IfFalse)}
	}
	return nil
}

type parser struct {
	src       string
	off       int
	line      int
	lineStart int
	// end of the text of the most recently read line
	last ir.Pos
}

// line is one line of input without its terminator.
type line struct {
	text    string
	start   int
	no      int
	newline bool
}

func (l line) pos(col int) ir.Pos {
	return ir.Pos{Offset: l.start + col, Line: l.no, Column: col + 1}
}

func (p *parser) eof() bool {
	return p.off >= len(p.src)
}

func (p *parser) pos() ir.Pos {
	return ir.Pos{Offset: p.off, Line: p.line, Column: p.off - p.lineStart + 1}
}

func (p *parser) nextLine() line {
	l := line{start: p.off, no: p.line}
	rest := p.src[p.off:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		l.text = rest[:i]
		l.newline = true
		p.off += i + 1
		p.line++
		p.lineStart = p.off
	} else {
		l.text = rest
		p.off = len(p.src)
	}
	p.last = l.pos(len(l.text))
	return l
}

// field reads the next line of a block. A missing line, either at end of
// input or where a blank separator starts, is reported at the end of the
// previous line so the error stays inside the block.
func (p *parser) field(what string) (*cursor, error) {
	if p.eof() {
		return nil, &ParseError{Pos: p.last, Expected: what, Found: "end of input"}
	}
	prev := p.last
	l := p.nextLine()
	if l.text == "" {
		return nil, &ParseError{Pos: prev, Expected: what, Found: "end of block"}
	}
	return &cursor{l: l}, nil
}

func (p *parser) block(index int) (ir.Definition, blockRefs, error) {
	var (
		d    = ir.Definition{Index: index}
		refs blockRefs
	)

	if p.eof() {
		return d, refs, &ParseError{Pos: p.pos(), Expected: "worker header", Found: "end of input"}
	}
	l := p.nextLine()
	d.Pos = l.pos(0)
	c := &cursor{l: l}
	if err := c.literal(headerPrefix, `"Monkey <n>:" header`); err != nil {
		return d, refs, err
	}
	label, err := c.ordinal("worker ordinal")
	if err != nil {
		return d, refs, err
	}
	d.Label = label
	if err := c.literal(":", `":" after worker ordinal`); err != nil {
		return d, refs, err
	}
	if err := c.end(); err != nil {
		return d, refs, err
	}

	if c, err = p.field(`"Starting items:" line`); err != nil {
		return d, refs, err
	}
	if d.Items, err = c.items(); err != nil {
		return d, refs, err
	}

	if c, err = p.field(`"Operation: new = ..." line`); err != nil {
		return d, refs, err
	}
	if err := c.literal(opPrefix, `"Operation: new = ..." line`); err != nil {
		return d, refs, err
	}
	refs.op = c.pos()
	if d.Operation, err = c.expr(); err != nil {
		return d, refs, err
	}
	if err := c.end(); err != nil {
		return d, refs, err
	}

	if c, err = p.field(`"Test: divisible by ..." line`); err != nil {
		return d, refs, err
	}
	if err := c.literal(testPrefix, `"Test: divisible by ..." line`); err != nil {
		return d, refs, err
	}
	refs.divisor = c.pos()
	if d.Divisor, err = c.uint("divisor"); err != nil {
		return d, refs, err
	}
	if err := c.end(); err != nil {
		return d, refs, err
	}

	if c, err = p.field(`"If true: throw to monkey ..." line`); err != nil {
		return d, refs, err
	}
	if err := c.literal(ifTruePrefix, `"If true: throw to monkey ..." line`); err != nil {
		return d, refs, err
	}
	refs.ifTrue = c.pos()
	if d.IfTrue, err = c.ordinal("true target"); err != nil {
		return d, refs, err
	}
	if err := c.end(); err != nil {
		return d, refs, err
	}

	if c, err = p.field(`"If false: throw to monkey ..." line`); err != nil {
		return d, refs, err
	}
	if err := c.literal(ifFalsePrefix, `"If false: throw to monkey ..." line`); err != nil {
		return d, refs, err
	}
	refs.ifFalse = c.pos()
	if d.IfFalse, err = c.ordinal("false target"); err != nil {
		return d, refs, err
	}
	if err := c.end(); err != nil {
		return d, refs, err
	}

	return d, refs, nil
}
