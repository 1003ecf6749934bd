package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/keepaway/internal/ir"
)

// cursor scans a single line left to right.
type cursor struct {
	l   line
	col int
}

func (c *cursor) pos() ir.Pos {
	return c.l.pos(c.col)
}

func (c *cursor) rest() string {
	return c.l.text[c.col:]
}

func (c *cursor) fail(expected string) *ParseError {
	found := "end of line"
	if r := c.rest(); r != "" {
		found = quote(r)
	}
	return &ParseError{Pos: c.pos(), Expected: expected, Found: found}
}

func (c *cursor) literal(lit, expected string) error {
	if !strings.HasPrefix(c.rest(), lit) {
		return c.fail(expected)
	}
	c.col += len(lit)
	return nil
}

func (c *cursor) end() error {
	if c.rest() != "" {
		return c.fail("end of line")
	}
	return nil
}

func (c *cursor) digits() string {
	r := c.rest()
	n := 0
	for n < len(r) && r[n] >= '0' && r[n] <= '9' {
		n++
	}
	return r[:n]
}

// uint reads an unsigned decimal that fits in an int64.
func (c *cursor) uint(what string) (int64, error) {
	s := c.digits()
	if s == "" {
		return 0, c.fail(what + " (unsigned integer)")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, c.rangeError(what, s, err)
	}
	c.col += len(s)
	return v, nil
}

// ordinal reads an unsigned decimal that fits in an int.
func (c *cursor) ordinal(what string) (int, error) {
	s := c.digits()
	if s == "" {
		return 0, c.fail(what + " (unsigned integer)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, c.rangeError(what, s, err)
	}
	c.col += len(s)
	return v, nil
}

func (c *cursor) rangeError(what, s string, err error) *ParseError {
	expected := what + " (unsigned integer)"
	if errors.Is(err, strconv.ErrRange) {
		expected = what + " within integer range"
	}
	return &ParseError{Pos: c.pos(), Expected: expected, Found: quote(s)}
}

func (c *cursor) items() ([]int64, error) {
	if err := c.literal(itemsPrefix, `"Starting items:" line`); err != nil {
		return nil, err
	}
	items := []int64{}
	if r := c.rest(); r == "" || r == " " {
		return items, nil
	}
	if err := c.literal(" ", `" " after "Starting items:"`); err != nil {
		return nil, err
	}
	for {
		v, err := c.uint("item")
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		// "," with or without one following space
		if !strings.HasPrefix(c.rest(), ",") {
			break
		}
		c.col++
		if strings.HasPrefix(c.rest(), " ") {
			c.col++
		}
	}
	if err := c.end(); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *cursor) expr() (ir.Expr, error) {
	var (
		e   ir.Expr
		err error
	)
	if e.Left, err = c.operand(); err != nil {
		return e, err
	}
	if err = c.literal(" ", `" " before operator`); err != nil {
		return e, err
	}
	if e.Op, err = c.operator(); err != nil {
		return e, err
	}
	if err = c.literal(" ", `" " after operator`); err != nil {
		return e, err
	}
	if e.Right, err = c.operand(); err != nil {
		return e, err
	}
	return e, nil
}

func (c *cursor) operand() (ir.Operand, error) {
	if strings.HasPrefix(c.rest(), "old") {
		c.col += len("old")
		return ir.Old(), nil
	}
	if c.digits() == "" {
		return ir.Operand{}, c.fail(`operand ("old" or unsigned integer)`)
	}
	v, err := c.uint("operand")
	if err != nil {
		return ir.Operand{}, err
	}
	return ir.Lit(v), nil
}

func (c *cursor) operator() (ir.Operator, error) {
	r := c.rest()
	if r != "" {
		if op := ir.Operator(r[:1]); op.Valid() {
			c.col++
			return op, nil
		}
	}
	return "", c.fail("operator (+, -, *, /)")
}

// quote renders found text for an error message, shortened to keep
// messages on one line.
func quote(s string) string {
	const limit = 24
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return strconv.Quote(s)
}
