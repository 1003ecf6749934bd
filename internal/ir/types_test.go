package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	assert.Equal(t, "old * 19", Expr{Left: Old(), Op: OpMul, Right: Lit(19)}.String())
	assert.Equal(t, "old * old", Expr{Left: Old(), Op: OpMul, Right: Old()}.String())
	assert.Equal(t, "3 - old", Expr{Left: Lit(3), Op: OpSub, Right: Old()}.String())
}

func TestExprComparable(t *testing.T) {
	a := Expr{Left: Old(), Op: OpAdd, Right: Lit(6)}
	b := Expr{Left: Old(), Op: OpAdd, Right: Lit(6)}
	c := Expr{Left: Old(), Op: OpAdd, Right: Lit(7)}
	assert.True(t, a == b)
	assert.False(t, a == c)
}

func TestOperatorValid(t *testing.T) {
	for _, op := range []Operator{OpAdd, OpSub, OpMul, OpDiv} {
		assert.True(t, op.Valid(), string(op))
	}
	assert.False(t, Operator("%").Valid())
	assert.False(t, Operator("").Valid())
}

func TestDefinitionTarget(t *testing.T) {
	d := Definition{Divisor: 23, IfTrue: 2, IfFalse: 3}
	assert.Equal(t, 2, d.Target(23))
	assert.Equal(t, 3, d.Target(22))
	assert.Equal(t, 2, d.Target(0))
}

func TestDefinitionClone(t *testing.T) {
	d := Definition{Items: []int64{1, 2}}
	c := d.Clone()
	c.Items[0] = 99
	assert.Equal(t, int64(1), d.Items[0])
}

func TestPosString(t *testing.T) {
	assert.Equal(t, "-", Pos{}.String())
	assert.Equal(t, "3:7", Pos{Offset: 20, Line: 3, Column: 7}.String())
}
