// Copyright 2025 Sonic Labs
// This file is part of Dice, the dice expression toolkit for Sonic
//
// Dice is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Dice is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Dice. If not, see <http://www.gnu.org/licenses/>.

// Package expression parses dice notation such as "3d6 + 2" into a syntax
// tree, rolls the tree with a seeded generator and computes its exact
// outcome distribution.
package expression

import (
	"math/big"
	"strings"
)

// Expression is a node of an immutable syntax tree. Its String method
// renders the canonical notation, which parses back to an equal tree.
type Expression interface {
	String() string
	precedence() int
	render(sb *strings.Builder)
}

// Literal is a constant.
type Literal struct {
	Value *big.Int
}

// Binary applies an infix operator. Dice nodes roll Left dice with Right
// sides each.
type Binary struct {
	Op    Operator
	Left  Expression
	Right Expression
}

// Unary applies a prefix operator.
type Unary struct {
	Op      Operator
	Operand Expression
}

// NewLiteral returns a literal holding v.
func NewLiteral(v int64) *Literal {
	return &Literal{Value: big.NewInt(v)}
}

func (l *Literal) precedence() int { return 0 }
func (b *Binary) precedence() int  { return b.Op.Precedence() }
func (u *Unary) precedence() int   { return u.Op.Precedence() }

func (l *Literal) String() string { return l.Value.String() }
func (b *Binary) String() string  { return toString(b) }
func (u *Unary) String() string   { return toString(u) }

func toString(e Expression) string {
	var sb strings.Builder
	e.render(&sb)
	return sb.String()
}

func (l *Literal) render(sb *strings.Builder) {
	sb.WriteString(l.Value.String())
}

func (b *Binary) render(sb *strings.Builder) {
	self := b.Op.Precedence()
	left := b.Left.precedence()
	right := b.Right.precedence()

	var leftParens, rightParens bool
	switch b.Op.Associativity() {
	case LeftAssociative:
		leftParens = left > self
		rightParens = right >= self
	case RightAssociative:
		leftParens = left >= self
		rightParens = right > self
	}

	renderOperand(sb, b.Left, leftParens)
	if b.Op.Spaced() {
		sb.WriteString(" " + b.Op.Symbol() + " ")
	} else {
		sb.WriteString(b.Op.Symbol())
	}
	renderOperand(sb, b.Right, rightParens)
}

func (u *Unary) render(sb *strings.Builder) {
	sb.WriteString(u.Op.Symbol())
	renderOperand(sb, u.Operand, u.Operand.precedence() > u.Op.Precedence())
}

func renderOperand(sb *strings.Builder, e Expression, parens bool) {
	if parens {
		sb.WriteByte('(')
	}
	e.render(sb)
	if parens {
		sb.WriteByte(')')
	}
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Expression) bool {
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Value.Cmp(y.Value) == 0
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.Operand, y.Operand)
	}
	return false
}
