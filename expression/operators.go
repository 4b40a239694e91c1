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

package expression

// Operator identifies the kind of a Binary or Unary node.
type Operator int

const (
	Dice Operator = iota
	Exponentiation
	IntegerQuotient
	Product
	Difference
	Sum
	Negate
	Identity
)

// Associativity decides how operators of equal precedence group.
type Associativity int

const (
	LeftAssociative Associativity = iota
	RightAssociative
)

type operatorInfo struct {
	name          string
	symbol        string
	precedence    int // lower binds tighter
	associativity Associativity
	spaced        bool
}

var operators = [...]operatorInfo{
	Dice:            {"dice", "d", 2, LeftAssociative, false},
	Exponentiation:  {"exponentiation", "**", 4, RightAssociative, true},
	IntegerQuotient: {"integer quotient", "/", 5, LeftAssociative, true},
	Product:         {"product", "*", 5, LeftAssociative, true},
	Difference:      {"difference", "-", 6, LeftAssociative, true},
	Sum:             {"sum", "+", 6, LeftAssociative, true},
	Negate:          {"negate", "-", 3, RightAssociative, false},
	Identity:        {"identity", "+", 3, RightAssociative, false},
}

// loosest is the precedence of the weakest binding operator.
const loosest = 6

// Symbol returns the operator as written in dice notation.
func (o Operator) Symbol() string {
	return operators[o].symbol
}

// Precedence returns the binding rank; lower binds tighter.
func (o Operator) Precedence() int {
	return operators[o].precedence
}

func (o Operator) Associativity() Associativity {
	return operators[o].associativity
}

// Spaced reports whether the canonical rendering pads the symbol with spaces.
func (o Operator) Spaced() bool {
	return operators[o].spaced
}

func (o Operator) String() string {
	return operators[o].name
}

// IsUnary reports whether the operator is a prefix operator.
func (o Operator) IsUnary() bool {
	return o == Negate || o == Identity
}
