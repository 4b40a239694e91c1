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

import (
	"math/big"

	"github.com/0xsoniclabs/dice/random"
)

// Result is the outcome of rolling an expression once.
type Result struct {
	Rolls *RollLedger
	Value *big.Int
}

// Evaluate rolls e with a generator seeded by seed. The same expression and
// seed always produce the same result.
func Evaluate(e Expression, seed uint64) (*Result, error) {
	ev := &evaluator{
		rng:    random.NewGenerator(seed),
		ledger: newRollLedger(),
	}
	value, err := ev.eval(e)
	if err != nil {
		return nil, err
	}
	return &Result{Rolls: ev.ledger, Value: value}, nil
}

type evaluator struct {
	rng    *random.Generator
	ledger *RollLedger
}

func (ev *evaluator) eval(e Expression) (*big.Int, error) {
	switch n := e.(type) {
	case *Literal:
		return new(big.Int).Set(n.Value), nil
	case *Unary:
		operand, err := ev.eval(n.Operand)
		if err != nil {
			return nil, err
		}
		if n.Op == Negate {
			return operand.Neg(operand), nil
		}
		return operand, nil
	case *Binary:
		if n.Op == Dice {
			return ev.roll(n)
		}
		left, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return apply(n, left, right)
	}
	panic("expression: unknown node")
}

// roll evaluates the side count before the dice count, then validates both
// in the same order. Pools beyond MaxRolls dice are rejected before drawing.
func (ev *evaluator) roll(n *Binary) (*big.Int, error) {
	sides, err := ev.eval(n.Right)
	if err != nil {
		return nil, err
	}
	count, err := ev.eval(n.Left)
	if err != nil {
		return nil, err
	}
	if err := checkSides(n.Right, sides); err != nil {
		return nil, err
	}
	if err := checkDiceCount(n.Left, count); err != nil {
		return nil, err
	}
	if err := checkRollCount(n.Left, count); err != nil {
		return nil, err
	}

	sum := new(big.Int)
	for i := new(big.Int); i.Cmp(count) < 0; i.Add(i, one) {
		face := ev.rng.Uniform(sides)
		ev.ledger.record(sides, face)
		sum.Add(sum, face)
	}
	return sum, nil
}

var one = big.NewInt(1)

// apply combines the values of an arithmetic node.
func apply(n *Binary, left, right *big.Int) (*big.Int, error) {
	switch n.Op {
	case Sum:
		return left.Add(left, right), nil
	case Difference:
		return left.Sub(left, right), nil
	case Product:
		return left.Mul(left, right), nil
	case IntegerQuotient:
		if err := checkDivisor(n.Right, right); err != nil {
			return nil, err
		}
		return left.Quo(left, right), nil
	case Exponentiation:
		exponent, err := checkExponent(n.Right, right)
		if err != nil {
			return nil, err
		}
		return left.Exp(left, new(big.Int).SetUint64(uint64(exponent)), nil), nil
	}
	panic("expression: unknown binary operator " + n.Op.String())
}
