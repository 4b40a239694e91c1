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
	"math/bits"

	"github.com/0xsoniclabs/dice/combinatorics"
	"github.com/0xsoniclabs/dice/pmf"
)

// DefaultMaxOutcomes bounds the number of weighted sums a single dice node
// may contribute to a distribution.
const DefaultMaxOutcomes = 10_000_000

// Distribution computes the exact probability mass function of e. It
// rejects the same inputs as Evaluate. A dice node whose achievable sums
// exceed maxOutcomes, or an operator combining more outcome pairs than that,
// fails with ErrTooManyOutcomes; zero disables the limit.
func Distribution(e Expression, maxOutcomes uint64) (pmf.Pmf, error) {
	d := &distribution{
		cache: combinatorics.NewCache(),
		limit: maxOutcomes,
	}
	return d.walk(e)
}

type distribution struct {
	cache *combinatorics.Cache
	limit uint64
}

func (d *distribution) walk(e Expression) (pmf.Pmf, error) {
	switch n := e.(type) {
	case *Literal:
		return pmf.Constant(n.Value), nil
	case *Unary:
		operand, err := d.walk(n.Operand)
		if err != nil {
			return pmf.Pmf{}, err
		}
		if n.Op == Negate {
			return operand.Map(func(v *big.Int) *big.Int { return new(big.Int).Neg(v) }), nil
		}
		return operand, nil
	case *Binary:
		if n.Op == Dice {
			return d.dice(n)
		}
		left, err := d.walk(n.Left)
		if err != nil {
			return pmf.Pmf{}, err
		}
		right, err := d.walk(n.Right)
		if err != nil {
			return pmf.Pmf{}, err
		}
		// Every outcome of the right operand must be valid, otherwise the
		// distribution would silently drop part of the domain.
		for _, o := range right.Outcomes() {
			var err error
			switch n.Op {
			case IntegerQuotient:
				err = checkDivisor(n.Right, o.Value)
			case Exponentiation:
				_, err = checkExponent(n.Right, o.Value)
			}
			if err != nil {
				return pmf.Pmf{}, err
			}
		}
		if err := d.checkProduct(n, left, right); err != nil {
			return pmf.Pmf{}, err
		}
		return left.CartesianProduct(right, func(a, b *big.Int) *big.Int {
			v, err := apply(n, new(big.Int).Set(a), b)
			if err != nil {
				panic(err) // operands were validated above
			}
			return v
		}), nil
	}
	panic("expression: unknown node")
}

func (d *distribution) dice(n *Binary) (pmf.Pmf, error) {
	sides, err := d.walk(n.Right)
	if err != nil {
		return pmf.Pmf{}, err
	}
	counts, err := d.walk(n.Left)
	if err != nil {
		return pmf.Pmf{}, err
	}
	for _, o := range sides.Outcomes() {
		if err := checkSides(n.Right, o.Value); err != nil {
			return pmf.Pmf{}, err
		}
	}
	for _, o := range counts.Outcomes() {
		if err := checkDiceCount(n.Left, o.Value); err != nil {
			return pmf.Pmf{}, err
		}
	}

	var outcomes []pmf.Outcome
	var total uint64
	for _, count := range counts.Outcomes() {
		for _, die := range sides.Outcomes() {
			span, ok := sumSpan(count.Value, die.Value)
			if ok {
				total, ok = addSpan(total, span)
			}
			if !ok || (d.limit > 0 && total > d.limit) {
				return pmf.Pmf{}, newEvaluationError(ErrTooManyOutcomes, n, sumSpanOf(count.Value, die.Value))
			}

			c, s := count.Value.Uint64(), die.Value.Uint64()
			p := count.Probability * die.Probability
			for k := uint64(0); k < span; k++ {
				sum := c + k
				outcomes = append(outcomes, pmf.Outcome{
					Value:       new(big.Int).SetUint64(sum),
					Probability: p * d.cache.DiceSumProbability(sum, c, s),
				})
			}
		}
	}
	return pmf.FromMassFunction(outcomes), nil
}

// checkProduct rejects combinations whose outcome pairs exceed the limit.
func (d *distribution) checkProduct(n *Binary, left, right pmf.Pmf) error {
	if d.limit == 0 {
		return nil
	}
	pairs := new(big.Int).Mul(big.NewInt(int64(left.Len())), big.NewInt(int64(right.Len())))
	if !pairs.IsUint64() || pairs.Uint64() > d.limit {
		return newEvaluationError(ErrTooManyOutcomes, n, pairs)
	}
	return nil
}

// sumSpan returns the number of achievable sums of count dice with the
// given sides, count·(sides−1)+1, if it fits into 64 bits.
func sumSpan(count, sides *big.Int) (uint64, bool) {
	if !count.IsUint64() || !sides.IsUint64() {
		return 0, false
	}
	c, s := count.Uint64(), sides.Uint64()
	hi, lo := bits.Mul64(c, s-1)
	if hi != 0 {
		return 0, false
	}
	span, carry := bits.Add64(lo, 1, 0)
	if carry != 0 {
		return 0, false
	}
	// the largest sum c·s must fit as well
	if _, carry := bits.Add64(lo, c, 0); carry != 0 {
		return 0, false
	}
	return span, true
}

func sumSpanOf(count, sides *big.Int) *big.Int {
	span := new(big.Int).Sub(sides, one)
	span.Mul(span, count)
	return span.Add(span, one)
}

func addSpan(total, span uint64) (uint64, bool) {
	sum, carry := bits.Add64(total, span, 0)
	return sum, carry == 0
}
