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

// Package combinatorics counts dice outcomes exactly. All counts are
// arbitrary-precision; the uint64 arguments are loop bounds which callers
// range-check before use.
package combinatorics

import (
	"math/big"
	"math/bits"
)

// memoRow selects the rows of Pascal's triangle kept in the cache. Keeping
// every third row bounds memory while recomputation walks at most two steps.
const memoRow = 2

// Cache memoizes binomial coefficients for the lifetime of a single
// distribution computation. It is not safe for concurrent use.
type Cache struct {
	pascal map[uint64]*big.Int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{pascal: make(map[uint64]*big.Int)}
}

// Len returns the number of memoized coefficients.
func (c *Cache) Len() int {
	return len(c.pascal)
}

// Binomial returns C(n, r), or 0 if r > n.
func (c *Cache) Binomial(n, r uint64) *big.Int {
	if r > n {
		return new(big.Int)
	}
	// C(n, r) = C(n, n-r); the smaller side needs fewer steps.
	if r > n/2 {
		r = n - r
	}
	return new(big.Int).Set(c.choose(n, r))
}

// choose walks the diagonal (n, r), (n-1, r-1), ... down to the first
// memoized entry or to (n-r, 0) and multiplies back up using
// C(n, r) = n * C(n-1, r-1) / r. The returned value must not be mutated.
func (c *Cache) choose(n, r uint64) *big.Int {
	depth := r
	value := big.NewInt(1)
	for i := uint64(0); i < r; i++ {
		key, ok := pair(n-i, r-i)
		if !ok {
			continue
		}
		if cached, found := c.pascal[key]; found {
			depth = i
			value = cached
			break
		}
	}

	if depth == 0 {
		return value
	}

	result := new(big.Int).Set(value)
	factor := new(big.Int)
	for i := depth; i > 0; i-- {
		row, col := n-i+1, r-i+1
		result.Mul(result, factor.SetUint64(row))
		result.Quo(result, factor.SetUint64(col))
		if row%3 == memoRow {
			if key, ok := pair(row, col); ok {
				c.pascal[key] = new(big.Int).Set(result)
			}
		}
	}
	return result
}

// pair is the Cantor pairing of (n, r). It reports false when the pairing
// does not fit into 64 bits.
func pair(n, r uint64) (uint64, bool) {
	s, carry := bits.Add64(n, r, 0)
	if carry != 0 {
		return 0, false
	}
	s1, carry := bits.Add64(s, 1, 0)
	if carry != 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(s, s1)
	if hi != 0 {
		return 0, false
	}
	key, carry := bits.Add64(lo/2, r, 0)
	if carry != 0 {
		return 0, false
	}
	return key, true
}

// DiceSumCount returns the number of ways diceCount dice with the given
// number of sides add up to sum:
//
//	Σ_{i=0}^{⌊(sum−n)/s⌋} (−1)^i · C(n, i) · C(sum − 1 − i·s, n − 1)
//
// No dice, or dice without sides, are the degenerate case with a single
// way. Sums outside [diceCount, diceCount·sides] have no ways.
func (c *Cache) DiceSumCount(sum, diceCount, sides uint64) *big.Int {
	if diceCount == 0 || sides == 0 {
		return big.NewInt(1)
	}
	if sum < diceCount {
		return new(big.Int)
	}
	if hi, max := bits.Mul64(diceCount, sides); hi == 0 && sum > max {
		return new(big.Int)
	}

	bound := (sum - diceCount) / sides

	// Positive and negative terms are summed apart so the running total
	// never drops below zero.
	positive := new(big.Int)
	negative := new(big.Int)
	term := new(big.Int)
	for i := uint64(0); i <= bound; i++ {
		term.Mul(c.choose(diceCount, min(i, diceCount-i)), c.Binomial(sum-1-i*sides, diceCount-1))
		if i%2 == 0 {
			positive.Add(positive, term)
		} else {
			negative.Add(negative, term)
		}
	}
	return positive.Sub(positive, negative)
}

// DiceSumProbability returns the probability that diceCount dice with the
// given number of sides add up to sum.
func (c *Cache) DiceSumProbability(sum, diceCount, sides uint64) float64 {
	if diceCount == 0 || sides == 0 {
		return 1
	}
	count := c.DiceSumCount(sum, diceCount, sides)
	total := new(big.Int).Exp(new(big.Int).SetUint64(sides), new(big.Int).SetUint64(diceCount), nil)
	p, _ := new(big.Rat).SetFrac(count, total).Float64()
	return p
}

// Binomial returns C(n, r) using a throw-away cache.
func Binomial(n, r uint64) *big.Int {
	return NewCache().Binomial(n, r)
}

// DiceSumCount is Cache.DiceSumCount with a throw-away cache.
func DiceSumCount(sum, diceCount, sides uint64) *big.Int {
	return NewCache().DiceSumCount(sum, diceCount, sides)
}

// DiceSumProbability is Cache.DiceSumProbability with a throw-away cache.
func DiceSumProbability(sum, diceCount, sides uint64) float64 {
	return NewCache().DiceSumProbability(sum, diceCount, sides)
}
