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

// Package pmf implements probability mass functions over arbitrary-precision
// integers. A Pmf keeps its outcomes sorted by strictly increasing value and,
// unless it is empty, normalized so that the probabilities add up to one.
package pmf

import (
	"math"
	"math/big"
	"slices"
	"sort"
)

// Outcome is one value of a discrete random variable together with its
// probability.
type Outcome struct {
	Value       *big.Int
	Probability float64
}

// Pmf is an immutable probability mass function. The zero value is the empty
// distribution.
type Pmf struct {
	outcomes []Outcome
}

// Constant returns the one-point distribution at value.
func Constant(value *big.Int) Pmf {
	return Pmf{outcomes: []Outcome{{Value: new(big.Int).Set(value), Probability: 1.0}}}
}

// FromMassFunction builds a distribution from unordered, possibly repeated
// outcomes. Repeated values are merged by adding their probabilities and the
// result is normalized. If the total mass is zero the distribution is empty.
func FromMassFunction(outcomes []Outcome) Pmf {
	sorted := make([]Outcome, len(outcomes))
	copy(sorted, outcomes)
	return Pmf{outcomes: normalize(group(sorted))}
}

// group sorts outcomes by value and merges equal values in place.
func group(outcomes []Outcome) []Outcome {
	slices.SortStableFunc(outcomes, func(a, b Outcome) int {
		return a.Value.Cmp(b.Value)
	})
	merged := outcomes[:0]
	for _, o := range outcomes {
		if n := len(merged); n > 0 && merged[n-1].Value.Cmp(o.Value) == 0 {
			merged[n-1].Probability += o.Probability
			continue
		}
		merged = append(merged, o)
	}
	return merged
}

// normalize divides every probability by the total mass.
func normalize(outcomes []Outcome) []Outcome {
	total := kahanSum(outcomes)
	if total == 0.0 {
		return nil
	}
	if total != 1.0 {
		for i := range outcomes {
			outcomes[i].Probability /= total
		}
	}
	return outcomes
}

// kahanSum adds up the probabilities with Kahan's compensated summation.
func kahanSum(outcomes []Outcome) float64 {
	sum := 0.0
	c := 0.0
	for _, o := range outcomes {
		y := o.Probability - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum
}

// Len returns the number of distinct outcomes.
func (p Pmf) Len() int {
	return len(p.outcomes)
}

// IsEmpty reports whether the distribution has no outcomes.
func (p Pmf) IsEmpty() bool {
	return len(p.outcomes) == 0
}

// Outcomes returns the outcomes in increasing value order. The slice is a
// copy; the values are shared and must not be modified.
func (p Pmf) Outcomes() []Outcome {
	return slices.Clone(p.outcomes)
}

// Map applies f to every value. Values that collide are merged.
func (p Pmf) Map(f func(*big.Int) *big.Int) Pmf {
	mapped := make([]Outcome, len(p.outcomes))
	for i, o := range p.outcomes {
		mapped[i] = Outcome{Value: f(o.Value), Probability: o.Probability}
	}
	return Pmf{outcomes: normalize(group(mapped))}
}

// CartesianProduct combines p with the independent distribution q: every
// pair of outcomes contributes the product of their probabilities to the
// value f(a, b).
func (p Pmf) CartesianProduct(q Pmf, f func(a, b *big.Int) *big.Int) Pmf {
	product := make([]Outcome, 0, len(p.outcomes)*len(q.outcomes))
	for _, a := range p.outcomes {
		for _, b := range q.outcomes {
			product = append(product, Outcome{
				Value:       f(a.Value, b.Value),
				Probability: a.Probability * b.Probability,
			})
		}
	}
	return Pmf{outcomes: normalize(group(product))}
}

// Min returns the smallest value, or nil if the distribution is empty.
func (p Pmf) Min() *big.Int {
	if p.IsEmpty() {
		return nil
	}
	return p.outcomes[0].Value
}

// Max returns the largest value, or nil if the distribution is empty.
func (p Pmf) Max() *big.Int {
	if p.IsEmpty() {
		return nil
	}
	return p.outcomes[len(p.outcomes)-1].Value
}

// find returns the index of value and whether it is present.
func (p Pmf) find(value *big.Int) (int, bool) {
	i := sort.Search(len(p.outcomes), func(i int) bool {
		return p.outcomes[i].Value.Cmp(value) >= 0
	})
	return i, i < len(p.outcomes) && p.outcomes[i].Value.Cmp(value) == 0
}

// Contains reports whether value is an outcome.
func (p Pmf) Contains(value *big.Int) bool {
	_, ok := p.find(value)
	return ok
}

// Probability returns the probability of value, zero if it is not an outcome.
func (p Pmf) Probability(value *big.Int) float64 {
	if i, ok := p.find(value); ok {
		return p.outcomes[i].Probability
	}
	return 0.0
}

// ExpectedValue returns the mean. Values beyond float64 range make it
// infinite. The mean of the empty distribution is zero.
func (p Pmf) ExpectedValue() float64 {
	mean := 0.0
	for _, o := range p.outcomes {
		v, _ := new(big.Float).SetInt(o.Value).Float64()
		mean += v * o.Probability
	}
	return mean
}

// CDF returns the cumulative probabilities in value order. The last entry is
// clamped to one.
func (p Pmf) CDF() []float64 {
	cdf := make([]float64, len(p.outcomes))
	sum := 0.0
	c := 0.0
	for i, o := range p.outcomes {
		y := o.Probability - c
		t := sum + y
		c = (t - sum) - y
		sum = t
		cdf[i] = math.Min(sum, 1.0)
	}
	if n := len(cdf); n > 0 {
		cdf[n-1] = 1.0
	}
	return cdf
}

// Quantile returns the smallest value whose cumulative probability is at
// least u. If u exceeds the accumulated mass the last value with positive
// probability is returned. It returns nil for the empty distribution.
func (p Pmf) Quantile(u float64) *big.Int {
	if p.IsEmpty() {
		return nil
	}
	sum := 0.0 // Kahan's summation algorithm for probability sum
	c := 0.0   // compensation term
	lastPositive := -1
	for i, o := range p.outcomes {
		y := o.Probability - c
		t := sum + y
		c = (t - sum) - y
		sum = t
		if u <= sum {
			return o.Value
		}
		if o.Probability > 0.0 {
			lastPositive = i
		}
	}
	if lastPositive != -1 {
		return p.outcomes[lastPositive].Value
	}
	return p.outcomes[0].Value
}
