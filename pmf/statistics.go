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

package pmf

import (
	"math"
	"math/big"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes a distribution. Min, Median and Max are nil for the
// empty distribution.
type Statistics struct {
	Min    *big.Int
	Median *big.Int
	Max    *big.Int
	Mean   float64
	StdDev float64
}

// Statistics computes the summary of p. Mean and standard deviation are
// population moments weighted by probability.
func (p Pmf) Statistics() Statistics {
	if p.IsEmpty() {
		return Statistics{}
	}
	values := make([]float64, len(p.outcomes))
	weights := make([]float64, len(p.outcomes))
	for i, o := range p.outcomes {
		values[i], _ = new(big.Float).SetInt(o.Value).Float64()
		weights[i] = o.Probability
	}
	mean, std := stat.PopMeanStdDev(values, weights)
	return Statistics{
		Min:    p.Min(),
		Median: p.Quantile(0.5),
		Max:    p.Max(),
		Mean:   mean,
		StdDev: std,
	}
}

// Check verifies the invariants of p: values strictly increase, every
// probability is in [0, 1], and a non-empty distribution has a total mass
// of one within tolerance.
func Check(p Pmf, tolerance float64) error {
	for i, o := range p.outcomes {
		if o.Value == nil {
			return errors.Newf("missing value at position %d", i)
		}
		if i > 0 && p.outcomes[i-1].Value.Cmp(o.Value) >= 0 {
			return errors.Newf("values not strictly increasing at %v", o.Value)
		}
		x := o.Probability
		if x < 0.0 || x > 1.0 || math.IsNaN(x) {
			return errors.Newf("invalid probability (%v) for value %v", x, o.Value)
		}
	}
	if p.IsEmpty() {
		return nil
	}
	if total := kahanSum(p.outcomes); math.Abs(total-1.0) > tolerance {
		return errors.Newf("total is not one (%v)", total)
	}
	return nil
}
