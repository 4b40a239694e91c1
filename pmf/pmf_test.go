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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(v int64, p float64) Outcome {
	return Outcome{Value: big.NewInt(v), Probability: p}
}

func values(p Pmf) []int64 {
	var vs []int64
	for _, o := range p.Outcomes() {
		vs = append(vs, o.Value.Int64())
	}
	return vs
}

func TestPmf_Constant(t *testing.T) {
	p := Constant(big.NewInt(-3))
	require.Equal(t, 1, p.Len())
	assert.Equal(t, []int64{-3}, values(p))
	assert.Equal(t, 1.0, p.Probability(big.NewInt(-3)))
	assert.NoError(t, Check(p, 1e-9))
}

func TestPmf_ZeroValueIsEmpty(t *testing.T) {
	var p Pmf
	assert.True(t, p.IsEmpty())
	assert.Nil(t, p.Min())
	assert.Nil(t, p.Max())
	assert.Nil(t, p.Quantile(0.5))
	assert.Equal(t, 0.0, p.ExpectedValue())
	assert.Empty(t, p.CDF())
	assert.Equal(t, Statistics{}, p.Statistics())
	assert.NoError(t, Check(p, 1e-9))
}

func TestPmf_FromMassFunctionGroupsAndNormalizes(t *testing.T) {
	p := FromMassFunction([]Outcome{
		outcome(3, 1), outcome(1, 1), outcome(3, 1), outcome(2, 1),
	})
	assert.Equal(t, []int64{1, 2, 3}, values(p))
	assert.InDelta(t, 0.25, p.Probability(big.NewInt(1)), 1e-12)
	assert.InDelta(t, 0.25, p.Probability(big.NewInt(2)), 1e-12)
	assert.InDelta(t, 0.5, p.Probability(big.NewInt(3)), 1e-12)
	assert.NoError(t, Check(p, 1e-9))
}

func TestPmf_FromMassFunctionWithoutMassIsEmpty(t *testing.T) {
	p := FromMassFunction([]Outcome{outcome(1, 0), outcome(2, 0)})
	assert.True(t, p.IsEmpty())
	assert.True(t, FromMassFunction(nil).IsEmpty())
}

func TestPmf_FromMassFunctionDoesNotReorderInput(t *testing.T) {
	in := []Outcome{outcome(2, 1), outcome(1, 1)}
	FromMassFunction(in)
	assert.Equal(t, int64(2), in[0].Value.Int64())
}

func TestPmf_MapRestoresOrderAndMerges(t *testing.T) {
	p := FromMassFunction([]Outcome{outcome(-2, 1), outcome(1, 1), outcome(2, 2)})

	negated := p.Map(func(v *big.Int) *big.Int { return new(big.Int).Neg(v) })
	assert.Equal(t, []int64{-2, -1, 2}, values(negated))
	assert.InDelta(t, 0.5, negated.Probability(big.NewInt(-2)), 1e-12)

	squared := p.Map(func(v *big.Int) *big.Int { return new(big.Int).Mul(v, v) })
	assert.Equal(t, []int64{1, 4}, values(squared))
	assert.InDelta(t, 0.75, squared.Probability(big.NewInt(4)), 1e-12)
	assert.NoError(t, Check(squared, 1e-9))
}

func TestPmf_CartesianProductOfTwoDice(t *testing.T) {
	var faces []Outcome
	for v := int64(1); v <= 6; v++ {
		faces = append(faces, outcome(v, 1.0/6))
	}
	d6 := FromMassFunction(faces)
	sum := d6.CartesianProduct(d6, func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) })

	require.Equal(t, 11, sum.Len())
	for v := int64(2); v <= 12; v++ {
		ways := 6 - abs(7-v)
		assert.InDelta(t, float64(ways)/36, sum.Probability(big.NewInt(v)), 1e-12, "sum %d", v)
	}
	assert.InDelta(t, 7.0, sum.ExpectedValue(), 1e-12)
	assert.NoError(t, Check(sum, 1e-9))
}

func TestPmf_CartesianProductWithEmptyIsEmpty(t *testing.T) {
	add := func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }
	assert.True(t, Constant(big.NewInt(1)).CartesianProduct(Pmf{}, add).IsEmpty())
	assert.True(t, Pmf{}.CartesianProduct(Constant(big.NewInt(1)), add).IsEmpty())
}

func TestPmf_ExpectedValueRoulette(t *testing.T) {
	p := FromMassFunction([]Outcome{outcome(36, 1.0/38), outcome(-1, 37.0/38)})
	assert.InDelta(t, -1.0/38, p.ExpectedValue(), 1e-6)
}

func TestPmf_ContainsAndProbability(t *testing.T) {
	p := FromMassFunction([]Outcome{outcome(1, 1), outcome(5, 3)})
	assert.True(t, p.Contains(big.NewInt(5)))
	assert.False(t, p.Contains(big.NewInt(3)))
	assert.False(t, p.Contains(big.NewInt(6)))
	assert.Equal(t, 0.0, p.Probability(big.NewInt(0)))
}

func TestPmf_CDFAndQuantile(t *testing.T) {
	p := FromMassFunction([]Outcome{outcome(10, 0.2), outcome(20, 0.3), outcome(30, 0.5)})
	cdf := p.CDF()
	require.Len(t, cdf, 3)
	assert.InDelta(t, 0.2, cdf[0], 1e-12)
	assert.InDelta(t, 0.5, cdf[1], 1e-12)
	assert.Equal(t, 1.0, cdf[2])

	assert.Equal(t, int64(10), p.Quantile(0.0).Int64())
	assert.Equal(t, int64(10), p.Quantile(0.2).Int64())
	assert.Equal(t, int64(20), p.Quantile(0.4).Int64())
	assert.Equal(t, int64(30), p.Quantile(0.8).Int64())
	assert.Equal(t, int64(30), p.Quantile(1.5).Int64())
}

func TestPmf_Statistics(t *testing.T) {
	p := FromMassFunction([]Outcome{outcome(1, 1), outcome(2, 1), outcome(3, 1), outcome(4, 1)})
	s := p.Statistics()
	assert.Equal(t, int64(1), s.Min.Int64())
	assert.Equal(t, int64(2), s.Median.Int64())
	assert.Equal(t, int64(4), s.Max.Int64())
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, 1.118033988749895, s.StdDev, 1e-12)
}

func TestPmf_CheckRejectsBrokenDistributions(t *testing.T) {
	unsorted := Pmf{outcomes: []Outcome{outcome(2, 0.5), outcome(1, 0.5)}}
	assert.Error(t, Check(unsorted, 1e-9))

	duplicate := Pmf{outcomes: []Outcome{outcome(1, 0.5), outcome(1, 0.5)}}
	assert.Error(t, Check(duplicate, 1e-9))

	negative := Pmf{outcomes: []Outcome{outcome(1, -0.5), outcome(2, 1.5)}}
	assert.Error(t, Check(negative, 1e-9))

	short := Pmf{outcomes: []Outcome{outcome(1, 0.2), outcome(2, 0.3)}}
	assert.Error(t, Check(short, 1e-9))
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
