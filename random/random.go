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

// Package random provides the pinned pseudo-random source used to roll
// dice. The generator is PCG-DXSM from math/rand/v2 with its 128-bit state
// expanded from a 64-bit seed, so a seed reproduces the same rolls on every
// platform and Go release.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/big"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
)

const (
	golden    = 0x9e3779b97f4a7c15
	streamMix = 0xDA942042E4DD58B5
)

// Generator draws uniformly distributed die faces.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator whose output is fully determined by seed.
func NewGenerator(seed uint64) *Generator {
	x := seed ^ golden
	hi := splitmix64(x)
	lo := splitmix64(x ^ streamMix)
	return &Generator{rng: rand.New(rand.NewPCG(hi, lo))}
}

// Uint64 returns the next raw 64-bit value.
func (g *Generator) Uint64() uint64 {
	return g.rng.Uint64()
}

// Uniform returns a face in [1, sides]. It panics if sides is not positive.
func (g *Generator) Uniform(sides *big.Int) *big.Int {
	if sides.Sign() <= 0 {
		panic("random: non-positive number of sides")
	}
	if sides.IsUint64() {
		return new(big.Int).SetUint64(g.rng.Uint64N(sides.Uint64()) + 1)
	}
	value := g.bigN(sides)
	return value.Add(value, one)
}

var one = big.NewInt(1)

// bigN returns a value in [0, n) by rejection sampling over whole 64-bit
// limbs masked to the bit length of n-1.
func (g *Generator) bigN(n *big.Int) *big.Int {
	max := new(big.Int).Sub(n, one)
	bitLen := max.BitLen()
	limbs := (bitLen + 63) / 64
	mask := new(big.Int).Sub(new(big.Int).Lsh(one, uint(bitLen)), one)

	value := new(big.Int)
	limb := new(big.Int)
	for {
		value.SetUint64(0)
		for range limbs {
			value.Lsh(value, 64)
			value.Or(value, limb.SetUint64(g.rng.Uint64()))
		}
		value.And(value, mask)
		if value.Cmp(n) < 0 {
			return value
		}
	}
}

// splitmix64 scrambles x into a well-mixed 64-bit state word.
func splitmix64(x uint64) uint64 {
	x += golden
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// NewSeed draws a seed from the operating system's secure source.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "read random seed")
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
