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
	"slices"

	"golang.org/x/exp/maps"
)

// RollGroup holds every roll of one die size in draw order.
type RollGroup struct {
	Sides *big.Int
	Rolls []*big.Int
}

// RollLedger records the individual die rolls of one evaluation, grouped by
// die size.
type RollLedger struct {
	groups map[string]*RollGroup
}

func newRollLedger() *RollLedger {
	return &RollLedger{groups: make(map[string]*RollGroup)}
}

func (l *RollLedger) record(sides, roll *big.Int) {
	key := sides.String()
	g, ok := l.groups[key]
	if !ok {
		g = &RollGroup{Sides: new(big.Int).Set(sides)}
		l.groups[key] = g
	}
	g.Rolls = append(g.Rolls, roll)
}

// Groups returns the groups ordered by increasing die size.
func (l *RollLedger) Groups() []RollGroup {
	keys := maps.Keys(l.groups)
	groups := make([]RollGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, *l.groups[key])
	}
	slices.SortFunc(groups, func(a, b RollGroup) int {
		return a.Sides.Cmp(b.Sides)
	})
	return groups
}

// Rolls returns the rolls of dice with the given number of sides.
func (l *RollLedger) Rolls(sides *big.Int) []*big.Int {
	if g, ok := l.groups[sides.String()]; ok {
		return g.Rolls
	}
	return nil
}

// Len returns the number of distinct die sizes rolled.
func (l *RollLedger) Len() int {
	return len(l.groups)
}

// Count returns the total number of rolls.
func (l *RollLedger) Count() int {
	n := 0
	for _, g := range l.groups {
		n += len(g.Rolls)
	}
	return n
}
