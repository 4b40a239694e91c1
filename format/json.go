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

package format

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/0xsoniclabs/dice/pmf"
	"github.com/cockroachdb/errors"
)

var (
	minSafeInteger = big.NewInt(-9007199254740991)
	maxSafeInteger = big.NewInt(9007199254740991)
)

// Integer marshals to a JSON number when a float64 holds it exactly and to
// a decimal string otherwise. The nil Integer marshals to null.
type Integer struct {
	*big.Int
}

func (n Integer) MarshalJSON() ([]byte, error) {
	if n.Int == nil {
		return []byte("null"), nil
	}
	if n.Cmp(minSafeInteger) < 0 || n.Cmp(maxSafeInteger) > 0 {
		return json.Marshal(n.String())
	}
	return []byte(n.String()), nil
}

// rollGroups marshals the ledger as an object keyed by "d<sides>", keeping
// the ledger's order.
type rollGroups []expression.RollGroup

func (groups rollGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal("d" + g.Sides.String())
		if err != nil {
			return nil, err
		}
		rolls := make([]Integer, len(g.Rolls))
		for j, roll := range g.Rolls {
			rolls[j] = Integer{roll}
		}
		values, err := json.Marshal(rolls)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(values)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type rollJSON struct {
	Value Integer    `json:"value"`
	Rolls rollGroups `json:"rolls"`
}

type outcomeJSON struct {
	Value Integer `json:"value"`
	P     float64 `json:"p"`
}

type statisticsJSON struct {
	Min  Integer `json:"min"`
	Mean float64 `json:"mean"`
	Max  Integer `json:"max"`
}

type pmfJSON struct {
	Pmf        []outcomeJSON  `json:"pmf"`
	Statistics statisticsJSON `json:"statistics"`
}

// RollJSON encodes a single evaluation as {"value":..,"rolls":{"d6":[..]}}.
func RollJSON(r *expression.Result) (string, error) {
	out, err := json.Marshal(rollJSON{
		Value: Integer{r.Value},
		Rolls: r.Rolls.Groups(),
	})
	if err != nil {
		return "", errors.Wrap(err, "encode roll")
	}
	return string(out), nil
}

// PmfJSON encodes a distribution with its minimum, mean and maximum.
func PmfJSON(p pmf.Pmf) (string, error) {
	outcomes := p.Outcomes()
	doc := pmfJSON{
		Pmf: make([]outcomeJSON, len(outcomes)),
		Statistics: statisticsJSON{
			Min:  Integer{p.Min()},
			Mean: p.ExpectedValue(),
			Max:  Integer{p.Max()},
		},
	}
	for i, o := range outcomes {
		doc.Pmf[i] = outcomeJSON{Value: Integer{o.Value}, P: o.Probability}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "encode distribution")
	}
	return string(out), nil
}
