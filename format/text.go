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

// Package format renders rolls, distributions and syntax errors for
// terminals and for programs.
package format

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/0xsoniclabs/dice/pmf"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	maxBarWidth = 75
	barRune     = "▬"
	// percentWidth is the width of a "%6.2f%%" column plus its padding.
	percentWidth = 8
)

var (
	labelColors   = text.Colors{text.FgMagenta, text.Bold}
	meanColors    = text.Colors{text.FgCyan, text.Bold}
	sourceColors  = text.Colors{text.FgBlue}
	outcomeColors = text.Colors{text.FgBlue, text.Bold}
	lowColors     = text.Colors{text.FgRed}
	highColors    = text.Colors{text.FgGreen}
)

// Text renders results for people. Without colors it prints the bare
// result so the output can be piped.
type Text struct {
	Colors bool
	// Width is the terminal width in columns, or 0 when unknown.
	Width int
}

func (t Text) paint(c text.Colors, s string) string {
	if !t.Colors {
		return s
	}
	return c.Sprint(s)
}

// Roll renders a single evaluation.
func (t Text) Roll(e expression.Expression, r *expression.Result) string {
	if !t.Colors {
		return r.Value.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", t.paint(labelColors, "Expression:"), t.paint(sourceColors, e.String()))
	fmt.Fprintf(&b, "%s\n", t.paint(labelColors, "Rolls:"))
	for _, g := range r.Rolls.Groups() {
		rolls := slices.Clone(g.Rolls)
		slices.SortFunc(rolls, (*big.Int).Cmp)
		faces := make([]string, len(rolls))
		for i, roll := range rolls {
			faces[i] = t.face(roll, g.Sides)
		}
		fmt.Fprintf(&b, "  d%s: {%s}\n", g.Sides, strings.Join(faces, ", "))
	}
	fmt.Fprintf(&b, "\n%s", t.paint(outcomeColors, r.Value.String()))
	return b.String()
}

// face highlights the lowest and the highest face of a die.
func (t Text) face(roll, sides *big.Int) string {
	switch {
	case roll.Cmp(sides) == 0:
		return t.paint(highColors, roll.String())
	case roll.IsInt64() && roll.Int64() == 1:
		return t.paint(lowColors, roll.String())
	default:
		return roll.String()
	}
}

// Pmf renders a distribution, one outcome per line. With colors and a known
// terminal width every line carries a bar proportional to its probability.
func (t Text) Pmf(e expression.Expression, p pmf.Pmf) string {
	var b strings.Builder
	if t.Colors {
		fmt.Fprintf(&b, "%s %s\n", t.paint(labelColors, "Expression:"), t.paint(sourceColors, e.String()))
		fmt.Fprintf(&b, "  %s %.2f\n\n", t.paint(meanColors, "Mean:"), p.ExpectedValue())
	}

	outcomes := p.Outcomes()
	digits := 0
	maxP := 0.0
	for _, o := range outcomes {
		digits = max(digits, len(o.Value.String()))
		maxP = max(maxP, o.Probability)
	}

	barWidth := 0
	if t.Colors && t.Width > 0 {
		other := 1 + digits + 1 + 1 + percentWidth
		barWidth = max(min(t.Width, maxBarWidth), other) - other
	}

	for _, o := range outcomes {
		b.WriteString("  ")
		b.WriteString(text.AlignRight.Apply(t.paint(outcomeColors, o.Value.String()), digits))
		if barWidth > 0 {
			n := int(o.Probability / maxP * float64(barWidth))
			fmt.Fprintf(&b, " %s ", t.paint(sourceColors, strings.Repeat(barRune, n)))
		}
		fmt.Fprintf(&b, "%6.2f%%\n", o.Probability*100)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
