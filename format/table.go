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
	"math/big"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/0xsoniclabs/dice/pmf"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// grouped renders n with thousands separators.
func grouped(n *big.Int) string {
	if n == nil {
		return "-"
	}
	if n.IsInt64() {
		return printer.Sprintf("%d", n.Int64())
	}
	return n.String()
}

// Statistics renders the summary of a distribution as a table.
func (t Text) Statistics(e expression.Expression, p pmf.Pmf) string {
	s := p.Statistics()

	w := table.NewWriter()
	if t.Colors {
		w.SetStyle(table.StyleColoredBright)
	} else {
		w.SetStyle(table.StyleLight)
	}
	w.SetTitle("%s", e.String())
	w.AppendHeader(table.Row{"Statistic", "Value"})
	w.AppendRows([]table.Row{
		{"Outcomes", printer.Sprintf("%d", p.Len())},
		{"Min", grouped(s.Min)},
		{"Median", grouped(s.Median)},
		{"Max", grouped(s.Max)},
		{"Mean", printer.Sprintf("%.4f", s.Mean)},
		{"Std. dev.", printer.Sprintf("%.4f", s.StdDev)},
	})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return w.Render()
}
