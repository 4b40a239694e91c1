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
	"fmt"
	"strings"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/jedib0t/go-pretty/v6/text"
)

const gutter = "    |"

var caretColors = text.Colors{text.FgRed, text.Bold}

// SyntaxError renders the message of err followed by the source with the
// offending token underlined. Errors at the end of the input carry no
// token and print the message only.
func (t Text) SyntaxError(err *expression.SyntaxError) string {
	var b strings.Builder
	b.WriteString(t.paint(caretColors, err.Message))
	if err.AtEnd() {
		return b.String()
	}
	fmt.Fprintf(&b, "\n%s\n", gutter)
	fmt.Fprintf(&b, "%s    %s\n", gutter, err.Source)
	fmt.Fprintf(&b, "%s    %s%s", gutter, padding(err.Source, err.Position), t.paint(caretColors, strings.Repeat("^", err.Length)))
	return b.String()
}

// padding blanks the first n runes of source, keeping tabs so the caret
// lines up with the token however the terminal expands them.
func padding(source string, n int) string {
	var b strings.Builder
	for i, r := range []rune(source) {
		if i == n {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
