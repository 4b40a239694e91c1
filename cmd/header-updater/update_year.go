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

package main

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/urfave/cli/v2"
)

// updateYearCommand increments copyright years
var updateYearCommand = cli.Command{
	Action: updateYearAction,
	Name:   "year",
	Usage:  "Increments the year in the license header of all .go files in the workspace",
}

var (
	reHeader = regexp.MustCompile(`// Copyright (\d{4}) Sonic Labs`)
	reCLI    = regexp.MustCompile(`Copyright:\s*"\(c\)\s*(\d{4})\s+Sonic Labs"`)
)

func updateYearAction(*cli.Context) error {
	return updateYear(".")
}

// updateYear walks through files and updates copyright years.
// Returns an error if something goes wrong.
func updateYear(root string) error {
	return rewriteGoFiles(root, func(content string) string {
		updated := reHeader.ReplaceAllStringFunc(content, func(match string) string {
			matches := reHeader.FindStringSubmatch(match)
			year, _ := strconv.Atoi(matches[1])
			return fmt.Sprintf("// Copyright %d Sonic Labs", year+1)
		})

		return reCLI.ReplaceAllStringFunc(updated, func(match string) string {
			matches := reCLI.FindStringSubmatch(match)
			year, _ := strconv.Atoi(matches[1])
			return fmt.Sprintf(`Copyright: "(c) %d Sonic Labs"`, year+1)
		})
	})
}
