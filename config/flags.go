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

package config

import (
	"github.com/0xsoniclabs/dice/expression"
	"github.com/urfave/cli/v2"
)

var (
	SeedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed of the dice roller; drawn from the operating system if absent",
	}
	RepeatFlag = cli.Uint64Flag{
		Name:    "repeat",
		Aliases: []string{"n"},
		Usage:   "roll the expression this many times, seeding the i-th roll with seed+i",
		Value:   1,
	}
	PmfFlag = cli.BoolFlag{
		Name:  "pmf",
		Usage: "compute the exact probability mass function instead of rolling",
	}
	JsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "print the result as JSON",
	}
	ColorsFlag = cli.BoolFlag{
		Name:  "colors",
		Usage: "force colored output",
	}
	OutputFlag = cli.PathFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "also write the result to this file; gzipped when the name ends in .gz",
	}
	DbFlag = cli.PathFlag{
		Name:  "db",
		Usage: "append the evaluation to a sqlite3 history database",
	}
	ChartFlag = cli.PathFlag{
		Name:  "chart",
		Usage: "write an HTML chart of the distribution (with --pmf)",
	}
	MaxOutcomesFlag = cli.Uint64Flag{
		Name:  "max-outcomes",
		Usage: "largest number of sums a single dice term may contribute to a distribution; 0 disables the limit",
		Value: expression.DefaultMaxOutcomes,
	}
	AddressFlag = cli.StringFlag{
		Name:  "addr",
		Usage: "address the visualizer listens on",
		Value: "localhost:8080",
	}
)
