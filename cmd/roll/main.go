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
	"os"

	"github.com/0xsoniclabs/dice/config"
	"github.com/0xsoniclabs/dice/logger"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Action:    rollAction,
		Name:      "Dice roller",
		HelpName:  "roll",
		Usage:     "roll dice expressions or compute their exact distributions",
		Copyright: "(c) 2025 Sonic Labs",
		ArgsUsage: "<expression>",
		Flags: []cli.Flag{
			&config.SeedFlag,
			&config.RepeatFlag,
			&config.PmfFlag,
			&config.JsonFlag,
			&config.ColorsFlag,
			&config.OutputFlag,
			&config.DbFlag,
			&config.ChartFlag,
			&config.MaxOutcomesFlag,
			&logger.LogLevelFlag,
		},
		Commands: []*cli.Command{
			&visualizeCommand,
			&astCommand,
			&statsCommand,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
