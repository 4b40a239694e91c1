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
	"github.com/0xsoniclabs/dice/visualizer"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// visualizeCommand serves charts of the distribution of an expression.
var visualizeCommand = cli.Command{
	Action:    visualizeAction,
	Name:      "visualize",
	Usage:     "serve charts of the distribution of an expression",
	ArgsUsage: "<expression>",
	Flags: []cli.Flag{
		&config.AddressFlag,
		&config.MaxOutcomesFlag,
		&logger.LogLevelFlag,
	},
}

// astCommand writes the syntax tree of an expression as a graphviz page.
var astCommand = cli.Command{
	Action:    astAction,
	Name:      "ast",
	Usage:     "render the syntax tree of an expression",
	ArgsUsage: "<expression>",
	Flags: []cli.Flag{
		&config.OutputFlag,
		&logger.LogLevelFlag,
	},
}

// statsCommand prints summary statistics of a distribution.
var statsCommand = cli.Command{
	Action:    statsAction,
	Name:      "stats",
	Usage:     "print summary statistics of the distribution of an expression",
	ArgsUsage: "<expression>",
	Flags: []cli.Flag{
		&config.MaxOutcomesFlag,
		&config.ColorsFlag,
		&logger.LogLevelFlag,
	},
}

func visualizeAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Visualize")

	e, err := parseExpression(cfg, log)
	if err != nil {
		return err
	}
	p, err := distribution(cfg, log, e)
	if err != nil {
		return err
	}
	log.Noticef("Serving charts of %v at http://%v", e, cfg.Address)
	return visualizer.FireUpWeb(e, p, cfg.Address)
}

func astAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Ast")

	e, err := parseExpression(cfg, log)
	if err != nil {
		return err
	}
	page, err := visualizer.DotGraph(e)
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err = fmt.Fprintln(ctx.App.Writer, page)
		return err
	}
	if err := os.WriteFile(cfg.Output, []byte(page), 0644); err != nil {
		return errors.Wrapf(err, "cannot write %s", cfg.Output)
	}
	log.Noticef("Syntax tree written to %v", cfg.Output)
	return nil
}

func statsAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Stats")

	e, err := parseExpression(cfg, log)
	if err != nil {
		return err
	}
	p, err := distribution(cfg, log, e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, textFormat(cfg, ctx.App.Writer).Statistics(e, p))
	return err
}
