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
	"io"
	"os"
	"strconv"
	"time"

	"github.com/0xsoniclabs/dice/config"
	"github.com/0xsoniclabs/dice/expression"
	"github.com/0xsoniclabs/dice/format"
	"github.com/0xsoniclabs/dice/logger"
	"github.com/0xsoniclabs/dice/pmf"
	"github.com/0xsoniclabs/dice/utils"
	"github.com/0xsoniclabs/dice/visualizer"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// historyCapacity is the number of rolls written to the history database
// per transaction.
const historyCapacity = 64

const (
	modeRoll = "roll"
	modePmf  = "pmf"
)

// rollAction rolls the expression given as arguments, or prints its
// distribution with --pmf.
func rollAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Roll")
	return run(cfg, log, ctx.App.Writer, textFormat(cfg, ctx.App.Writer))
}

// textFormat decides on colors and bar width for output written to w. The
// width falls back to $COLUMNS when w is not a terminal.
func textFormat(cfg *config.Config, w io.Writer) format.Text {
	isTerminal, width := false, 0
	if f, ok := w.(*os.File); ok {
		fd := int(f.Fd())
		isTerminal = term.IsTerminal(fd)
		if isTerminal {
			if columns, _, err := term.GetSize(fd); err == nil {
				width = columns
			}
		}
	}
	if width <= 0 {
		width = cfg.Env.Columns
	}
	return format.Text{Colors: cfg.UseColors(isTerminal), Width: width}
}

// syntaxError shows a syntax error with the offending token underlined.
type syntaxError struct {
	cause *expression.SyntaxError
	text  string
}

func (e *syntaxError) Error() string {
	return e.text
}

func (e *syntaxError) Unwrap() error {
	return e.cause
}

func parse(source string) (expression.Expression, error) {
	e, err := expression.Parse(source)
	var cause *expression.SyntaxError
	if errors.As(err, &cause) {
		return nil, &syntaxError{cause: cause, text: format.Text{}.SyntaxError(cause)}
	}
	return e, err
}

// parseExpression parses the expression of cfg.
func parseExpression(cfg *config.Config, log logger.Logger) (expression.Expression, error) {
	e, err := parse(cfg.Expression)
	if err != nil {
		return nil, err
	}
	log.Debugf("Expression: %v", e)
	return e, nil
}

// distribution computes the distribution of e within the outcome limit of cfg.
func distribution(cfg *config.Config, log logger.Logger, e expression.Expression) (pmf.Pmf, error) {
	start := time.Now()
	p, err := expression.Distribution(e, cfg.MaxOutcomes)
	if err != nil {
		return pmf.Pmf{}, err
	}
	hours, minutes, seconds := logger.ParseTime(time.Since(start))
	log.Infof("Distribution with %d outcomes computed in %vh %vm %vs", p.Len(), hours, minutes, seconds)
	return p, nil
}

// session holds what the printers emit for the current evaluation.
type session struct {
	cfg  *config.Config
	log  logger.Logger
	text format.Text
	e    expression.Expression

	console string // rendered for the writer
	file    string // rendered without colors for --output
	row     []any  // history record
}

func run(cfg *config.Config, log logger.Logger, w io.Writer, text format.Text) (err error) {
	e, err := parseExpression(cfg, log)
	if err != nil {
		return err
	}

	s := &session{cfg: cfg, log: log, text: text, e: e}
	printers, err := utils.NewPrinters().
		AddPrinterToWriter(w, func() string { return s.console }).
		AddPrinterToFile(cfg.Output, func() string { return s.file }).
		AddPrinterToHistory(cfg.Db, historyCapacity, func() [][]any { return [][]any{s.row} })
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, printers.Close())
	}()

	if cfg.Pmf {
		return s.distribution(printers)
	}
	return s.rolls(printers)
}

func (s *session) rolls(printers *utils.Printers) error {
	e := s.e
	if s.cfg.RandomSeed {
		s.log.Infof("Seed: %d (random)", s.cfg.Seed)
	} else {
		s.log.Infof("Seed: %d", s.cfg.Seed)
	}

	for i := uint64(0); i < max(s.cfg.Repeat, 1); i++ {
		seed := s.cfg.Seed + i
		r, err := expression.Evaluate(e, seed)
		if err != nil {
			return err
		}
		if s.cfg.Json {
			out, err := format.RollJSON(r)
			if err != nil {
				return err
			}
			s.console, s.file = out, out
		} else {
			s.console = s.text.Roll(e, r)
			s.file = format.Text{}.Roll(e, r)
		}
		s.row = historyRow(e, modeRoll, strconv.FormatUint(seed, 10), r.Value.String())
		if err := printers.Print(); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) distribution(printers *utils.Printers) error {
	e := s.e
	p, err := distribution(s.cfg, s.log, e)
	if err != nil {
		return err
	}

	out, err := format.PmfJSON(p)
	if err != nil {
		return err
	}
	if s.cfg.Json {
		s.console, s.file = out, out
	} else {
		s.console = s.text.Pmf(e, p)
		s.file = format.Text{}.Pmf(e, p)
	}
	s.row = historyRow(e, modePmf, nil, out)

	if s.cfg.Chart != "" {
		if err := writeChart(s.cfg.Chart, e, p); err != nil {
			return err
		}
		s.log.Noticef("Chart written to %v", s.cfg.Chart)
	}
	return printers.Print()
}

// historyRow matches utils.HistoryInsert. A nil seed is stored as NULL.
func historyRow(e expression.Expression, mode string, seed any, result string) []any {
	return []any{time.Now().UTC().Format(time.RFC3339), e.String(), mode, seed, result}
}

func writeChart(path string, e expression.Expression, p pmf.Pmf) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create chart %s", path)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return visualizer.WriteChart(file, e, p)
}
