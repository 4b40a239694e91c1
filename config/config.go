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

// Package config collects the settings of the roll command from its flags
// and the environment.
package config

import (
	"strings"

	"github.com/0xsoniclabs/dice/logger"
	"github.com/0xsoniclabs/dice/random"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// ErrMissingExpression is returned when no expression was given.
var ErrMissingExpression = errors.New("missing dice expression")

// Config holds the settings of a single invocation.
type Config struct {
	AppName     string
	CommandName string

	Expression  string
	Seed        uint64
	RandomSeed  bool // Seed was drawn from the operating system
	Repeat      uint64
	Pmf         bool
	Json        bool
	Colors      bool
	Output      string
	Db          string
	Chart       string
	MaxOutcomes uint64
	LogLevel    string
	Address     string

	Env Environment
}

// Environment holds the settings read from environment variables.
type Environment struct {
	NoColor string `env:"NO_COLOR"`
	Term    string `env:"TERM"`
	Columns int    `env:"COLUMNS"`
}

// ParseEnv loads the environment into e.
func ParseEnv(e *Environment) error {
	if err := env.Parse(e); err != nil {
		return errors.Wrap(err, "parse env")
	}
	return nil
}

// NewConfig builds the configuration of the current command. The expression
// is the command's arguments joined by spaces, so it need not be quoted.
func NewConfig(ctx *cli.Context) (*Config, error) {
	cfg := createConfigFromFlags(ctx)

	cfg.Expression = strings.TrimSpace(strings.Join(ctx.Args().Slice(), " "))
	if cfg.Expression == "" {
		return nil, ErrMissingExpression
	}

	if !ctx.IsSet(SeedFlag.Name) {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		cfg.Seed = seed
		cfg.RandomSeed = true
	}

	if err := ParseEnv(&cfg.Env); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UseColors decides whether output is colored: always when forced, otherwise
// only on a terminal that has not opted out.
func (cfg *Config) UseColors(isTerminal bool) bool {
	if cfg.Colors {
		return true
	}
	return isTerminal && cfg.Env.NoColor == "" && cfg.Env.Term != "dumb"
}

// createConfigFromFlags returns Config instance with user specified values or the default ones
func createConfigFromFlags(ctx *cli.Context) *Config {
	cfg := &Config{
		AppName:     ctx.App.HelpName,
		CommandName: ctx.Command.Name,

		Seed:        getFlagValue(ctx, SeedFlag).(uint64),
		Repeat:      getFlagValue(ctx, RepeatFlag).(uint64),
		Pmf:         getFlagValue(ctx, PmfFlag).(bool),
		Json:        getFlagValue(ctx, JsonFlag).(bool),
		Colors:      getFlagValue(ctx, ColorsFlag).(bool),
		Output:      getFlagValue(ctx, OutputFlag).(string),
		Db:          getFlagValue(ctx, DbFlag).(string),
		Chart:       getFlagValue(ctx, ChartFlag).(string),
		MaxOutcomes: getFlagValue(ctx, MaxOutcomesFlag).(uint64),
		LogLevel:    getFlagValue(ctx, logger.LogLevelFlag).(string),
		Address:     getFlagValue(ctx, AddressFlag).(string),
	}
	return cfg
}

// getFlagValue returns value specified by user if flag is present in cli context, otherwise return default flag value
func getFlagValue(ctx *cli.Context, flag interface{}) interface{} {
	var cmdFlags []cli.Flag
	if ctx.Command != nil {
		cmdFlags = ctx.Command.Flags
	}
	for _, cmdFlag := range cmdFlags {
		switch f := flag.(type) {
		case cli.Uint64Flag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Uint64(f.Name)
			}

		case cli.StringFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.String(f.Name)
			}

		case cli.PathFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Path(f.Name)
			}

		case cli.BoolFlag:
			if cmdFlag.Names()[0] == f.Name {
				return ctx.Bool(f.Name)
			}
		}
	}

	// If flag not found, return the default value of the flag
	switch f := flag.(type) {
	case cli.Uint64Flag:
		return f.Value
	case cli.StringFlag:
		return f.Value
	case cli.PathFlag:
		return f.Value
	case cli.BoolFlag:
		return f.Value
	}

	return nil
}
