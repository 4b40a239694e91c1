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
	"flag"
	"testing"

	"github.com/0xsoniclabs/dice/expression"
	"github.com/0xsoniclabs/dice/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func rollCommand() *cli.Command {
	return &cli.Command{
		Name: "roll",
		Flags: []cli.Flag{
			&SeedFlag,
			&RepeatFlag,
			&PmfFlag,
			&JsonFlag,
			&ColorsFlag,
			&OutputFlag,
			&DbFlag,
			&ChartFlag,
			&MaxOutcomesFlag,
			&logger.LogLevelFlag,
		},
	}
}

// newContext parses args against the flags of cmd.
func newContext(t *testing.T, cmd *cli.Command, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range cmd.Flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	ctx := cli.NewContext(cli.NewApp(), set, nil)
	ctx.Command = cmd
	return ctx
}

func TestGetFlagValue(t *testing.T) {
	cmd := &cli.Command{
		Name: "testcmd",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "uint64flag"},
			&cli.StringFlag{Name: "stringflag"},
			&cli.PathFlag{Name: "pathflag"},
			&cli.BoolFlag{Name: "boolflag"},
		},
	}

	testCases := []struct {
		name          string
		args          []string
		flagToTest    interface{}
		expectedValue interface{}
	}{
		{
			name:          "Uint64Flag value",
			args:          []string{"--uint64flag", "100"},
			flagToTest:    cli.Uint64Flag{Name: "uint64flag"},
			expectedValue: uint64(100),
		},
		{
			name:          "StringFlag value",
			args:          []string{"--stringflag", "test-string"},
			flagToTest:    cli.StringFlag{Name: "stringflag"},
			expectedValue: "test-string",
		},
		{
			name:          "PathFlag value",
			args:          []string{"--pathflag", "/test/path"},
			flagToTest:    cli.PathFlag{Name: "pathflag"},
			expectedValue: "/test/path",
		},
		{
			name:          "BoolFlag value",
			args:          []string{"--boolflag"},
			flagToTest:    cli.BoolFlag{Name: "boolflag"},
			expectedValue: true,
		},
		{
			name:          "unknown flag falls back to its default",
			args:          nil,
			flagToTest:    cli.StringFlag{Name: "other", Value: "fallback"},
			expectedValue: "fallback",
		},
		{
			name:          "unsupported flag type",
			args:          nil,
			flagToTest:    cli.IntFlag{Name: "intflag"},
			expectedValue: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newContext(t, cmd, tc.args...)
			assert.Equal(t, tc.expectedValue, getFlagValue(ctx, tc.flagToTest))
		})
	}
}

func TestNewConfig_ReadsFlagsAndArguments(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm")
	ctx := newContext(t, rollCommand(), "--seed", "193", "--pmf", "--json", "--output", "out.json.gz", "3d6", "+", "2")

	cfg, err := NewConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "roll", cfg.CommandName)
	assert.Equal(t, "3d6 + 2", cfg.Expression)
	assert.Equal(t, uint64(193), cfg.Seed)
	assert.False(t, cfg.RandomSeed)
	assert.Equal(t, uint64(1), cfg.Repeat)
	assert.True(t, cfg.Pmf)
	assert.True(t, cfg.Json)
	assert.False(t, cfg.Colors)
	assert.Equal(t, "out.json.gz", cfg.Output)
	assert.Equal(t, uint64(expression.DefaultMaxOutcomes), cfg.MaxOutcomes)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, "xterm", cfg.Env.Term)
}

func TestNewConfig_DrawsSeedWhenAbsent(t *testing.T) {
	cfg, err := NewConfig(newContext(t, rollCommand(), "d20"))
	require.NoError(t, err)
	assert.True(t, cfg.RandomSeed)
	assert.Equal(t, "d20", cfg.Expression)

	// An explicit zero seed is still a seed.
	cfg, err = NewConfig(newContext(t, rollCommand(), "--seed", "0", "d20"))
	require.NoError(t, err)
	assert.False(t, cfg.RandomSeed)
	assert.Equal(t, uint64(0), cfg.Seed)
}

func TestNewConfig_ReadsRepeat(t *testing.T) {
	cfg, err := NewConfig(newContext(t, rollCommand(), "--seed", "5", "--repeat", "20", "4d6"))
	require.NoError(t, err)
	assert.Equal(t, uint64(20), cfg.Repeat)
	assert.Equal(t, uint64(5), cfg.Seed)
}

func TestNewConfig_RequiresExpression(t *testing.T) {
	_, err := NewConfig(newContext(t, rollCommand(), "--pmf"))
	assert.ErrorIs(t, err, ErrMissingExpression)

	_, err = NewConfig(newContext(t, rollCommand(), "  "))
	assert.ErrorIs(t, err, ErrMissingExpression)
}

func TestNewConfig_RejectsMalformedEnvironment(t *testing.T) {
	t.Setenv("COLUMNS", "wide")
	_, err := NewConfig(newContext(t, rollCommand(), "--seed", "1", "d6"))
	assert.Error(t, err)
}

func TestConfig_UseColors(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		terminal bool
		want     bool
	}{
		{"forced", Config{Colors: true}, false, true},
		{"forced despite NO_COLOR", Config{Colors: true, Env: Environment{NoColor: "1"}}, false, true},
		{"terminal", Config{}, true, true},
		{"pipe", Config{}, false, false},
		{"NO_COLOR", Config{Env: Environment{NoColor: "1"}}, true, false},
		{"dumb terminal", Config{Env: Environment{Term: "dumb"}}, true, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.cfg.UseColors(test.terminal))
		})
	}
}
