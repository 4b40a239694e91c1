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

package expression

import (
	"fmt"
	"math"
	"math/big"

	"github.com/cockroachdb/errors"
)

// SyntaxError reports malformed dice notation. Position counts runes from
// zero; Length is zero when the input ended early.
type SyntaxError struct {
	Message  string
	Source   string
	Position int
	Length   int
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// AtEnd reports whether parsing ran out of input.
func (e *SyntaxError) AtEnd() bool {
	return e.Length == 0
}

var (
	ErrNonPositiveSides  = errors.New("dice with non-positive sides are not supported")
	ErrNegativeDiceCount = errors.New("negative numbers of dice are not supported")
	ErrNegativeExponent  = errors.New("negative exponents are not supported")
	ErrExponentTooLarge  = errors.New("exponents larger than 4294967295 are not supported")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrTooManyOutcomes   = errors.New("too many outcomes to compute the distribution")
	ErrTooManyRolls      = errors.New("too many dice to roll")
)

// MaxRolls bounds the number of dice a single dice node may roll.
const MaxRolls = 10_000_000

// maxExponent bounds the exponent of a power; it limits work, not magnitude.
const maxExponent = math.MaxUint32

// EvaluationError reports a subexpression whose value is outside the domain
// of the operator consuming it. Kind is one of the Err sentinels above and
// can be matched with errors.Is.
type EvaluationError struct {
	Kind       error
	Expression Expression
	Value      *big.Int
}

func (e *EvaluationError) Error() string {
	var detail string
	switch e.Kind {
	case ErrNonPositiveSides:
		detail = "a non-positive number"
	case ErrNegativeDiceCount, ErrNegativeExponent:
		detail = "a negative number"
	case ErrExponentTooLarge, ErrTooManyRolls:
		detail = "a number too large"
	case ErrTooManyOutcomes:
		return fmt.Sprintf("%v: the expression %s spans %s outcomes", e.Kind, e.Expression, e.Value)
	case ErrDivisionByZero:
		return fmt.Sprintf("%v: the expression %s evaluated to zero", e.Kind, e.Expression)
	}
	return fmt.Sprintf("%v: the expression %s evaluated to %s, %s", e.Kind, e.Expression, e.Value, detail)
}

func (e *EvaluationError) Unwrap() error {
	return e.Kind
}

func newEvaluationError(kind error, e Expression, value *big.Int) error {
	return &EvaluationError{Kind: kind, Expression: e, Value: new(big.Int).Set(value)}
}

// checkSides validates the side count of a die.
func checkSides(e Expression, sides *big.Int) error {
	if sides.Sign() <= 0 {
		return newEvaluationError(ErrNonPositiveSides, e, sides)
	}
	return nil
}

// checkDiceCount validates the number of dice in a roll.
func checkDiceCount(e Expression, count *big.Int) error {
	if count.Sign() < 0 {
		return newEvaluationError(ErrNegativeDiceCount, e, count)
	}
	return nil
}

// checkRollCount rejects rolls of more than MaxRolls dice.
func checkRollCount(e Expression, count *big.Int) error {
	if !count.IsUint64() || count.Uint64() > MaxRolls {
		return newEvaluationError(ErrTooManyRolls, e, count)
	}
	return nil
}

// checkExponent validates an exponent and returns it as a loop bound.
func checkExponent(e Expression, exponent *big.Int) (uint32, error) {
	if exponent.Sign() < 0 {
		return 0, newEvaluationError(ErrNegativeExponent, e, exponent)
	}
	if !exponent.IsUint64() || exponent.Uint64() > maxExponent {
		return 0, newEvaluationError(ErrExponentTooLarge, e, exponent)
	}
	return uint32(exponent.Uint64()), nil
}

// checkDivisor validates the right operand of an integer quotient.
func checkDivisor(e Expression, divisor *big.Int) error {
	if divisor.Sign() == 0 {
		return newEvaluationError(ErrDivisionByZero, e, divisor)
	}
	return nil
}
