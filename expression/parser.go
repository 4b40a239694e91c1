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
	"math/big"
)

// Parse turns dice notation into a syntax tree. On failure it returns a
// *SyntaxError pointing at the first token no rule could consume.
func Parse(source string) (Expression, error) {
	p := &parser{source: source, tokens: tokenize(source)}
	e, err := p.parseExpression(loosest)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, p.unexpected()
	}
	return e, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(source string) Expression {
	e, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	source string
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

var binaryOperators = map[tokenKind]Operator{
	tokenDice:     Dice,
	tokenStarStar: Exponentiation,
	tokenSlash:    IntegerQuotient,
	tokenStar:     Product,
	tokenMinus:    Difference,
	tokenPlus:     Sum,
}

// parseExpression parses operators binding at least as tightly as limit,
// i.e. with a precedence rank not above it.
func (p *parser) parseExpression(limit int) (Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryOperators[p.peek().kind]
		if !ok || op.Precedence() > limit {
			return left, nil
		}
		p.next()
		next := op.Precedence() - 1
		if op.Associativity() == RightAssociative {
			next = op.Precedence()
		}
		right, err := p.parseExpression(next)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parsePrefix() (Expression, error) {
	switch p.peek().kind {
	case tokenMinus, tokenPlus:
		op := Negate
		if p.next().kind == tokenPlus {
			op = Identity
		}
		// The operand may be a dice roll but nothing looser.
		operand, err := p.parseExpression(Dice.Precedence())
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	case tokenDice:
		p.next()
		sides, err := p.parseExpression(Dice.Precedence() - 1)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: Dice, Left: NewLiteral(1), Right: sides}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expression, error) {
	switch t := p.peek(); t.kind {
	case tokenNumber:
		p.next()
		value, ok := new(big.Int).SetString(t.text, 10)
		if !ok {
			return nil, p.errorAt(t)
		}
		return &Literal{Value: value}, nil
	case tokenLeftParen:
		p.next()
		e, err := p.parseExpression(loosest)
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokenRightParen {
			return nil, p.unexpected()
		}
		p.next()
		return e, nil
	}
	return nil, p.unexpected()
}

func (p *parser) unexpected() *SyntaxError {
	return p.errorAt(p.peek())
}

func (p *parser) errorAt(t token) *SyntaxError {
	if t.kind == tokenEOF {
		return &SyntaxError{
			Message:  "unexpected end of input",
			Source:   p.source,
			Position: t.position,
		}
	}
	return &SyntaxError{
		Message:  fmt.Sprintf("unexpected token at position %d", t.position+1),
		Source:   p.source,
		Position: t.position,
		Length:   t.length,
	}
}
