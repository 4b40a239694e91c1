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
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenDice
	tokenPlus
	tokenMinus
	tokenStar
	tokenStarStar
	tokenSlash
	tokenLeftParen
	tokenRightParen
	tokenIllegal
)

// token is a lexeme; position and length count runes, not bytes.
type token struct {
	kind     tokenKind
	text     string
	position int
	length   int
}

var punctuation = map[rune]tokenKind{
	'd': tokenDice,
	'+': tokenPlus,
	'-': tokenMinus,
	'*': tokenStar,
	'/': tokenSlash,
	'(': tokenLeftParen,
	')': tokenRightParen,
}

// tokenize splits source into tokens, dropping whitespace. The result always
// ends with a tokenEOF positioned after the last rune.
func tokenize(source string) []token {
	runes := []rune(source)
	var tokens []token
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isDigit(r):
			start := i
			for i < len(runes) && isDigit(runes[i]) {
				i++
			}
			tokens = append(tokens, token{tokenNumber, string(runes[start:i]), start, i - start})
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			tokens = append(tokens, token{tokenStarStar, "**", i, 2})
			i += 2
		default:
			if kind, ok := punctuation[r]; ok {
				tokens = append(tokens, token{kind, string(r), i, 1})
				i++
				continue
			}
			start := i
			for i < len(runes) && isIllegal(runes[i]) {
				i++
			}
			tokens = append(tokens, token{tokenIllegal, string(runes[start:i]), start, i - start})
		}
	}
	return append(tokens, token{kind: tokenEOF, position: len(runes)})
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIllegal(r rune) bool {
	_, ok := punctuation[r]
	return !ok && !isDigit(r) && !unicode.IsSpace(r)
}
