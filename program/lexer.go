// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package program

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLifetime
	tokInt
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokIdent:
		return "identifier"
	case tokLifetime:
		return "lifetime"
	case tokInt:
		return "integer"
	case tokPunct:
		return "punctuation"
	}
	return "end of input"
}

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) is(text string) bool { return t.kind != tokEOF && t.text == text }

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return "`" + t.text + "`"
}

const punctuation = "<>{}()[],:=!#"

type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

func newLexer(input string) *lexer { return &lexer{input: input, line: 1, col: 1} }

func (l *lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) readRune() rune {
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// skip whitespace and line comments
func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch r := l.peekRune(); {
		case unicode.IsSpace(r):
			l.readRune()
		case strings.HasPrefix(l.input[l.pos:], "//"):
			for l.pos < len(l.input) && l.peekRune() != '\n' {
				l.readRune()
			}
		default:
			return
		}
	}
}

func isIdentRune(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

func (l *lexer) next() (token, error) {
	l.skipSpace()
	tok := token{line: l.line, col: l.col}
	if l.pos >= len(l.input) {
		return tok, nil
	}
	start := l.pos
	r := l.readRune()
	switch {
	case r == '\'':
		for isIdentRune(l.peekRune()) {
			l.readRune()
		}
		if l.pos-start == 1 {
			return tok, errors.Newf("%d:%d: expected lifetime name after '", tok.line, tok.col)
		}
		tok.kind = tokLifetime
	case r == '_' || unicode.IsLetter(r):
		for isIdentRune(l.peekRune()) {
			l.readRune()
		}
		tok.kind = tokIdent
	case unicode.IsDigit(r) || (r == '-' && unicode.IsDigit(l.peekRune())):
		for unicode.IsDigit(l.peekRune()) {
			l.readRune()
		}
		tok.kind = tokInt
	case strings.ContainsRune(punctuation, r):
		tok.kind = tokPunct
	default:
		return tok, errors.Newf("%d:%d: unexpected character %q", tok.line, tok.col, r)
	}
	tok.text = l.input[start:l.pos]
	return tok, nil
}
