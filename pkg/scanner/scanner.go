// Package scanner turns source text into a token stream. Comments and
// whitespace are kept as trivia tokens so later stages can mine them; the
// parser filters them out with token.CanSkip.
package scanner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Shadlock0133/lox/pkg/token"
)

type Scanner struct {
	source  string
	start   int
	current int
	pos     token.Position
	hadEOF  bool
}

func New(source string) *Scanner {
	return &Scanner{
		source: source,
		pos:    token.Position{Line: 1, Column: 0},
	}
}

// ScanTokens consumes the whole source, returning every token including
// trivia and a trailing Eof. It stops at the first lexical error.
func ScanTokens(source string) ([]token.Token, error) {
	s := New(source)
	var tokens []token.Token
	for {
		tok, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Filtered scans the whole source and drops trivia, which is the stream the
// parser wants.
func Filtered(source string) ([]token.Token, error) {
	all, err := ScanTokens(source)
	if err != nil {
		return nil, err
	}
	kept := all[:0]
	for _, tok := range all {
		if !tok.CanSkip() {
			kept = append(kept, tok)
		}
	}
	return kept, nil
}

// Next produces one token. ok is false once the Eof token has been emitted.
func (s *Scanner) Next() (tok token.Token, ok bool, err error) {
	if s.hadEOF {
		return token.Token{}, false, nil
	}
	tok, err = s.scanToken()
	if err != nil {
		return token.Token{}, false, err
	}
	return tok, true, nil
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current:])
	return r
}

func (s *Scanner) peekNext() rune {
	if s.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(s.source[s.current:])
	if s.current+size >= len(s.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current+size:])
	return r
}

func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.source[s.current:])
	s.current += size
	s.pos.Column++
	return r
}

func (s *Scanner) match(expected rune) bool {
	if s.isAtEnd() || s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) newline() {
	s.pos.Line++
	s.pos.Column = 0
}

func (s *Scanner) makeToken(typ token.Type, literal any) token.Token {
	return token.Token{
		Type:    typ,
		Lexeme:  s.source[s.start:s.current],
		Literal: literal,
		Pos:     s.pos,
	}
}

func (s *Scanner) fromType(typ token.Type) token.Token {
	return s.makeToken(typ, nil)
}

func scanError(format string, args ...any) error {
	return token.NewError(token.KindScan, nil, fmt.Sprintf(format, args...))
}

func (s *Scanner) scanToken() (token.Token, error) {
	s.start = s.current
	if s.isAtEnd() {
		s.hadEOF = true
		return s.fromType(token.Eof), nil
	}

	c := s.advance()
	switch c {
	case '(':
		return s.fromType(token.LeftParen), nil
	case ')':
		return s.fromType(token.RightParen), nil
	case '{':
		return s.fromType(token.LeftBrace), nil
	case '}':
		return s.fromType(token.RightBrace), nil
	case ',':
		return s.fromType(token.Comma), nil
	case '.':
		return s.fromType(token.Dot), nil
	case '-':
		return s.fromType(token.Minus), nil
	case '+':
		return s.fromType(token.Plus), nil
	case ';':
		return s.fromType(token.Semicolon), nil
	case '*':
		return s.fromType(token.Star), nil
	case '!':
		if s.match('=') {
			return s.fromType(token.BangEqual), nil
		}
		return s.fromType(token.Bang), nil
	case '=':
		if s.match('=') {
			return s.fromType(token.EqualEqual), nil
		}
		return s.fromType(token.Equal), nil
	case '>':
		if s.match('=') {
			return s.fromType(token.GreaterEqual), nil
		}
		return s.fromType(token.Greater), nil
	case '<':
		if s.match('=') {
			return s.fromType(token.LessEqual), nil
		}
		return s.fromType(token.Less), nil
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
			return s.fromType(token.Comment), nil
		}
		return s.fromType(token.Slash), nil
	case ' ', '\r', '\t':
		return s.fromType(token.Whitespace), nil
	case '\n':
		s.newline()
		return s.fromType(token.Whitespace), nil
	case '"':
		return s.string()
	default:
		if isDigit(c) {
			return s.number(), nil
		}
		if isAlpha(c) {
			return s.identifier(), nil
		}
		return token.Token{}, scanError("Unexpected character: %c", c)
	}
}

// string scans to the closing quote. Strings may span lines; carriage
// returns are dropped from the literal. There is no escape syntax.
func (s *Scanner) string() (token.Token, error) {
	var value strings.Builder
	for {
		if s.isAtEnd() {
			return token.Token{}, scanError("Unterminated string")
		}
		c := s.peek()
		if c == '"' {
			break
		}
		if c == '\n' {
			s.newline()
		}
		if c != '\r' {
			value.WriteRune(c)
		}
		s.advance()
	}
	s.advance() // closing quote
	return s.makeToken(token.String, value.String()), nil
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, _ := strconv.ParseFloat(s.source[s.start:s.current], 64)
	return s.makeToken(token.Number, value)
}

func (s *Scanner) identifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := s.source[s.start:s.current]
	if typ, ok := token.Keywords[lexeme]; ok {
		return s.fromType(typ)
	}
	return s.fromType(token.Identifier)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c rune) bool {
	return isAlpha(c) || isDigit(c) || c == '_'
}
