package token

import "fmt"

// ErrorKind tags which phase produced a diagnostic.
type ErrorKind string

const (
	KindScan    ErrorKind = "Scan"
	KindParse   ErrorKind = "Parse"
	KindResolve ErrorKind = "Resolve"
	KindRuntime ErrorKind = "Runtime"
)

// Error is the shared diagnostic shape for every phase. Tok is nil when no
// source location applies (for example scan errors, which fail before a
// token exists).
type Error struct {
	Kind    ErrorKind
	Tok     *Token
	Message string
}

func (e *Error) Error() string {
	if e.Tok == nil {
		return fmt.Sprintf("%s Error: %s", e.Kind, e.Message)
	}
	lexeme := e.Tok.Lexeme
	if e.Tok.Type == Eof {
		lexeme = "end"
	}
	return fmt.Sprintf(
		"[line %d:%d] %s Error at '%s': %s",
		e.Tok.Pos.Line, e.Tok.Pos.Column, e.Kind, lexeme, e.Message,
	)
}

// NewError builds a diagnostic anchored to tok (which may be nil).
func NewError(kind ErrorKind, tok *Token, message string) *Error {
	var copied *Token
	if tok != nil {
		t := *tok
		copied = &t
	}
	return &Error{Kind: kind, Tok: copied, Message: message}
}
