package lexer

import "fmt"

// ErrorKind classifies a lexical error. Names mirror the error taxonomy the
// rest of the pipeline's stages use for their own error types.
type ErrorKind string

const (
	InvalidChar        ErrorKind = "InvalidChar"
	UnterminatedString  ErrorKind = "UnterminatedString"
	UnterminatedComment ErrorKind = "UnterminatedComment"
	InvalidEscape       ErrorKind = "InvalidEscape"
	BufferOverflow      ErrorKind = "BufferOverflow"
	Memory              ErrorKind = "Memory"
)

// maxInlineLen is the longest string literal body the lexer will accept
// inline before failing with BufferOverflow.
const maxInlineLen = 63

// LexError is the lexer's diagnostic type. It attaches the location at
// which the offending construct began, not the position scanning stopped.
type LexError struct {
	Kind    ErrorKind
	File    string
	Line    int32
	Column  int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Error in %s at line %d, column %d:\nError: %s", e.File, e.Line, e.Column, e.Message)
}

func newError(kind ErrorKind, file string, line int32, column int, message string) *LexError {
	return &LexError{Kind: kind, File: file, Line: line, Column: column, Message: message}
}
