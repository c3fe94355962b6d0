package parser

import "fmt"

// SyntaxError is the parser's diagnostic type: a report at the offending
// token's location plus a human-readable message.
type SyntaxError struct {
	Line    int32
	Column  int
	Message string
}

func CreateSyntaxError(line int32, column int, message string) SyntaxError {
	return SyntaxError{
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("line:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
