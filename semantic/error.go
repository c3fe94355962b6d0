package semantic

import "fmt"

// SemanticError is a single diagnostic raised by the analyzer. It is never
// fatal on its own — the analyzer collects these and keeps walking (§9
// "semantic pass is not authoritative").
type SemanticError struct {
	Line    int32
	Column  int
	Message string
}

func CreateSemanticError(line int32, column int, message string) SemanticError {
	return SemanticError{Line: line, Column: column, Message: message}
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("line:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
