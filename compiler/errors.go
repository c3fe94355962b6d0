package compiler

import "fmt"

// CompileError is the compiler's diagnostic type. Per §7's propagation
// policy the compiler "emits messages and continues; it always returns
// bytecode" — CompileErrors accumulate on ASTCompiler.Errors rather than
// aborting CompileAST, replacing the teacher's panic/recover-based
// SemanticError/DeveloperError pair.
type CompileError struct {
	Line    int32
	Column  int
	Message string
}

func CreateCompileError(line int32, column int, message string) CompileError {
	return CompileError{Line: line, Column: column, Message: message}
}

func (e CompileError) Error() string {
	return fmt.Sprintf("line:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
