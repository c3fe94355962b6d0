// interfaces.go contains all visitor interfaces that any code traversing expression and statement AST nodes must implement.
// It also contains the interfaces that all statement and expression AST nodes must implement which also follows the
// visitor design pattern

package ast

// ExpressionVisitor is the interface for operating on all Expression AST nodes.
// Any type that wants to perform an operation on expressions (e.g., a compiler,
// ast-printer, or semantic pass) must implement this interface.
//
// Each Visit method corresponds to a distinct Expression type.
type ExpressionVisitor interface {
	VisitLiteral(literal Literal) any
	VisitIdentifier(identifier Identifier) any
	VisitBinary(binary Binary) any
	VisitUnary(unary Unary) any
	VisitCall(call Call) any
	VisitIndex(index Index) any
	VisitMember(member Member) any
	VisitInterpolation(interp Interpolation) any
	VisitDocstring(doc Docstring) any
	VisitRegex(regex Regex) any
}

// StmtVisitor is the interface for operating on all Statement AST nodes,
// declarations included (a declaration is parsed into a statement slot, per
// the grammar's `declaration = frame | func | class | import | var |
// statement`).
type StmtVisitor interface {
	VisitBlock(block Block) any
	VisitFrame(frame Frame) any
	VisitVarDecl(varDecl VarDecl) any
	VisitFuncDecl(funcDecl FuncDecl) any
	VisitClassDecl(classDecl ClassDecl) any
	VisitImport(imp Import) any
	VisitIf(ifStmt If) any
	VisitWhile(whileStmt While) any
	VisitFor(forStmt For) any
	VisitSwitch(switchStmt Switch) any
	VisitTryCatch(tryCatch TryCatch) any
	VisitOnError(onError OnError) any
	VisitReturn(ret Return) any
	VisitExprStmt(exprStmt ExprStmt) any
}

// Stmt is the base interface for all statement nodes in the AST.
// Like Expression, it follows the Visitor design pattern where each
// statement type implements Accept, calling back into the correct
// Visit method on a StmtVisitor.
type Stmt interface {
	Accept(v StmtVisitor) any
}

// Expression is the core interface for all expression nodes in the AST.
// The Accept method enables the Visitor design pattern so that operations
// can be performed on expressions without the expression types needing to
// know the details of those operations.
type Expression interface {
	Accept(v ExpressionVisitor) any
}
