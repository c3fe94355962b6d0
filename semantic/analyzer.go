// analyzer.go walks the AST once, populating a scope tree and flagging
// redeclarations and undefined-name references. It is read-only: nothing
// here can abort compilation, matching §9's "semantic pass is not
// authoritative" — the compiler does its own, weaker resolution downstream
// and the two are free to diverge.

package semantic

import (
	"osfl/ast"
	"osfl/token"
)

// Analyzer implements both ast.ExpressionVisitor and ast.StmtVisitor,
// threading a current Scope as it descends into nested blocks.
type Analyzer struct {
	scope  *Scope
	Errors []SemanticError
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{scope: newScope(nil)}
}

// Analyze walks a frame/program's top-level statements and returns the
// collected diagnostics. It never returns early: every statement is
// visited regardless of earlier errors.
func (a *Analyzer) Analyze(statements []ast.Stmt) []SemanticError {
	for _, stmt := range statements {
		stmt.Accept(a)
	}
	return a.Errors
}

// ErrorCount reports the number of diagnostics collected so far (§2 row 3
// "count errors").
func (a *Analyzer) ErrorCount() int {
	return len(a.Errors)
}

func (a *Analyzer) report(tok token.Token, message string) {
	a.Errors = append(a.Errors, CreateSemanticError(tok.Line, tok.Column, message))
}

func (a *Analyzer) pushScope() {
	a.scope = newScope(a.scope)
}

func (a *Analyzer) popScope() {
	if a.scope.parent != nil {
		a.scope = a.scope.parent
	}
}

func (a *Analyzer) declare(name token.Token, isConst bool) {
	if !a.scope.declare(name.Lexeme, isConst) {
		a.report(name, "redeclaration of '"+name.Lexeme+"' in this scope")
	}
}

func (a *Analyzer) walkStatements(statements []ast.Stmt) {
	for _, stmt := range statements {
		stmt.Accept(a)
	}
}

// --- ast.StmtVisitor ---

func (a *Analyzer) VisitBlock(block ast.Block) any {
	a.pushScope()
	a.walkStatements(block.Statements)
	a.popScope()
	return nil
}

func (a *Analyzer) VisitFrame(frame ast.Frame) any {
	a.pushScope()
	a.walkStatements(frame.Body)
	a.popScope()
	return nil
}

func (a *Analyzer) VisitVarDecl(varDecl ast.VarDecl) any {
	if varDecl.Init != nil {
		varDecl.Init.Accept(a)
	}
	a.declare(varDecl.Name, varDecl.IsConst)
	return nil
}

func (a *Analyzer) VisitFuncDecl(funcDecl ast.FuncDecl) any {
	a.declare(funcDecl.Name, true)
	a.pushScope()
	for _, param := range funcDecl.Params {
		a.declare(param, false)
	}
	a.walkStatements(funcDecl.Body)
	a.popScope()
	return nil
}

func (a *Analyzer) VisitClassDecl(classDecl ast.ClassDecl) any {
	a.declare(classDecl.Name, true)
	a.pushScope()
	a.walkStatements(classDecl.Members)
	a.popScope()
	return nil
}

func (a *Analyzer) VisitImport(imp ast.Import) any {
	return nil
}

func (a *Analyzer) VisitIf(ifStmt ast.If) any {
	ifStmt.Condition.Accept(a)
	ifStmt.Then.Accept(a)
	if ifStmt.Else != nil {
		ifStmt.Else.Accept(a)
	}
	return nil
}

func (a *Analyzer) VisitWhile(whileStmt ast.While) any {
	whileStmt.Condition.Accept(a)
	whileStmt.Body.Accept(a)
	return nil
}

func (a *Analyzer) VisitFor(forStmt ast.For) any {
	a.pushScope()
	if forStmt.Init != nil {
		forStmt.Init.Accept(a)
	}
	if forStmt.Condition != nil {
		forStmt.Condition.Accept(a)
	}
	if forStmt.Increment != nil {
		forStmt.Increment.Accept(a)
	}
	forStmt.Body.Accept(a)
	a.popScope()
	return nil
}

// VisitSwitch walks both halves of the binary node (expr and cases) so
// name references inside are still checked, but assigns no special
// case-matching semantics — matching the open question spec.md leaves
// unpinned for Switch.
func (a *Analyzer) VisitSwitch(switchStmt ast.Switch) any {
	switchStmt.Expr.Accept(a)
	switchStmt.Cases.Accept(a)
	return nil
}

func (a *Analyzer) VisitTryCatch(tryCatch ast.TryCatch) any {
	tryCatch.Try.Accept(a)
	if tryCatch.Catch != nil {
		tryCatch.Catch.Accept(a)
	}
	return nil
}

func (a *Analyzer) VisitOnError(onError ast.OnError) any {
	onError.Body.Accept(a)
	return nil
}

func (a *Analyzer) VisitReturn(ret ast.Return) any {
	if ret.Expr != nil {
		ret.Expr.Accept(a)
	}
	return nil
}

func (a *Analyzer) VisitExprStmt(exprStmt ast.ExprStmt) any {
	exprStmt.Expression.Accept(a)
	return nil
}

// --- ast.ExpressionVisitor ---

func (a *Analyzer) VisitLiteral(literal ast.Literal) any {
	return nil
}

func (a *Analyzer) VisitIdentifier(identifier ast.Identifier) any {
	if _, found := a.scope.resolve(identifier.Name.Lexeme); !found {
		a.report(identifier.Name, "undefined name '"+identifier.Name.Lexeme+"'")
	}
	return nil
}

// VisitBinary also covers assignment (§3's Binary node doubles as Assign).
// A const left-hand identifier that resolves successfully is flagged as
// an invalid assignment target.
func (a *Analyzer) VisitBinary(binary ast.Binary) any {
	binary.Left.Accept(a)
	binary.Right.Accept(a)
	if isAssignOperator(binary.Operator.TokenType) {
		if ident, ok := binary.Left.(ast.Identifier); ok {
			if isConst, found := a.scope.resolve(ident.Name.Lexeme); found && isConst {
				a.report(ident.Name, "cannot assign to const '"+ident.Name.Lexeme+"'")
			}
		}
	}
	return nil
}

func isAssignOperator(t token.TokenType) bool {
	switch t {
	case token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN, token.MULT_ASSIGN,
		token.DIV_ASSIGN, token.MOD_ASSIGN:
		return true
	default:
		return false
	}
}

func (a *Analyzer) VisitUnary(unary ast.Unary) any {
	unary.Right.Accept(a)
	return nil
}

func (a *Analyzer) VisitCall(call ast.Call) any {
	call.Callee.Accept(a)
	for _, arg := range call.Args {
		arg.Accept(a)
	}
	return nil
}

func (a *Analyzer) VisitIndex(index ast.Index) any {
	index.Object.Accept(a)
	index.Key.Accept(a)
	return nil
}

func (a *Analyzer) VisitMember(member ast.Member) any {
	member.Object.Accept(a)
	return nil
}

func (a *Analyzer) VisitInterpolation(interp ast.Interpolation) any {
	interp.Expr.Accept(a)
	return nil
}

func (a *Analyzer) VisitDocstring(doc ast.Docstring) any {
	return nil
}

func (a *Analyzer) VisitRegex(regex ast.Regex) any {
	return nil
}
