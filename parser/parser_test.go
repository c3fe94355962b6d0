package parser

import (
	"testing"

	"osfl/ast"
	"osfl/lexer"
	"osfl/token"
)

func scanTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	lex := lexer.New(src, lexer.DefaultConfig("test.osfl"))
	tokens, err := lex.Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return tokens
}

func TestParseFrameWithVarDecl(t *testing.T) {
	stmts, errs := Make(scanTokens(t, `frame Main { var x = 1; }`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	frame, ok := stmts[0].(ast.Frame)
	if !ok {
		t.Fatalf("expected ast.Frame, got %T", stmts[0])
	}
	if frame.Name.Lexeme != "Main" {
		t.Errorf("frame name = %q, want %q", frame.Name.Lexeme, "Main")
	}
	if len(frame.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(frame.Body))
	}
	varDecl, ok := frame.Body[0].(ast.VarDecl)
	if !ok {
		t.Fatalf("expected ast.VarDecl, got %T", frame.Body[0])
	}
	if varDecl.IsConst {
		t.Error("expected 'var' to produce IsConst = false")
	}
}

func TestParseConstDecl(t *testing.T) {
	stmts, errs := Make(scanTokens(t, `const pi = 3;`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	varDecl, ok := stmts[0].(ast.VarDecl)
	if !ok {
		t.Fatalf("expected ast.VarDecl, got %T", stmts[0])
	}
	if !varDecl.IsConst {
		t.Error("expected 'const' to produce IsConst = true")
	}
}

func TestParseFuncDeclWithParams(t *testing.T) {
	stmts, errs := Make(scanTokens(t, `func add(a, b) { return a + b; }`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	funcDecl, ok := stmts[0].(ast.FuncDecl)
	if !ok {
		t.Fatalf("expected ast.FuncDecl, got %T", stmts[0])
	}
	if len(funcDecl.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(funcDecl.Params))
	}
	if len(funcDecl.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(funcDecl.Body))
	}
	ret, ok := funcDecl.Body[0].(ast.Return)
	if !ok {
		t.Fatalf("expected ast.Return, got %T", funcDecl.Body[0])
	}
	binary, ok := ret.Expr.(ast.Binary)
	if !ok {
		t.Fatalf("expected ast.Binary, got %T", ret.Expr)
	}
	if binary.Operator.TokenType != token.ADD {
		t.Errorf("operator = %v, want ADD", binary.Operator.TokenType)
	}
}

func TestParseAssignmentLowersToBinary(t *testing.T) {
	stmts, errs := Make(scanTokens(t, `x = 1;`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	exprStmt, ok := stmts[0].(ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ast.ExprStmt, got %T", stmts[0])
	}
	binary, ok := exprStmt.Expression.(ast.Binary)
	if !ok {
		t.Fatalf("expected assignment to lower to ast.Binary, got %T", exprStmt.Expression)
	}
	if binary.Operator.TokenType != token.ASSIGN {
		t.Errorf("operator = %v, want ASSIGN", binary.Operator.TokenType)
	}
	if _, ok := binary.Left.(ast.Identifier); !ok {
		t.Errorf("expected assignment target to be ast.Identifier, got %T", binary.Left)
	}
}

func TestParseIfElse(t *testing.T) {
	stmts, errs := Make(scanTokens(t, `if (1) { x = 1; } else { x = 2; }`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	ifStmt, ok := stmts[0].(ast.If)
	if !ok {
		t.Fatalf("expected ast.If, got %T", stmts[0])
	}
	if ifStmt.Else == nil {
		t.Error("expected an else branch")
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3): the outer node is '+'.
	stmts, errs := Make(scanTokens(t, `x = 1 + 2 * 3;`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	exprStmt := stmts[0].(ast.ExprStmt)
	assign := exprStmt.Expression.(ast.Binary)
	sum := assign.Right.(ast.Binary)
	if sum.Operator.TokenType != token.ADD {
		t.Fatalf("expected the top-level operator to be '+', got %v", sum.Operator.TokenType)
	}
	product, ok := sum.Right.(ast.Binary)
	if !ok || product.Operator.TokenType != token.MULT {
		t.Fatalf("expected the right operand to be a '*' node, got %#v", sum.Right)
	}
}

func TestParseCallExpression(t *testing.T) {
	stmts, errs := Make(scanTokens(t, `print("hi");`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	exprStmt := stmts[0].(ast.ExprStmt)
	call, ok := exprStmt.Expression.(ast.Call)
	if !ok {
		t.Fatalf("expected ast.Call, got %T", exprStmt.Expression)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(call.Args))
	}
}

func TestParseMemberAndIndex(t *testing.T) {
	stmts, errs := Make(scanTokens(t, `x = obj.field; y = list[0];`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	first := stmts[0].(ast.ExprStmt).Expression.(ast.Binary)
	if _, ok := first.Right.(ast.Member); !ok {
		t.Errorf("expected ast.Member, got %T", first.Right)
	}
	second := stmts[1].(ast.ExprStmt).Expression.(ast.Binary)
	if _, ok := second.Right.(ast.Index); !ok {
		t.Errorf("expected ast.Index, got %T", second.Right)
	}
}

func TestParseSwitchProducesBinaryNode(t *testing.T) {
	stmts, errs := Make(scanTokens(t, `switch (x) { case 1: y = 1; }`)).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if _, ok := stmts[0].(ast.Switch); !ok {
		t.Fatalf("expected ast.Switch, got %T", stmts[0])
	}
}

func TestParseUnterminatedBlockReportsSyntaxError(t *testing.T) {
	_, errs := Make(scanTokens(t, `frame Main { var x = 1;`)).Parse()
	if len(errs) == 0 {
		t.Fatal("expected a syntax error for an unterminated block")
	}
	if _, ok := errs[0].(SyntaxError); !ok {
		t.Errorf("expected a SyntaxError, got %T", errs[0])
	}
}
