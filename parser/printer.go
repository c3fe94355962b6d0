package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"osfl/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements both visitor interfaces and builds a JSON-friendly
// representation of the AST using maps and slices. Each Visit method
// returns an object that can be marshaled to JSON.
type astPrinter struct{}

func nilOrAccept(expr ast.Expression, p ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

func nilOrAcceptStmt(stmt ast.Stmt, p ast.StmtVisitor) any {
	if stmt == nil {
		return nil
	}
	return stmt.Accept(p)
}

func acceptAll(stmts []ast.Stmt, p ast.StmtVisitor) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.Accept(p))
	}
	return out
}

func (p astPrinter) VisitBlock(block ast.Block) any {
	return map[string]any{"type": "Block", "statements": acceptAll(block.Statements, p)}
}

func (p astPrinter) VisitFrame(frame ast.Frame) any {
	return map[string]any{"type": "Frame", "name": frame.Name.Lexeme, "body": acceptAll(frame.Body, p)}
}

func (p astPrinter) VisitVarDecl(varDecl ast.VarDecl) any {
	return map[string]any{
		"type":    "VarDecl",
		"name":    varDecl.Name.Lexeme,
		"isConst": varDecl.IsConst,
		"init":    nilOrAccept(varDecl.Init, p),
	}
}

func (p astPrinter) VisitFuncDecl(funcDecl ast.FuncDecl) any {
	params := make([]string, 0, len(funcDecl.Params))
	for _, param := range funcDecl.Params {
		params = append(params, param.Lexeme)
	}
	return map[string]any{
		"type":   "FuncDecl",
		"name":   funcDecl.Name.Lexeme,
		"params": params,
		"body":   acceptAll(funcDecl.Body, p),
	}
}

func (p astPrinter) VisitClassDecl(classDecl ast.ClassDecl) any {
	return map[string]any{
		"type":    "ClassDecl",
		"name":    classDecl.Name.Lexeme,
		"members": acceptAll(classDecl.Members, p),
	}
}

func (p astPrinter) VisitImport(imp ast.Import) any {
	return map[string]any{"type": "Import", "path": imp.Path.Literal}
}

func (p astPrinter) VisitIf(ifStmt ast.If) any {
	return map[string]any{
		"type":      "If",
		"condition": ifStmt.Condition.Accept(p),
		"then":      ifStmt.Then.Accept(p),
		"else":      nilOrAcceptStmt(ifStmt.Else, p),
	}
}

func (p astPrinter) VisitWhile(whileStmt ast.While) any {
	return map[string]any{
		"type":      "While",
		"condition": whileStmt.Condition.Accept(p),
		"body":      whileStmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitFor(forStmt ast.For) any {
	return map[string]any{
		"type":      "For",
		"init":      nilOrAcceptStmt(forStmt.Init, p),
		"condition": nilOrAccept(forStmt.Condition, p),
		"increment": nilOrAccept(forStmt.Increment, p),
		"body":      forStmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitSwitch(switchStmt ast.Switch) any {
	return map[string]any{
		"type":  "Switch",
		"expr":  switchStmt.Expr.Accept(p),
		"cases": switchStmt.Cases.Accept(p),
	}
}

func (p astPrinter) VisitTryCatch(tryCatch ast.TryCatch) any {
	var catch any
	if tryCatch.Catch != nil {
		catch = tryCatch.Catch.Accept(p)
	}
	return map[string]any{"type": "TryCatch", "try": tryCatch.Try.Accept(p), "catch": catch}
}

func (p astPrinter) VisitOnError(onError ast.OnError) any {
	return map[string]any{"type": "OnError", "body": onError.Body.Accept(p)}
}

func (p astPrinter) VisitReturn(ret ast.Return) any {
	return map[string]any{"type": "Return", "expr": nilOrAccept(ret.Expr, p)}
}

func (p astPrinter) VisitExprStmt(exprStmt ast.ExprStmt) any {
	return map[string]any{"type": "ExprStmt", "expression": exprStmt.Expression.Accept(p)}
}

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": b.Operator.Lexeme,
		"left":     b.Left.Accept(p),
		"right":    b.Right.Accept(p),
	}
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return map[string]any{"type": "Unary", "operator": u.Operator.Lexeme, "right": u.Right.Accept(p)}
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	return l.Value
}

func (p astPrinter) VisitIdentifier(identifier ast.Identifier) any {
	return map[string]any{"type": "Identifier", "name": identifier.Name.Lexeme}
}

func (p astPrinter) VisitCall(call ast.Call) any {
	args := make([]any, 0, len(call.Args))
	for _, a := range call.Args {
		args = append(args, a.Accept(p))
	}
	return map[string]any{"type": "Call", "callee": call.Callee.Accept(p), "args": args}
}

func (p astPrinter) VisitIndex(index ast.Index) any {
	return map[string]any{"type": "Index", "object": index.Object.Accept(p), "key": index.Key.Accept(p)}
}

func (p astPrinter) VisitMember(member ast.Member) any {
	return map[string]any{"type": "Member", "object": member.Object.Accept(p), "name": member.Name.Lexeme}
}

func (p astPrinter) VisitInterpolation(interp ast.Interpolation) any {
	return map[string]any{"type": "Interpolation", "expr": interp.Expr.Accept(p)}
}

func (p astPrinter) VisitDocstring(doc ast.Docstring) any {
	return map[string]any{"type": "Docstring", "text": doc.Text}
}

func (p astPrinter) VisitRegex(regex ast.Regex) any {
	return map[string]any{"type": "Regex", "text": regex.Text}
}

// PrintASTJSON converts a slice of statements into a prettified JSON string.
// It also echoes that JSON to stdout between colored header lines.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON to the given file path.
// It builds the JSON through PrintASTJSON, so the JSON is echoed to stdout
// as well.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	s, err := PrintASTJSON(statements)
	if err != nil {
		return err
	}
	fDescriptor, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer fDescriptor.Close()

	if _, err := fDescriptor.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
