// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser

//	A Recursive descent parser is a top-down parser because it starts from the top
//
// grammar rule and works its way down in to the nested sub-experessions before reaching
// the leaves of the syntax tree (terminal rules)
package parser

import (
	"fmt"

	"osfl/ast"
	"osfl/token"
)

var assignTokenTypes = []token.TokenType{
	token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN,
	token.MULT_ASSIGN, token.DIV_ASSIGN, token.MOD_ASSIGN,
}

var bitwiseOrTypes = []token.TokenType{token.BIT_OR}
var bitwiseXorTypes = []token.TokenType{token.BIT_XOR}
var bitwiseAndTypes = []token.TokenType{token.BIT_AND}

var equalityTokenTypes = []token.TokenType{
	token.NOT_EQUAL,
	token.EQUAL_EQUAL,
}

var comparisonTokenTypes = []token.TokenType{
	token.LARGER,
	token.LARGER_EQUAL,
	token.LESS,
	token.LESS_EQUAL,
}

var termTokenTypes = []token.TokenType{
	token.SUB,
	token.ADD,
}

var factorExpressionTypes = []token.TokenType{
	token.MULT,
	token.DIV,
	token.MOD,
}

var powerExpressionTypes = []token.TokenType{token.POW}

var unaryExpressionTypes = []token.TokenType{
	token.BANG,
	token.SUB,
	token.ADD,
	token.BIT_NOT,
	token.INCR,
	token.DECR,
}

var literalTokenTypes = []token.TokenType{
	token.INT, token.FLOAT, token.STRING, token.BOOL,
}

// Parser turns a flat token array into an AST via recursive descent with
// Pratt-style precedence climbing for expressions. It does not own the
// tokens' lifetimes beyond the Parse call.
type Parser struct {
	tokens   []token.Token
	position int
}

// NOTE: The parser's position is always one unit ahead of the
// current token once advance() has been called.

// Make constructs a new Parser over the given token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, position: 0}
}

// Print prints the AST as prettified JSON to standard output.
func (parser *Parser) Print(statements []ast.Stmt) {
	_, err := PrintASTJSON(statements)
	if err != nil {
		fmt.Println("error producing AST JSON:", err)
	}
}

// PrintToFile writes the AST for the provided statements to a .json file.
func (parser *Parser) PrintToFile(statements []ast.Stmt, path string) error {
	return WriteASTJSONToFile(statements, path)
}

func (parser *Parser) isTransparent() bool {
	if parser.position >= len(parser.tokens) {
		return false
	}
	t := parser.tokens[parser.position].TokenType
	return t == token.NEWLINE || t == token.WHITESPACE
}

// skipTransparent advances past any Newline/Whitespace tokens. Whitespace
// and newline tokens are transparent to peek/advance regardless of whether
// the lexer emitted them (§4.2).
func (parser *Parser) skipTransparent() {
	for parser.isTransparent() {
		parser.position++
	}
}

func (parser *Parser) peek() token.Token {
	parser.skipTransparent()
	return parser.tokens[parser.position]
}

func (parser *Parser) previous() token.Token {
	pos := parser.position - 1
	for pos > 0 && (parser.tokens[pos].TokenType == token.NEWLINE || parser.tokens[pos].TokenType == token.WHITESPACE) {
		pos--
	}
	return parser.tokens[pos]
}

func (parser *Parser) advance() token.Token {
	parser.skipTransparent()
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

func (parser *Parser) isFinished() bool {
	return parser.peek().TokenType == token.EOF
}

func (parser *Parser) checkType(tokenType token.TokenType) bool {
	if parser.isFinished() {
		return tokenType == token.EOF
	}
	return parser.peek().TokenType == tokenType
}

func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token if it matches tokenType, otherwise
// it reports a SyntaxError at the current token's location without
// advancing (§4.2 "report the location ... and continue with the current
// token").
func (parser *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	current := parser.peek()
	return token.Token{}, CreateSyntaxError(current.Line, current.Column, errorMessage)
}

// optionalSemicolon consumes a trailing ';' if present; semicolons are
// optional terminators for declarations and statements (§4.2).
func (parser *Parser) optionalSemicolon() {
	if parser.checkType(token.SEMICOLON) {
		parser.advance()
	}
}

// Parse parses the entire token stream into a slice of Stmt nodes,
// continuing until the end of input. Errors during parsing are collected
// but parsing continues to find additional errors where possible.
func (parser *Parser) Parse() ([]ast.Stmt, []error) {
	statements := []ast.Stmt{}
	errors := []error{}

	for !parser.isFinished() {
		statement, err := parser.declaration()
		if err != nil {
			errors = append(errors, err)
			if !parser.isFinished() {
				parser.advance()
			}
			continue
		}
		statements = append(statements, statement)
	}

	return statements, errors
}

// declaration = frame | func | class | import | var | statement
func (parser *Parser) declaration() (ast.Stmt, error) {
	switch {
	case parser.isMatch([]token.TokenType{token.FRAME}):
		return parser.frameDeclaration()
	case parser.isMatch([]token.TokenType{token.FUNC}):
		return parser.funcDeclaration()
	case parser.isMatch([]token.TokenType{token.CLASS}):
		return parser.classDeclaration()
	case parser.isMatch([]token.TokenType{token.IMPORT}):
		return parser.importDeclaration()
	case parser.isMatch([]token.TokenType{token.VAR, token.CONST}):
		return parser.varDeclaration()
	default:
		return parser.statement()
	}
}

// frame = 'frame' IDENT '{' { declaration } '}'
func (parser *Parser) frameDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "expected a frame name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' after frame name"); err != nil {
		return nil, err
	}
	body, err := parser.declarationsUntil(token.RCUR)
	if err != nil {
		return nil, err
	}
	return ast.Frame{Name: name, Body: body}, nil
}

// var = ('var'|'const') IDENT [ '=' expression ] ';'?
func (parser *Parser) varDeclaration() (ast.Stmt, error) {
	isConst := parser.previous().TokenType == token.CONST
	name, err := parser.consume(token.IDENTIFIER, "expected a variable name")
	if err != nil {
		return nil, err
	}
	var init ast.Expression
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		init, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	parser.optionalSemicolon()
	return ast.VarDecl{Name: name, IsConst: isConst, Init: init}, nil
}

// func = 'func' IDENT '(' [ IDENT { ',' IDENT } ] ')' block
func (parser *Parser) funcDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "expected a function name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LPA, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []token.Token
	if !parser.checkType(token.RPA) {
		for {
			p, err := parser.consume(token.IDENTIFIER, "expected a parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, p)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' to begin function body"); err != nil {
		return nil, err
	}
	body, err := parser.declarationsUntil(token.RCUR)
	if err != nil {
		return nil, err
	}
	return ast.FuncDecl{Name: name, Params: params, Body: body}, nil
}

// class = 'class' IDENT '{' { declaration } '}'
func (parser *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "expected a class name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' after class name"); err != nil {
		return nil, err
	}
	members, err := parser.declarationsUntil(token.RCUR)
	if err != nil {
		return nil, err
	}
	return ast.ClassDecl{Name: name, Members: members}, nil
}

// import = 'import' STRING ';'?
func (parser *Parser) importDeclaration() (ast.Stmt, error) {
	path, err := parser.consume(token.STRING, "expected a module path string")
	if err != nil {
		return nil, err
	}
	parser.optionalSemicolon()
	return ast.Import{Path: path}, nil
}

// declarationsUntil parses declarations until `closing` is consumed or input
// ends, and is used for frame/func/class bodies and for block statements —
// blocks accept the same declaration grammar as their enclosing scope so
// local var/const declarations are legal inside them.
func (parser *Parser) declarationsUntil(closing token.TokenType) ([]ast.Stmt, error) {
	var statements []ast.Stmt
	for !parser.checkType(closing) && !parser.isFinished() {
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := parser.consume(closing, fmt.Sprintf("expected '%s'", closing)); err != nil {
		return nil, err
	}
	return statements, nil
}

// statement = if | while | for | switch | try | on_error | return
//           | block | exprStmt
func (parser *Parser) statement() (ast.Stmt, error) {
	switch {
	case parser.isMatch([]token.TokenType{token.IF}):
		return parser.ifStatement()
	case parser.isMatch([]token.TokenType{token.WHILE}):
		return parser.whileStatement()
	case parser.isMatch([]token.TokenType{token.FOR}):
		return parser.forStatement()
	case parser.isMatch([]token.TokenType{token.SWITCH}):
		return parser.switchStatement()
	case parser.isMatch([]token.TokenType{token.TRY}):
		return parser.tryCatchStatement()
	case parser.isMatch([]token.TokenType{token.ON_ERROR}):
		return parser.onErrorStatement()
	case parser.isMatch([]token.TokenType{token.RETURN}):
		return parser.returnStatement()
	case parser.isMatch([]token.TokenType{token.LCUR}):
		stmts, err := parser.declarationsUntil(token.RCUR)
		if err != nil {
			return nil, err
		}
		return ast.Block{Statements: stmts}, nil
	default:
		return parser.exprStatement()
	}
}

func (parser *Parser) ifStatement() (ast.Stmt, error) {
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	then, err := parser.statement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if parser.isMatch([]token.TokenType{token.ELSE, token.ELIF}) {
		wasElif := parser.previous().TokenType == token.ELIF
		if wasElif {
			elseStmt, err = parser.ifStatement()
		} else {
			elseStmt, err = parser.statement()
		}
		if err != nil {
			return nil, err
		}
	}
	return ast.If{Condition: cond, Then: then, Else: elseStmt}, nil
}

func (parser *Parser) whileStatement() (ast.Stmt, error) {
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	body, err := parser.statement()
	if err != nil {
		return nil, err
	}
	return ast.While{Condition: cond, Body: body}, nil
}

// for = 'for' '(' [ declaration ] ';' [ expression ] ';' [ expression ] ')' statement
func (parser *Parser) forStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	if parser.checkType(token.SEMICOLON) {
		parser.advance()
	} else if parser.isMatch([]token.TokenType{token.VAR, token.CONST}) {
		init, err = parser.varDeclaration()
		if err != nil {
			return nil, err
		}
	} else {
		init, err = parser.exprStatement()
		if err != nil {
			return nil, err
		}
	}

	var cond ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		cond, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr ast.Expression
	if !parser.checkType(token.RPA) {
		incr, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := parser.statement()
	if err != nil {
		return nil, err
	}
	return ast.For{Init: init, Condition: cond, Increment: incr, Body: body}, nil
}

// switch is modeled as a binary node (§3): the switched expression and a
// case block. §9 leaves case-matching semantics unpinned; 'case'/'default'
// labels are consumed but produce no dedicated node, matching "cases are
// parsed as generic statements".
func (parser *Parser) switchStatement() (ast.Stmt, error) {
	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' after switch expression"); err != nil {
		return nil, err
	}

	var statements []ast.Stmt
	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		if parser.isMatch([]token.TokenType{token.CASE}) {
			if _, err := parser.expression(); err != nil {
				return nil, err
			}
			if _, err := parser.consume(token.COLON, "expected ':' after case expression"); err != nil {
				return nil, err
			}
			continue
		}
		if parser.isMatch([]token.TokenType{token.DEFAULT}) {
			if _, err := parser.consume(token.COLON, "expected ':' after 'default'"); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := parser.consume(token.RCUR, "expected '}' to close switch"); err != nil {
		return nil, err
	}
	return ast.Switch{Expr: expr, Cases: ast.Block{Statements: statements}}, nil
}

func (parser *Parser) block() (ast.Block, error) {
	if _, err := parser.consume(token.LCUR, "expected '{'"); err != nil {
		return ast.Block{}, err
	}
	stmts, err := parser.declarationsUntil(token.RCUR)
	if err != nil {
		return ast.Block{}, err
	}
	return ast.Block{Statements: stmts}, nil
}

// try = 'try' block [ 'catch' block ]
func (parser *Parser) tryCatchStatement() (ast.Stmt, error) {
	tryBlock, err := parser.block()
	if err != nil {
		return nil, err
	}
	var catchBlock *ast.Block
	if parser.isMatch([]token.TokenType{token.CATCH}) {
		cb, err := parser.block()
		if err != nil {
			return nil, err
		}
		catchBlock = &cb
	}
	return ast.TryCatch{Try: tryBlock, Catch: catchBlock}, nil
}

func (parser *Parser) onErrorStatement() (ast.Stmt, error) {
	body, err := parser.block()
	if err != nil {
		return nil, err
	}
	return ast.OnError{Body: body}, nil
}

// return = 'return' [ expression ] ';'?
func (parser *Parser) returnStatement() (ast.Stmt, error) {
	keyword := parser.previous()
	var expr ast.Expression
	if !parser.checkType(token.SEMICOLON) && !parser.checkType(token.RCUR) && !parser.isFinished() {
		var err error
		expr, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	parser.optionalSemicolon()
	return ast.Return{Keyword: keyword, Expr: expr}, nil
}

// exprStmt = expression ';'?
func (parser *Parser) exprStatement() (ast.Stmt, error) {
	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	parser.optionalSemicolon()
	return ast.ExprStmt{Expression: expr}, nil
}

// expression is the entry point for parsing expressions, beginning at the
// lowest-precedence rule (assignment).
func (parser *Parser) expression() (ast.Expression, error) {
	return parser.assignment()
}

// assignment is right-associative and includes = += -= *= /= %=; the parser
// lowers it directly into a Binary node (§3: no separate Assign node).
func (parser *Parser) assignment() (ast.Expression, error) {
	expr, err := parser.logicalOr()
	if err != nil {
		return nil, err
	}
	if parser.isMatch(assignTokenTypes) {
		op := parser.previous()
		value, err := parser.assignment()
		if err != nil {
			return nil, err
		}
		switch expr.(type) {
		case ast.Identifier, ast.Index, ast.Member:
			return ast.Binary{Left: expr, Operator: op, Right: value}, nil
		default:
			return nil, CreateSyntaxError(op.Line, op.Column, "invalid assignment target")
		}
	}
	return expr, nil
}

func (parser *Parser) binaryLevel(next func() (ast.Expression, error), ops []token.TokenType) (ast.Expression, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(ops) {
		op := parser.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (parser *Parser) logicalOr() (ast.Expression, error) {
	return parser.binaryLevel(parser.logicalAnd, []token.TokenType{token.OR, token.OROR})
}

func (parser *Parser) logicalAnd() (ast.Expression, error) {
	return parser.binaryLevel(parser.bitwiseOr, []token.TokenType{token.AND, token.ANDAND})
}

func (parser *Parser) bitwiseOr() (ast.Expression, error) {
	return parser.binaryLevel(parser.bitwiseXor, bitwiseOrTypes)
}

func (parser *Parser) bitwiseXor() (ast.Expression, error) {
	return parser.binaryLevel(parser.bitwiseAnd, bitwiseXorTypes)
}

func (parser *Parser) bitwiseAnd() (ast.Expression, error) {
	return parser.binaryLevel(parser.equality, bitwiseAndTypes)
}

func (parser *Parser) equality() (ast.Expression, error) {
	return parser.binaryLevel(parser.comparison, equalityTokenTypes)
}

func (parser *Parser) comparison() (ast.Expression, error) {
	return parser.binaryLevel(parser.term, comparisonTokenTypes)
}

func (parser *Parser) term() (ast.Expression, error) {
	return parser.binaryLevel(parser.factor, termTokenTypes)
}

func (parser *Parser) factor() (ast.Expression, error) {
	return parser.binaryLevel(parser.power, factorExpressionTypes)
}

// power is right-associative: 2 ** 3 ** 2 == 2 ** (3 ** 2).
func (parser *Parser) power() (ast.Expression, error) {
	expr, err := parser.unary()
	if err != nil {
		return nil, err
	}
	if parser.isMatch(powerExpressionTypes) {
		op := parser.previous()
		right, err := parser.power()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Left: expr, Operator: op, Right: right}, nil
	}
	return expr, nil
}

func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch(unaryExpressionTypes) {
		op := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: op, Right: right}, nil
	}
	return parser.callOrPostfix()
}

// callOrPostfix parses a primary expression followed by zero or more
// left-associative postfix tails: call `( args )`, index `[ expr ]`, or
// member `.name`.
func (parser *Parser) callOrPostfix() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case parser.isMatch([]token.TokenType{token.LPA}):
			expr, err = parser.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case parser.isMatch([]token.TokenType{token.LBRACKET}):
			bracket := parser.previous()
			key, err := parser.expression()
			if err != nil {
				return nil, err
			}
			if _, err := parser.consume(token.RBRACKET, "expected ']' after index expression"); err != nil {
				return nil, err
			}
			expr = ast.Index{Object: expr, Bracket: bracket, Key: key}
		case parser.isMatch([]token.TokenType{token.DOT}):
			name, err := parser.consume(token.IDENTIFIER, "expected a property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.Member{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (parser *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	var args []ast.Expression
	if !parser.checkType(token.RPA) {
		for {
			arg, err := parser.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !parser.isMatch([]token.TokenType{token.COMMA}) {
				break
			}
		}
	}
	paren, err := parser.consume(token.RPA, "expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return ast.Call{Callee: callee, Paren: paren, Args: args}, nil
}

// primary accepts parenthesized expressions; literal tokens; docstrings and
// regex literals; identifiers (postfix tails handled by callOrPostfix); and
// an InterpolationStart token wrapping an inner expression closed by
// InterpolationEnd.
func (parser *Parser) primary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.NULL}) {
		return ast.Literal{Kind: token.NULL, Value: nil}, nil
	}
	if parser.isMatch(literalTokenTypes) {
		tok := parser.previous()
		return ast.Literal{Kind: tok.TokenType, Value: tok.Literal}, nil
	}
	if parser.isMatch([]token.TokenType{token.DOCSTRING}) {
		tok := parser.previous()
		text, _ := tok.Literal.(string)
		return ast.Docstring{Text: text}, nil
	}
	if parser.isMatch([]token.TokenType{token.REGEX}) {
		tok := parser.previous()
		text, _ := tok.Literal.(string)
		return ast.Regex{Text: text}, nil
	}
	if parser.isMatch([]token.TokenType{token.IDENTIFIER}) {
		return ast.Identifier{Name: parser.previous()}, nil
	}
	if parser.isMatch([]token.TokenType{token.INTERPOLATION_START}) {
		inner, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.INTERPOLATION_END, "expected '}' to close interpolation"); err != nil {
			return nil, err
		}
		return ast.Interpolation{Expr: inner}, nil
	}
	if parser.isMatch([]token.TokenType{token.LPA}) {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RPA, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	current := parser.peek()
	return nil, CreateSyntaxError(current.Line, current.Column, "unrecognized expression starting with '"+current.Lexeme+"'")
}
