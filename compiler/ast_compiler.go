// ast_compiler.go implements ASTCompiler, which walks the AST and emits
// register-oriented bytecode (§4.3). It is grounded on the teacher's
// ASTCompiler visitor shape (VisitBinary/VisitUnary/VisitLiteral/...
// dispatching off ast.Stmt/ast.Expression.Accept) but the opcode set and
// emission rules are the register-machine ones §4.3/§4.4 define, and the
// compiler now collects CompileErrors on ac.Errors instead of panicking.

package compiler

import (
	"fmt"

	"osfl/ast"
	"osfl/token"
)

// EntryFrameName and EntryFuncName are the distinguished names §4.3's
// "Frame declaration" emission rule references.
const (
	EntryFrameName = "Main"
	EntryFuncName  = "main"
	registerCount  = 16
)

// ASTCompiler implements both ast.ExpressionVisitor and ast.StmtVisitor,
// walking the tree once and threading a monotonic register counter, a
// scoped symbol table, and a flat function table as it goes (§4.3
// "State").
type ASTCompiler struct {
	bytecode     Bytecode
	scope        *Scope
	functions    FunctionTable
	nextRegister int32
	Errors       []CompileError
}

func NewASTCompiler() *ASTCompiler {
	return &ASTCompiler{
		bytecode:  Bytecode{},
		scope:     newScope(nil),
		functions: newFunctionTable(),
	}
}

// CompileAST walks the given statements, in order, and returns the
// resulting bytecode plus any diagnostics collected along the way. It
// always returns usable bytecode, per §7's "compiler emits messages and
// continues; it always returns bytecode (possibly with NOP holes or
// dummy registers)".
func (c *ASTCompiler) CompileAST(statements []ast.Stmt) (Bytecode, []CompileError) {
	for _, stmt := range statements {
		stmt.Accept(c)
	}
	c.emit(HALT)
	return c.bytecode, c.Errors
}

func (c *ASTCompiler) fail(tok token.Token, message string) {
	c.Errors = append(c.Errors, CreateCompileError(tok.Line, tok.Column, message))
}

func (c *ASTCompiler) failMsg(message string) {
	c.Errors = append(c.Errors, CreateCompileError(0, 0, message))
}

func (c *ASTCompiler) pushScope() {
	c.scope = newScope(c.scope)
}

func (c *ASTCompiler) popScope() {
	if c.scope.parent != nil {
		c.scope = c.scope.parent
	}
}

// allocRegister hands out the next register in the naive, monotonically
// increasing allocator §4.3 calls for, flagging exhaustion against the
// VM's fixed 16-register file (§4.4 "Architecture").
func (c *ASTCompiler) allocRegister() int32 {
	reg := c.nextRegister
	if reg >= registerCount {
		c.failMsg(fmt.Sprintf("register file exhausted: need register %d but only %d are available", reg, registerCount))
	}
	c.nextRegister++
	return reg
}

func (c *ASTCompiler) emit(op Opcode, operands ...int32) int {
	c.bytecode.Instructions = append(c.bytecode.Instructions, MakeInstruction(op, operands...))
	return len(c.bytecode.Instructions) - 1
}

// patchJump overwrites a previously emitted jump's target operand (Op1)
// once the real destination is known (§4.3 "back-patching").
func (c *ASTCompiler) patchJump(pos int, target int32) {
	c.bytecode.Instructions[pos].Op1 = target
}

func (c *ASTCompiler) compileExprToRegister(expr ast.Expression) int32 {
	result := expr.Accept(c)
	reg, ok := result.(int32)
	if !ok {
		return c.allocRegister()
	}
	return reg
}

func (c *ASTCompiler) loadStringConstant(s string) int32 {
	idx := c.bytecode.addConstant(s)
	reg := c.allocRegister()
	c.emit(LOAD_CONST_STR, reg, idx)
	return reg
}

// --- ast.StmtVisitor ---

func (c *ASTCompiler) VisitBlock(block ast.Block) any {
	c.pushScope()
	for _, stmt := range block.Statements {
		stmt.Accept(c)
	}
	c.popScope()
	return nil
}

// VisitFrame compiles a frame's body in its own scope. The entry frame
// (named EntryFrameName) additionally emits a CALL to the registered
// "main" function followed by HALT, per §4.3.
func (c *ASTCompiler) VisitFrame(frame ast.Frame) any {
	c.pushScope()
	for _, stmt := range frame.Body {
		stmt.Accept(c)
	}
	c.popScope()

	if frame.Name.Lexeme == EntryFrameName {
		if addr, found := c.functions[EntryFuncName]; found {
			c.emit(CALL, addr)
		}
		c.emit(HALT)
	}
	return nil
}

func (c *ASTCompiler) VisitVarDecl(varDecl ast.VarDecl) any {
	var reg int32
	if varDecl.Init != nil {
		reg = c.compileExprToRegister(varDecl.Init)
	} else {
		reg = c.allocRegister()
	}

	kind := SymbolVar
	if varDecl.IsConst {
		kind = SymbolConst
	}
	if !c.scope.declare(varDecl.Name.Lexeme, kind, reg) {
		c.fail(varDecl.Name, fmt.Sprintf("redeclaration of '%s' in this scope", varDecl.Name.Lexeme))
	}
	return nil
}

// VisitFuncDecl records the function's entry address, then compiles its
// body in a fresh register space starting at its parameter count,
// restoring the caller's register counter afterward (§4.3 "Function
// declaration").
func (c *ASTCompiler) VisitFuncDecl(funcDecl ast.FuncDecl) any {
	address := int32(len(c.bytecode.Instructions))
	if _, exists := c.functions[funcDecl.Name.Lexeme]; exists {
		c.fail(funcDecl.Name, fmt.Sprintf("redefinition of function '%s'", funcDecl.Name.Lexeme))
	}
	c.functions[funcDecl.Name.Lexeme] = address

	savedRegister := c.nextRegister
	c.nextRegister = int32(len(funcDecl.Params))

	c.pushScope()
	for i, param := range funcDecl.Params {
		c.scope.declare(param.Lexeme, SymbolVar, int32(i))
	}
	for _, stmt := range funcDecl.Body {
		stmt.Accept(c)
	}
	c.popScope()

	c.emit(RET)
	c.nextRegister = savedRegister
	return nil
}

// VisitClassDecl treats a class body the way a frame's body is treated:
// compile its members in a nested scope. Spec.md defines no
// instantiation opcode distinct from NEWOBJ/SETPROP, so a class
// declaration carries no runtime representation beyond its members'
// own compiled forms (an open question the source leaves unresolved;
// see DESIGN.md).
func (c *ASTCompiler) VisitClassDecl(classDecl ast.ClassDecl) any {
	c.scope.declare(classDecl.Name.Lexeme, SymbolClass, -1)
	c.pushScope()
	for _, stmt := range classDecl.Members {
		stmt.Accept(c)
	}
	c.popScope()
	return nil
}

// VisitImport interns the literal path into the constant pool and
// otherwise compiles to nothing, per §9's open question.
func (c *ASTCompiler) VisitImport(imp ast.Import) any {
	if path, ok := imp.Path.Literal.(string); ok {
		c.bytecode.addConstant(path)
	}
	return nil
}

func (c *ASTCompiler) VisitIf(ifStmt ast.If) any {
	condReg := c.compileExprToRegister(ifStmt.Condition)
	jumpIfZeroPos := c.emit(JUMP_IF_ZERO, 0, condReg)

	ifStmt.Then.Accept(c)

	if ifStmt.Else != nil {
		jumpEndPos := c.emit(JUMP, 0)

		elseStart := int32(len(c.bytecode.Instructions))
		c.patchJump(jumpIfZeroPos, elseStart)

		ifStmt.Else.Accept(c)

		endPos := int32(len(c.bytecode.Instructions))
		c.patchJump(jumpEndPos, endPos)
	} else {
		afterPos := int32(len(c.bytecode.Instructions))
		c.patchJump(jumpIfZeroPos, afterPos)
	}
	return nil
}

func (c *ASTCompiler) VisitWhile(whileStmt ast.While) any {
	loopStart := int32(len(c.bytecode.Instructions))
	condReg := c.compileExprToRegister(whileStmt.Condition)
	jumpIfZeroPos := c.emit(JUMP_IF_ZERO, 0, condReg)

	whileStmt.Body.Accept(c)
	c.emit(JUMP, loopStart)

	loopEnd := int32(len(c.bytecode.Instructions))
	c.patchJump(jumpIfZeroPos, loopEnd)
	return nil
}

// VisitFor compiles in the order §4.3 prescribes: init, header,
// cond-jump, body, increment, back-jump, patch-exit.
func (c *ASTCompiler) VisitFor(forStmt ast.For) any {
	c.pushScope()
	if forStmt.Init != nil {
		forStmt.Init.Accept(c)
	}

	loopStart := int32(len(c.bytecode.Instructions))
	jumpIfZeroPos := -1
	if forStmt.Condition != nil {
		condReg := c.compileExprToRegister(forStmt.Condition)
		jumpIfZeroPos = c.emit(JUMP_IF_ZERO, 0, condReg)
	}

	forStmt.Body.Accept(c)

	if forStmt.Increment != nil {
		c.compileExprToRegister(forStmt.Increment)
	}

	c.emit(JUMP, loopStart)
	loopEnd := int32(len(c.bytecode.Instructions))
	if jumpIfZeroPos != -1 {
		c.patchJump(jumpIfZeroPos, loopEnd)
	}
	c.popScope()
	return nil
}

// VisitSwitch, VisitTryCatch, and VisitOnError raise a CompileError
// rather than lowering anything: §9 leaves Switch's case-matching
// semantics unpinned, and Try/Catch/OnError have no VM opcodes at all.
// Both branches of the Switch binary node are still walked so that name
// references inside them are compiled (and thus checked) even though the
// construct itself never executes.
func (c *ASTCompiler) VisitSwitch(switchStmt ast.Switch) any {
	c.compileExprToRegister(switchStmt.Expr)
	switchStmt.Cases.Accept(c)
	c.failMsg("switch has no defined compilation semantics (§9 open question)")
	return nil
}

func (c *ASTCompiler) VisitTryCatch(tryCatch ast.TryCatch) any {
	tryCatch.Try.Accept(c)
	if tryCatch.Catch != nil {
		tryCatch.Catch.Accept(c)
	}
	c.failMsg("try/catch has no VM opcodes and is never executed (§9)")
	return nil
}

func (c *ASTCompiler) VisitOnError(onError ast.OnError) any {
	onError.Body.Accept(c)
	c.failMsg("on_error has no VM opcodes and is never executed (§9)")
	return nil
}

func (c *ASTCompiler) VisitReturn(ret ast.Return) any {
	if ret.Expr != nil {
		c.compileExprToRegister(ret.Expr)
	}
	c.emit(RET)
	return nil
}

func (c *ASTCompiler) VisitExprStmt(exprStmt ast.ExprStmt) any {
	exprStmt.Expression.Accept(c)
	return nil
}

// --- ast.ExpressionVisitor ---

func (c *ASTCompiler) VisitLiteral(literal ast.Literal) any {
	reg := c.allocRegister()
	switch literal.Kind {
	case token.INT:
		value, _ := literal.Value.(int64)
		c.emit(LOAD_CONST, reg, int32(value))
	case token.BOOL:
		value, _ := literal.Value.(bool)
		var v int32
		if value {
			v = 1
		}
		c.emit(LOAD_CONST, reg, v)
	case token.FLOAT:
		value, _ := literal.Value.(float64)
		idx := c.bytecode.addFloatConstant(value)
		c.emit(LOAD_CONST_FLOAT, reg, idx)
	case token.STRING:
		value, _ := literal.Value.(string)
		idx := c.bytecode.addConstant(value)
		c.emit(LOAD_CONST_STR, reg, idx)
	default:
		// NULL and any other literal kind compiles to Int(0): no opcode
		// loads Null, so the result differs from an untouched register,
		// which holds Null.
		c.emit(LOAD_CONST, reg, 0)
	}
	return reg
}

// VisitIdentifier resolves a name read. The scope chain is tried first
// (returns its bound register); failing that, the function table
// (returns a fresh register loaded with the function's address); failing
// that, a diagnostic is produced and a fresh register is returned, per
// §4.3's "Assignment / identifier read" rule.
func (c *ASTCompiler) VisitIdentifier(identifier ast.Identifier) any {
	name := identifier.Name.Lexeme
	if sym, found := c.scope.resolve(name); found {
		return sym.Register
	}
	if addr, found := c.functions[name]; found {
		reg := c.allocRegister()
		c.emit(LOAD_CONST, reg, addr)
		return reg
	}
	c.fail(identifier.Name, fmt.Sprintf("name '%s' is not defined", name))
	return c.allocRegister()
}

func binaryOpcode(t token.TokenType) (Opcode, bool) {
	switch t {
	case token.ADD:
		return ADD, true
	case token.SUB:
		return SUB, true
	case token.MULT:
		return MUL, true
	case token.DIV:
		return DIV, true
	case token.EQUAL_EQUAL:
		return EQ, true
	case token.NOT_EQUAL:
		return NEQ, true
	default:
		return NOP, false
	}
}

func compoundOpcode(t token.TokenType) (Opcode, bool) {
	switch t {
	case token.ADD_ASSIGN:
		return ADD, true
	case token.SUB_ASSIGN:
		return SUB, true
	case token.MULT_ASSIGN:
		return MUL, true
	case token.DIV_ASSIGN:
		return DIV, true
	default:
		return NOP, false
	}
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

// VisitBinary also compiles assignment, since §3 models it as a Binary
// node rather than a dedicated Assign node (the same treatment given
// Switch).
func (c *ASTCompiler) VisitBinary(binary ast.Binary) any {
	if isAssignOperator(binary.Operator.TokenType) {
		return c.compileAssignment(binary)
	}

	leftReg := c.compileExprToRegister(binary.Left)
	rightReg := c.compileExprToRegister(binary.Right)

	op, ok := binaryOpcode(binary.Operator.TokenType)
	if !ok {
		c.fail(binary.Operator, fmt.Sprintf("operator '%s' has no bytecode opcode", binary.Operator.Lexeme))
		return c.allocRegister()
	}
	dest := c.allocRegister()
	c.emit(op, dest, leftReg, rightReg)
	return dest
}

func (c *ASTCompiler) compileAssignment(binary ast.Binary) any {
	valueReg := c.compileExprToRegister(binary.Right)

	switch target := binary.Left.(type) {
	case ast.Identifier:
		return c.assignIdentifier(target, binary.Operator, valueReg)
	case ast.Member:
		objReg := c.compileExprToRegister(target.Object)
		keyReg := c.loadStringConstant(target.Name.Lexeme)
		return c.assignProperty(binary.Operator, objReg, keyReg, valueReg)
	case ast.Index:
		objReg := c.compileExprToRegister(target.Object)
		keyReg := c.compileExprToRegister(target.Key)
		return c.assignProperty(binary.Operator, objReg, keyReg, valueReg)
	default:
		c.fail(binary.Operator, "invalid assignment target")
		return c.allocRegister()
	}
}

func (c *ASTCompiler) assignIdentifier(target ast.Identifier, operator token.Token, valueReg int32) int32 {
	sym, found := c.scope.resolve(target.Name.Lexeme)
	if !found {
		c.fail(target.Name, fmt.Sprintf("assignment to undefined name '%s'", target.Name.Lexeme))
		return c.allocRegister()
	}
	if sym.Kind == SymbolConst {
		c.fail(target.Name, fmt.Sprintf("cannot assign to const '%s'", target.Name.Lexeme))
	}

	destReg := sym.Register
	if operator.TokenType == token.ASSIGN {
		c.emit(MOVE, destReg, valueReg)
		return destReg
	}

	op, ok := compoundOpcode(operator.TokenType)
	if !ok {
		c.fail(operator, fmt.Sprintf("operator '%s' has no bytecode opcode", operator.Lexeme))
		return destReg
	}
	tmp := c.allocRegister()
	c.emit(op, tmp, destReg, valueReg)
	c.emit(MOVE, destReg, tmp)
	return destReg
}

// assignProperty lowers a Member/Index assignment to GETPROP+op+SETPROP
// (for compound assignment) or a plain SETPROP (for `=`). There is no
// dedicated index-container opcode in §4.4's table; object properties
// (keyed by string, an Int index formatted to decimal) are the only
// indexable structure the instruction set defines, so Index and Member
// targets both lower to the same SETPROP/GETPROP pair.
func (c *ASTCompiler) assignProperty(operator token.Token, objReg, keyReg, valueReg int32) int32 {
	result := valueReg
	if operator.TokenType != token.ASSIGN {
		op, ok := compoundOpcode(operator.TokenType)
		if !ok {
			c.fail(operator, fmt.Sprintf("operator '%s' has no bytecode opcode", operator.Lexeme))
		} else {
			current := c.allocRegister()
			c.emit(GETPROP, current, objReg, keyReg)
			tmp := c.allocRegister()
			c.emit(op, tmp, current, valueReg)
			result = tmp
		}
	}
	c.emit(SETPROP, objReg, keyReg, result)
	return result
}

// VisitUnary implements §4.3's two defined unary rules: minus lowers to
// `0 - x`, plus is a no-op. Any other prefix operator has no defined
// bytecode and is reported.
func (c *ASTCompiler) VisitUnary(unary ast.Unary) any {
	rightReg := c.compileExprToRegister(unary.Right)

	switch unary.Operator.TokenType {
	case token.ADD:
		return rightReg
	case token.SUB:
		zeroReg := c.allocRegister()
		c.emit(LOAD_CONST, zeroReg, 0)
		dest := c.allocRegister()
		c.emit(SUB, dest, zeroReg, rightReg)
		return dest
	default:
		c.fail(unary.Operator, fmt.Sprintf("unary operator '%s' has no bytecode opcode", unary.Operator.Lexeme))
		return rightReg
	}
}

func calleeName(expr ast.Expression) (string, bool) {
	if ident, ok := expr.(ast.Identifier); ok {
		return ident.Name.Lexeme, true
	}
	return "", false
}

// VisitCall implements §4.3's "Call expression" rule: a name resolving
// to a bytecode address becomes a direct CALL with arguments MOVEd into
// parameter registers; anything else is treated as a native call, with
// the callee name interned into the constant pool.
func (c *ASTCompiler) VisitCall(call ast.Call) any {
	if name, ok := calleeName(call.Callee); ok {
		if addr, found := c.functions[name]; found && addr != NativeAddress {
			argRegs := make([]int32, len(call.Args))
			for i, arg := range call.Args {
				argRegs[i] = c.compileExprToRegister(arg)
			}
			for i, argReg := range argRegs {
				c.emit(MOVE, int32(i), argReg)
			}
			c.emit(CALL, addr)
			return c.allocRegister()
		}

		argRegs := make([]int32, len(call.Args))
		for i, arg := range call.Args {
			argRegs[i] = c.compileExprToRegister(arg)
		}
		baseReg := c.nextRegister
		for _, argReg := range argRegs {
			c.emit(MOVE, c.allocRegister(), argReg)
		}
		cpIndex := c.bytecode.addConstant(name)
		dest := c.allocRegister()
		c.emit(CALL_NATIVE, dest, cpIndex, int32(len(call.Args)), baseReg)
		return dest
	}

	c.fail(call.Paren, "call target must be a name")
	return c.allocRegister()
}

func (c *ASTCompiler) VisitIndex(index ast.Index) any {
	objReg := c.compileExprToRegister(index.Object)
	keyReg := c.compileExprToRegister(index.Key)
	dest := c.allocRegister()
	c.emit(GETPROP, dest, objReg, keyReg)
	return dest
}

func (c *ASTCompiler) VisitMember(member ast.Member) any {
	objReg := c.compileExprToRegister(member.Object)
	keyReg := c.loadStringConstant(member.Name.Lexeme)
	dest := c.allocRegister()
	c.emit(GETPROP, dest, objReg, keyReg)
	return dest
}

// VisitInterpolation compiles the inner expression and routes it through
// the "str" native, the reference string-conversion function natives/
// registers (§4.3 "Interpolation").
func (c *ASTCompiler) VisitInterpolation(interp ast.Interpolation) any {
	argReg := c.compileExprToRegister(interp.Expr)
	cpIndex := c.bytecode.addConstant("str")
	dest := c.allocRegister()
	c.emit(CALL_NATIVE, dest, cpIndex, 1, argReg)
	return dest
}

func (c *ASTCompiler) VisitDocstring(doc ast.Docstring) any {
	reg := c.allocRegister()
	idx := c.bytecode.addConstant(doc.Text)
	c.emit(LOAD_CONST_STR, reg, idx)
	return reg
}

func (c *ASTCompiler) VisitRegex(regex ast.Regex) any {
	reg := c.allocRegister()
	idx := c.bytecode.addConstant(regex.Text)
	c.emit(LOAD_CONST_STR, reg, idx)
	return reg
}
