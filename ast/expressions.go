// expressions.go contains all the expression AST nodes. An expression node
// always evaluates to a value.

package ast

import (
	"osfl/token"
)

// Literal represents a literal value in the source code: an int, float,
// string, bool, or null.
type Literal struct {
	Kind  token.TokenType
	Value any
}

func (literal Literal) Accept(v ExpressionVisitor) any {
	return v.VisitLiteral(literal)
}

// Identifier represents a name reference: a variable, function, or class
// name used as a value. It models §3's `Identifier(name)` node and replaces
// the earlier "Variable" naming.
type Identifier struct {
	Name token.Token
}

func (identifier Identifier) Accept(v ExpressionVisitor) any {
	return v.VisitIdentifier(identifier)
}

// Binary represents a binary operation expression (e.g., "a + b"), and also
// carries assignment: the parser lowers `a = b`, `a += b`, ... into a Binary
// node whose Operator is one of the assignment tokens and whose Left is the
// lvalue (Identifier, Index, or Member). There is no separate Assign node —
// assignment is "a binary node", the same way §3 models Switch.
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (binary Binary) Accept(v ExpressionVisitor) any {
	return v.VisitBinary(binary)
}

// Unary represents a unary operation expression (e.g., "!a", "-b", "++a").
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (unary Unary) Accept(v ExpressionVisitor) any {
	return v.VisitUnary(unary)
}

// Call represents a function call: the callee expression plus its
// positional argument expressions. Repeated call tails (`f(a)(b)`) parse as
// a left-associative chain of Call nodes.
type Call struct {
	Callee Expression
	Paren  token.Token // closing ')' token, kept for error locations
	Args   []Expression
}

func (call Call) Accept(v ExpressionVisitor) any {
	return v.VisitCall(call)
}

// Index represents a subscript expression: `obj[idx]`.
type Index struct {
	Object  Expression
	Bracket token.Token
	Key     Expression
}

func (index Index) Accept(v ExpressionVisitor) any {
	return v.VisitIndex(index)
}

// Member represents a property access expression: `obj.name`.
type Member struct {
	Object Expression
	Name   token.Token
}

func (member Member) Accept(v ExpressionVisitor) any {
	return v.VisitMember(member)
}

// Interpolation represents one `${expr}` splice inside a string literal.
// The surrounding string pieces are ordinary String literals; the parser
// produces an Interpolation node only for the wrapped expression.
type Interpolation struct {
	Expr Expression
}

func (interp Interpolation) Accept(v ExpressionVisitor) any {
	return v.VisitInterpolation(interp)
}

// Docstring represents a `"""..."""` literal.
type Docstring struct {
	Text string
}

func (doc Docstring) Accept(v ExpressionVisitor) any {
	return v.VisitDocstring(doc)
}

// Regex represents a `/.../` literal.
type Regex struct {
	Text string
}

func (regex Regex) Accept(v ExpressionVisitor) any {
	return v.VisitRegex(regex)
}
