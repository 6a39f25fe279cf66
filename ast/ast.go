// Package ast defines the HSL abstract syntax tree: a sum type of node
// variants produced by the parser and consumed by the emitter.
//
// Go has no built-in discriminated union, so the sum type is modeled the
// way gogpu-naga's wgsl package models Decl/Stmt/Expr: a Node interface
// with an unexported marker method, implemented by one concrete struct per
// variant. Callers dispatch with a type switch, which the compiler keeps
// honest whenever a new variant is added and a switch forgets it.
//
// The spec's "None" sentinel node is simply a nil Node — Go already has an
// absent-value representation and doesn't need a dedicated variant for it.
package ast

// Span is a node's inclusive token range, [Start, End], as indices into the
// token stream it was parsed from.
type Span struct {
	Start int
	End   int
}

// Node is implemented by every AST variant.
type Node interface {
	Span() Span
	node()
}

type base struct {
	span Span
}

func (b base) Span() Span { return b.span }
func (base) node()        {}

// NewSpan is a convenience constructor used throughout the parser.
func NewSpan(start, end int) Span { return Span{Start: start, End: end} }

// BlockStatement is an ordered sequence of statements. Scoped is true iff
// the source wrapped the body in literal braces; a root block (and a
// for-loop/function body that omitted braces, which HSL's grammar does not
// actually allow but the zero value models safely) is unscoped.
type BlockStatement struct {
	base
	Scoped bool
	Body   []Node
}

func NewBlockStatement(span Span, scoped bool, body []Node) *BlockStatement {
	return &BlockStatement{base: base{span}, Scoped: scoped, Body: body}
}

// Literal is a lexeme carried through verbatim: a number, a boolean, or (for
// ListExpression elements and casts) any other literal text.
type Literal struct {
	base
	Value string
}

func NewLiteral(span Span, value string) *Literal {
	return &Literal{base: base{span}, Value: value}
}

// Identifier names a variable, function, struct, or built-in.
type Identifier struct {
	base
	Name string
}

func NewIdentifier(span Span, name string) *Identifier {
	return &Identifier{base: base{span}, Name: name}
}

// BinaryExpression is `left op right`. The special operator "[" marks an
// index expression (`left[right]`), per the parser's postfix-chain design.
type BinaryExpression struct {
	base
	Operator string
	Left     Node
	Right    Node
}

func NewBinaryExpression(span Span, op string, left, right Node) *BinaryExpression {
	return &BinaryExpression{base: base{span}, Operator: op, Left: left, Right: right}
}

// MemberExpression is `object.property`.
type MemberExpression struct {
	base
	Object   Node
	Property Node
}

func NewMemberExpression(span Span, object, property Node) *MemberExpression {
	return &MemberExpression{base: base{span}, Object: object, Property: property}
}

// ParenExpression is `(inside)`.
type ParenExpression struct {
	base
	Inside Node
}

func NewParenExpression(span Span, inside Node) *ParenExpression {
	return &ParenExpression{base: base{span}, Inside: inside}
}

// AssignmentExpression is `left op right` for op in {=, +=, -=, ...}.
type AssignmentExpression struct {
	base
	Operator string
	Left     Node
	Right    Node
}

func NewAssignmentExpression(span Span, op string, left, right Node) *AssignmentExpression {
	return &AssignmentExpression{base: base{span}, Operator: op, Left: left, Right: right}
}

// UpdateExpression is `++target`/`target++` (and the `--` equivalents), and
// also models the source's unary `-`/`!` as a prefix update.
type UpdateExpression struct {
	base
	Operator string
	Prefix   bool
	Target   Node
}

func NewUpdateExpression(span Span, op string, prefix bool, target Node) *UpdateExpression {
	return &UpdateExpression{base: base{span}, Operator: op, Prefix: prefix, Target: target}
}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	base
	Callee Node
	Args   []Node
}

func NewCallExpression(span Span, callee Node, args []Node) *CallExpression {
	return &CallExpression{base: base{span}, Callee: callee, Args: args}
}

// CastExpression is `Type(args...)`.
type CastExpression struct {
	base
	Type string
	Args []Node
}

func NewCastExpression(span Span, typ string, args []Node) *CastExpression {
	return &CastExpression{base: base{span}, Type: typ, Args: args}
}

// ListExpression is a brace initializer list, `{ elements... }`.
type ListExpression struct {
	base
	Elements []Node
}

func NewListExpression(span Span, elements []Node) *ListExpression {
	return &ListExpression{base: base{span}, Elements: elements}
}

// PreprocessorExpression is a single-line `#directive body` form.
type PreprocessorExpression struct {
	base
	Directive string
	Body      string
}

func NewPreprocessorExpression(span Span, directive, body string) *PreprocessorExpression {
	return &PreprocessorExpression{base: base{span}, Directive: directive, Body: body}
}

// DeclarationKeywords tracks the leading-keyword flags a VariableDeclaration
// accumulated before its type token.
type DeclarationKeywords struct {
	Const   bool
	Uniform bool
	Flat    bool
	In      bool
	Out     bool
}

// VariableDeclaration is `[keywords] Type[<template_args>] name[[N]] [= init];`.
type VariableDeclaration struct {
	base
	Keywords     DeclarationKeywords
	Type         string
	TemplateArgs []Node
	Name         string
	ArrayCount   int
	Init         Node // nil when absent
}

func NewVariableDeclaration(span Span, keywords DeclarationKeywords, typ string, templateArgs []Node, name string, arrayCount int, init Node) *VariableDeclaration {
	return &VariableDeclaration{
		base:         base{span},
		Keywords:     keywords,
		Type:         typ,
		TemplateArgs: templateArgs,
		Name:         name,
		ArrayCount:   arrayCount,
		Init:         init,
	}
}

// Param is one `Type name` function parameter.
type Param struct {
	Type string
	Name string
}

// FunctionDeclaration is `[const] ReturnType name(params) { body }`.
type FunctionDeclaration struct {
	base
	Const      bool
	ReturnType string
	Params     []Param
	Name       string
	Body       *BlockStatement
}

func NewFunctionDeclaration(span Span, isConst bool, returnType string, params []Param, name string, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{
		base:       base{span},
		Const:      isConst,
		ReturnType: returnType,
		Params:     params,
		Name:       name,
		Body:       body,
	}
}

// StructDeclaration is `struct name { body };`.
type StructDeclaration struct {
	base
	Name string
	Body *BlockStatement
}

func NewStructDeclaration(span Span, name string, body *BlockStatement) *StructDeclaration {
	return &StructDeclaration{base: base{span}, Name: name, Body: body}
}

// ForStatement is `for (init; test; update) body`.
type ForStatement struct {
	base
	Init   Node
	Test   Node
	Update Node
	Body   *BlockStatement
}

func NewForStatement(span Span, init, test, update Node, body *BlockStatement) *ForStatement {
	return &ForStatement{base: base{span}, Init: init, Test: test, Update: update, Body: body}
}

// IfStatement is `if (condition) body`.
type IfStatement struct {
	base
	Condition Node
	Body      *BlockStatement
}

func NewIfStatement(span Span, condition Node, body *BlockStatement) *IfStatement {
	return &IfStatement{base: base{span}, Condition: condition, Body: body}
}

// ElseStatement is `else body`. Reserved: see package parser's notes on
// why nothing in the grammar constructs one yet.
type ElseStatement struct {
	base
	Body *BlockStatement
}

func NewElseStatement(span Span, body *BlockStatement) *ElseStatement {
	return &ElseStatement{base: base{span}, Body: body}
}

// ElseIfStatement is `else if (condition) body`. Reserved, as ElseStatement.
type ElseIfStatement struct {
	base
	Condition Node
	Body      *BlockStatement
}

func NewElseIfStatement(span Span, condition Node, body *BlockStatement) *ElseIfStatement {
	return &ElseIfStatement{base: base{span}, Condition: condition, Body: body}
}

// WhileStatement is `while (condition) body`. Reserved, as ElseStatement.
type WhileStatement struct {
	base
	Condition Node
	Body      *BlockStatement
}

func NewWhileStatement(span Span, condition Node, body *BlockStatement) *WhileStatement {
	return &WhileStatement{base: base{span}, Condition: condition, Body: body}
}

// ReturnStatement is `return value`.
type ReturnStatement struct {
	base
	Value Node
}

func NewReturnStatement(span Span, value Node) *ReturnStatement {
	return &ReturnStatement{base: base{span}, Value: value}
}
