// Package emitter walks an ast.Node tree and writes target-dialect source
// text. It is a single target-parameterized tree walker — not one backend
// package per dialect — dispatching on CompileTarget at each type-resolution
// and identifier-remap site instead.
package emitter

import (
	"fmt"
	"strings"

	"github.com/gogpu/hsl/ast"
)

// Compile emits root in the given target dialect. If state is nil a fresh
// one is created rooted at includeBase; pass a state inherited from an
// enclosing compile to keep counters and declared names consistent across
// an #include expansion.
func Compile(root *ast.BlockStatement, includeBase string, target CompileTarget, state *CompileState) (string, error) {
	if target == Metal {
		return "", newTargetError("metal is not supported")
	}
	if state == nil {
		state = NewCompileState(includeBase)
	}
	w := &writer{state: state, target: target}
	return w.writeBlock(root)
}

type writer struct {
	state  *CompileState
	target CompileTarget
}

func (w *writer) indent() string {
	return strings.Repeat("    ", int(w.state.TabDepth))
}

type nameBucket int

const (
	variableBucket nameBucket = iota
	functionBucket
	structBucket
	bufferBucket
)

func (w *writer) declareName(bucket nameBucket, name string) error {
	scope := w.state.ScopeStack[len(w.state.ScopeStack)-1]
	var set map[string]struct{}
	switch bucket {
	case variableBucket:
		set = scope.Variables
	case functionBucket:
		set = scope.Functions
	case structBucket:
		set = scope.Structs
	case bufferBucket:
		set = scope.Buffers
	}
	if _, exists := set[name]; exists {
		return newSemanticError("%q is already defined in this scope", name)
	}
	set[name] = struct{}{}
	return nil
}

// writeBlock emits a BlockStatement. A scoped block wraps itself in
// `{\n...}`; a root (or textually-included) block continues at the
// current depth. A new Scope is pushed iff the block is scoped or the
// scope stack is empty — the latter only happens once, at the very top of
// a compile, which is also when predefinitions are inserted.
func (w *writer) writeBlock(block *ast.BlockStatement) (string, error) {
	scoped := block.Scoped
	first := len(w.state.ScopeStack) == 0
	push := scoped || first

	var b strings.Builder
	if scoped {
		b.WriteString("{\n")
		w.state.TabDepth++
	}
	if push {
		w.state.ScopeStack = append(w.state.ScopeStack, newScope())
	}
	if first {
		b.WriteString(w.predefinitionsText())
	}

	for _, stmt := range block.Body {
		text, err := w.writeNode(stmt)
		if err != nil {
			return "", err
		}
		b.WriteString(w.indent())
		b.WriteString(text)
		if _, isPreprocessor := stmt.(*ast.PreprocessorExpression); isPreprocessor {
			b.WriteString("\n")
		} else {
			b.WriteString(";\n")
		}
	}

	if push {
		w.state.ScopeStack = w.state.ScopeStack[:len(w.state.ScopeStack)-1]
	}
	if scoped {
		w.state.TabDepth--
		b.WriteString(w.indent())
		b.WriteString("}")
	}
	return b.String(), nil
}

// writeNode dispatches a body-level statement to its writer, falling back
// to emitExpr for bare expression/assignment statements.
func (w *writer) writeNode(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.VariableDeclaration:
		return w.writeVariableDeclaration(n)
	case *ast.FunctionDeclaration:
		return w.writeFunctionDeclaration(n)
	case *ast.StructDeclaration:
		return w.writeStructDeclaration(n)
	case *ast.ForStatement:
		return w.writeForStatement(n)
	case *ast.IfStatement:
		return w.writeIfStatement(n)
	case *ast.ElseStatement:
		return w.writeElseStatement(n)
	case *ast.ElseIfStatement:
		return w.writeElseIfStatement(n)
	case *ast.WhileStatement:
		// Reserved variant; currently emits nothing (known limitation).
		return "", nil
	case *ast.ReturnStatement:
		return w.writeReturnStatement(n)
	case *ast.PreprocessorExpression:
		return w.writePreprocessor(n)
	case nil:
		return "", newTargetError("cannot compile nodetype <nil>")
	default:
		return w.emitExpr(node)
	}
}

func (w *writer) writeReturnStatement(n *ast.ReturnStatement) (string, error) {
	if n.Value == nil {
		return "return", nil
	}
	value, err := w.emitExpr(n.Value)
	if err != nil {
		return "", err
	}
	return "return " + value, nil
}

func (w *writer) writeIfStatement(n *ast.IfStatement) (string, error) {
	cond, err := w.emitExpr(n.Condition)
	if err != nil {
		return "", err
	}
	body, err := w.writeBlock(n.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("if (%s) %s", cond, body), nil
}

func (w *writer) writeElseStatement(n *ast.ElseStatement) (string, error) {
	body, err := w.writeBlock(n.Body)
	if err != nil {
		return "", err
	}
	return "else " + body, nil
}

func (w *writer) writeElseIfStatement(n *ast.ElseIfStatement) (string, error) {
	cond, err := w.emitExpr(n.Condition)
	if err != nil {
		return "", err
	}
	body, err := w.writeBlock(n.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("else if (%s) %s", cond, body), nil
}

func (w *writer) writeForStatement(n *ast.ForStatement) (string, error) {
	initText, err := w.emitClause(n.Init)
	if err != nil {
		return "", err
	}
	testText, err := w.emitClause(n.Test)
	if err != nil {
		return "", err
	}
	updateText, err := w.emitClause(n.Update)
	if err != nil {
		return "", err
	}
	body, err := w.writeBlock(n.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("for (%s; %s; %s) %s", initText, testText, updateText, body), nil
}

// emitClause renders a for-loop header clause, which may be a
// VariableDeclaration (the init slot) or a plain/assignment expression, or
// may be absent (nil).
func (w *writer) emitClause(node ast.Node) (string, error) {
	if node == nil {
		return "", nil
	}
	if decl, ok := node.(*ast.VariableDeclaration); ok {
		return w.writeVariableDeclaration(decl)
	}
	return w.emitExpr(node)
}

func (w *writer) writeFunctionDeclaration(n *ast.FunctionDeclaration) (string, error) {
	if err := w.declareName(functionBucket, n.Name); err != nil {
		return "", err
	}
	returnType, err := resolveType(n.ReturnType, w.target, false)
	if err != nil {
		return "", err
	}

	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		pType, err := resolveType(p.Type, w.target, false)
		if err != nil {
			return "", err
		}
		params[i] = fmt.Sprintf("%s %s", pType, p.Name)
	}

	var b strings.Builder
	if n.Const {
		b.WriteString("const ")
	}
	fmt.Fprintf(&b, "%s %s(%s) ", returnType, n.Name, strings.Join(params, ", "))

	body, err := w.writeBlock(n.Body)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	return b.String(), nil
}

func (w *writer) writeStructDeclaration(n *ast.StructDeclaration) (string, error) {
	if err := w.declareName(structBucket, n.Name); err != nil {
		return "", err
	}
	body, err := w.writeBlock(n.Body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("struct %s\n%s", n.Name, body), nil
}

// emitExpr renders any expression-kind node as inline text — expressions
// never span multiple lines, so this is safe to call recursively from
// anywhere (call arguments, initializers, for-loop clauses).
func (w *writer) emitExpr(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.Identifier:
		return remapIdentifier(n.Name, w.target), nil

	case *ast.Literal:
		return n.Value, nil

	case *ast.ParenExpression:
		inside, err := w.emitExpr(n.Inside)
		if err != nil {
			return "", err
		}
		return "(" + inside + ")", nil

	case *ast.BinaryExpression:
		return w.emitBinaryExpression(n)

	case *ast.MemberExpression:
		return w.emitMemberExpression(n)

	case *ast.AssignmentExpression:
		left, err := w.emitExpr(n.Left)
		if err != nil {
			return "", err
		}
		if _, isBuffer := w.bufferName(n.Left); isBuffer {
			left += "[0]"
		}
		right, err := w.emitExpr(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, n.Operator, right), nil

	case *ast.UpdateExpression:
		target, err := w.emitExpr(n.Target)
		if err != nil {
			return "", err
		}
		if n.Prefix {
			return n.Operator + target, nil
		}
		return target + n.Operator, nil

	case *ast.CallExpression:
		return w.emitCallExpression(n)

	case *ast.CastExpression:
		typeName, err := resolveType(n.Type, w.target, false)
		if err != nil {
			return "", err
		}
		args, err := w.emitExprList(n.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", typeName, strings.Join(args, ", ")), nil

	case *ast.ListExpression:
		elements, err := w.emitExprList(n.Elements)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("{ %s }", strings.Join(elements, ", ")), nil

	case nil:
		return "", newTargetError("cannot compile nodetype <nil>")

	default:
		return "", newTargetError("cannot compile nodetype %T", node)
	}
}

func (w *writer) emitExprList(nodes []ast.Node) ([]string, error) {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		text, err := w.emitExpr(n)
		if err != nil {
			return nil, err
		}
		out[i] = text
	}
	return out, nil
}

func (w *writer) emitCallExpression(n *ast.CallExpression) (string, error) {
	if callee, ok := n.Callee.(*ast.Identifier); ok && callee.Name == "subpassRead" && len(n.Args) == 2 {
		switch w.target {
		case OpenGLSL:
			tex, err := w.emitExpr(n.Args[0])
			if err != nil {
				return "", err
			}
			uv, err := w.emitExpr(n.Args[1])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("texture(%s, %s)", tex, uv), nil
		case VulkanGLSL:
			tex, err := w.emitExpr(n.Args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("subpassLoad(%s)", tex), nil
		}
	}

	callee, err := w.emitExpr(n.Callee)
	if err != nil {
		return "", err
	}
	args, err := w.emitExprList(n.Args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(args, ", ")), nil
}
