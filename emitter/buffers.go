package emitter

import (
	"fmt"
	"strings"

	"github.com/gogpu/hsl/ast"
)

// bufferName returns the buffer's identifier name and true if node is an
// Identifier referring to a buffer declared in the outermost scope.
func (w *writer) bufferName(node ast.Node) (string, bool) {
	id, ok := node.(*ast.Identifier)
	if !ok || len(w.state.ScopeStack) == 0 {
		return "", false
	}
	global := w.state.ScopeStack[0]
	if _, declared := global.Buffers[id.Name]; declared {
		return id.Name, true
	}
	return "", false
}

// emitBinaryExpression applies the buffer-access desugar: `buf op x` ->
// `buf[0] op x` for any op except "[", which already means `buf[x]` and
// stays as-is. A left operand that isn't a bare declared-buffer identifier
// is unaffected.
func (w *writer) emitBinaryExpression(n *ast.BinaryExpression) (string, error) {
	left, err := w.emitExpr(n.Left)
	if err != nil {
		return "", err
	}
	right, err := w.emitExpr(n.Right)
	if err != nil {
		return "", err
	}

	if n.Operator == "[" {
		return fmt.Sprintf("%s[%s]", left, right), nil
	}
	if _, isBuffer := w.bufferName(n.Left); isBuffer {
		return fmt.Sprintf("%s[0] %s %s", left, n.Operator, right), nil
	}
	return fmt.Sprintf("%s %s %s", left, n.Operator, right), nil
}

// emitMemberExpression applies the buffer-access desugar: `buf.f` ->
// `buf.data[0].f`. Member access on an already-indexed buffer expression
// (`buf[i].field`) is not rewritten further — a documented limitation,
// since only a bare Identifier object is recognized as "the buffer".
func (w *writer) emitMemberExpression(n *ast.MemberExpression) (string, error) {
	object, err := w.emitExpr(n.Object)
	if err != nil {
		return "", err
	}
	property, err := w.emitExpr(n.Property)
	if err != nil {
		return "", err
	}
	if _, isBuffer := w.bufferName(n.Object); isBuffer {
		return fmt.Sprintf("%s.data[0].%s", object, property), nil
	}
	return fmt.Sprintf("%s.%s", object, property), nil
}

// writeVariableDeclaration lowers a VariableDeclaration per its type:
// buffer/tex2d/texCube/subpassTex go through their dedicated layout
// lowering (outermost scope only, GLSL targets only); everything else is
// a plain (optionally in/out/const/array/initialized) declaration.
func (w *writer) writeVariableDeclaration(n *ast.VariableDeclaration) (string, error) {
	outermost := len(w.state.ScopeStack) == 1

	switch n.Type {
	case "buffer", "tex2d", "texCube", "subpassTex":
		if !outermost {
			return "", newSemanticError("%s may only be declared in the outermost scope", n.Type)
		}
		if n.Keywords.Flat || n.Keywords.In || n.Keywords.Out {
			return "", newSemanticError("%s %q cannot be declared flat, in, or out", n.Type, n.Name)
		}
		if w.target == HLSL {
			return "", newTargetError("%s layout declarations are not implemented for HLSL", n.Type)
		}
		switch n.Type {
		case "buffer":
			return w.lowerBufferDeclaration(n)
		case "tex2d", "texCube":
			return w.lowerTextureDeclaration(n)
		default:
			return w.lowerSubpassDeclaration(n)
		}
	}

	if n.Keywords.In && n.Keywords.Out {
		return "", newSemanticError("%q cannot be declared both in and out", n.Name)
	}
	if (n.Keywords.In || n.Keywords.Out) && !outermost {
		return "", newSemanticError("%q: in/out variables may only be declared in the outermost scope", n.Name)
	}

	if err := w.declareName(variableBucket, n.Name); err != nil {
		return "", err
	}

	typeName, err := resolveType(n.Type, w.target, n.Keywords.Uniform)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	flat := n.Keywords.Flat || (n.Keywords.In && isIntegerType(n.Type))
	if flat {
		b.WriteString("flat ")
	}
	if n.Keywords.Const {
		b.WriteString("const ")
	}

	switch {
	case n.Keywords.In:
		fmt.Fprintf(&b, "layout(location=%d) in ", w.state.InLocation)
		w.state.InLocation++
	case n.Keywords.Out:
		fmt.Fprintf(&b, "layout(location=%d) out ", w.state.OutLocation)
		w.state.OutLocation++
	}

	fmt.Fprintf(&b, "%s %s", typeName, n.Name)
	if n.ArrayCount > 0 {
		fmt.Fprintf(&b, "[%d]", n.ArrayCount)
	}
	if n.Init != nil {
		init, err := w.emitExpr(n.Init)
		if err != nil {
			return "", err
		}
		b.WriteString(" = ")
		b.WriteString(init)
	}
	return b.String(), nil
}

func (w *writer) lowerBufferDeclaration(n *ast.VariableDeclaration) (string, error) {
	if len(n.TemplateArgs) != 2 {
		return "", newSemanticError("buffer<S, N> declaration requires exactly two template arguments")
	}
	structID, ok := n.TemplateArgs[0].(*ast.Identifier)
	if !ok {
		return "", newSemanticError("buffer declaration's first template argument must be a struct name")
	}
	bindingLit, ok := n.TemplateArgs[1].(*ast.Literal)
	if !ok {
		return "", newSemanticError("buffer declaration's second template argument must be a literal binding")
	}

	global := w.state.ScopeStack[0]
	if _, known := global.Structs[structID.Name]; !known {
		return "", newSemanticError("buffer declaration references undeclared struct %q", structID.Name)
	}
	if err := w.declareName(bufferBucket, n.Name); err != nil {
		return "", err
	}

	k := w.state.BufferCounter
	w.state.BufferCounter++

	keyword := "buffer"
	readonly := ""
	if n.Keywords.Uniform {
		keyword = "uniform"
		readonly = "readonly "
	}

	var b strings.Builder
	b.WriteString("layout(")
	if w.target == VulkanGLSL {
		b.WriteString("set=0, ")
	}
	fmt.Fprintf(&b, "binding=%s) %s%s BUFFER%d { %s data[]; } %s", bindingLit.Value, readonly, keyword, k, structID.Name, n.Name)
	return b.String(), nil
}

func (w *writer) lowerTextureDeclaration(n *ast.VariableDeclaration) (string, error) {
	if len(n.TemplateArgs) != 1 {
		return "", newSemanticError("%s<N> declaration requires exactly one template argument", n.Type)
	}
	bindingLit, ok := n.TemplateArgs[0].(*ast.Literal)
	if !ok {
		return "", newSemanticError("%s declaration's template argument must be a literal binding", n.Type)
	}
	if err := w.declareName(variableBucket, n.Name); err != nil {
		return "", err
	}

	samplerType, err := resolveType(n.Type, w.target, true)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("layout(")
	if w.target == VulkanGLSL {
		b.WriteString("set=0, ")
	}
	fmt.Fprintf(&b, "binding=%s) %s %s", bindingLit.Value, samplerType, n.Name)
	return b.String(), nil
}

func (w *writer) lowerSubpassDeclaration(n *ast.VariableDeclaration) (string, error) {
	if len(n.TemplateArgs) != 2 {
		return "", newSemanticError("subpassTex<B, I> declaration requires exactly two template arguments")
	}
	bindingLit, ok := n.TemplateArgs[0].(*ast.Literal)
	if !ok {
		return "", newSemanticError("subpassTex declaration's first template argument must be a literal binding")
	}
	attachmentLit, ok := n.TemplateArgs[1].(*ast.Literal)
	if !ok {
		return "", newSemanticError("subpassTex declaration's second template argument must be a literal input attachment index")
	}
	if err := w.declareName(variableBucket, n.Name); err != nil {
		return "", err
	}

	if w.target == VulkanGLSL {
		return fmt.Sprintf("layout(set=0, input_attachment_index=%s, binding=%s) uniform subpassInput %s",
			attachmentLit.Value, bindingLit.Value, n.Name), nil
	}
	return fmt.Sprintf("layout(binding=%s) uniform sampler2D %s", bindingLit.Value, n.Name), nil
}
