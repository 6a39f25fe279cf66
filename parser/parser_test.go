package parser

import (
	"testing"

	"github.com/gogpu/hsl/ast"
	"github.com/gogpu/hsl/lexer"
)

func parse(t *testing.T, src string) *ast.BlockStatement {
	t.Helper()
	block, err := Parse(lexer.Lex(src))
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", src, err)
	}
	return block
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	_, err := Parse(lexer.Lex(src))
	if err == nil {
		t.Fatalf("Parse(%q) expected error, got nil", src)
	}
	return err
}

func TestParsePostfixChain(t *testing.T) {
	block := parse(t, "f(a).b[i].c;")
	if len(block.Body) != 1 {
		t.Fatalf("expected one statement, got %d", len(block.Body))
	}
	outer, ok := block.Body[0].(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected outer MemberExpression, got %T", block.Body[0])
	}
	if _, ok := outer.Property.(*ast.Identifier); !ok {
		t.Fatalf("expected .c property to be Identifier, got %T", outer.Property)
	}
	index, ok := outer.Object.(*ast.BinaryExpression)
	if !ok || index.Operator != "[" {
		t.Fatalf("expected [i] index expression, got %#v", outer.Object)
	}
	member, ok := index.Left.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected .b member access, got %T", index.Left)
	}
	if _, ok := member.Object.(*ast.CallExpression); !ok {
		t.Fatalf("expected f(a) call as innermost object, got %T", member.Object)
	}
}

func TestParseBinaryRightAssociativeNoPrecedence(t *testing.T) {
	block := parse(t, "a + b * c;")
	top, ok := block.Body[0].(*ast.BinaryExpression)
	if !ok || top.Operator != "+" {
		t.Fatalf("expected top-level +, got %#v", block.Body[0])
	}
	right, ok := top.Right.(*ast.BinaryExpression)
	if !ok || right.Operator != "*" {
		t.Fatalf("expected right-hand * nested under +, got %#v", top.Right)
	}
	if _, ok := top.Left.(*ast.Identifier); !ok {
		t.Fatalf("expected left operand to remain a bare identifier, got %T", top.Left)
	}
}

func TestParseVariableDeclarationPlain(t *testing.T) {
	block := parse(t, "float x;")
	decl, ok := block.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", block.Body[0])
	}
	if decl.Type != "float" || decl.Name != "x" || decl.Init != nil || decl.ArrayCount != 0 {
		t.Fatalf("unexpected declaration shape: %#v", decl)
	}
}

func TestParseVariableDeclarationArray(t *testing.T) {
	block := parse(t, "float xs[4];")
	decl := block.Body[0].(*ast.VariableDeclaration)
	if decl.ArrayCount != 4 {
		t.Fatalf("ArrayCount = %d, want 4", decl.ArrayCount)
	}
}

func TestParseVariableDeclarationWithInit(t *testing.T) {
	block := parse(t, "float x = 1.0;")
	decl := block.Body[0].(*ast.VariableDeclaration)
	lit, ok := decl.Init.(*ast.Literal)
	if !ok || lit.Value != "1.0" {
		t.Fatalf("Init = %#v, want literal 1.0", decl.Init)
	}
}

func TestParseVariableDeclarationTemplated(t *testing.T) {
	block := parse(t, "buffer<Particle> particles;")
	decl := block.Body[0].(*ast.VariableDeclaration)
	if decl.Type != "buffer" || len(decl.TemplateArgs) != 1 {
		t.Fatalf("unexpected templated declaration: %#v", decl)
	}
	id, ok := decl.TemplateArgs[0].(*ast.Identifier)
	if !ok || id.Name != "Particle" {
		t.Fatalf("template arg = %#v, want Identifier Particle", decl.TemplateArgs[0])
	}
}

func TestParseVariableDeclarationKeywordFlags(t *testing.T) {
	block := parse(t, "in vec2 uv;")
	decl := block.Body[0].(*ast.VariableDeclaration)
	if !decl.Keywords.In {
		t.Fatalf("expected In flag set, got %#v", decl.Keywords)
	}

	block = parse(t, "out vec4 color;")
	decl = block.Body[0].(*ast.VariableDeclaration)
	if !decl.Keywords.Out {
		t.Fatalf("expected Out flag set, got %#v", decl.Keywords)
	}

	block = parse(t, "uniform flat const float k;")
	decl = block.Body[0].(*ast.VariableDeclaration)
	if !decl.Keywords.Uniform || !decl.Keywords.Flat || !decl.Keywords.Const {
		t.Fatalf("expected Uniform+Flat+Const flags set, got %#v", decl.Keywords)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	block := parse(t, "float add(float a, float b) { return a + b; }")
	fn, ok := block.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected FunctionDeclaration, got %T", block.Body[0])
	}
	if fn.ReturnType != "float" || fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %#v", fn)
	}
	if fn.Params[0] != (ast.Param{Type: "float", Name: "a"}) {
		t.Fatalf("param 0 = %#v", fn.Params[0])
	}
	if !fn.Body.Scoped || len(fn.Body.Body) != 1 {
		t.Fatalf("expected scoped one-statement body, got %#v", fn.Body)
	}
}

func TestParseStructDeclaration(t *testing.T) {
	block := parse(t, "struct Particle { vec3 position; vec3 velocity; };")
	decl, ok := block.Body[0].(*ast.StructDeclaration)
	if !ok {
		t.Fatalf("expected StructDeclaration, got %T", block.Body[0])
	}
	if decl.Name != "Particle" || len(decl.Body.Body) != 2 {
		t.Fatalf("unexpected struct shape: %#v", decl)
	}
}

func TestParseForLoop(t *testing.T) {
	block := parse(t, "for (int i = 0; i < 4; i++) { x += i; }")
	loop, ok := block.Body[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected ForStatement, got %T", block.Body[0])
	}
	if _, ok := loop.Init.(*ast.VariableDeclaration); !ok {
		t.Fatalf("expected Init to be VariableDeclaration, got %T", loop.Init)
	}
	if _, ok := loop.Test.(*ast.BinaryExpression); !ok {
		t.Fatalf("expected Test to be BinaryExpression, got %T", loop.Test)
	}
	if _, ok := loop.Update.(*ast.UpdateExpression); !ok {
		t.Fatalf("expected Update to be UpdateExpression, got %T", loop.Update)
	}
}

func TestParseIfStatement(t *testing.T) {
	block := parse(t, "if (x > 0) { y = 1; }")
	ifStmt, ok := block.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", block.Body[0])
	}
	if _, ok := ifStmt.Condition.(*ast.BinaryExpression); !ok {
		t.Fatalf("expected condition to be BinaryExpression, got %T", ifStmt.Condition)
	}
}

func TestParseReturnWithValue(t *testing.T) {
	block := parse(t, "float f() { return 1.0; }")
	fn := block.Body[0].(*ast.FunctionDeclaration)
	ret, ok := fn.Body.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected ReturnStatement, got %T", fn.Body.Body[0])
	}
	if ret.Value == nil {
		t.Fatal("expected non-nil return value")
	}
}

func TestParseReturnBare(t *testing.T) {
	block := parse(t, "void f() { return; }")
	fn := block.Body[0].(*ast.FunctionDeclaration)
	ret, ok := fn.Body.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected ReturnStatement, got %T", fn.Body.Body[0])
	}
	if ret.Value != nil {
		t.Fatalf("expected nil return value, got %#v", ret.Value)
	}
}

func TestParseAssignmentVsPlainExpressionStatement(t *testing.T) {
	block := parse(t, "a = b; a;")
	if _, ok := block.Body[0].(*ast.AssignmentExpression); !ok {
		t.Fatalf("expected AssignmentExpression, got %T", block.Body[0])
	}
	if _, ok := block.Body[1].(*ast.Identifier); !ok {
		t.Fatalf("expected bare Identifier statement, got %T", block.Body[1])
	}
}

func TestParseElseAndWhileAreUnexpectedKeywords(t *testing.T) {
	parseErr(t, "if (a) { b; } else { c; }")
	parseErr(t, "while (a) { b; }")
}

func TestParseMissingCloseParen(t *testing.T) {
	parseErr(t, "f(a;")
}

func TestParseMissingCloseBracket(t *testing.T) {
	parseErr(t, "a[i;")
}

func TestParseMissingCloseBrace(t *testing.T) {
	parseErr(t, "void f() { return 1.0;")
}

func TestParseMissingSemicolon(t *testing.T) {
	parseErr(t, "float x = 1.0")
}

func TestParseUnexpectedTypeToken(t *testing.T) {
	parseErr(t, "float 4;")
}

func TestParseNonLiteralArraySize(t *testing.T) {
	parseErr(t, "float xs[n];")
}

func TestParseBadParameterShape(t *testing.T) {
	parseErr(t, "float f(float) { return 1.0; }")
}

func TestParseEmptyPrimary(t *testing.T) {
	parseErr(t, "+;")
}

func TestParseInvalidPrimaryEOF(t *testing.T) {
	parseErr(t, "float x = ")
}

func TestParseNestedTerminatorsDoNotConfuseList(t *testing.T) {
	block := parse(t, "f(g(a, b), c);")
	call, ok := block.Body[0].(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %T", block.Body[0])
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 outer args, got %d: %#v", len(call.Args), call.Args)
	}
	inner, ok := call.Args[0].(*ast.CallExpression)
	if !ok || len(inner.Args) != 2 {
		t.Fatalf("expected inner call g(a, b) with 2 args, got %#v", call.Args[0])
	}
}

func TestParseListExpressionInitializer(t *testing.T) {
	block := parse(t, "float xs[3] = { 1.0, 2.0, 3.0 };")
	decl := block.Body[0].(*ast.VariableDeclaration)
	list, ok := decl.Init.(*ast.ListExpression)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected 3-element ListExpression init, got %#v", decl.Init)
	}
}

func TestParseCastExpression(t *testing.T) {
	block := parse(t, "vec3 a = vec3(1.0, 2.0, 3.0);")
	decl := block.Body[0].(*ast.VariableDeclaration)
	cast, ok := decl.Init.(*ast.CastExpression)
	if !ok || cast.Type != "vec3" || len(cast.Args) != 3 {
		t.Fatalf("expected vec3(...) cast with 3 args, got %#v", decl.Init)
	}
}

func TestParseSpanNextInvariant(t *testing.T) {
	tokens := lexer.Lex("float x = 1.0;")
	block, err := Parse(tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl := block.Body[0]
	if decl.Span().End != len(tokens)-1 {
		t.Fatalf("decl span end = %d, want %d", decl.Span().End, len(tokens)-1)
	}
}

func TestParseIncludeDirective(t *testing.T) {
	block := parse(t, `#include "common.hsl"`+"\nfloat x;")
	if len(block.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Body))
	}
	pre, ok := block.Body[0].(*ast.PreprocessorExpression)
	if !ok {
		t.Fatalf("expected PreprocessorExpression, got %T", block.Body[0])
	}
	if pre.Directive != "include" || pre.Body != `"common.hsl"` {
		t.Fatalf("unexpected directive %q / body %q", pre.Directive, pre.Body)
	}
	if _, ok := block.Body[1].(*ast.VariableDeclaration); !ok {
		t.Fatalf("expected following statement to still parse, got %T", block.Body[1])
	}
}

func TestParseDefineDirectiveCapturesRestOfLine(t *testing.T) {
	block := parse(t, "#define FOO 1\nfloat x;")
	pre, ok := block.Body[0].(*ast.PreprocessorExpression)
	if !ok {
		t.Fatalf("expected PreprocessorExpression, got %T", block.Body[0])
	}
	if pre.Directive != "define" || pre.Body != "FOO 1" {
		t.Fatalf("unexpected directive %q / body %q", pre.Directive, pre.Body)
	}
}
