package hsl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/hsl/emitter"
)

// Scenario 1: built-in rewrite (Vulkan GLSL).
func TestScenarioBuiltinRewriteVulkan(t *testing.T) {
	src := "void main() { hl_OutPosition = vec4(0.0, 0.0, 0.0, 1.0); }"
	out := compile(t, src, VulkanGLSL)
	if !strings.Contains(out, "gl_Position = vec4(0.0, 0.0, 0.0, 1.0)") {
		t.Fatalf("expected gl_Position rewrite, got:\n%s", out)
	}
	if !strings.Contains(out, "saturate") {
		t.Fatalf("expected predefinitions block to be present, got:\n%s", out)
	}
}

// Scenario 2: buffer lowering (Vulkan GLSL).
func TestScenarioBufferLoweringVulkan(t *testing.T) {
	src := `struct Camera { mat4 view; };
buffer<Camera,0> cam;
void main() { hl_OutPosition = cam.view * vec4(0,0,0,1); }`
	out := compile(t, src, VulkanGLSL)
	if !strings.Contains(out, "layout(set=0, binding=0) buffer BUFFER0 { Camera data[]; } cam") {
		t.Fatalf("expected buffer layout declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "gl_Position = cam.data[0].view * vec4(0, 0, 0, 1)") {
		t.Fatalf("expected desugared buffer member access inside main, got:\n%s", out)
	}
}

// Scenario 3: texture sampling (OpenGL GLSL).
func TestScenarioTextureSamplingOpenGL(t *testing.T) {
	src := "tex2d<0> tex; in vec2 uv; out vec4 color; void main() { color = subpassRead(tex, uv); }"
	out := compile(t, src, OpenGLSL)
	if !strings.Contains(out, "layout(binding=0) uniform sampler2D tex") {
		t.Fatalf("expected texture declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "layout(location=0) in vec2 uv") {
		t.Fatalf("expected in-location declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "layout(location=0) out vec4 color") {
		t.Fatalf("expected out-location declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "color = texture(tex, uv)") {
		t.Fatalf("expected subpassRead->texture rewrite, got:\n%s", out)
	}
}

// Scenario 4: include expansion.
func TestScenarioIncludeExpansion(t *testing.T) {
	dir := t.TempDir()
	bPath := filepath.Join(dir, "b.hsl")
	if err := os.WriteFile(bPath, []byte("void f() { }"), 0644); err != nil {
		t.Fatalf("writing b.hsl: %v", err)
	}
	aPath := filepath.Join(dir, "a.hsl")
	aSrc := "#include \"b.hsl\"\nvoid main() { f(); }"
	if err := os.WriteFile(aPath, []byte(aSrc), 0644); err != nil {
		t.Fatalf("writing a.hsl: %v", err)
	}

	out, err := CompileFromFile(aPath, OpenGLSL)
	if err != nil {
		t.Fatalf("CompileFromFile: %v", err)
	}
	if !strings.Contains(out, "BEGIN INCLUDE") {
		t.Fatalf("expected begin marker around b.hsl's content, got:\n%s", out)
	}
	if !strings.Contains(out, "void f()") {
		t.Fatalf("expected f's declaration to appear, got:\n%s", out)
	}
	if !strings.Contains(out, "void main()") || !strings.Contains(out, "f()") {
		t.Fatalf("expected main's call to f to appear, got:\n%s", out)
	}
}

// Scenario 5: scope rejection.
func TestScenarioScopeRejection(t *testing.T) {
	_, err := compileErr(t, "void main() { int x; int x; }", OpenGLSL)
	if _, ok := err.(*emitter.SemanticError); !ok {
		t.Fatalf("expected *emitter.SemanticError, got %T (%v)", err, err)
	}
	if !strings.Contains(err.Error(), "already defined") {
		t.Fatalf("expected 'already defined' in error, got: %v", err)
	}
}

// Scenario 6: saturate overload availability.
func TestScenarioSaturateOverloadAvailability(t *testing.T) {
	out := compile(t, "float x; void main() { float y = saturate(x); }", VulkanGLSL)
	for _, sig := range []string{"float saturate(float x)", "vec2 saturate(vec2 x)", "vec3 saturate(vec3 x)", "vec4 saturate(vec4 x)"} {
		if !strings.Contains(out, sig) {
			t.Errorf("expected saturate overload %q in predefinitions, got:\n%s", sig, out)
		}
	}
	if !strings.Contains(out, "saturate(x)") {
		t.Fatalf("expected call site to compile unchanged, got:\n%s", out)
	}
}

// Boundary behavior: buf op x and buf.field desugar, buf = 0 desugar.
func TestBoundaryBufferDesugar(t *testing.T) {
	src := `struct S { float v; };
buffer<S, 0> buf;
void main() { buf = 0; buf.v; }`
	out := compile(t, src, OpenGLSL)
	if !strings.Contains(out, "buf[0] = 0") {
		t.Fatalf("expected buf = 0 -> buf[0] = 0, got:\n%s", out)
	}
	if !strings.Contains(out, "buf.data[0].v") {
		t.Fatalf("expected buf.v -> buf.data[0].v, got:\n%s", out)
	}
}

// Boundary behavior: int used as shader input implicitly becomes flat in.
func TestBoundaryFlatInputForInt(t *testing.T) {
	out := compile(t, "in int id;", OpenGLSL)
	if !strings.Contains(out, "flat layout(location=0) in int id") {
		t.Fatalf("expected implicit flat on integer input, got:\n%s", out)
	}
}

// Invariant: lexing is idempotent modulo whitespace-only differences.
func TestInvariantLexIdempotent(t *testing.T) {
	src := "vec4 main() { return vec4(1.0, 0.0, 0.0, 1.0); }"
	first := Lex(src)
	var rejoined strings.Builder
	for i, tok := range first {
		if i > 0 {
			rejoined.WriteByte(' ')
		}
		rejoined.WriteString(tok.Text)
	}
	second := Lex(rejoined.String())
	if len(first) != len(second) {
		t.Fatalf("re-lex produced a different token count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].Text != second[i].Text {
			t.Fatalf("token %d mismatch: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// Invariant: node spans satisfy start <= end and stay within the parent's span.
func TestInvariantSpanContainment(t *testing.T) {
	root, err := Parse(Lex("void f() { float x = 1.0; }"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if root.Span().Start > root.Span().End {
		t.Fatalf("root span invalid: %+v", root.Span())
	}
	for _, stmt := range root.Body {
		sp := stmt.Span()
		if sp.Start > sp.End {
			t.Fatalf("statement span invalid: %+v", sp)
		}
		if sp.Start < root.Span().Start || sp.End > root.Span().End {
			t.Fatalf("statement span %+v escapes root span %+v", sp, root.Span())
		}
	}
}

// Invariant: binding and location counters are strictly increasing.
func TestInvariantCountersStrictlyIncreasing(t *testing.T) {
	src := `struct A { float x; };
struct B { float y; };
buffer<A, 0> a;
buffer<B, 1> b;
in vec2 uv0;
in vec2 uv1;
out vec4 c0;
out vec4 c1;`
	out := compile(t, src, VulkanGLSL)
	if !strings.Contains(out, "BUFFER0") || !strings.Contains(out, "BUFFER1") {
		t.Fatalf("expected strictly increasing buffer counters, got:\n%s", out)
	}
	if !strings.Contains(out, "location=0) in") || !strings.Contains(out, "location=1) in") {
		t.Fatalf("expected strictly increasing in-location counters, got:\n%s", out)
	}
	if !strings.Contains(out, "location=0) out") || !strings.Contains(out, "location=1) out") {
		t.Fatalf("expected strictly increasing out-location counters, got:\n%s", out)
	}
}

// Invariant: every emitted line's indentation is a multiple of 4 spaces.
func TestInvariantIndentIsMultipleOfFour(t *testing.T) {
	out := compile(t, "void f() { if (1) { float x; } }", OpenGLSL)
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		leading := len(line) - len(trimmed)
		if leading%4 != 0 {
			t.Errorf("line has non-multiple-of-4 indentation (%d): %q", leading, line)
		}
	}
}

func compile(t *testing.T, src string, target CompileTarget) string {
	t.Helper()
	tokens := Lex(src)
	root, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	out, err := Compile(root, ".", target)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", src, err)
	}
	return out
}

func compileErr(t *testing.T, src string, target CompileTarget) (string, error) {
	t.Helper()
	tokens := Lex(src)
	root, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return Compile(root, ".", target)
}
