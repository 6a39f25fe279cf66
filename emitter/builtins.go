package emitter

import (
	"fmt"
	"strings"
)

// predeclaredIdentifiers are registered in the global scope the first time
// it is pushed, so ordinary name-uniqueness checks see them as already
// taken.
var predeclaredIdentifiers = []string{
	"hl_OutPosition",
	"hl_PixelPosition",
	"hl_VertexId",
	"hl_InstanceIndex",
}

// identifierRemap is the target-dependent built-in rename table. An
// identifier with no entry for the current target passes through
// verbatim.
var identifierRemap = map[string]map[CompileTarget]string{
	"hl_OutPosition":   {OpenGLSL: "gl_Position", VulkanGLSL: "gl_Position"},
	"hl_PixelPosition": {OpenGLSL: "gl_FragCoord", VulkanGLSL: "gl_FragCoord"},
	"hl_VertexId":      {OpenGLSL: "gl_VertexID", VulkanGLSL: "gl_VertexIndex"},
	"hl_InstanceIndex": {OpenGLSL: "(gl_BaseInstance + gl_InstanceID)", VulkanGLSL: "gl_InstanceIndex"},
}

func remapIdentifier(name string, target CompileTarget) string {
	if byTarget, ok := identifierRemap[name]; ok {
		if remapped, ok := byTarget[target]; ok {
			return remapped
		}
	}
	return name
}

type saturateVariant struct {
	typ, zero, one string
}

var saturateOverloads = []saturateVariant{
	{"float", "0.0", "1.0"},
	{"vec2", "vec2(0.0)", "vec2(1.0)"},
	{"vec3", "vec3(0.0)", "vec3(1.0)"},
	{"vec4", "vec4(0.0)", "vec4(1.0)"},
}

// predefinitionsText registers the predeclared identifiers and saturate
// function in the current (global) scope, and, on GLSL targets, returns
// the saturate overload bodies to splice in at the top of the output.
// HLSL's saturate is already a language intrinsic, so nothing is emitted
// there.
func (w *writer) predefinitionsText() string {
	scope := w.state.ScopeStack[len(w.state.ScopeStack)-1]
	for _, name := range predeclaredIdentifiers {
		scope.Variables[name] = struct{}{}
	}
	scope.Functions["saturate"] = struct{}{}

	if w.target != OpenGLSL && w.target != VulkanGLSL {
		return ""
	}

	var b strings.Builder
	for _, v := range saturateOverloads {
		fmt.Fprintf(&b, "%s saturate(%s x) { return clamp(x, %s, %s); }\n", v.typ, v.typ, v.zero, v.one)
	}
	return b.String()
}
