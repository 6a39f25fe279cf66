package emitter

import "strings"

// CompileTarget selects the output dialect. Metal is reserved: any attempt
// to emit for it fails with a TargetError.
type CompileTarget int

const (
	OpenGLSL CompileTarget = iota
	VulkanGLSL
	HLSL
	Metal
)

func (t CompileTarget) String() string {
	switch t {
	case OpenGLSL:
		return "opengl"
	case VulkanGLSL:
		return "vulkan"
	case HLSL:
		return "hlsl"
	case Metal:
		return "metal"
	default:
		return "unknown"
	}
}

var vectorScalarNames = map[string]string{
	"vec":  "float",
	"bvec": "bool",
	"ivec": "int",
	"uvec": "uint",
	"dvec": "double",
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func splitVectorType(t string) (scalar, digits string, ok bool) {
	for prefix, base := range vectorScalarNames {
		if strings.HasPrefix(t, prefix) {
			if rest := t[len(prefix):]; isAllDigits(rest) {
				return base, rest, true
			}
		}
	}
	return "", "", false
}

func isIntegerType(t string) bool {
	return t == "int" || t == "uint"
}

// resolveType translates an HSL type name into its spelling in the target
// dialect. On GLSL targets isUniform inserts a "uniform " prefix for
// sampler types and picks "uniform" over "buffer" for the buffer type; on
// HLSL it picks ConstantBuffer over StructuredBuffer.
func resolveType(t string, target CompileTarget, isUniform bool) (string, error) {
	switch t {
	case "bool", "int", "uint", "float", "double", "void":
		return t, nil
	case "tex2d":
		return resolveSamplerType(target, "sampler2D", "Texture2D", isUniform)
	case "texCube":
		return resolveSamplerType(target, "samplerCube", "", isUniform)
	case "subpassTex":
		switch target {
		case OpenGLSL:
			return withUniform("sampler2D", isUniform), nil
		case VulkanGLSL:
			return withUniform("subpassInput", isUniform), nil
		default:
			return "", newTargetError("subpassTex has no %s representation", target)
		}
	case "buffer":
		if target == HLSL {
			if isUniform {
				return "ConstantBuffer", nil
			}
			return "StructuredBuffer", nil
		}
		if isUniform {
			return "uniform", nil
		}
		return "buffer", nil
	}

	if scalar, digits, ok := splitVectorType(t); ok {
		if target == HLSL {
			return scalar + digits, nil
		}
		return t, nil
	}

	if strings.HasPrefix(t, "mat") && isAllDigits(t[3:]) {
		if target == HLSL {
			n := t[3:]
			return "float" + n + "x" + n, nil
		}
		return t, nil
	}

	return "", newTargetError("unknown type %q", t)
}

func resolveSamplerType(target CompileTarget, glslName, hlslName string, isUniform bool) (string, error) {
	switch target {
	case OpenGLSL, VulkanGLSL:
		return withUniform(glslName, isUniform), nil
	case HLSL:
		if hlslName == "" {
			return "", newTargetError("type has no HLSL representation")
		}
		return hlslName, nil
	default:
		return "", newTargetError("unsupported target")
	}
}

func withUniform(name string, isUniform bool) string {
	if isUniform {
		return "uniform " + name
	}
	return name
}
