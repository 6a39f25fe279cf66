// Package hsl is a cross-compiler from HSL (a small, C-like shader
// source language) to OpenGL GLSL, Vulkan GLSL, and (partially) HLSL.
//
// The pipeline is lex -> parse -> emit, each stage exposed individually
// for tooling, plus Compile/CompileFromFile for the common case:
//
//	source := `vec4 main() { return vec4(1.0, 0.0, 0.0, 1.0); }`
//	root, err := hsl.Parse(hsl.Lex(source))
//	out, err := hsl.Compile(root, ".", hsl.VulkanGLSL)
package hsl

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/gogpu/hsl/ast"
	"github.com/gogpu/hsl/emitter"
	"github.com/gogpu/hsl/lexer"
	"github.com/gogpu/hsl/parser"
)

// CompileTarget selects the output dialect. Metal is reserved and any
// attempt to emit for it fails.
type CompileTarget = emitter.CompileTarget

const (
	OpenGLSL   = emitter.OpenGLSL
	VulkanGLSL = emitter.VulkanGLSL
	HLSL       = emitter.HLSL
	Metal      = emitter.Metal
)

// Lex tokenizes HSL source text.
func Lex(source string) []lexer.Token {
	return lexer.Lex(source)
}

// Parse builds the AST for an already-lexed token stream.
func Parse(tokens []lexer.Token) (*ast.BlockStatement, error) {
	return parser.Parse(tokens)
}

// Compile emits root in the given target dialect. includeBase is the
// directory #include paths in root resolve against.
func Compile(root *ast.BlockStatement, includeBase string, target CompileTarget) (string, error) {
	return emitter.Compile(root, includeBase, target, nil)
}

// CompileFromFile reads, lexes, parses, and emits the HSL source at path.
// #include directives resolve relative to path's directory.
func CompileFromFile(path string, target CompileTarget) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %q", path)
	}

	tokens := Lex(string(source))
	root, err := Parse(tokens)
	if err != nil {
		return "", errors.Wrapf(err, "parsing %q", path)
	}

	return Compile(root, filepath.Dir(path), target)
}
