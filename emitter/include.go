package emitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/gogpu/hsl/ast"
	"github.com/gogpu/hsl/lexer"
	"github.com/gogpu/hsl/parser"
)

// writePreprocessor handles a PreprocessorExpression. "include" is
// expanded inline; any other directive passes through unchanged.
func (w *writer) writePreprocessor(n *ast.PreprocessorExpression) (string, error) {
	if n.Directive != "include" {
		return fmt.Sprintf("#%s %s", n.Directive, n.Body), nil
	}
	return w.writeInclude(n.Body)
}

// writeInclude re-enters the lexer, parser, and emitter on the included
// file, sharing the current CompileState so counters and declared names
// stay consistent with the includer. include_base is swapped to the
// included file's directory for the duration and restored afterward, so
// a chain of includes resolves each relative path against its own file.
func (w *writer) writeInclude(rawBody string) (string, error) {
	relPath := stripIncludeDelimiters(rawBody)
	resolved := filepath.Join(w.state.IncludeBase, relPath)

	src, err := os.ReadFile(resolved)
	if err != nil {
		return "", errors.Wrapf(err, "reading include %q", resolved)
	}

	tokens := lexer.Lex(string(src))
	root, err := parser.Parse(tokens)
	if err != nil {
		return "", err
	}

	priorBase := w.state.IncludeBase
	w.state.IncludeBase = filepath.Dir(resolved)
	body, err := w.writeBlock(root)
	w.state.IncludeBase = priorBase
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("// BEGIN INCLUDE (%s)\n%s\n// ######", resolved, body), nil
}

func stripIncludeDelimiters(body string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'', ' ', '\t':
			return -1
		}
		return r
	}, body)
}
