// Package parser is a hand-written recursive-descent parser over a
// lexer.Token stream, producing an ast.Node tree.
//
// Every internal routine follows the shape `(offset int) -> (node, next
// int, err error)`: next is the index of the first token the routine did
// not consume, so a caller can resynchronize without re-deriving spans.
// This mirrors original_source/src/Parser.cpp's offset-threading design,
// generalized (per spec design note on postfix chaining) into a single
// loop after each primary instead of one ad hoc re-implementation per
// branch.
package parser

import (
	"strconv"

	"github.com/gogpu/hsl/ast"
	"github.com/gogpu/hsl/lexer"
)

// Parse parses a full token stream into the root BlockStatement. The root
// block is unscoped unless the source itself opens with a literal "{".
func Parse(tokens []lexer.Token) (*ast.BlockStatement, error) {
	p := &parser{tokens: tokens}
	block, _, err := p.parseBlock(0)
	return block, err
}

type parser struct {
	tokens []lexer.Token
}

func (p *parser) at(i int) (lexer.Token, bool) {
	if i < 0 || i >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[i], true
}

func (p *parser) textAt(i int) string {
	tok, ok := p.at(i)
	if !ok {
		return ""
	}
	return tok.Text
}

func (p *parser) expect(i int, text string) error {
	if p.textAt(i) != text {
		return newParseError(i, "expected %q", text)
	}
	return nil
}

// ---- blocks & statements ----

func (p *parser) parseBlock(offset int) (*ast.BlockStatement, int, error) {
	scoped := false
	bodyStart := offset
	if p.textAt(offset) == "{" {
		scoped = true
		bodyStart = offset + 1
	}

	var body []ast.Node
	i := bodyStart
	for {
		if scoped {
			if _, ok := p.at(i); !ok {
				return nil, 0, newParseError(i, "missing }")
			}
			if p.textAt(i) == "}" {
				break
			}
		} else if _, ok := p.at(i); !ok {
			break
		}

		stmt, next, err := p.parseStatement(i)
		if err != nil {
			return nil, 0, err
		}
		if stmt == nil {
			break
		}
		body = append(body, stmt)
		i = next
	}

	if scoped {
		return ast.NewBlockStatement(ast.NewSpan(offset, i), true, body), i + 1, nil
	}
	end := i - 1
	if end < offset {
		end = offset
	}
	return ast.NewBlockStatement(ast.NewSpan(offset, end), false, body), i, nil
}

// parseStatement dispatches on the statement's leading tokens. It returns a
// nil node (the spec's "None" sentinel) when offset is past the end of a
// root block's token stream.
func (p *parser) parseStatement(offset int) (ast.Node, int, error) {
	if _, ok := p.at(offset); !ok {
		return nil, offset, nil
	}

	if p.textAt(offset) == "#" {
		return p.parsePreprocessor(offset)
	}

	var keywords ast.DeclarationKeywords
	i := offset
	for {
		tok, ok := p.at(i)
		if !ok || tok.Kind != lexer.Keyword {
			break
		}
		switch tok.Text {
		case "const":
			keywords.Const = true
		case "uniform":
			keywords.Uniform = true
		case "flat":
			keywords.Flat = true
		case "in":
			keywords.In = true
		case "out":
			keywords.Out = true
		case "for":
			return p.parseForLoop(i)
		case "if":
			return p.parseIfStatement(i)
		case "return":
			return p.parseReturnStatement(i)
		case "struct":
			return p.parseStructDeclaration(i)
		default:
			// "else" and "while" fall here: the grammar reserves their AST
			// variants (ast.ElseStatement, ast.ElseIfStatement,
			// ast.WhileStatement) but does not parse them, per spec's
			// explicit instruction not to guess at their absent/no-op
			// source behavior.
			return nil, 0, newParseError(i, "unexpected keyword %q", tok.Text)
		}
		i++
	}

	if tok, ok := p.at(i); ok && tok.Kind == lexer.Type {
		if name, ok := p.at(i + 1); ok && name.Kind == lexer.Identifier && p.textAt(i+2) == "(" {
			return p.parseFunctionDeclaration(i, keywords.Const)
		}
		if name, ok := p.at(i + 1); ok && name.Kind == lexer.Identifier {
			return p.parseVariableDeclaration(i, keywords)
		}
		if p.textAt(i+1) == "<" {
			// buffer<S,N>, tex2d<N>, texCube<N>, subpassTex<B,I>: the
			// template-argument list sits between the type and the name.
			return p.parseVariableDeclaration(i, keywords)
		}
		return nil, 0, newParseError(i, "unexpected type token")
	}

	left, next, err := p.parseBasic(i)
	if err != nil {
		return nil, 0, err
	}
	if isAssignmentOperator(p.textAt(next)) {
		op := p.textAt(next)
		right, rnext, err := p.parseBasic(next + 1)
		if err != nil {
			return nil, 0, err
		}
		if err := p.expect(rnext, ";"); err != nil {
			return nil, 0, err
		}
		return ast.NewAssignmentExpression(ast.NewSpan(offset, rnext), op, left, right), rnext + 1, nil
	}
	if err := p.expect(next, ";"); err != nil {
		return nil, 0, err
	}
	return left, next + 1, nil
}

// parsePreprocessor consumes a lexer-captured `#` directive triple: the "#"
// punctuation token, an identifier directive name, and a single Literal
// token holding the rest of the source line verbatim.
func (p *parser) parsePreprocessor(offset int) (ast.Node, int, error) {
	directiveTok, ok := p.at(offset + 1)
	if !ok || directiveTok.Kind != lexer.Identifier {
		return nil, 0, newParseError(offset+1, "expected preprocessor directive")
	}
	bodyTok, ok := p.at(offset + 2)
	if !ok || bodyTok.Kind != lexer.Literal {
		return nil, 0, newParseError(offset+2, "expected preprocessor directive body")
	}
	return ast.NewPreprocessorExpression(ast.NewSpan(offset, offset+2), directiveTok.Text, bodyTok.Text), offset + 3, nil
}

func (p *parser) parseForLoop(offset int) (ast.Node, int, error) {
	i := offset + 1
	if err := p.expect(i, "("); err != nil {
		return nil, 0, err
	}
	i++

	var initNode ast.Node
	var err error
	if p.textAt(i) == ";" {
		i++
	} else {
		initNode, i, err = p.parseForClause(i, ";")
		if err != nil {
			return nil, 0, err
		}
	}

	var testNode ast.Node
	if p.textAt(i) != ";" {
		testNode, i, err = p.parseBasic(i)
		if err != nil {
			return nil, 0, err
		}
	}
	if err := p.expect(i, ";"); err != nil {
		return nil, 0, err
	}
	i++

	var updateNode ast.Node
	if p.textAt(i) != ")" {
		updateNode, i, err = p.parseBasic(i)
		if err != nil {
			return nil, 0, err
		}
	}
	if err := p.expect(i, ")"); err != nil {
		return nil, 0, err
	}
	i++

	if err := p.expect(i, "{"); err != nil {
		return nil, 0, newParseError(i, "expected { after for loop signature")
	}
	body, next, err := p.parseBlock(i)
	if err != nil {
		return nil, 0, err
	}
	return ast.NewForStatement(ast.NewSpan(offset, next-1), initNode, testNode, updateNode, body), next, nil
}

// parseForClause parses a for-loop's init clause: either a variable
// declaration or an assignment/bare expression, consuming the trailing
// delimiter (";" for init).
func (p *parser) parseForClause(offset int, delim string) (ast.Node, int, error) {
	if tok, ok := p.at(offset); ok && tok.Kind == lexer.Type {
		if name, ok := p.at(offset + 1); ok && name.Kind == lexer.Identifier {
			return p.parseVariableDeclaration(offset, ast.DeclarationKeywords{})
		}
	}

	left, next, err := p.parseBasic(offset)
	if err != nil {
		return nil, 0, err
	}
	if isAssignmentOperator(p.textAt(next)) {
		op := p.textAt(next)
		right, rnext, err := p.parseBasic(next + 1)
		if err != nil {
			return nil, 0, err
		}
		if err := p.expect(rnext, delim); err != nil {
			return nil, 0, err
		}
		return ast.NewAssignmentExpression(ast.NewSpan(offset, rnext), op, left, right), rnext + 1, nil
	}
	if err := p.expect(next, delim); err != nil {
		return nil, 0, err
	}
	return left, next + 1, nil
}

func (p *parser) parseIfStatement(offset int) (ast.Node, int, error) {
	i := offset + 1
	if err := p.expect(i, "("); err != nil {
		return nil, 0, err
	}
	cond, next, err := p.parseBasic(i + 1)
	if err != nil {
		return nil, 0, err
	}
	if err := p.expect(next, ")"); err != nil {
		return nil, 0, err
	}
	next++
	if err := p.expect(next, "{"); err != nil {
		return nil, 0, newParseError(next, "expected { after if condition")
	}
	body, bodyNext, err := p.parseBlock(next)
	if err != nil {
		return nil, 0, err
	}
	return ast.NewIfStatement(ast.NewSpan(offset, bodyNext-1), cond, body), bodyNext, nil
}

func (p *parser) parseReturnStatement(offset int) (ast.Node, int, error) {
	i := offset + 1
	if p.textAt(i) == ";" {
		return ast.NewReturnStatement(ast.NewSpan(offset, i), nil), i + 1, nil
	}
	value, next, err := p.parseBasic(i)
	if err != nil {
		return nil, 0, err
	}
	if err := p.expect(next, ";"); err != nil {
		return nil, 0, err
	}
	return ast.NewReturnStatement(ast.NewSpan(offset, next), value), next + 1, nil
}

func (p *parser) parseStructDeclaration(offset int) (ast.Node, int, error) {
	i := offset + 1
	nameTok, ok := p.at(i)
	if !ok || nameTok.Kind != lexer.Identifier {
		return nil, 0, newParseError(i, "expected a struct name")
	}
	name := nameTok.Text
	i++
	if err := p.expect(i, "{"); err != nil {
		return nil, 0, err
	}
	body, next, err := p.parseBlock(i)
	if err != nil {
		return nil, 0, err
	}
	if err := p.expect(next, ";"); err != nil {
		return nil, 0, newParseError(next, "expected ; after struct declaration")
	}
	return ast.NewStructDeclaration(ast.NewSpan(offset, next), name, body), next + 1, nil
}

func (p *parser) parseFunctionDeclaration(typeOffset int, isConst bool) (ast.Node, int, error) {
	typeTok := p.tokens[typeOffset]
	i := typeOffset + 1
	name := p.tokens[i].Text
	i++
	if err := p.expect(i, "("); err != nil {
		return nil, 0, err
	}
	params, next, err := p.parseFunctionParams(i + 1)
	if err != nil {
		return nil, 0, err
	}
	if err := p.expect(next, "{"); err != nil {
		return nil, 0, newParseError(next, "expected { after function declaration")
	}
	body, bodyNext, err := p.parseBlock(next)
	if err != nil {
		return nil, 0, err
	}
	return ast.NewFunctionDeclaration(ast.NewSpan(typeOffset, bodyNext-1), isConst, typeTok.Text, params, name, body), bodyNext, nil
}

func (p *parser) parseFunctionParams(offset int) ([]ast.Param, int, error) {
	i := offset
	var params []ast.Param
	if p.textAt(i) == ")" {
		return params, i + 1, nil
	}
	for {
		typeTok, ok := p.at(i)
		if !ok || typeTok.Kind != lexer.Type {
			return nil, 0, newParseError(i, "expected a parameter type")
		}
		nameTok, ok := p.at(i + 1)
		if !ok || nameTok.Kind != lexer.Identifier {
			return nil, 0, newParseError(i+1, "expected an identifier parameter name")
		}
		params = append(params, ast.Param{Type: typeTok.Text, Name: nameTok.Text})
		i += 2
		if p.textAt(i) == "," {
			i++
			continue
		}
		break
	}
	if err := p.expect(i, ")"); err != nil {
		return nil, 0, err
	}
	return params, i + 1, nil
}

func (p *parser) parseVariableDeclaration(offset int, keywords ast.DeclarationKeywords) (ast.Node, int, error) {
	typeTok := p.tokens[offset]
	i := offset + 1

	// Template arguments are single identifiers or literals, read as
	// primaries: parseBasic would take the closing ">" as a comparison.
	var templateArgs []ast.Node
	if p.textAt(i) == "<" {
		i++
		for {
			arg, next, err := p.parsePrimary(i)
			if err != nil {
				return nil, 0, err
			}
			templateArgs = append(templateArgs, arg)
			i = next
			if p.textAt(i) != "," {
				break
			}
			i++
		}
		if err := p.expect(i, ">"); err != nil {
			return nil, 0, err
		}
		i++
	}

	nameTok, ok := p.at(i)
	if !ok || nameTok.Kind != lexer.Identifier {
		return nil, 0, newParseError(i, "expected an identifier variable name")
	}
	name := nameTok.Text
	i++

	arrayCount := 0
	if p.textAt(i) == "[" {
		sizeTok, ok := p.at(i + 1)
		n, convErr := 0, error(nil)
		if ok {
			n, convErr = strconv.Atoi(sizeTok.Text)
		}
		if !ok || sizeTok.Kind != lexer.Literal || convErr != nil {
			return nil, 0, newParseError(i+1, "expected literal in variable array declaration")
		}
		if err := p.expect(i+2, "]"); err != nil {
			return nil, 0, newParseError(i+2, "expected ] after variable array declaration")
		}
		arrayCount = n
		i += 3
	}

	var init ast.Node
	switch p.textAt(i) {
	case "=":
		value, next, err := p.parseBasic(i + 1)
		if err != nil {
			return nil, 0, err
		}
		if err := p.expect(next, ";"); err != nil {
			return nil, 0, err
		}
		init = value
		i = next + 1
	case ";":
		i++
	default:
		return nil, 0, newParseError(i, "unexpected token following variable declaration")
	}

	return ast.NewVariableDeclaration(ast.NewSpan(offset, i-1), keywords, typeTok.Text, templateArgs, name, arrayCount, init), i, nil
}

// ---- expressions ----

// parseList parses a delim-separated (here always ",") sequence of
// parseBasic expressions up to the token matching endText. Because each
// element is parsed by a real recursive call that consumes exactly its own
// span, a terminator or comma inside a nested call/index/list never gets
// mistaken for the list's own terminator.
func (p *parser) parseList(offset int, endText string) ([]ast.Node, int, error) {
	i := offset
	var elements []ast.Node
	if p.textAt(i) == endText {
		return elements, i + 1, nil
	}
	for {
		elem, next, err := p.parseBasic(i)
		if err != nil {
			return nil, 0, err
		}
		elements = append(elements, elem)
		i = next
		if p.textAt(i) == "," {
			i++
			continue
		}
		break
	}
	if err := p.expect(i, endText); err != nil {
		return nil, 0, newParseError(i, "expected %q", endText)
	}
	return elements, i + 1, nil
}

// parseBasic parses one primary expression, then greedily absorbs the
// postfix chain (member access, call, index, postfix update) and, if the
// chain ends on a basic binary operator, recurses for its right-hand side
// (right-associative, no precedence, by design).
func (p *parser) parseBasic(offset int) (ast.Node, int, error) {
	node, next, err := p.parsePrimary(offset)
	if err != nil {
		return nil, 0, err
	}

	for {
		tok, ok := p.at(next)
		if !ok {
			return node, next, nil
		}

		switch {
		case tok.Text == ".":
			prop, propNext, err := p.parsePrimary(next + 1)
			if err != nil {
				return nil, 0, err
			}
			node = ast.NewMemberExpression(ast.NewSpan(node.Span().Start, prop.Span().End), node, prop)
			next = propNext

		case tok.Text == "(":
			args, callNext, err := p.parseList(next+1, ")")
			if err != nil {
				return nil, 0, err
			}
			node = ast.NewCallExpression(ast.NewSpan(node.Span().Start, callNext-1), node, args)
			next = callNext

		case tok.Text == "[":
			index, idxNext, err := p.parseBasic(next + 1)
			if err != nil {
				return nil, 0, err
			}
			if err := p.expect(idxNext, "]"); err != nil {
				return nil, 0, err
			}
			node = ast.NewBinaryExpression(ast.NewSpan(node.Span().Start, idxNext), "[", node, index)
			next = idxNext + 1

		case isUpdateOperator(tok.Text):
			node = ast.NewUpdateExpression(ast.NewSpan(node.Span().Start, next), tok.Text, false, node)
			next++

		case isBasicOperator(tok.Text):
			right, rightNext, err := p.parseBasic(next + 1)
			if err != nil {
				return nil, 0, err
			}
			return ast.NewBinaryExpression(ast.NewSpan(node.Span().Start, right.Span().End), tok.Text, node, right), rightNext, nil

		default:
			return node, next, nil
		}
	}
}

// parsePrimary parses one atom: identifier, literal, cast, prefix update,
// unary minus/not, initializer list, or a parenthesized expression. It does
// not absorb any postfix chain — that's parseBasic's job.
func (p *parser) parsePrimary(offset int) (ast.Node, int, error) {
	tok, ok := p.at(offset)
	if !ok {
		return nil, 0, newParseError(offset, "missing expression")
	}

	switch {
	case tok.Kind == lexer.Identifier:
		return ast.NewIdentifier(ast.NewSpan(offset, offset), tok.Text), offset + 1, nil

	case tok.Kind == lexer.Literal:
		return ast.NewLiteral(ast.NewSpan(offset, offset), tok.Text), offset + 1, nil

	case tok.Kind == lexer.Type:
		if p.textAt(offset+1) != "(" {
			return nil, 0, newParseError(offset, "unexpected type token")
		}
		args, next, err := p.parseList(offset+2, ")")
		if err != nil {
			return nil, 0, err
		}
		return ast.NewCastExpression(ast.NewSpan(offset, next-1), tok.Text, args), next, nil

	case tok.Text == "++" || tok.Text == "--":
		target, next, err := p.parsePrimary(offset + 1)
		if err != nil {
			return nil, 0, err
		}
		return ast.NewUpdateExpression(ast.NewSpan(offset, target.Span().End), tok.Text, true, target), next, nil

	case tok.Text == "-" || tok.Text == "!":
		target, next, err := p.parsePrimary(offset + 1)
		if err != nil {
			return nil, 0, err
		}
		return ast.NewUpdateExpression(ast.NewSpan(offset, target.Span().End), tok.Text, true, target), next, nil

	case tok.Text == "{":
		elements, next, err := p.parseList(offset+1, "}")
		if err != nil {
			return nil, 0, err
		}
		return ast.NewListExpression(ast.NewSpan(offset, next-1), elements), next, nil

	case tok.Text == "(":
		inside, next, err := p.parseBasic(offset + 1)
		if err != nil {
			return nil, 0, err
		}
		if err := p.expect(next, ")"); err != nil {
			return nil, 0, newParseError(next, "missing )")
		}
		return ast.NewParenExpression(ast.NewSpan(offset, next), inside), next + 1, nil

	default:
		return nil, 0, newParseError(offset, "invalid primary")
	}
}

// ---- operator classification (spec §4.2) ----

func isBasicOperator(v string) bool {
	switch v {
	case "+", "-", "*", "/", "%", "^", "&", "&&", "==", "<=", ">=", "|", "||", "<", "<<", ">", ">>", "[":
		return true
	}
	return false
}

func isAssignmentOperator(v string) bool {
	switch v {
	case "=", "+=", "-=", "/=", "*=", "&=", "|=", "%=", "^=":
		return true
	}
	return false
}

func isUpdateOperator(v string) bool {
	return v == "++" || v == "--"
}
