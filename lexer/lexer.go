package lexer

import "strings"

// Lex tokenizes src into an ordered token stream. It is pure, deterministic,
// and never fails: unrecognized bytes are folded into whatever identifier
// buffer is accumulating and surface, if at all, as a parse error downstream.
// An unterminated block comment or preprocessor line simply ends scanning.
func Lex(src string) []Token {
	l := &lexState{src: src}
	l.run()
	return l.tokens
}

type lexState struct {
	src    string
	tokens []Token
	buffer strings.Builder
}

func (l *lexState) run() {
	n := len(l.src)
	for i := 0; i < n; i++ {
		c := l.src[i]

		isPunct := punctuation[c]
		// A dot immediately following a numeric literal buffer is not
		// punctuation, so "3.14" lexes as one Literal.
		if c == '.' && l.buffer.Len() > 0 && isLiteral(l.buffer.String()) {
			isPunct = false
		}

		isLineComment := c == '/' && i+1 < n && l.src[i+1] == '/'
		isBlockComment := c == '/' && i+1 < n && l.src[i+1] == '*'
		isPreprocessor := len(l.tokens) >= 2 && l.tokens[len(l.tokens)-2].Text == "#"
		isWhitespace := c == ' ' || c == '\t' || c == '\n'
		statementEnd := isWhitespace || isPunct || isLineComment || isBlockComment || isPreprocessor

		if !statementEnd {
			l.buffer.WriteByte(c)
		}

		if l.buffer.Len() > 0 && (statementEnd || i == n-1) {
			l.flush()
		}

		if isLineComment {
			nl := strings.IndexByte(l.src[i:], '\n')
			if nl < 0 {
				return
			}
			i += nl
			continue
		}

		if isBlockComment {
			end := strings.Index(l.src[i:], "*/")
			if end < 0 {
				return
			}
			i += end + 1
			continue
		}

		if isPreprocessor {
			nl := strings.IndexByte(l.src[i:], '\n')
			var body string
			if nl < 0 {
				body = l.src[i:]
			} else {
				body = l.src[i : i+nl]
			}
			l.tokens = append(l.tokens, Token{Kind: Literal, Text: body})
			if nl < 0 {
				return
			}
			i += nl
			continue
		}

		if isPunct {
			if mergeable[c] && len(l.tokens) > 0 {
				last := &l.tokens[len(l.tokens)-1]
				// Merge only when the previous source byte ended that token,
				// so whitespace between operators keeps them separate.
				if last.Kind == Punctuation && mergeable[last.Text[0]] && l.src[i-1] == last.Text[len(last.Text)-1] {
					last.Text += string(c)
					continue
				}
			}
			l.tokens = append(l.tokens, Token{Kind: Punctuation, Text: string(c)})
		}
	}
}

func (l *lexState) flush() {
	text := l.buffer.String()
	l.tokens = append(l.tokens, Token{Kind: classify(text), Text: text})
	l.buffer.Reset()
}
