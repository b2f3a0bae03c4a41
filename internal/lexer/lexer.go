// Package lexer tokenizes technetium source text. Grounded on the shape of the
// teacher's internal/lexer (a hand-written scanner producing a flat token stream),
// reduced to technetium's smaller token set.
package lexer

import (
	"strings"

	"github.com/technetium-lang/technetium/internal/object"
)

type TokenKind int

const (
	TokEOF TokenKind = iota
	TokInt
	TokFloat
	TokString
	TokFormatString // raw template text; the parser re-lexes ${...} substitutions
	TokChar
	TokIdent
	TokKeyword
	TokShellLine
	TokOp
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokComma
	TokColon
	TokSemicolon
	TokNewline
)

var keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "while": true, "for": true, "in": true,
	"func": true, "return": true, "break": true, "continue": true,
	"case": true, "of": true, "default": true, "true": true, "false": true,
}

type Token struct {
	Kind  TokenKind
	Text  string
	Span  object.Span
}

type Lexer struct {
	src  string
	file string
	pos  int
	line int
}

func New(file, src string) *Lexer {
	return &Lexer{src: src, file: file, pos: 0, line: 1}
}

func (l *Lexer) span(start int) object.Span {
	return object.Span{File: l.file, Start: start, End: l.pos}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	return c
}

// Tokenize scans the entire source into a flat token stream, terminated by TokEOF.
func (l *Lexer) Tokenize() ([]Token, *object.RuntimeError) {
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) next() (Token, *object.RuntimeError) {
	l.skipSpaceAndComments()
	start := l.pos
	if l.pos >= len(l.src) {
		return Token{Kind: TokEOF, Span: l.span(start)}, nil
	}

	c := l.peek()
	switch {
	case c == '\n':
		l.advance()
		l.line++
		return Token{Kind: TokNewline, Text: "\n", Span: l.span(start)}, nil
	case c == '$':
		return l.lexShellLine(start)
	case c == '~' && l.peekAt(1) == '"':
		// `~"..."` is a format-string literal; the leading `~` is only a marker
		// distinguishing it at the source level; the brace-substitution scan in
		// lexString is what actually decides whether it needs interpolation.
		l.advance()
		return l.lexString(start)
	case c == '"':
		return l.lexString(start)
	case c == '\'':
		return l.lexChar(start)
	case isDigit(c):
		return l.lexNumber(start)
	case isIdentStart(c):
		return l.lexIdentOrKeyword(start)
	default:
		return l.lexOpOrPunct(start)
	}
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.peek()
		if c == ' ' || c == '\t' || c == '\r' {
			l.advance()
			continue
		}
		if c == '#' {
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}
}

func (l *Lexer) lexShellLine(start int) (Token, *object.RuntimeError) {
	l.advance() // '$'
	lineStart := l.pos
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
	return Token{Kind: TokShellLine, Text: l.src[lineStart:l.pos], Span: l.span(start)}, nil
}

func (l *Lexer) lexString(start int) (Token, *object.RuntimeError) {
	l.advance() // opening quote
	var sb strings.Builder
	hasSub := false
	for {
		if l.pos >= len(l.src) {
			return Token{}, object.NewInternalError("%s: unterminated string literal", l.file)
		}
		c := l.advance()
		if c == '"' {
			break
		}
		if c == '\\' {
			if l.pos >= len(l.src) {
				return Token{}, object.NewInternalError("%s: unterminated escape", l.file)
			}
			sb.WriteByte('\\')
			sb.WriteByte(l.advance())
			continue
		}
		if c == '{' || (c == '$' && l.peek() == '{') {
			hasSub = true
		}
		sb.WriteByte(c)
	}
	kind := TokString
	if hasSub {
		kind = TokFormatString
	}
	return Token{Kind: kind, Text: sb.String(), Span: l.span(start)}, nil
}

func (l *Lexer) lexChar(start int) (Token, *object.RuntimeError) {
	l.advance() // opening quote
	if l.pos >= len(l.src) {
		return Token{}, object.NewInternalError("%s: unterminated char literal", l.file)
	}
	var r byte
	if l.peek() == '\\' {
		l.advance()
		r = unescape(l.advance())
	} else {
		r = l.advance()
	}
	if l.peek() != '\'' {
		return Token{}, object.NewInternalError("%s: char literal must be one character", l.file)
	}
	l.advance()
	return Token{Kind: TokChar, Text: string(r), Span: l.span(start)}, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}

func (l *Lexer) lexNumber(start int) (Token, *object.RuntimeError) {
	for isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	text := l.src[start:l.pos]
	if isFloat {
		return Token{Kind: TokFloat, Text: text, Span: l.span(start)}, nil
	}
	return Token{Kind: TokInt, Text: text, Span: l.span(start)}, nil
}

func (l *Lexer) lexIdentOrKeyword(start int) (Token, *object.RuntimeError) {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	text := l.src[start:l.pos]
	if keywords[text] {
		return Token{Kind: TokKeyword, Text: text, Span: l.span(start)}, nil
	}
	return Token{Kind: TokIdent, Text: text, Span: l.span(start)}, nil
}

var twoCharOps = []string{
	"==", "!=", "<=", ">=", "&&", "||", "++", "--", "//",
	"+=", "-=", "*=", "/=", "%=",
}

func (l *Lexer) lexOpOrPunct(start int) (Token, *object.RuntimeError) {
	c := l.advance()
	switch c {
	case '(':
		return Token{Kind: TokLParen, Text: "(", Span: l.span(start)}, nil
	case ')':
		return Token{Kind: TokRParen, Text: ")", Span: l.span(start)}, nil
	case '{':
		return Token{Kind: TokLBrace, Text: "{", Span: l.span(start)}, nil
	case '}':
		return Token{Kind: TokRBrace, Text: "}", Span: l.span(start)}, nil
	case '[':
		return Token{Kind: TokLBracket, Text: "[", Span: l.span(start)}, nil
	case ']':
		return Token{Kind: TokRBracket, Text: "]", Span: l.span(start)}, nil
	case ',':
		return Token{Kind: TokComma, Text: ",", Span: l.span(start)}, nil
	case ':':
		return Token{Kind: TokColon, Text: ":", Span: l.span(start)}, nil
	case ';':
		return Token{Kind: TokSemicolon, Text: ";", Span: l.span(start)}, nil
	}
	// possible two-char operator
	if l.pos < len(l.src) {
		two := string(c) + string(l.peek())
		for _, op := range twoCharOps {
			if op == two {
				l.advance()
				return Token{Kind: TokOp, Text: two, Span: l.span(start)}, nil
			}
		}
	}
	return Token{Kind: TokOp, Text: string(c), Span: l.span(start)}, nil
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
