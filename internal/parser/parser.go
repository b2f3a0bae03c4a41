// Package parser builds an *ast.Program from a lexer.Token stream. Grounded on the
// shape of the teacher's internal/parser (hand-written recursive descent with a
// Pratt-style expression parser), reduced to technetium's grammar.
package parser

import (
	"github.com/technetium-lang/technetium/internal/ast"
	"github.com/technetium-lang/technetium/internal/lexer"
	"github.com/technetium-lang/technetium/internal/object"
)

type Parser struct {
	file string
	toks []lexer.Token
	pos  int
}

func Parse(file, src string) (*ast.Program, *object.RuntimeError) {
	lx := lexer.New(file, src)
	toks, err := lx.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{file: file, toks: filterNewlines(toks)}
	return p.parseProgram()
}

// filterNewlines drops TokNewline: technetium has no statement form whose meaning
// depends on line breaks (unlike the $shell line, which the lexer already captures
// whole via TokShellLine), so the parser works purely off braces and semicolons.
func filterNewlines(toks []lexer.Token) []lexer.Token {
	out := make([]lexer.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != lexer.TokNewline {
			out = append(out, t)
		}
	}
	return out
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errf(format string, args ...interface{}) *object.RuntimeError {
	return object.NewInternalError(format, args...).AttachSpan(p.cur().Span)
}

func (p *Parser) expect(kind lexer.TokenKind, text string) (lexer.Token, *object.RuntimeError) {
	t := p.cur()
	if t.Kind != kind {
		return t, p.errf("%s:%d: expected %s, got %q", p.file, 0, text, t.Text)
	}
	return p.advance(), nil
}

func (p *Parser) isOp(s string) bool { return p.cur().Kind == lexer.TokOp && p.cur().Text == s }
func (p *Parser) isKw(s string) bool { return p.cur().Kind == lexer.TokKeyword && p.cur().Text == s }

func (p *Parser) parseProgram() (*ast.Program, *object.RuntimeError) {
	start := p.cur().Span
	var stmts []ast.Statement
	for p.cur().Kind != lexer.TokEOF {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return ast.NewProgram(start, stmts), nil
}

func (p *Parser) parseBlock() ([]ast.Statement, *object.RuntimeError) {
	if _, err := p.expect(lexer.TokLBrace, "{"); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for p.cur().Kind != lexer.TokRBrace {
		if p.cur().Kind == lexer.TokEOF {
			return nil, p.errf("%s: unterminated block", p.file)
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.advance() // '}'
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, *object.RuntimeError) {
	start := p.cur().Span
	// A block statement may be followed by an optional ';', like any other statement.
	afterBlock := func(s ast.Statement, err *object.RuntimeError) (ast.Statement, *object.RuntimeError) {
		if err == nil {
			p.consumeSemi()
		}
		return s, err
	}
	switch {
	case p.cur().Kind == lexer.TokShellLine:
		t := p.advance()
		cmd, err := parseFormatTemplate(p.file, t.Span, t.Text)
		if err != nil {
			return nil, err
		}
		return &ast.ShellStatement{ast.Base{Sp: start}, cmd}, nil
	case p.isKw("if"):
		return afterBlock(p.parseIf())
	case p.isKw("while"):
		return afterBlock(p.parseWhile())
	case p.isKw("for"):
		return afterBlock(p.parseForIn())
	case p.isKw("case"):
		return afterBlock(p.parseCase())
	case p.isKw("func"):
		return afterBlock(p.parseFuncDecl())
	case p.isKw("return"):
		p.advance()
		if p.cur().Kind == lexer.TokRBrace || p.cur().Kind == lexer.TokSemicolon {
			if p.cur().Kind == lexer.TokSemicolon {
				p.advance()
			}
			return &ast.ReturnStatement{ast.Base{Sp: start}, nil}, nil
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.consumeSemi()
		return &ast.ReturnStatement{ast.Base{Sp: start}, v}, nil
	case p.isKw("break"):
		p.advance()
		p.consumeSemi()
		return &ast.BreakStatement{ast.Base{Sp: start}}, nil
	case p.isKw("continue"):
		p.advance()
		p.consumeSemi()
		return &ast.ContinueStatement{ast.Base{Sp: start}}, nil
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) consumeSemi() {
	if p.cur().Kind == lexer.TokSemicolon {
		p.advance()
	}
}

func (p *Parser) parseExprOrAssignStatement() (ast.Statement, *object.RuntimeError) {
	start := p.cur().Span
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.isOp("=") {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.consumeSemi()
		return &ast.AssignStatement{ast.Base{Sp: start}, e, val}, nil
	}
	if compoundOp, ok := compoundAssignOps[p.cur().Text]; ok && p.cur().Kind == lexer.TokOp {
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.consumeSemi()
		// `x += rhs` desugars to `x = x + rhs`; the target expression is only
		// ever evaluated once for its *read*, the assignment re-evaluates its
		// write form via the normal AssignStatement lowering.
		val := &ast.BinaryExpr{Base: ast.Base{Sp: start}, Op: compoundOp, Left: e, Right: rhs}
		return &ast.AssignStatement{ast.Base{Sp: start}, e, val}, nil
	}
	p.consumeSemi()
	return &ast.ExprStatement{ast.Base{Sp: start}, e}, nil
}

var compoundAssignOps = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%",
}

func (p *Parser) parseIf() (ast.Statement, *object.RuntimeError) {
	start := p.advance().Span // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseStmts []ast.Statement
	if p.isKw("elif") {
		p.toks[p.pos] = lexer.Token{Kind: lexer.TokKeyword, Text: "if", Span: p.cur().Span}
		inner, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		elseStmts = []ast.Statement{inner}
	} else if p.isKw("else") {
		p.advance()
		if p.isKw("if") {
			inner, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			elseStmts = []ast.Statement{inner}
		} else {
			elseStmts, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
	}
	return &ast.IfStatement{ast.Base{Sp: start}, cond, then, elseStmts}, nil
}

func (p *Parser) parseWhile() (ast.Statement, *object.RuntimeError) {
	start := p.advance().Span // 'while'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{ast.Base{Sp: start}, cond, body}, nil
}

func (p *Parser) parseForIn() (ast.Statement, *object.RuntimeError) {
	start := p.advance().Span // 'for'
	nameTok, err := p.expect(lexer.TokIdent, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokKeyword, "in"); err != nil {
		return nil, err
	}
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForInStatement{ast.Base{Sp: start}, nameTok.Text, iter, body}, nil
}

func (p *Parser) parseCase() (ast.Statement, *object.RuntimeError) {
	start := p.advance().Span // 'case'
	subj, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBrace, "{"); err != nil {
		return nil, err
	}
	var arms []ast.CaseArm
	for p.cur().Kind != lexer.TokRBrace {
		var arm ast.CaseArm
		if p.isKw("default") {
			p.advance()
		} else {
			if _, err := p.expect(lexer.TokKeyword, "of"); err != nil {
				return nil, err
			}
			m, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			arm.Match = m
		}
		if _, err := p.expect(lexer.TokColon, ":"); err != nil {
			return nil, err
		}
		for p.cur().Kind != lexer.TokRBrace && !p.isKw("of") && !p.isKw("default") {
			s, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			arm.Body = append(arm.Body, s)
		}
		arms = append(arms, arm)
	}
	p.advance() // '}'
	return &ast.CaseStatement{ast.Base{Sp: start}, subj, arms}, nil
}

func (p *Parser) parseFuncDecl() (ast.Statement, *object.RuntimeError) {
	start := p.advance().Span // 'func'
	nameTok, err := p.expect(lexer.TokIdent, "identifier")
	if err != nil {
		return nil, err
	}
	fn, err := p.parseFuncRest(start, nameTok.Text)
	if err != nil {
		return nil, err
	}
	return &ast.FuncDeclStatement{ast.Base{Sp: start}, nameTok.Text, fn}, nil
}

func (p *Parser) parseFuncRest(start object.Span, name string) (*ast.FuncLiteral, *object.RuntimeError) {
	if _, err := p.expect(lexer.TokLParen, "("); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Kind != lexer.TokRParen {
		t, err := p.expect(lexer.TokIdent, "identifier")
		if err != nil {
			return nil, err
		}
		params = append(params, t.Text)
		if p.cur().Kind == lexer.TokComma {
			p.advance()
		}
	}
	p.advance() // ')'
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncLiteral{ast.Base{Sp: start}, name, params, body}, nil
}
