package parser

import (
	"strconv"
	"strings"

	"github.com/technetium-lang/technetium/internal/ast"
	"github.com/technetium-lang/technetium/internal/lexer"
	"github.com/technetium-lang/technetium/internal/object"
)

// precedence table for binary operators, low to high.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func (p *Parser) parseExpr() (ast.Expression, *object.RuntimeError) {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expression, *object.RuntimeError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur().Kind != lexer.TokOp {
			break
		}
		op := p.cur().Text
		prec, ok := precedence[op]
		if !ok || prec < minPrec {
			break
		}
		start := p.cur().Span
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		if op == "&&" || op == "||" {
			left = &ast.LogicalExpr{Base: ast.Base{Sp: start}, Op: op, Left: left, Right: right}
		} else {
			left = &ast.BinaryExpr{Base: ast.Base{Sp: start}, Op: op, Left: left, Right: right}
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, *object.RuntimeError) {
	if p.cur().Kind == lexer.TokOp && (p.cur().Text == "-" || p.cur().Text == "!") {
		start := p.cur().Span
		op := p.advance().Text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: ast.Base{Sp: start}, Op: op, Operand: operand}, nil
	}
	if p.cur().Kind == lexer.TokOp && p.cur().Text == "++" || (p.cur().Kind == lexer.TokOp && p.cur().Text == "--") {
		start := p.cur().Span
		op := p.advance().Text
		delta := int64(1)
		if op == "--" {
			delta = -1
		}
		target, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		return &ast.IncDecExpr{Base: ast.Base{Sp: start}, Target: target, Delta: delta, IsPre: true}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, *object.RuntimeError) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		start := p.cur().Span
		switch {
		case p.cur().Kind == lexer.TokOp && p.cur().Text == ".":
			p.advance()
			nameTok, err := p.expect(lexer.TokIdent, "identifier")
			if err != nil {
				return nil, err
			}
			if p.cur().Kind == lexer.TokLParen {
				args, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				e = &ast.MethodCallExpr{Base: ast.Base{Sp: start}, Receiver: e, Method: nameTok.Text, Args: args}
			} else {
				e = &ast.AttrExpr{Base: ast.Base{Sp: start}, Object: e, Attr: nameTok.Text}
			}
		case p.cur().Kind == lexer.TokLParen:
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			e = &ast.CallExpr{Base: ast.Base{Sp: start}, Callee: e, Args: args}
		case p.cur().Kind == lexer.TokLBracket:
			p.advance()
			e, err = p.parseIndexOrSlice(start, e)
			if err != nil {
				return nil, err
			}
		case p.cur().Kind == lexer.TokOp && (p.cur().Text == "++" || p.cur().Text == "--"):
			op := p.advance().Text
			delta := int64(1)
			if op == "--" {
				delta = -1
			}
			e = &ast.IncDecExpr{Base: ast.Base{Sp: start}, Target: e, Delta: delta, IsPre: false}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseIndexOrSlice(start object.Span, obj ast.Expression) (ast.Expression, *object.RuntimeError) {
	var startExpr, stopExpr, stepExpr ast.Expression
	var err *object.RuntimeError
	isSlice := false

	if p.cur().Kind != lexer.TokColon {
		startExpr, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.cur().Kind == lexer.TokColon {
		isSlice = true
		p.advance()
		if p.cur().Kind != lexer.TokColon && p.cur().Kind != lexer.TokRBracket {
			stopExpr, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if p.cur().Kind == lexer.TokColon {
			p.advance()
			if p.cur().Kind != lexer.TokRBracket {
				stepExpr, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if _, err := p.expect(lexer.TokRBracket, "]"); err != nil {
		return nil, err
	}
	if isSlice {
		return &ast.SliceExpr{Base: ast.Base{Sp: start}, Object: obj, Start: startExpr, Stop: stopExpr, Step: stepExpr}, nil
	}
	return &ast.IndexExpr{Base: ast.Base{Sp: start}, Object: obj, Index: startExpr}, nil
}

func (p *Parser) parseArgList() ([]ast.Expression, *object.RuntimeError) {
	p.advance() // '('
	var args []ast.Expression
	for p.cur().Kind != lexer.TokRParen {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur().Kind == lexer.TokComma {
			p.advance()
		}
	}
	p.advance() // ')'
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, *object.RuntimeError) {
	t := p.cur()
	start := t.Span
	switch t.Kind {
	case lexer.TokInt:
		p.advance()
		return &ast.IntLiteral{Base: ast.Base{Sp: start}, Value: t.Text}, nil
	case lexer.TokFloat:
		p.advance()
		v, convErr := strconv.ParseFloat(t.Text, 64)
		if convErr != nil {
			return nil, object.NewInternalError("%s: invalid float literal %q", p.file, t.Text).AttachSpan(start)
		}
		return &ast.FloatLiteral{Base: ast.Base{Sp: start}, Value: v}, nil
	case lexer.TokString:
		p.advance()
		return &ast.StringLiteral{Base: ast.Base{Sp: start}, Value: unescapeAll(t.Text)}, nil
	case lexer.TokFormatString:
		p.advance()
		return parseFormatTemplate(p.file, start, t.Text)
	case lexer.TokChar:
		p.advance()
		r := []rune(t.Text)[0]
		return &ast.CharLiteral{Base: ast.Base{Sp: start}, Value: r}, nil
	case lexer.TokIdent:
		p.advance()
		return &ast.Identifier{Base: ast.Base{Sp: start}, Name: t.Text}, nil
	case lexer.TokKeyword:
		switch t.Text {
		case "true":
			p.advance()
			return &ast.BoolLiteral{Base: ast.Base{Sp: start}, Value: true}, nil
		case "false":
			p.advance()
			return &ast.BoolLiteral{Base: ast.Base{Sp: start}, Value: false}, nil
		case "func":
			p.advance()
			return p.parseFuncRest(start, "")
		}
		return nil, p.errf("%s: unexpected keyword %q in expression", p.file, t.Text)
	case lexer.TokLParen:
		p.advance()
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur().Kind == lexer.TokComma {
			elems := []ast.Expression{first}
			for p.cur().Kind == lexer.TokComma {
				p.advance()
				if p.cur().Kind == lexer.TokRParen {
					break
				}
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
			}
			if _, err := p.expect(lexer.TokRParen, ")"); err != nil {
				return nil, err
			}
			return &ast.TupleLiteral{Base: ast.Base{Sp: start}, Elements: elems}, nil
		}
		if _, err := p.expect(lexer.TokRParen, ")"); err != nil {
			return nil, err
		}
		return first, nil
	case lexer.TokLBracket:
		return p.parseListLiteral(start)
	case lexer.TokLBrace:
		return p.parseSetOrDictLiteral(start)
	default:
		return nil, p.errf("%s: unexpected token %q in expression", p.file, t.Text)
	}
}

func (p *Parser) parseListLiteral(start object.Span) (ast.Expression, *object.RuntimeError) {
	p.advance() // '['
	var elems []ast.Expression
	for p.cur().Kind != lexer.TokRBracket {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.cur().Kind == lexer.TokComma {
			p.advance()
		}
	}
	p.advance() // ']'
	return &ast.ListLiteral{Base: ast.Base{Sp: start}, Elements: elems}, nil
}

func (p *Parser) parseSetOrDictLiteral(start object.Span) (ast.Expression, *object.RuntimeError) {
	p.advance() // '{'
	if p.cur().Kind == lexer.TokRBrace {
		p.advance()
		return &ast.SetLiteral{Base: ast.Base{Sp: start}}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == lexer.TokColon {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries := []ast.DictEntry{{Key: first, Value: val}}
		for p.cur().Kind == lexer.TokComma {
			p.advance()
			if p.cur().Kind == lexer.TokRBrace {
				break
			}
			k, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokColon, ":"); err != nil {
				return nil, err
			}
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
		}
		if _, err := p.expect(lexer.TokRBrace, "}"); err != nil {
			return nil, err
		}
		return &ast.DictLiteral{Base: ast.Base{Sp: start}, Entries: entries}, nil
	}
	elems := []ast.Expression{first}
	for p.cur().Kind == lexer.TokComma {
		p.advance()
		if p.cur().Kind == lexer.TokRBrace {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(lexer.TokRBrace, "}"); err != nil {
		return nil, err
	}
	return &ast.SetLiteral{Base: ast.Base{Sp: start}, Elements: elems}, nil
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

func unescapeAll(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			sb.WriteByte(unescape(s[i]))
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// parseFormatTemplate splits raw template text on `${...}` and bare `{...}` substitutions, recursively
// parsing each substitution as a full expression at the parent's source offset (spec
// §4.3: "a list of substitution expressions, parsed recursively at the parent's
// source offset").
func parseFormatTemplate(file string, span object.Span, raw string) (*ast.FormatStringExpr, *object.RuntimeError) {
	var literals []string
	var subs []ast.Expression
	i := 0
	cur := strings.Builder{}
	for i < len(raw) {
		if raw[i] == '\\' && i+1 < len(raw) {
			cur.WriteByte(unescape(raw[i+1]))
			i += 2
			continue
		}
		// A substitution opens with either `${` or a bare `{` (spec's literal
		// `~"...{expr}..."` form); both are delimited by a matching `}`.
		isSub, contentStart := false, 0
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			isSub, contentStart = true, i+2
		} else if raw[i] == '{' {
			isSub, contentStart = true, i+1
		}
		if isSub {
			depth := 1
			j := contentStart
			for j < len(raw) && depth > 0 {
				if raw[j] == '{' {
					depth++
				} else if raw[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			if depth != 0 {
				return nil, object.NewInternalError("%s: unterminated substitution in format string", file).AttachSpan(span)
			}
			literals = append(literals, cur.String())
			cur.Reset()
			sub, err := Parse(file, raw[contentStart:j])
			if err != nil {
				return nil, err
			}
			if len(sub.Statements) != 1 {
				return nil, object.NewInternalError("%s: format substitution must be one expression", file).AttachSpan(span)
			}
			exprStmt, ok := sub.Statements[0].(*ast.ExprStatement)
			if !ok {
				return nil, object.NewInternalError("%s: format substitution must be an expression", file).AttachSpan(span)
			}
			subs = append(subs, exprStmt.Expr)
			i = j + 1
			continue
		}
		cur.WriteByte(raw[i])
		i++
	}
	literals = append(literals, cur.String())
	return &ast.FormatStringExpr{Base: ast.Base{Sp: span}, Literals: literals, Subs: subs}, nil
}
