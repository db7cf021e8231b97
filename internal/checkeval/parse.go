package checkeval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
)

// Program is a compiled check fragment
type Program struct {
	src  string
	root Expr
	refs []string
	vars []string
}

// Source returns the fragment the program was compiled from
func (p *Program) Source() string { return p.src }

// Root returns the expression tree
func (p *Program) Root() Expr { return p.root }

// Refs returns the class references used, in order of first use
func (p *Program) Refs() []string { return p.refs }

// Vars returns the pith root names used, in order of first use
func (p *Program) Vars() []string { return p.vars }

// Compile parses a check fragment
func Compile(src string) (*Program, error) {
	p := &parser{lex: hint.NewLexer(src), prog: &Program{src: src}}
	p.advance()

	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != hint.TokenEOF {
		return nil, p.errorf("unexpected %s", p.tok.Type)
	}
	p.prog.root = root
	return p.prog, nil
}

// MustCompile is Compile that panics on error
func MustCompile(src string) *Program {
	prog, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return prog
}

type parser struct {
	lex  *hint.Lexer
	tok  hint.Token
	prog *Program
}

func (p *parser) advance() { p.tok = p.lex.NextToken() }

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.CheckSyntax(p.tok.Offset, fmt.Sprintf(format, args...))
}

func (p *parser) isKeyword(kw string) bool {
	return p.tok.Type == hint.TokenName && p.tok.Literal == kw
}

func (p *parser) expect(tt hint.TokenType) error {
	if p.tok.Type != tt {
		return p.errorf("expected %s, found %s", tt, p.tok.Type)
	}
	p.advance()
	return nil
}

func (p *parser) parseOr() (Expr, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	items := []Expr{first}
	for p.isKeyword("or") {
		p.advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &OrExpr{Items: items}, nil
}

func (p *parser) parseAnd() (Expr, error) {
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	items := []Expr{first}
	for p.isKeyword("and") {
		p.advance()
		next, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return first, nil
	}
	return &AndExpr{Items: items}, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.isKeyword("not") {
		p.advance()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotExpr{X: x}, nil
	}
	return p.parseCmp()
}

func (p *parser) parseCmp() (Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != hint.TokenEq {
		return left, nil
	}
	p.advance()
	right, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return &EqExpr{Left: left, Right: right}, nil
}

func (p *parser) parseAtom() (Expr, error) {
	switch p.tok.Type {
	case hint.TokenLParen:
		p.advance()
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		return x, p.expect(hint.TokenRParen)

	case hint.TokenMinus, hint.TokenInteger, hint.TokenFloat:
		return p.parseNumber()

	case hint.TokenString:
		v := p.tok.Literal
		p.advance()
		return &ConstExpr{Value: v}, nil

	case hint.TokenBytes:
		v := []byte(p.tok.Literal)
		p.advance()
		return &ConstExpr{Value: v}, nil

	case hint.TokenName:
		switch p.tok.Literal {
		case "True", "False", "None":
			var v any
			if p.tok.Literal != "None" {
				v = p.tok.Literal == "True"
			}
			p.advance()
			return &ConstExpr{Value: v}, nil
		case "isinstance":
			return p.parseIsInstance()
		case "len":
			p.advance()
			if err := p.expect(hint.TokenLParen); err != nil {
				return nil, err
			}
			pith, err := p.parsePith()
			if err != nil {
				return nil, err
			}
			return &LenExpr{Pith: pith}, p.expect(hint.TokenRParen)
		case "and", "or", "not":
			return nil, p.errorf("unexpected keyword %q", p.tok.Literal)
		}
		return p.parsePith()

	case hint.TokenError:
		return nil, p.errorf("%s", p.tok.Literal)
	}
	return nil, p.errorf("unexpected %s", p.tok.Type)
}

func (p *parser) parseNumber() (Expr, error) {
	neg := false
	if p.tok.Type == hint.TokenMinus {
		neg = true
		p.advance()
	}
	lit := strings.ReplaceAll(p.tok.Literal, "_", "")
	switch p.tok.Type {
	case hint.TokenInteger:
		n, err := strconv.Atoi(lit)
		if err != nil {
			return nil, p.errorf("invalid integer %q", p.tok.Literal)
		}
		p.advance()
		if neg {
			n = -n
		}
		return &ConstExpr{Value: n}, nil
	case hint.TokenFloat:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.errorf("invalid float %q", p.tok.Literal)
		}
		p.advance()
		if neg {
			f = -f
		}
		return &ConstExpr{Value: f}, nil
	}
	return nil, p.errorf("expected number after -")
}

func (p *parser) parseIsInstance() (Expr, error) {
	p.advance()
	if err := p.expect(hint.TokenLParen); err != nil {
		return nil, err
	}
	pith, err := p.parsePith()
	if err != nil {
		return nil, err
	}
	if err := p.expect(hint.TokenComma); err != nil {
		return nil, err
	}

	var refs []string
	if p.tok.Type == hint.TokenLParen {
		p.advance()
		for {
			ref, err := p.parseRef()
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
			if p.tok.Type != hint.TokenComma {
				break
			}
			p.advance()
		}
		if err := p.expect(hint.TokenRParen); err != nil {
			return nil, err
		}
	} else {
		ref, err := p.parseRef()
		if err != nil {
			return nil, err
		}
		refs = []string{ref}
	}
	return &IsInstanceExpr{Pith: pith, Refs: refs}, p.expect(hint.TokenRParen)
}

func (p *parser) parseRef() (string, error) {
	if p.tok.Type != hint.TokenName {
		return "", p.errorf("expected class reference, found %s", p.tok.Type)
	}
	name := p.tok.Literal
	p.advance()
	p.prog.refs = appendName(p.prog.refs, name)
	return name, nil
}

func (p *parser) parsePith() (*PithExpr, error) {
	if p.tok.Type != hint.TokenName {
		return nil, p.errorf("expected pith expression, found %s", p.tok.Type)
	}
	pith := &PithExpr{Name: p.tok.Literal}
	p.prog.vars = appendName(p.prog.vars, pith.Name)
	p.advance()

	for p.tok.Type == hint.TokenLBracket {
		p.advance()
		neg := false
		if p.tok.Type == hint.TokenMinus {
			neg = true
			p.advance()
		}
		if p.tok.Type != hint.TokenInteger {
			return nil, p.errorf("expected integer index, found %s", p.tok.Type)
		}
		i, err := strconv.Atoi(p.tok.Literal)
		if err != nil {
			return nil, p.errorf("invalid index %q", p.tok.Literal)
		}
		if neg {
			i = -i
		}
		p.advance()
		if err := p.expect(hint.TokenRBracket); err != nil {
			return nil, err
		}
		pith.Indexes = append(pith.Indexes, i)
	}
	return pith, nil
}

func appendName(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
