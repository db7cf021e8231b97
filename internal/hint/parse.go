package hint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/hintkit/internal/errors"
)

// emptyTupleArgs marks the () inside Tuple[()] while parsing
type emptyTupleArgs struct{}

// Parser builds raw hints from textual hint syntax
type Parser struct {
	ns    *Namespace
	src   string
	lexer *Lexer
	cur   Token
}

// Parse parses src against the default namespace.
func Parse(src string) (Hint, error) {
	return DefaultNamespace().Parse(src)
}

// MustParse is Parse for hints known to be valid; it panics on error.
func MustParse(src string) Hint {
	h, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return h
}

// Parse parses src, resolving names in ns.
func (ns *Namespace) Parse(src string) (Hint, error) {
	p := &Parser{ns: ns, src: src, lexer: NewLexer(src)}
	p.advance()

	h, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokenEOF {
		return nil, p.errorf("unexpected %s after hint", p.cur.Type)
	}
	if _, ok := h.(emptyTupleArgs); ok {
		return nil, errors.HintSyntax(src, 0, "() is only valid as Tuple[()]")
	}
	return h, nil
}

func (p *Parser) advance() {
	p.cur = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	if p.cur.Type == TokenError {
		return errors.HintSyntax(p.src, p.cur.Offset, p.cur.Literal)
	}
	return errors.HintSyntax(p.src, p.cur.Offset, fmt.Sprintf(format, args...))
}

func (p *Parser) expect(tt TokenType) error {
	if p.cur.Type != tt {
		return p.errorf("expected %s, found %s", tt, p.cur.Type)
	}
	p.advance()
	return nil
}

// parseUnion parses primary ('|' primary)*
func (p *Parser) parseUnion() (Hint, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokenPipe {
		return first, nil
	}

	members := []Hint{first}
	for p.cur.Type == TokenPipe {
		p.advance()
		next, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	return UnionOp(members...), nil
}

func (p *Parser) parsePrimary() (Hint, error) {
	tok := p.cur
	switch tok.Type {
	case TokenEllipsis:
		p.advance()
		return Ellipsis, nil

	case TokenLBracket:
		p.advance()
		params := Params{}
		for p.cur.Type != TokenRBracket {
			h, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			params = append(params, h)
			if p.cur.Type != TokenComma {
				break
			}
			p.advance()
		}
		if err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		return params, nil

	case TokenLParen:
		p.advance()
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return emptyTupleArgs{}, nil

	case TokenInteger, TokenFloat, TokenMinus:
		return p.parseNumber()

	case TokenString:
		p.advance()
		return tok.Literal, nil

	case TokenBytes:
		p.advance()
		return []byte(tok.Literal), nil

	case TokenName:
		return p.parseName()
	}

	return nil, p.errorf("unexpected %s", tok.Type)
}

func (p *Parser) parseNumber() (Hint, error) {
	neg := false
	if p.cur.Type == TokenMinus {
		neg = true
		p.advance()
	}

	tok := p.cur
	lit := strings.ReplaceAll(tok.Literal, "_", "")
	switch tok.Type {
	case TokenInteger:
		n, err := strconv.Atoi(lit)
		if err != nil {
			return nil, p.errorf("invalid integer literal")
		}
		p.advance()
		if neg {
			n = -n
		}
		return n, nil
	case TokenFloat:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.errorf("invalid float literal")
		}
		p.advance()
		if neg {
			f = -f
		}
		return f, nil
	}
	return nil, p.errorf("expected number, found %s", tok.Type)
}

func (p *Parser) parseName() (Hint, error) {
	start := p.cur
	switch start.Literal {
	case "None":
		p.advance()
		return nil, nil
	case "True":
		p.advance()
		return true, nil
	case "False":
		p.advance()
		return false, nil
	}

	name := start.Literal
	p.advance()
	for p.cur.Type == TokenDot {
		p.advance()
		if p.cur.Type != TokenName {
			return nil, p.errorf("expected name after '.'")
		}
		name += "." + p.cur.Literal
		p.advance()
	}

	base, ok := p.ns.Lookup(name)
	if !ok {
		return nil, errors.HintSyntax(p.src, start.Offset, "undefined name "+strconv.Quote(name))
	}
	if p.cur.Type != TokenLBracket {
		return base, nil
	}

	var sign Sign
	switch b := base.(type) {
	case Sign:
		sign = b
	case *Class:
		s, ok := SignOfClass(b)
		if !ok {
			return nil, errors.HintSyntax(p.src, start.Offset, name+" is not subscriptable")
		}
		sign = s
	default:
		return nil, errors.HintSyntax(p.src, start.Offset, name+" is not subscriptable")
	}

	p.advance()
	args := []Hint{}
	for p.cur.Type != TokenRBracket {
		h, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, h)
		if p.cur.Type != TokenComma {
			break
		}
		p.advance()
	}
	if err := p.expect(TokenRBracket); err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return nil, errors.HintSyntax(p.src, start.Offset, name+"[] requires arguments")
	}
	for _, a := range args {
		if _, empty := a.(emptyTupleArgs); !empty {
			continue
		}
		if sign != SignTuple || len(args) != 1 {
			return nil, errors.HintSyntax(p.src, start.Offset, "() is only valid as Tuple[()]")
		}
		args = args[:0]
	}

	return Of(sign, args...), nil
}
