package hint

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the type of a token in textual hint syntax. The
// same tokens serve the check fragment language.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError
	TokenName
	TokenInteger
	TokenFloat
	TokenString
	TokenBytes
	TokenLBracket
	TokenRBracket
	TokenLParen
	TokenRParen
	TokenComma
	TokenDot
	TokenPipe
	TokenMinus
	TokenEllipsis
	TokenEq
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "EOF",
	TokenError:    "ERROR",
	TokenName:     "NAME",
	TokenInteger:  "INTEGER",
	TokenFloat:    "FLOAT",
	TokenString:   "STRING",
	TokenBytes:    "BYTES",
	TokenLBracket: "[",
	TokenRBracket: "]",
	TokenLParen:   "(",
	TokenRParen:   ")",
	TokenComma:    ",",
	TokenDot:      ".",
	TokenPipe:     "|",
	TokenMinus:    "-",
	TokenEllipsis: "...",
	TokenEq:       "==",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token is a lexical token with its byte offset
type Token struct {
	Type    TokenType
	Literal string
	Offset  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Literal, t.Offset)
}

// Lexer tokenizes textual hints
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer over input
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peek(off int) byte {
	if l.pos+off < len(l.input) {
		return l.input[l.pos+off]
	}
	return 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// NextToken returns the next token; TokenEOF repeats at end of input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Offset: start}
	}

	ch := l.input[l.pos]
	switch {
	case ch == '[':
		l.pos++
		return Token{TokenLBracket, "[", start}
	case ch == ']':
		l.pos++
		return Token{TokenRBracket, "]", start}
	case ch == '(':
		l.pos++
		return Token{TokenLParen, "(", start}
	case ch == ')':
		l.pos++
		return Token{TokenRParen, ")", start}
	case ch == ',':
		l.pos++
		return Token{TokenComma, ",", start}
	case ch == '|':
		l.pos++
		return Token{TokenPipe, "|", start}
	case ch == '-':
		l.pos++
		return Token{TokenMinus, "-", start}
	case ch == '=' && l.peek(1) == '=':
		l.pos += 2
		return Token{TokenEq, "==", start}
	case ch == '.':
		if l.peek(1) == '.' && l.peek(2) == '.' {
			l.pos += 3
			return Token{TokenEllipsis, "...", start}
		}
		if isDigit(l.peek(1)) {
			return l.readNumber()
		}
		l.pos++
		return Token{TokenDot, ".", start}
	case ch == '"' || ch == '\'':
		return l.readString(TokenString)
	case (ch == 'b' || ch == 'B') && (l.peek(1) == '"' || l.peek(1) == '\''):
		l.pos++
		tok := l.readString(TokenBytes)
		tok.Offset = start
		return tok
	case isDigit(ch):
		return l.readNumber()
	case isLetter(ch):
		for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
			l.pos++
		}
		return Token{TokenName, l.input[start:l.pos], start}
	}

	l.pos++
	return Token{TokenError, fmt.Sprintf("unexpected character %q", ch), start}
}

func (l *Lexer) readNumber() Token {
	start := l.pos
	typ := TokenInteger
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case isDigit(ch) || ch == '_':
		case ch == '.' && l.peek(1) != '.':
			typ = TokenFloat
		case ch == 'e' || ch == 'E':
			typ = TokenFloat
			if n := l.peek(1); n == '+' || n == '-' {
				l.pos++
			}
		default:
			return Token{typ, l.input[start:l.pos], start}
		}
		l.pos++
	}
	return Token{typ, l.input[start:l.pos], start}
}

// readString reads a quoted literal and returns its unquoted contents
func (l *Lexer) readString(typ TokenType) Token {
	start := l.pos
	quote := l.input[l.pos]
	l.pos++
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' {
			l.pos += 2
			continue
		}
		if ch == quote {
			l.pos++
			raw := l.input[start:l.pos]
			if quote == '\'' {
				raw = `"` + strings.ReplaceAll(strings.ReplaceAll(raw[1:len(raw)-1], `\'`, `'`), `"`, `\"`) + `"`
			}
			s, err := strconv.Unquote(raw)
			if err != nil {
				return Token{TokenError, "invalid string literal", start}
			}
			return Token{typ, s, start}
		}
		l.pos++
	}
	return Token{TokenError, "unterminated string literal", start}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
