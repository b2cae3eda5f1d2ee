package instr

import (
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"
)

// Override pins one named parameter of the annotated function to a fixed
// expression in the generated shim
type Override struct {
	// Parameter name the override applies to
	Name string
	// Go expression substituted at the call site, kept verbatim
	Expr string
}

// Invocation is the parsed argument list of one assert directive:
//
//	//instrcheck:assert(instruction, name = expression, ...)
type Invocation struct {
	// Expected instruction mnemonic
	Instr string
	// Argument overrides in the order they were written
	Overrides []Override
}

// ParseInvocation parses the parenthesized argument list of an assert
// directive. The grammar is a flat list: a bare identifier naming the
// instruction, followed by zero or more "name = expression" overrides.
// Any deviation fails with ErrInvocationSyntax.
func ParseInvocation(args string) (*Invocation, error) {
	p, err := newInvocationParser(args)
	if err != nil {
		return nil, err
	}

	return p.parse()
}

type argToken struct {
	off int
	tok token.Token
	lit string
}

type invocationParser struct {
	src    string
	tokens []argToken
	pos    int
}

func newInvocationParser(src string) (*invocationParser, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("directive", fset.Base(), len(src))

	scanFailed := false
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) { scanFailed = true }, 0)

	tokens := []argToken{}
	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}

		// The scanner inserts a terminating semicolon after the last token,
		// it is not part of the directive
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}

		tokens = append(tokens, argToken{off: file.Offset(pos), tok: tok, lit: lit})
	}

	if scanFailed {
		return nil, syntaxError(src, "cannot tokenize argument list")
	}

	return &invocationParser{src: src, tokens: tokens}, nil
}

func (p *invocationParser) parse() (*Invocation, error) {
	if err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	instr, err := p.identifier()
	if err != nil {
		return nil, err
	}

	invocation := &Invocation{
		Instr:     instr,
		Overrides: []Override{},
	}

	for !p.at(token.RPAREN) {
		if err := p.expect(token.COMMA); err != nil {
			return nil, err
		}

		name, err := p.identifier()
		if err != nil {
			return nil, err
		}

		if err := p.expect(token.ASSIGN); err != nil {
			return nil, err
		}

		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		invocation.Overrides = append(invocation.Overrides, Override{Name: name, Expr: expr})
	}

	p.pos++
	if p.pos != len(p.tokens) {
		return nil, syntaxError(p.src, "unexpected tokens after closing parenthesis")
	}

	return invocation, nil
}

// expression consumes tokens up to the next list-level comma or the closing
// parenthesis and validates that the consumed text parses as a Go expression
func (p *invocationParser) expression() (string, error) {
	start := -1
	end := len(p.src)
	depth := 0

	for ; p.pos < len(p.tokens); p.pos++ {
		t := p.tokens[p.pos]

		if depth == 0 && (t.tok == token.COMMA || t.tok == token.RPAREN) {
			end = t.off
			break
		}

		switch t.tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
		}

		if start < 0 {
			start = t.off
		}
	}

	if start < 0 {
		return "", syntaxError(p.src, "missing override expression")
	}

	text := strings.TrimSpace(p.src[start:end])
	if _, err := parser.ParseExpr(text); err != nil {
		return "", syntaxError(p.src, "%q is not a valid expression", text)
	}

	return text, nil
}

func (p *invocationParser) identifier() (string, error) {
	if !p.at(token.IDENT) {
		return "", syntaxError(p.src, "expected identifier")
	}

	name := p.tokens[p.pos].lit
	p.pos++
	return name, nil
}

func (p *invocationParser) at(tok token.Token) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].tok == tok
}

func (p *invocationParser) expect(tok token.Token) error {
	if !p.at(tok) {
		return syntaxError(p.src, "expected %q", tok.String())
	}

	p.pos++
	return nil
}

func syntaxError(src string, details string, args ...any) error {
	return fmt.Errorf("%w: expected (instruction, name = expression, ...), got %q: %s",
		ErrInvocationSyntax, src, fmt.Sprintf(details, args...))
}
