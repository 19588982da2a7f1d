package curve

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/qft-labs/nupid/internal/core"
)

// Parse turns a curve expression into an evaluable Curve. The grammar is
//
//	expr := number | name '(' [ expr { ',' expr } ] ')'
//
// where name must be registered. Numbers accept the forms strconv parses,
// including signs and exponents.
func Parse(expr string) (Curve, error) {
	p := &parser{input: expr}
	c, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("curve: %w: trailing input %q in expression %q",
			core.ErrParamFormat, p.input[p.pos:], expr)
	}
	return c, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) expr() (Curve, error) {
	arg, err := p.arg()
	if err != nil {
		return nil, err
	}
	return arg.Inner(), nil
}

func (p *parser) arg() (Arg, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == 0:
		return Arg{}, fmt.Errorf("curve: %w: unexpected end of expression %q",
			core.ErrParamFormat, p.input)
	case c == '+' || c == '-' || c == '.' || unicode.IsDigit(rune(c)):
		n, err := p.number()
		if err != nil {
			return Arg{}, err
		}
		return Arg{Num: n, IsNum: true}, nil
	case isIdentStart(c):
		cv, err := p.call()
		if err != nil {
			return Arg{}, err
		}
		return Arg{Curve: cv}, nil
	default:
		return Arg{}, fmt.Errorf("curve: %w: unexpected character %q at offset %d in %q",
			core.ErrParamFormat, string(c), p.pos, p.input)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	if c := p.peek(); c == '+' || c == '-' {
		p.pos++
	}
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if unicode.IsDigit(rune(c)) || c == '.' {
			p.pos++
			continue
		}
		// exponent
		if (c == 'e' || c == 'E') && p.pos > start {
			next := p.pos + 1
			if next < len(p.input) && (p.input[next] == '+' || p.input[next] == '-') {
				next++
			}
			if next < len(p.input) && unicode.IsDigit(rune(p.input[next])) {
				p.pos = next + 1
				continue
			}
		}
		break
	}
	n, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("curve: %w: bad number %q in expression %q",
			core.ErrParamFormat, p.input[start:p.pos], p.input)
	}
	return n, nil
}

func (p *parser) call() (Curve, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]
	p.skipSpace()
	if p.peek() != '(' {
		return nil, fmt.Errorf("curve: %w: expected %q after %q in expression %q",
			core.ErrParamFormat, "(", name, p.input)
	}
	p.pos++

	var args []Arg
	p.skipSpace()
	if p.peek() != ')' {
		for {
			arg, err := p.arg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
	}
	if p.peek() != ')' {
		return nil, fmt.Errorf("curve: %w: expected %q to close %q in expression %q",
			core.ErrParamFormat, ")", name, p.input)
	}
	p.pos++

	build, err := Get(name)
	if err != nil {
		return nil, err
	}
	return build(args)
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}
