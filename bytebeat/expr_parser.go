// expr_parser.go - recursive descent parser for bytebeat expressions

/*
██████╗ ██╗████████╗██████╗ ███████╗ █████╗ ████████╗
██╔══██╗██║╚══██╔══╝██╔══██╗██╔════╝██╔══██╗╚══██╔══╝
██████╔╝██║   ██║   ██████╔╝█████╗  ███████║   ██║
██╔══██╗██║   ██║   ██╔══██╗██╔══╝  ██╔══██║   ██║
██████╔╝██║   ██║   ██████╔╝███████╗██║  ██║   ██║
╚═════╝ ╚═╝   ╚═╝   ╚═════╝ ╚══════╝╚═╝  ╚═╝   ╚═╝

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/BitBeat
License: GPLv3 or later
*/

package bytebeat

import (
	"math/big"
	"strconv"
	"strings"
)

// exprParser holds state for parsing an expression into a node tree.
// Precedence follows JavaScript, lowest first:
//
//	?:  ||  &&  |  ^  &  == !=  < <= > >=  << >> >>>  + -  * / %  **  unary
type exprParser struct {
	input string
	pos   int
	depth int
}

func parseExpr(s string) (*node, error) {
	if s == "" {
		return nil, syntaxErr(0, "empty expression")
	}
	p := &exprParser{input: s}
	n, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		if p.input[p.pos] == ')' {
			return nil, syntaxErr(p.pos, "unmatched closing parenthesis")
		}
		if p.input[p.pos] == '=' {
			return nil, syntaxErr(p.pos, "assignment is not supported")
		}
		return nil, syntaxErr(p.pos, "unexpected character '%c'", p.input[p.pos])
	}
	return n, nil
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *exprParser) peek() byte {
	p.skipSpaces()
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

// acceptOp consumes op unless the input actually continues with one of the
// longer operators sharing its prefix.
func (p *exprParser) acceptOp(op string, longer ...string) bool {
	p.skipSpaces()
	rest := p.input[p.pos:]
	if !strings.HasPrefix(rest, op) {
		return false
	}
	for _, l := range longer {
		if strings.HasPrefix(rest, l) {
			return false
		}
	}
	p.pos += len(op)
	return true
}

func (p *exprParser) enter() error {
	p.depth++
	if p.depth > MAX_EXPR_DEPTH {
		return syntaxErr(p.pos, "expression nested too deeply")
	}
	return nil
}

func (p *exprParser) leave() { p.depth-- }

func binary(op string, l, r *node, pos int) *node {
	return &node{kind: nodeBinary, op: op, args: []*node{l, r}, pos: pos}
}

// parseTernary handles cond ? a : b (right associative)
func (p *exprParser) parseTernary() (*node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.peek() != '?' {
		return cond, nil
	}
	pos := p.pos
	p.pos++
	yes, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.peek() != ':' {
		return nil, syntaxErr(p.pos, "expected ':' in conditional expression")
	}
	p.pos++
	no, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeTernary, args: []*node{cond, yes, no}, pos: pos}, nil
}

// parseLogicalOr handles ||
func (p *exprParser) parseLogicalOr() (*node, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		if !p.acceptOp("||") {
			return left, nil
		}
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = binary("||", left, right, pos)
	}
}

// parseLogicalAnd handles &&
func (p *exprParser) parseLogicalAnd() (*node, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		if !p.acceptOp("&&") {
			return left, nil
		}
		right, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		left = binary("&&", left, right, pos)
	}
}

// parseOr handles | (bitwise OR)
func (p *exprParser) parseOr() (*node, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		if !p.acceptOp("|", "||") {
			return left, nil
		}
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = binary("|", left, right, pos)
	}
}

// parseXor handles ^ (bitwise XOR)
func (p *exprParser) parseXor() (*node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		if !p.acceptOp("^") {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binary("^", left, right, pos)
	}
}

// parseAnd handles & (bitwise AND)
func (p *exprParser) parseAnd() (*node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		if !p.acceptOp("&", "&&") {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = binary("&", left, right, pos)
	}
}

// parseEquality handles == and != (=== and !== are accepted as synonyms)
func (p *exprParser) parseEquality() (*node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		var op string
		switch {
		case p.acceptOp("==="), p.acceptOp("=="):
			op = "=="
		case p.acceptOp("!=="), p.acceptOp("!="):
			op = "!="
		default:
			return left, nil
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right, pos)
	}
}

// parseRelational handles <, <=, >, >=
func (p *exprParser) parseRelational() (*node, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		var op string
		switch {
		case p.acceptOp("<="):
			op = "<="
		case p.acceptOp(">="):
			op = ">="
		case p.acceptOp("<", "<<"):
			op = "<"
		case p.acceptOp(">", ">>"):
			op = ">"
		default:
			return left, nil
		}
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right, pos)
	}
}

// parseShift handles <<, >> and >>>
func (p *exprParser) parseShift() (*node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		var op string
		switch {
		case p.acceptOp(">>>"):
			op = ">>>"
		case p.acceptOp(">>", ">>>", ">>="):
			op = ">>"
		case p.acceptOp("<<", "<<="):
			op = "<<"
		default:
			return left, nil
		}
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right, pos)
	}
}

// parseAdd handles + and -
func (p *exprParser) parseAdd() (*node, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		var op string
		switch {
		case p.acceptOp("+"):
			op = "+"
		case p.acceptOp("-"):
			op = "-"
		default:
			return left, nil
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right, pos)
	}
}

// parseMul handles *, / and %
func (p *exprParser) parseMul() (*node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.pos
		var op string
		switch {
		case p.acceptOp("*", "**"):
			op = "*"
		case p.acceptOp("/"):
			op = "/"
		case p.acceptOp("%"):
			op = "%"
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right, pos)
	}
}

// parseUnary handles unary -, +, ~ and !
func (p *exprParser) parseUnary() (*node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.skipSpaces()
	if p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch ch {
		case '-', '+', '~', '!':
			pos := p.pos
			p.pos++
			val, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &node{kind: nodeUnary, op: string(ch), args: []*node{val}, pos: pos}, nil
		}
	}
	return p.parsePower()
}

// parsePower handles ** (right associative, binds tighter than unary on its left)
func (p *exprParser) parsePower() (*node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	pos := p.pos
	if !p.acceptOp("**") {
		return base, nil
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return binary("**", base, exp, pos), nil
}

// parseAtom handles numbers, names, calls and parenthesized expressions
func (p *exprParser) parseAtom() (*node, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return nil, syntaxErr(p.pos, "unexpected end of expression")
	}

	ch := p.input[p.pos]

	if ch == '(' {
		open := p.pos
		p.pos++
		val, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, syntaxErr(open, "missing closing parenthesis")
		}
		p.pos++
		return val, nil
	}

	if isDigit(ch) || (ch == '.' && p.pos+1 < len(p.input) && isDigit(p.input[p.pos+1])) {
		return p.parseNumber()
	}

	if isIdentStart(ch) {
		return p.parseName()
	}

	if ch == ')' {
		return nil, syntaxErr(p.pos, "unmatched closing parenthesis")
	}
	return nil, syntaxErr(p.pos, "unexpected character '%c'", ch)
}

func (p *exprParser) parseNumber() (*node, error) {
	start := p.pos

	if p.input[p.pos] == '0' && p.pos+1 < len(p.input) {
		base := 0
		switch p.input[p.pos+1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 0 {
			p.pos += 2
			digits := p.pos
			for p.pos < len(p.input) && (isBaseDigit(p.input[p.pos], base) || p.input[p.pos] == '_') {
				p.pos++
			}
			if p.pos == digits {
				return nil, syntaxErr(start, "expected digits after %s", p.input[start:digits])
			}
			// Any width is allowed; the value rounds to the nearest float64.
			numStr := strings.ReplaceAll(p.input[digits:p.pos], "_", "")
			n, ok := new(big.Int).SetString(numStr, base)
			if !ok {
				return nil, syntaxErr(start, "invalid number %s", p.input[start:p.pos])
			}
			if err := p.checkLiteralEnd(); err != nil {
				return nil, err
			}
			val, _ := new(big.Float).SetInt(n).Float64()
			return numNode(val, start), nil
		}
	}

	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '_') {
		p.pos++
	}
	if p.pos < len(p.input) && p.input[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '_') {
			p.pos++
		}
	}
	if p.pos < len(p.input) && (p.input[p.pos] == 'e' || p.input[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.input) && (p.input[p.pos] == '+' || p.input[p.pos] == '-') {
			p.pos++
		}
		digits := p.pos
		for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			p.pos++
		}
		if p.pos == digits {
			return nil, syntaxErr(start, "missing exponent in %s", p.input[start:p.pos])
		}
	}
	numStr := strings.ReplaceAll(p.input[start:p.pos], "_", "")
	val, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		// ParseFloat reports overflow with ±Inf, which matches JavaScript.
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return nil, syntaxErr(start, "invalid number %s", p.input[start:p.pos])
		}
	}
	if err := p.checkLiteralEnd(); err != nil {
		return nil, err
	}
	return numNode(val, start), nil
}

func (p *exprParser) checkLiteralEnd() error {
	if p.pos < len(p.input) && (isIdentChar(p.input[p.pos]) || p.input[p.pos] == '.') {
		return syntaxErr(p.pos, "identifier starts immediately after numeric literal")
	}
	return nil
}

func (p *exprParser) readIdent() string {
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *exprParser) parseName() (*node, error) {
	start := p.pos
	name := p.readIdent()
	if name == "Math" && p.pos < len(p.input) && p.input[p.pos] == '.' {
		p.pos++
		if p.pos >= len(p.input) || !isIdentStart(p.input[p.pos]) {
			return nil, syntaxErr(p.pos, "expected name after Math.")
		}
		name = "Math." + p.readIdent()
	}

	if p.peek() == '(' {
		return p.parseCall(name, start)
	}

	switch name {
	case "t":
		return &node{kind: nodeVar, v: varT, pos: start}, nil
	case "x":
		return &node{kind: nodeVar, v: varX, pos: start}, nil
	case "y":
		return &node{kind: nodeVar, v: varY, pos: start}, nil
	case "a":
		return &node{kind: nodeVar, v: varA, pos: start}, nil
	case "b":
		return &node{kind: nodeVar, v: varB, pos: start}, nil
	}
	if v, ok := constants[canonicalName(name)]; ok {
		return numNode(v, start), nil
	}
	return nil, undefinedErr(start, name)
}

func (p *exprParser) parseCall(name string, start int) (*node, error) {
	canon := canonicalName(name)
	fn, ok := builtins[canon]
	if !ok {
		return nil, undefinedErr(start, name)
	}
	p.pos++ // (

	var args []*node
	if p.peek() == ')' {
		p.pos++
	} else {
		for {
			arg, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek() == ',' {
				p.pos++
				continue
			}
			if p.peek() != ')' {
				return nil, syntaxErr(p.pos, "expected ',' or ')' in call to %s", name)
			}
			p.pos++
			break
		}
	}

	switch {
	case !fn.variadic && len(args) != fn.arity:
		return nil, syntaxErr(start, "%s expects %d argument(s), got %d", name, fn.arity, len(args))
	case fn.variadic && len(args) < fn.arity:
		return nil, syntaxErr(start, "%s expects at least %d argument(s)", name, fn.arity)
	}
	return &node{kind: nodeCall, op: canon, args: args, pos: start}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isBaseDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	}
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
