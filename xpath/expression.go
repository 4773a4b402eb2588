package xpath

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expression is a parsed operator expression over atomic literals.
//
// The grammar covers numeric and string literals, the empty sequence (), comma
// separated sequences, true() and false(), xs:* constructor functions, unary + and -,
// parentheses and the binary operators of this package with XPath 3.1 precedence:
//
//	Expr           := Comparison ("," Comparison)*
//	Comparison     := Concat (("eq"|"ne"|"lt"|"le"|"gt"|"ge") Concat)?
//	Concat         := Additive ("||" Additive)*
//	Additive       := Multiplicative (("+"|"-") Multiplicative)*
//	Multiplicative := Unary (("*"|"div"|"idiv"|"mod") Unary)*
//	Unary          := ("+"|"-")* Primary
//	Primary        := Literal | "(" Expr? ")" | Name "(" (Comparison ("," Comparison)*)? ")"
//
// Expressions are created using the Parse or MustParse functions.
type Expression struct {
	source string
	tree   node
}

// String returns the source text of the expression.
func (e Expression) String() string {
	return e.source
}

// Parse parses an expression string and returns an Expression object.
// If the expression cannot be parsed, a SyntaxError is returned.
//
// Example:
//
//	expr, err := xpath.Parse(`12 || 34 - 50`)
//	if err != nil {
//	    // Handle error
//	}
func Parse(expr string) (Expression, error) {
	p, err := newParser(expr)
	if err != nil {
		return Expression{}, err
	}
	tree, err := p.parseExpr()
	if err != nil {
		return Expression{}, err
	}
	if t := p.peek(); t.kind != tokenEOF {
		return Expression{}, p.errorf(t, "unexpected %q", t.text)
	}
	return Expression{source: expr, tree: tree}, nil
}

// MustParse parses an expression string and returns an Expression object.
// If the expression cannot be parsed, it panics.
//
// Example:
//
//	expr := xpath.MustParse(`1 div 0e0`)
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// Evaluate evaluates a parsed expression and returns the resulting sequence.
//
// The context carries the dynamic configuration: the decimal precision
// (WithAPDContext), the implicit timezone (WithImplicitTimezone) and the handling of
// empty operands (WithEmptyOperandMode).
//
// Example:
//
//	result, err := xpath.Evaluate(ctx, xpath.MustParse(`"1234" eq 12 || 34`))
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(result) // Output: { true }
func Evaluate(ctx context.Context, expr Expression) (Sequence, error) {
	if expr.tree == nil {
		return nil, fmt.Errorf("can not evaluate empty expression")
	}
	return expr.tree.eval(ctx)
}

type SyntaxError struct {
	line, column int
	msg          string
}

func (s SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", s.line, s.column, s.msg)
}

func (s SyntaxError) Unwrap() error {
	return ErrSyntax
}

type node interface {
	eval(ctx context.Context) (Sequence, error)
}

type literalNode struct {
	value Value
}

func (n literalNode) eval(context.Context) (Sequence, error) {
	return Sequence{n.value}, nil
}

type sequenceNode []node

func (n sequenceNode) eval(ctx context.Context) (Sequence, error) {
	var res Sequence
	for _, item := range n {
		s, err := item.eval(ctx)
		if err != nil {
			return nil, err
		}
		res = append(res, s...)
	}
	return res, nil
}

type unaryNode struct {
	negate  bool
	operand node
}

func (n unaryNode) eval(ctx context.Context) (Sequence, error) {
	s, err := n.operand.eval(ctx)
	if err != nil {
		return nil, err
	}
	if n.negate {
		return s.Negate()
	}
	return s.Identity()
}

type binaryNode struct {
	op       Operator
	lhs, rhs node
}

func (n binaryNode) eval(ctx context.Context) (Sequence, error) {
	lhs, err := n.lhs.eval(ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := n.rhs.eval(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case n.op == OpConcat:
		return lhs.Concat(rhs)
	case n.op.IsComparison():
		return lhs.Compare(ctx, n.op, rhs)
	default:
		return lhs.Arithmetic(ctx, n.op, rhs)
	}
}

// castNode is a constructor function call such as xs:decimal("1.5").
type castNode struct {
	kind Kind
	arg  node
}

func (n castNode) eval(ctx context.Context) (Sequence, error) {
	s, err := n.arg.eval(ctx)
	if err != nil {
		return nil, err
	}
	v, ok, err := s.Single()
	if err != nil || !ok {
		return nil, err
	}
	res, err := Cast(v, n.kind)
	if err != nil {
		return nil, err
	}
	return Sequence{res}, nil
}

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenName
	tokenSymbol
)

type token struct {
	kind         tokenKind
	text         string
	line, column int
}

// lex splits the expression into tokens. Operator keywords such as div or eq are
// returned as names and recognised by the parser.
func lex(expr string) ([]token, error) {
	var tokens []token
	line, column := 1, 1
	advance := func(s string) {
		for _, r := range s {
			if r == '\n' {
				line++
				column = 1
			} else {
				column++
			}
		}
	}

	for rest := expr; ; {
		trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
		advance(rest[:len(rest)-len(trimmed)])
		rest = trimmed
		if rest == "" {
			tokens = append(tokens, token{kind: tokenEOF, line: line, column: column})
			return tokens, nil
		}

		t := token{line: line, column: column}
		r, _ := utf8.DecodeRuneInString(rest)
		switch {
		case isDigit(r) || (r == '.' && len(rest) > 1 && isDigit(rune(rest[1]))):
			t.kind, t.text = tokenNumber, scanNumber(rest)
		case r == '"' || r == '\'':
			text, ok := scanString(rest)
			if !ok {
				return nil, SyntaxError{line: line, column: column, msg: "unterminated string literal"}
			}
			t.kind, t.text = tokenString, text
		case unicode.IsLetter(r) || r == '_':
			t.kind, t.text = tokenName, scanName(rest)
		case strings.HasPrefix(rest, "||"):
			t.kind, t.text = tokenSymbol, "||"
		case strings.ContainsRune("()+-*,", r):
			t.kind, t.text = tokenSymbol, string(r)
		default:
			return nil, SyntaxError{line: line, column: column, msg: fmt.Sprintf("unexpected character %q", r)}
		}
		tokens = append(tokens, t)
		advance(t.text)
		rest = rest[len(t.text):]
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func scanNumber(s string) string {
	i := 0
	digits := func() {
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}
	}
	digits()
	if i < len(s) && s[i] == '.' {
		i++
		digits()
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(rune(s[j])) {
			i = j
			digits()
		}
	}
	return s[:i]
}

// scanString returns the quoted literal at the start of s, quotes included. A doubled
// quote character inside the literal stands for one quote.
func scanString(s string) (string, bool) {
	quote := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != quote {
			continue
		}
		if i+1 < len(s) && s[i+1] == quote {
			i++
			continue
		}
		return s[:i+1], true
	}
	return "", false
}

func unquote(lit string) string {
	quote := lit[:1]
	return strings.ReplaceAll(lit[1:len(lit)-1], quote+quote, quote)
}

func scanName(s string) string {
	isNameRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
	}
	end := strings.IndexFunc(s, func(r rune) bool { return !isNameRune(r) })
	if end < 0 {
		return s
	}
	// prefixed name such as xs:integer
	if s[end] == ':' && end+1 < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end+1:]); unicode.IsLetter(r) || r == '_' {
			local := strings.IndexFunc(s[end+1:], func(r rune) bool { return !isNameRune(r) })
			if local < 0 {
				return s
			}
			return s[:end+1+local]
		}
	}
	return s[:end]
}

type parser struct {
	tokens []token
	pos    int
}

func newParser(expr string) (*parser, error) {
	tokens, err := lex(expr)
	if err != nil {
		return nil, err
	}
	return &parser{tokens: tokens}, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return SyntaxError{line: t.line, column: t.column, msg: fmt.Sprintf(format, args...)}
}

func (p *parser) accept(kind tokenKind, texts ...string) (token, bool) {
	t := p.peek()
	if t.kind != kind {
		return t, false
	}
	for _, text := range texts {
		if t.text == text {
			return p.next(), true
		}
	}
	return t, false
}

func (p *parser) expect(text string) error {
	if _, ok := p.accept(tokenSymbol, text); !ok {
		t := p.peek()
		if t.kind == tokenEOF {
			return p.errorf(t, "expected %q, got end of expression", text)
		}
		return p.errorf(t, "expected %q, got %q", text, t.text)
	}
	return nil
}

func (p *parser) parseExpr() (node, error) {
	first, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	items := sequenceNode{first}
	for {
		if _, ok := p.accept(tokenSymbol, ","); !ok {
			break
		}
		item, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		return first, nil
	}
	return items, nil
}

// parseComparison parses a value comparison; XPath comparisons do not chain.
func (p *parser) parseComparison() (node, error) {
	lhs, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	t, ok := p.accept(tokenName, "eq", "ne", "lt", "le", "gt", "ge")
	if !ok {
		return lhs, nil
	}
	op, _ := LookupOperator(t.text)
	rhs, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	return binaryNode{op: op, lhs: lhs, rhs: rhs}, nil
}

func (p *parser) parseConcat() (node, error) {
	return p.parseBinary(p.parseAdditive, tokenSymbol, "||")
}

func (p *parser) parseAdditive() (node, error) {
	return p.parseBinary(p.parseMultiplicative, tokenSymbol, "+", "-")
}

func (p *parser) parseMultiplicative() (node, error) {
	return p.parseBinary(p.parseUnary, tokenSymbol, "*")
}

// parseBinary parses a left-associative chain of operators. Multiplicative keywords
// are names and are tried in addition to the symbols passed in.
func (p *parser) parseBinary(operand func() (node, error), kind tokenKind, symbols ...string) (node, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}
	multiplicative := len(symbols) == 1 && symbols[0] == "*"
	for {
		t, ok := p.accept(kind, symbols...)
		if !ok && multiplicative {
			t, ok = p.accept(tokenName, "div", "idiv", "mod")
		}
		if !ok {
			return lhs, nil
		}
		op, _ := LookupOperator(t.text)
		rhs, err := operand()
		if err != nil {
			return nil, err
		}
		lhs = binaryNode{op: op, lhs: lhs, rhs: rhs}
	}
}

func (p *parser) parseUnary() (node, error) {
	t, ok := p.accept(tokenSymbol, "+", "-")
	if !ok {
		return p.parsePrimary()
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return unaryNode{negate: t.text == "-", operand: operand}, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokenNumber:
		v, err := ParseLiteral(t.text)
		if err != nil {
			return nil, p.errorf(t, "invalid numeric literal %q", t.text)
		}
		return literalNode{value: v}, nil
	case tokenString:
		return literalNode{value: String(unquote(t.text))}, nil
	case tokenSymbol:
		if t.text == "(" {
			return p.parseParenthesized()
		}
	case tokenName:
		if err := p.expect("("); err != nil {
			return nil, err
		}
		return p.parseFunctionCall(t)
	case tokenEOF:
		return nil, p.errorf(t, "unexpected end of expression")
	}
	return nil, p.errorf(t, "unexpected %q", t.text)
}

func (p *parser) parseParenthesized() (node, error) {
	if _, ok := p.accept(tokenSymbol, ")"); ok {
		return sequenceNode{}, nil
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return inner, nil
}

// parseFunctionCall parses the argument list of name, whose "(" has been consumed.
func (p *parser) parseFunctionCall(name token) (node, error) {
	var args []node
	if _, ok := p.accept(tokenSymbol, ")"); !ok {
		for {
			arg, err := p.parseComparison()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.accept(tokenSymbol, ","); !ok {
				break
			}
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
	}

	switch name.text {
	case "true", "fn:true", "false", "fn:false":
		if len(args) != 0 {
			return nil, newError(CodeUnknownFunction, "%s() takes no arguments", name.text)
		}
		return literalNode{value: Boolean(strings.HasSuffix(name.text, "true"))}, nil
	}

	kind, ok := LookupKind(name.text)
	if !ok {
		return nil, newError(CodeUnknownFunction, "unknown function %s()", name.text)
	}
	if len(args) != 1 {
		return nil, newError(CodeUnknownFunction, "%s() takes one argument, got %d", name.text, len(args))
	}
	return castNode{kind: kind, arg: args[0]}, nil
}
