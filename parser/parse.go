// Package parser parses RFC 9535 JSONPath queries into parse trees. Most
// JSONPath users will use package [github.com/theory/jsonpath] instead of
// this package.
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theory/jsonpath/internal/boundedint"
	"github.com/theory/jsonpath/registry"
	"github.com/theory/jsonpath/spec"
)

// ErrPathParse errors are returned for path parse errors.
var ErrPathParse = errors.New("jsonpath")

// parser holds the state threaded through a single call to [Parse]: the
// lexer supplying tokens and the registry used to resolve function-extension
// names encountered in filter expressions.
type parser struct {
	lex *lexer
	reg *registry.Registry
}

// Parse parses path, a JSON Path query string, into a PathQuery. Returns an
// [*Error] on parse failure.
func Parse(reg *registry.Registry, path string) (*spec.PathQuery, error) {
	p := parser{lex: newLexer(path), reg: reg}
	tok := p.lex.scan()

	if tok.tok == eof {
		return nil, &Error{
			Reason: ReasonSyntax,
			Pos:    tok.pos,
			err:    fmt.Errorf("%w: unexpected end of input", ErrPathParse),
		}
	}
	if tok.tok != '$' {
		return nil, unexpected(tok)
	}

	// All path queries must start with $.
	q, err := p.parseQuery(true)
	if err != nil {
		return nil, err
	}
	if p.lex.r != eof {
		// Should have scanned to the end of input.
		return nil, unexpected(p.lex.scan())
	}
	return q, nil
}

// makeError creates a syntax error at tok.
func makeError(tok token, msg string) error {
	return newError(tok, ReasonSyntax, msg)
}

// unexpected creates and returns an error for an unexpected token. For
// invalid tokens, the error will be as returned by the lexer. Otherwise, the
// error message will be "unexpected " followed by the token's name.
func unexpected(tok token) error {
	if tok.tok == invalid {
		// Lex error message in the token value.
		return makeError(tok, tok.val)
	}
	return makeError(tok, "unexpected "+tok.name())
}

// makeNumErr converts strconv.NumErrors to jsonpath errors.
func makeNumErr(tok token, err error) error {
	var numError *strconv.NumError
	if errors.As(err, &numError) {
		return newError(tok, ReasonInternal, fmt.Sprintf(
			"cannot parse %q, %v",
			numError.Num, numError.Err.Error(),
		))
	}
	return newError(tok, ReasonInternal, err.Error())
}

// takeUntil scans items with parseItem until it sees closer, requiring a ','
// between each. parseItem is responsible for scanning the tokens of a
// single item itself; takeUntil only arbitrates what comes between items.
// Used for the bracketed-selector list; [parser.parseFunctionArgs] keeps its
// own loop.
func takeUntil(lex *lexer, closer rune, parseItem func() error) error {
	for {
		if err := parseItem(); err != nil {
			return err
		}
		switch lex.skipBlankSpace() {
		case ',':
			lex.scan()
		case closer:
			lex.scan()
			return nil
		default:
			return unexpected(lex.scan())
		}
	}
}

// parseQuery parses the segments of a query expression whose leading $ or @
// token has already been scanned from lex. Returns the parsed Query.
func (p *parser) parseQuery(root bool) (*spec.PathQuery, error) {
	lex := p.lex
	segs := []*spec.Segment{}

	for {
		r := lex.r
		if lex.isBlankSpace(r) {
			switch lex.peekPastBlankSpace() {
			case '.', '[':
				lex.scanBlankSpace()
				continue
			default:
				return spec.Query(root, segs...), nil
			}
		}

		switch r {
		case '[':
			lex.scan()
			selectors, err := p.parseSelectors()
			if err != nil {
				return nil, err
			}
			segs = append(segs, spec.Child(selectors...))
		case '.':
			lex.scan()
			seg, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		default:
			return spec.Query(root, segs...), nil
		}
	}
}

// parseDotSegment parses the segment that follows a single '.' already
// consumed from lex: either a second '.' starting a descendant segment, or a
// name/wildcard selector starting a child segment.
func (p *parser) parseDotSegment() (*spec.Segment, error) {
	lex := p.lex
	if lex.r == '.' {
		lex.scan()
		return p.parseDescendant()
	}
	sel, err := parseNameOrWildcard(lex)
	if err != nil {
		return nil, err
	}
	return spec.Child(sel), nil
}

// parseNameOrWildcard parses a name or '*' wildcard selector. Returns the
// parsed Selector.
func parseNameOrWildcard(lex *lexer) (spec.Selector, error) {
	switch tok := lex.scan(); tok.tok {
	case identifier:
		return spec.Name(tok.val), nil
	case '*':
		return spec.Wildcard, nil
	default:
		return nil, unexpected(tok)
	}
}

// parseDescendant parses a ".." descendant segment, which may be a bracketed
// segment or a wildcard or name selector segment. Returns the parsed Segment.
func (p *parser) parseDescendant() (*spec.Segment, error) {
	switch tok := p.lex.scan(); tok.tok {
	case '[':
		selectors, err := p.parseSelectors()
		if err != nil {
			return nil, err
		}
		return spec.Descendant(selectors...), nil
	case identifier:
		return spec.Descendant(spec.Name(tok.val)), nil
	case '*':
		return spec.Descendant(spec.Wildcard), nil
	default:
		return nil, unexpected(tok)
	}
}

// parseSelectors parses Selectors from a bracket segment. The '[' that opens
// the segment must already have been scanned from lex. Returns the Selectors
// parsed.
func (p *parser) parseSelectors() ([]spec.Selector, error) {
	lex := p.lex
	selectors := []spec.Selector{}

	err := takeUntil(lex, ']', func() error {
		lex.skipBlankSpace()
		sel, err := p.parseSelector(lex.scan())
		if err != nil {
			return err
		}
		selectors = append(selectors, sel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selectors, nil
}

// parseSelector parses a single bracketed selector starting at tok, which
// must already have been scanned from lex.
func (p *parser) parseSelector(tok token) (spec.Selector, error) {
	lex := p.lex
	switch tok.tok {
	case '?':
		return p.parseFilter()
	case '*':
		return spec.Wildcard, nil
	case goString:
		return spec.Name(tok.val), nil
	case ':':
		return parseSlice(lex, tok)
	case integer:
		if lex.skipBlankSpace() == ':' {
			return parseSlice(lex, tok)
		}
		idx, err := parsePathInt(tok)
		if err != nil {
			return nil, err
		}
		return spec.Index(idx), nil
	default:
		return nil, unexpected(tok)
	}
}

// parsePathInt parses an integer as used in index values and steps, which must be
// within the interval [-(2^53)+1, (2^53)-1].
func parsePathInt(tok token) (int64, error) {
	if tok.val == "-0" {
		return 0, makeError(tok, fmt.Sprintf(
			"invalid integer path value %q", tok.val,
		))
	}
	idx, err := strconv.ParseInt(tok.val, 10, 64)
	if err != nil {
		return 0, makeNumErr(tok, err)
	}
	if !boundedint.InRange(idx) {
		return 0, makeError(tok, fmt.Sprintf(
			"cannot parse %q, value out of range",
			tok.val,
		))
	}
	return idx, nil
}

// parseSlice parses a slice selector, <start>:<end>:<step>. Returns the
// parsed SliceSelector.
func parseSlice(lex *lexer, tok token) (spec.SliceSelector, error) {
	var args [3]any

	for part := 0; part < 3; {
		switch tok.tok {
		case ':':
			part++
		case integer:
			num, err := parsePathInt(tok)
			if err != nil {
				return spec.SliceSelector{}, err
			}
			args[part] = int(num)
		default:
			return spec.SliceSelector{}, unexpected(tok)
		}

		switch next := lex.skipBlankSpace(); next {
		case ']', ',':
			return spec.Slice(args[0], args[1], args[2]), nil
		default:
			tok = lex.scan()
		}
	}

	// Never found the end of the slice.
	return spec.SliceSelector{}, unexpected(tok)
}

// parseFilter parses a [spec.FilterSelector] from lex. A filter selector
// consists of a single [spec.LogicalOr] (logical-or-expr).
func (p *parser) parseFilter() (*spec.FilterSelector, error) {
	lor, err := p.parseLogicalOrExpr()
	if err != nil {
		return nil, err
	}
	return spec.Filter(lor), nil
}

// parseSeparated parses one parseNext result, then as many more as are
// joined by a run of two seps (e.g. "&&" or "||"), returning all of them.
// Blank space is skipped only once, after the first item: each parseNext
// implementation is responsible for leaving lex positioned correctly for
// its own grammar, same as the teacher's original hand-unrolled loops.
func parseSeparated[T any](lex *lexer, sep rune, parseNext func() (T, error)) ([]T, error) {
	first, err := parseNext()
	if err != nil {
		var zero []T
		return zero, err
	}
	items := []T{first}
	lex.scanBlankSpace()

	for lex.r == sep {
		lex.scan()
		next := lex.scan()
		if next.tok != sep {
			return nil, makeError(next, fmt.Sprintf("expected %q but found %v", sep, next.name()))
		}
		item, err := parseNext()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// parseLogicalOrExpr parses a [spec.LogicalOr] from lex. A [spec.LogicalOr] is
// made up of one or more [spec.LogicalAnd] (logical-and-expr) separated by
// "||".
func (p *parser) parseLogicalOrExpr() (spec.LogicalOr, error) {
	ands, err := parseSeparated(p.lex, '|', p.parseLogicalAndExpr)
	if err != nil {
		return nil, err
	}
	return spec.LogicalOr(ands), nil
}

// parseLogicalAndExpr parses a [spec.LogicalAnd] from lex. A [spec.LogicalAnd]
// is made up of one or more [spec.BasicExpr]s (basic-expr) separated by "&&".
func (p *parser) parseLogicalAndExpr() (spec.LogicalAnd, error) {
	exprs, err := parseSeparated(p.lex, '&', p.parseBasicExpr)
	if err != nil {
		return nil, err
	}
	return spec.LogicalAnd(exprs), nil
}

// parseBasicExpr parses a [spec.BasicExpr] from lex. A basic-expr may be a
// parenthesized expression (paren-expr), comparison expression
// (comparison-expr), or test expression (test-expr).
func (p *parser) parseBasicExpr() (spec.BasicExpr, error) {
	lex := p.lex
	lex.skipBlankSpace()

	switch tok := lex.scan(); tok.tok {
	case '!':
		return p.parseNegatedExpr()
	case '(':
		return p.parseParenExpr()
	case goString, integer, number, boolFalse, boolTrue, jsonNull:
		left, err := parseLiteral(tok)
		if err != nil {
			return nil, err
		}
		return p.parseComparableExpr(left)
	case identifier:
		if lex.r == '(' {
			return p.parseFunctionFilterExpr(tok)
		}
		return nil, unexpected(tok)
	case '@', '$':
		return p.parseQueryBasicExpr(tok)
	default:
		return nil, unexpected(tok)
	}
}

// parseNegatedExpr parses the basic-expr that follows a '!' already consumed
// from lex: a negated parenthesized expression, a negated function call, or
// non-existence of a query.
func (p *parser) parseNegatedExpr() (spec.BasicExpr, error) {
	lex := p.lex
	if lex.skipBlankSpace() == '(' {
		lex.scan()
		return p.parseNotParenExpr()
	}

	next := lex.scan()
	if next.tok == identifier {
		f, err := p.parseFunction(next)
		if err != nil {
			return nil, err
		}
		return spec.NotFunction(f), nil
	}

	q, err := p.parseFilterQuery(next)
	if err != nil {
		return nil, err
	}
	return spec.Nonexistence(q), nil
}

// parseQueryBasicExpr parses the basic-expr that starts with a '@' or '$'
// token already consumed from lex: either a comparison against a singular
// query or existence of the query itself.
func (p *parser) parseQueryBasicExpr(tok token) (spec.BasicExpr, error) {
	q, err := p.parseFilterQuery(tok)
	if err != nil {
		return nil, err
	}

	if sing := q.Singular(); sing != nil {
		switch p.lex.skipBlankSpace() {
		case '=', '!', '<', '>':
			return p.parseComparableExpr(sing)
		}
	}
	return &spec.ExistExpr{PathQuery: q}, nil
}

// parseFunctionFilterExpr parses a [spec.BasicExpr] (basic-expr) that starts
// with ident, which must be an identifier token that's expected to be the
// name of a function. The return value will be either a [spec.FuncExpr]
// (function-expr), if the function return value is a logical (boolean) value.
// Otherwise it will be a [spec.CompExpr] (comparison-expr), as long as the
// function call is compared to another expression. Any other configuration
// returns an error.
func (p *parser) parseFunctionFilterExpr(ident token) (spec.BasicExpr, error) {
	f, err := p.parseFunction(ident)
	if err != nil {
		return nil, err
	}

	if f.ResultType() == spec.FuncLogical {
		return f, nil
	}

	switch p.lex.skipBlankSpace() {
	case '=', '!', '<', '>':
		return p.parseComparableExpr(f)
	}

	return nil, makeError(p.lex.scan(), "missing comparison to function result")
}

// parseFilterQuery parses a [*spec.PathQuery] (rel-query / jsonpath-query)
// from lex, given its already-scanned leading '@' or '$' token.
func (p *parser) parseFilterQuery(tok token) (*spec.PathQuery, error) {
	return p.parseQuery(tok.tok == '$')
}

// parseInnerParenExpr parses a [spec.LogicalOr] from lex, which should
// return the next token after '(' from scan(). Returns an error if the
// expression does not end with a closing ')'.
func (p *parser) parseInnerParenExpr() (spec.LogicalOr, error) {
	expr, err := p.parseLogicalOrExpr()
	if err != nil {
		return nil, err
	}

	if next := p.lex.scan(); next.tok != ')' {
		return nil, makeError(
			next, fmt.Sprintf("expected ')' but found %v", next.name()),
		)
	}

	return expr, nil
}

// parseParenExpr parses a [spec.ParenExpr] (paren-expr) expression from lex,
// which should return the next token after '(' from scan(). Returns an error
// if the expression does not end with a closing ')'.
func (p *parser) parseParenExpr() (*spec.ParenExpr, error) {
	expr, err := p.parseInnerParenExpr()
	if err != nil {
		return nil, err
	}
	return spec.Paren(expr), nil
}

// parseNotParenExpr parses a [*spec.NotParenExpr] expression
// (logical-not-op paren-expression) from lex, which should return the next
// token after '(' from scan(). Returns an error if the expression does not
// end with a closing ')'.
func (p *parser) parseNotParenExpr() (*spec.NotParenExpr, error) {
	expr, err := p.parseInnerParenExpr()
	if err != nil {
		return nil, err
	}
	return spec.NotParen(expr), nil
}

// parseFunction parses a function named tok.val from lex. tok should be the
// token just before the next call to lex.scan, and must be an identifier
// token naming the function. Returns an error if the function is not found in
// the registry or if arguments are invalid for the function.
func (p *parser) parseFunction(tok token) (*spec.FuncExpr, error) {
	function := p.reg.Get(tok.val)
	if function == nil {
		return nil, makeError(tok, fmt.Sprintf("unknown function %v()", tok.val))
	}

	paren := p.lex.scan() // Drop (
	args, err := p.parseFunctionArgs()
	if err != nil {
		return nil, err
	}

	if err := function.Validate(args); err != nil {
		return nil, newError(paren, ReasonFunctionValidation, fmt.Sprintf("function %v() %v", tok.val, err.Error()))
	}

	return spec.Function(function, args...), nil
}

// parseFunctionArgs parses the comma-delimited arguments to a function from
// lex. Arguments may be one of literal, filter-query (including
// singular-query), logical-expr, or function-expr.
func (p *parser) parseFunctionArgs() ([]spec.FuncExprArg, error) {
	lex := p.lex
	args := []spec.FuncExprArg{}

	for {
		tok := lex.scan()
		if tok.tok == blankSpace {
			continue
		}
		if tok.tok == ')' {
			return args, nil
		}

		arg, err := p.parseFunctionArg(tok)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch lex.skipBlankSpace() {
		case ',':
			lex.scan()
		case ')':
			lex.scan()
			return args, nil
		default:
			return nil, unexpected(lex.scan())
		}
	}
}

// parseFunctionArg parses a single function argument starting at tok, which
// must already have been scanned from lex.
func (p *parser) parseFunctionArg(tok token) (spec.FuncExprArg, error) {
	switch tok.tok {
	case goString, integer, number, boolFalse, boolTrue, jsonNull:
		return parseLiteral(tok)
	case '@', '$':
		q, err := p.parseFilterQuery(tok)
		if err != nil {
			return nil, err
		}
		return q.Expression(), nil
	case identifier:
		if p.lex.skipBlankSpace() != '(' {
			return nil, unexpected(tok)
		}
		return p.parseFunction(tok)
	case '(':
		return p.parseInnerParenExpr()
	case '!':
		return p.parseLogicalOrExpr()
	default:
		return nil, unexpected(tok)
	}
}

// parseLiteral parses the literal value from tok into native Go values and
// returns them as spec.LiteralArg. tok.tok must be one of goString, integer,
// number, boolFalse, boolTrue, or jsonNull.
func parseLiteral(tok token) (*spec.LiteralArg, error) {
	switch tok.tok {
	case goString:
		return spec.Literal(tok.val), nil
	case integer:
		i, err := strconv.ParseInt(tok.val, 10, 64)
		if err != nil {
			return nil, makeNumErr(tok, err)
		}
		return spec.Literal(i), nil
	case number:
		num, err := strconv.ParseFloat(tok.val, 64)
		if err != nil {
			return nil, makeNumErr(tok, err)
		}
		return spec.Literal(num), nil
	case boolTrue:
		return spec.Literal(true), nil
	case boolFalse:
		return spec.Literal(false), nil
	case jsonNull:
		return spec.Literal(nil), nil
	default:
		return nil, unexpected(tok)
	}
}

// compOps maps the first rune of a comparison operator to the CompOp it
// produces, and whether a second token ("=") is required to complete it.
// '<' and '>' alone are already complete operators; '=' and '!' are not.
var compOps = map[rune]struct {
	op       spec.CompOp
	needsEq  spec.CompOp
	required bool
}{
	'=': {needsEq: spec.EqualTo, required: true},
	'!': {needsEq: spec.NotEqualTo, required: true},
	'<': {op: spec.LessThan, needsEq: spec.LessThanEqualTo},
	'>': {op: spec.GreaterThan, needsEq: spec.GreaterThanEqualTo},
}

// parseCompOp parses a [spec.CompOp] (comparison-op) from lex.
func parseCompOp(lex *lexer) (spec.CompOp, error) {
	tok := lex.scan()
	entry, ok := compOps[tok.tok]
	if !ok {
		return 0, makeError(tok, "invalid comparison operator")
	}

	if lex.r == '=' {
		lex.scan()
		return entry.needsEq, nil
	}
	if entry.required {
		return 0, makeError(tok, "invalid comparison operator")
	}
	return entry.op, nil
}

// parseComparableExpr parses a [spec.CompExpr] (comparison-expr) from lex.
func (p *parser) parseComparableExpr(left spec.CompVal) (*spec.CompExpr, error) {
	lex := p.lex
	lex.skipBlankSpace()

	op, err := parseCompOp(lex)
	if err != nil {
		return nil, err
	}

	lex.skipBlankSpace()
	right, err := p.parseComparableVal(lex.scan())
	if err != nil {
		return nil, err
	}

	return spec.Comparison(left, op, right), nil
}

// parseComparableVal parses a [spec.CompVal] (comparable) from lex.
func (p *parser) parseComparableVal(tok token) (spec.CompVal, error) {
	switch tok.tok {
	case goString, integer, number, boolFalse, boolTrue, jsonNull:
		return parseLiteral(tok)
	case '@', '$':
		return parseSingularQuery(tok, p.lex)
	case identifier:
		if p.lex.r != '(' {
			return nil, unexpected(tok)
		}
		f, err := p.parseFunction(tok)
		if err != nil {
			return nil, err
		}
		if f.ResultType() == spec.FuncLogical {
			return nil, makeError(tok, "cannot compare result of logical function")
		}
		return f, nil
	default:
		return nil, unexpected(tok)
	}
}

// parseSingularQuery parses a [spec.SingularQueryExpr] (singular-query) from
// lex. A singular query consists only of single-selector nodes.
func parseSingularQuery(startToken token, lex *lexer) (*spec.SingularQueryExpr, error) {
	selectors := []spec.Selector{}
	for {
		switch lex.r {
		case '[':
			sel, err := parseSingularBracketSelector(lex)
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, sel)
		case '.':
			lex.scan()
			tok := lex.scan()
			if tok.tok != identifier {
				return nil, unexpected(tok)
			}
			selectors = append(selectors, spec.Name(tok.val))
		default:
			return spec.SingularQuery(startToken.tok == '$', selectors...), nil
		}
	}
}

// parseSingularBracketSelector parses a single "[<name>]" or "[<index>]"
// selector of a singular query, given lex.r == '['.
func parseSingularBracketSelector(lex *lexer) (spec.Selector, error) {
	lex.skipBlankSpace()
	lex.scan()

	var sel spec.Selector
	switch tok := lex.scan(); tok.tok {
	case goString:
		sel = spec.Name(tok.val)
	case integer:
		idx, err := parsePathInt(tok)
		if err != nil {
			return nil, err
		}
		sel = spec.Index(idx)
	default:
		return nil, unexpected(tok)
	}

	lex.skipBlankSpace()
	if tok := lex.scan(); tok.tok != ']' {
		return nil, unexpected(tok)
	}
	return sel, nil
}
