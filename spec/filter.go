package spec

import (
	"strings"
)

// BasicExpr defines the basic interface for filter expressions.
// Implementations:
//
//   - [CompExpr]
//   - [ExistExpr]
//   - [FuncExpr]
//   - [LogicalAnd]
//   - [LogicalOr]
//   - [NonExistExpr]
//   - [NotFuncExpr]
//   - [NotParenExpr]
//   - [ParenExpr]
//   - [ValueType]
type BasicExpr interface {
	stringWriter
	// testFilter executes the filter expression on current and root and
	// returns true or false depending on the truthiness of its result.
	testFilter(current, root any) bool
}

// writeJoined calls writeAt(0), sep, writeAt(1), sep, …, writeAt(n-1) against
// buf. Shared by [LogicalAnd] and [LogicalOr], whose only syntactic
// difference is their joining token.
func writeJoined(buf *strings.Builder, sep string, n int, writeAt func(i int)) {
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteString(sep)
		}
		writeAt(i)
	}
}

// stringFrom renders w's string representation by delegating to its
// writeTo method against a fresh buffer.
func stringFrom(w stringWriter) string {
	buf := new(strings.Builder)
	w.writeTo(buf)
	return buf.String()
}

// LogicalAnd represents a list of one or more expressions ANDed together by
// the && operator. Evaluates to true if all of its expressions evaluate to
// true. Short-circuits and returns false for the first expression that
// returns false. Interfaces implemented:
//
//   - [BasicExpr]
//   - [fmt.Stringer]
type LogicalAnd []BasicExpr

// And creates a LogicalAnd of all expr.
func And(expr ...BasicExpr) LogicalAnd {
	return LogicalAnd(expr)
}

// String returns the string representation of la.
func (la LogicalAnd) String() string { return stringFrom(la) }

// writeTo writes the string representation of la to buf. Defined by
// [stringWriter].
func (la LogicalAnd) writeTo(buf *strings.Builder) {
	writeJoined(buf, " && ", len(la), func(i int) { la[i].writeTo(buf) })
}

// testFilter returns true if all of la's expressions return true.
// Short-circuits and returns false for the first expression that returns
// false. Defined by [BasicExpr].
func (la LogicalAnd) testFilter(current, root any) bool {
	for _, expr := range la {
		if !expr.testFilter(current, root) {
			return false
		}
	}
	return true
}

// LogicalOr represents a list of one or more expressions ORed together by the
// || operator. Evaluates to true if any of its expressions evaluates to true.
// Short-circuits and returns true for the first expression that returns true.
//
// Interfaces implemented:
//   - [BasicExpr]
//   - [FuncExprArg]
//   - [fmt.Stringer]
type LogicalOr []LogicalAnd

// Or returns a LogicalOr of all expr.
func Or(expr ...LogicalAnd) LogicalOr {
	return LogicalOr(expr)
}

// String returns the string representation of lo.
func (lo LogicalOr) String() string { return stringFrom(lo) }

// writeTo writes the string representation of lo to buf. Defined by
// [stringWriter].
func (lo LogicalOr) writeTo(buf *strings.Builder) {
	writeJoined(buf, " || ", len(lo), func(i int) { lo[i].writeTo(buf) })
}

// testFilter reports whether at least one of lo's LogicalAnd groups is
// wholly true. Defined by [BasicExpr].
func (lo LogicalOr) testFilter(current, root any) bool {
	for _, group := range lo {
		if group.testFilter(current, root) {
			return true
		}
	}
	return false
}

// execute reduces lo's truthiness to a [LogicalType]. Defined by the
// [FuncExprArg] interface.
func (lo LogicalOr) execute(current, root any) JSONPathValue {
	return Logical(lo.testFilter(current, root))
}

// ResultType returns [FuncLogical]. Defined by the [FuncExprArg] interface.
func (lo LogicalOr) ResultType() FuncType {
	return FuncLogical
}

// parenExpr factors the shared rendering and storage used by [ParenExpr]
// and [NotParenExpr]: both wrap a [LogicalOr] and differ only in whether a
// "!" precedes the parentheses and whether the wrapped result is negated.
type parenExpr struct {
	LogicalOr
}

func (p parenExpr) writeToWithPrefix(buf *strings.Builder, prefix byte, hasPrefix bool) {
	if hasPrefix {
		buf.WriteByte(prefix)
	}
	buf.WriteByte('(')
	p.LogicalOr.writeTo(buf)
	buf.WriteByte(')')
}

// ParenExpr represents a parenthesized expression that groups the elements of
// a [LogicalOr]. Interfaces implemented (via the underlying [LogicalOr]):
//   - [BasicExpr]
//   - [FuncExprArg]
//   - [fmt.Stringer]
type ParenExpr struct {
	parenExpr
}

// Paren returns a new ParenExpr that ORs the results of each expr.
func Paren(expr ...LogicalAnd) *ParenExpr {
	return &ParenExpr{parenExpr{LogicalOr: LogicalOr(expr)}}
}

// writeTo writes a string representation of p to buf. Defined by
// [stringWriter].
func (p *ParenExpr) writeTo(buf *strings.Builder) {
	p.writeToWithPrefix(buf, 0, false)
}

// String returns the string representation of p.
func (p *ParenExpr) String() string { return stringFrom(p) }

// NotParenExpr represents a negated parenthesized expression that groups the
// elements of a [LogicalOr]. Interfaces implemented (via the underlying
// [LogicalOr]):
//   - [BasicExpr]
//   - [FuncExprArg]
//   - [fmt.Stringer]
type NotParenExpr struct {
	parenExpr
}

// NotParen returns a new NotParenExpr that ORs each expr.
func NotParen(expr ...LogicalAnd) *NotParenExpr {
	return &NotParenExpr{parenExpr{LogicalOr: LogicalOr(expr)}}
}

// writeTo writes a string representation of np to buf. Defined by
// [stringWriter].
func (np *NotParenExpr) writeTo(buf *strings.Builder) {
	np.writeToWithPrefix(buf, '!', true)
}

// String returns the string representation of np.
func (np *NotParenExpr) String() string { return stringFrom(np) }

// testFilter returns the negation of np's wrapped [LogicalOr]. Defined by
// [BasicExpr].
func (np *NotParenExpr) testFilter(current, root any) bool {
	return !np.LogicalOr.testFilter(current, root)
}

// ExistExpr represents a [PathQuery] used as a filter expression, in which
// context it returns true if the [PathQuery] selects at least one node.
// Interfaces implemented:
//   - [BasicExpr]
//   - [Selector] (via the underlying [PathQuery])
//   - [fmt.Stringer] (via the underlying [PathQuery])
type ExistExpr struct {
	*PathQuery
}

// Existence creates a new [ExistExpr] for q.
func Existence(q *PathQuery) *ExistExpr {
	return &ExistExpr{PathQuery: q}
}

// testFilter reports whether e's query selects any node from current or
// root. Defined by [BasicExpr].
func (e *ExistExpr) testFilter(current, root any) bool {
	return selects(e.PathQuery, current, root)
}

// writeTo writes a string representation of e to buf. Defined by
// [stringWriter].
func (e *ExistExpr) writeTo(buf *strings.Builder) {
	buf.WriteString(e.String())
}

// NonExistExpr represents a negated [PathQuery] used as a filter expression,
// in which context it returns true if the [PathQuery] selects no nodes.
// Interfaces implemented:
//   - [BasicExpr]
//   - [Selector] (via the underlying [PathQuery])
//   - [fmt.Stringer] (via the underlying [PathQuery])
type NonExistExpr struct {
	*PathQuery
}

// Nonexistence creates a new [NonExistExpr] for q.
func Nonexistence(q *PathQuery) *NonExistExpr {
	return &NonExistExpr{PathQuery: q}
}

// writeTo writes a string representation of ne to buf. Defined by
// [stringWriter].
func (ne NonExistExpr) writeTo(buf *strings.Builder) {
	buf.WriteByte('!')
	buf.WriteString(ne.String())
}

// testFilter reports whether ne's query selects no node from current or
// root. Defined by [BasicExpr].
func (ne NonExistExpr) testFilter(current, root any) bool {
	return !selects(ne.PathQuery, current, root)
}

// selects reports whether q yields at least one node against current/root.
// Shared by [ExistExpr] and [NonExistExpr], which differ only in negation.
func selects(q *PathQuery, current, root any) bool {
	return len(q.Select(current, root)) != 0
}
