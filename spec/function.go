package spec

//go:generate stringer -linecomment -output function_string.go -type LogicalType,FuncType

import (
	"fmt"
	"strings"
)

// FuncType defines the function argument expressions and return types
// defined by [RFC 9535]. Function extensions check that these types can be
// converted to the type expected by each of their parameters.
//
// [RFC 9535]: https://www.rfc-editor.org/rfc/rfc9535.html
type FuncType uint8

//revive:disable:exported
const (
	// FuncLiteral represents a literal JSON value.
	FuncLiteral FuncType = iota + 1 // Literal

	// FuncSingularQuery represents a value from a singular query.
	FuncSingularQuery // SingularQuery

	// FuncValue represents a JSON value, used to represent functions that
	// return [ValueType].
	FuncValue // Value

	// FuncNodes represents a node list, either from a filter query argument,
	// or a function that returns [NodesType].
	FuncNodes // Nodes

	// FuncLogical represents a logical, either from a logical expression, or
	// from a function that returns [LogicalType].
	FuncLogical // Logical
)

// ConvertsToValue returns true if a function argument of type ft can be
// converted to a [ValueType].
func (ft FuncType) ConvertsToValue() bool {
	switch ft {
	case FuncLiteral, FuncSingularQuery, FuncValue:
		return true
	default:
		return false
	}
}

// ConvertsToLogical returns true if a function argument of type ft can be
// converted to a [LogicalType].
func (ft FuncType) ConvertsToLogical() bool {
	switch ft {
	case FuncSingularQuery, FuncNodes, FuncLogical:
		return true
	default:
		return false
	}
}

// ConvertsToNodes returns true if a function argument of type ft can be
// converted to a [NodesType].
func (ft FuncType) ConvertsToNodes() bool {
	switch ft {
	case FuncSingularQuery, FuncNodes:
		return true
	default:
		return false
	}
}

// JSONPathValue defines the interface for JSON path values.
type JSONPathValue interface {
	stringWriter
	// FuncType returns the JSONPathValue's FuncType.
	FuncType() FuncType
}

// NodesType defines the JSONPath type representing a node list; in other
// words, a list of JSON values.
type NodesType []any

// Nodes returns a new NodesType containing vals.
func Nodes(vals ...any) NodesType { return NodesType(vals) }

// FuncType returns FuncNodes. Defined by the JSONPathValue interface.
func (NodesType) FuncType() FuncType { return FuncNodes }

// NodesFrom attempts to convert value to a NodesType and panics if it
// cannot.
func NodesFrom(value JSONPathValue) NodesType {
	switch v := value.(type) {
	case NodesType:
		return v
	case *ValueType:
		return NodesType([]any{v.any})
	case nil:
		return NodesType([]any{})
	default:
		panic(fmt.Sprintf("unexpected argument of type %T", v))
	}
}

// writeTo writes a string representation of nt to buf.
func (nt NodesType) writeTo(buf *strings.Builder) {
	fmt.Fprintf(buf, "%v", []any(nt))
}

// String returns a string representation of nt.
func (nt NodesType) String() string {
	var buf strings.Builder
	nt.writeTo(&buf)
	return buf.String()
}

// LogicalType is a JSONPath type that represents true or false.
type LogicalType uint8

//revive:disable:exported
const (
	LogicalFalse LogicalType = iota // false
	LogicalTrue                     // true
)

// Logical returns LogicalTrue if b is true, and LogicalFalse otherwise.
func Logical(b bool) LogicalType {
	if b {
		return LogicalTrue
	}
	return LogicalFalse
}

// Bool returns the boolean equivalent to lt.
func (lt LogicalType) Bool() bool { return lt == LogicalTrue }

// FuncType returns FuncLogical. Defined by the JSONPathValue interface.
func (LogicalType) FuncType() FuncType { return FuncLogical }

// LogicalFrom attempts to convert value to a LogicalType and panics if it
// cannot.
func LogicalFrom(value any) LogicalType {
	switch v := value.(type) {
	case LogicalType:
		return v
	case NodesType:
		return Logical(len(v) > 0)
	case bool:
		return Logical(v)
	case nil:
		return LogicalFalse
	default:
		panic(fmt.Sprintf("unexpected argument of type %T", v))
	}
}

// writeTo writes a string representation of lt to buf.
func (lt LogicalType) writeTo(buf *strings.Builder) {
	buf.WriteString(lt.String())
}

// ValueType encapsulates a JSON value, which should be a string, integer,
// float, nil, true, false, []any, or an object (map[string]any or an
// [OrderedObject]). A nil ValueType pointer indicates no value.
type ValueType struct {
	any
}

// Value returns a new ValueType.
func Value(val any) *ValueType {
	return &ValueType{val}
}

// Value returns the underlying value of vt.
func (vt *ValueType) Value() any { return vt.any }

// FuncType returns FuncValue. Defined by the JSONPathValue interface.
func (*ValueType) FuncType() FuncType { return FuncValue }

// ValueFrom attempts to convert value to a ValueType and panics if it
// cannot.
func ValueFrom(value JSONPathValue) *ValueType {
	switch v := value.(type) {
	case *ValueType:
		return v
	case nil:
		return nil
	}
	panic(fmt.Sprintf("unexpected argument of type %T", value))
}

// testFilter returns true if vt.any is truthy. Defined by the BasicExpr
// interface.
func (vt *ValueType) testFilter(_, _ any) bool {
	switch v := vt.any.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case int8:
		return v != int8(0)
	case int16:
		return v != int16(0)
	case int32:
		return v != int32(0)
	case int64:
		return v != int64(0)
	case uint:
		return v != 0
	case uint8:
		return v != uint8(0)
	case uint16:
		return v != uint16(0)
	case uint32:
		return v != uint32(0)
	case uint64:
		return v != uint64(0)
	case float32:
		return v != float32(0)
	case float64:
		return v != float64(0)
	default:
		if f, ok := numericValue(v); ok {
			return f != 0
		}
		return true
	}
}

// writeTo writes a string representation of vt's underlying value to buf.
func (vt *ValueType) writeTo(buf *strings.Builder) {
	fmt.Fprintf(buf, "%v", vt.any)
}

// String returns a string representation of vt's underlying value.
func (vt *ValueType) String() string {
	var buf strings.Builder
	vt.writeTo(&buf)
	return buf.String()
}

// FuncExtension defines a registered JSONPath function extension. Function
// extensions are created with [Extension] and looked up by name through a
// [github.com/theory/jsonpath/registry.Registry]; this package never
// resolves a function by name itself, keeping the registry the single
// source of truth for which names are known.
type FuncExtension struct {
	// name is the name of the function. Must be unique among all functions
	// in a given registry.
	name string

	// resultType defines the type of the function return value.
	resultType FuncType

	// validator executes at parse time to validate that all the args to
	// the function are compatible with the function.
	validator func(args []FuncExprArg) error

	// evaluator executes the function against args and returns the result
	// of type resultType.
	evaluator func(args []JSONPathValue) JSONPathValue
}

// Extension creates and returns a new FuncExtension. It panics if validate
// or evaluate is nil; registries are expected to enforce that constraint
// and report it as an ordinary error before ever calling Extension.
func Extension(
	name string,
	resultType FuncType,
	validate func(args []FuncExprArg) error,
	evaluate func(args []JSONPathValue) JSONPathValue,
) *FuncExtension {
	if validate == nil || evaluate == nil {
		panic("spec: Extension requires a validator and an evaluator")
	}
	return &FuncExtension{name: name, resultType: resultType, validator: validate, evaluator: evaluate}
}

// Name returns the name under which fe was registered.
func (fe *FuncExtension) Name() string { return fe.name }

// ReturnType returns the FuncType that describes the value fe.evaluator
// returns.
func (fe *FuncExtension) ReturnType() FuncType { return fe.resultType }

// Validate runs fe's parse-time argument validation against args.
func (fe *FuncExtension) Validate(args []FuncExprArg) error { return fe.validator(args) }

// Evaluate runs fe's function body against args.
func (fe *FuncExtension) Evaluate(args []JSONPathValue) JSONPathValue { return fe.evaluator(args) }

// FuncExprArg defines the interface for function argument expressions.
type FuncExprArg interface {
	stringWriter
	// execute evaluates the function expression against current and root
	// and returns the resulting JSONPathValue.
	execute(current, root any) JSONPathValue
	// ResultType returns the FuncType that defines the type of the return
	// value of JSONPathValue.
	ResultType() FuncType
}

// LiteralArg represents a literal JSON value, excluding objects and arrays.
type LiteralArg struct {
	// Number, string, bool, or null
	literal any
}

// Literal creates and returns a new LiteralArg.
func Literal(lit any) *LiteralArg {
	return &LiteralArg{lit}
}

// Value returns the underlying value of la.
func (la *LiteralArg) Value() any { return la.literal }

// execute returns a [ValueType] containing the literal value. Defined by
// the [FuncExprArg] interface.
func (la *LiteralArg) execute(_, _ any) JSONPathValue {
	return &ValueType{la.literal}
}

// ResultType returns FuncLiteral. Defined by the [FuncExprArg] interface.
func (la *LiteralArg) ResultType() FuncType {
	return FuncLiteral
}

// writeTo writes a string representation of la to buf.
func (la *LiteralArg) writeTo(buf *strings.Builder) {
	switch v := la.literal.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		buf.WriteByte('"')
		buf.WriteString(v)
		buf.WriteByte('"')
	default:
		fmt.Fprintf(buf, "%v", v)
	}
}

// asValue returns la.literal as a [ValueType]. Defined by the
// [comparableVal] interface.
func (la *LiteralArg) asValue(_, _ any) JSONPathValue {
	return &ValueType{la.literal}
}

// String returns a string representation of la.
func (la *LiteralArg) String() string {
	var buf strings.Builder
	la.writeTo(&buf)
	return buf.String()
}

// SingularQueryExpr represents a query that produces a single node (JSON
// value), or nothing.
type SingularQueryExpr struct {
	// The kind of singular query, relative (from the current node) or
	// absolute (from the root node).
	relative bool
	// The query Name and/or Index selectors.
	selectors []Selector
}

// SingularQuery creates and returns a SingularQueryExpr.
func SingularQuery(root bool, selectors ...Selector) *SingularQueryExpr {
	return &SingularQueryExpr{relative: !root, selectors: selectors}
}

// execute returns a [ValueType] containing the return value of executing
// sq. Defined by the [FuncExprArg] interface.
func (sq *SingularQueryExpr) execute(current, root any) JSONPathValue {
	target := root
	if sq.relative {
		target = current
	}

	for _, seg := range sq.selectors {
		res := seg.Select(target, nil)
		if len(res) == 0 {
			return nil
		}
		target = res[0]
	}

	return &ValueType{target}
}

// ResultType returns FuncSingularQuery. Defined by the [FuncExprArg]
// interface.
func (*SingularQueryExpr) ResultType() FuncType { return FuncSingularQuery }

// asValue returns the result of executing sq.execute against current and
// root. Defined by the [comparableVal] interface.
func (sq *SingularQueryExpr) asValue(current, root any) JSONPathValue {
	return sq.execute(current, root)
}

// writeTo writes a string representation of sq to buf.
func (sq *SingularQueryExpr) writeTo(buf *strings.Builder) {
	if sq.relative {
		buf.WriteRune('@')
	} else {
		buf.WriteRune('$')
	}

	for _, seg := range sq.selectors {
		buf.WriteRune('[')
		seg.writeTo(buf)
		buf.WriteRune(']')
	}
}

// String returns a string representation of sq.
func (sq *SingularQueryExpr) String() string {
	var buf strings.Builder
	sq.writeTo(&buf)
	return buf.String()
}

// NodesQueryExpr represents a JSONPath Query used as a function argument in
// a filter expression.
type NodesQueryExpr struct {
	*PathQuery
}

// NodesQuery creates and returns a new NodesQueryExpr.
func NodesQuery(q *PathQuery) *NodesQueryExpr {
	return &NodesQueryExpr{q}
}

// execute returns a [NodesType] containing the result of executing nq.
// Defined by the [FuncExprArg] interface.
func (nq *NodesQueryExpr) execute(current, root any) JSONPathValue {
	return NodesType(nq.Select(current, root))
}

// ResultType returns FuncSingularQuery if nq is a singular query, and
// FuncNodes if it is not. Defined by the [FuncExprArg] interface.
func (nq *NodesQueryExpr) ResultType() FuncType {
	if nq.isSingular() {
		return FuncSingularQuery
	}
	return FuncNodes
}

// writeTo writes a string representation of nq to buf.
func (nq *NodesQueryExpr) writeTo(buf *strings.Builder) {
	buf.WriteString(nq.PathQuery.String())
}

// FuncExpr represents a function expression, consisting of a resolved
// function extension and its arguments. Use [Function] to construct one
// from a [*FuncExtension] already resolved from a registry.
type FuncExpr struct {
	args []FuncExprArg
	fn   *FuncExtension
}

// Function creates and returns a new FuncExpr that will evaluate fn
// against args.
func Function(fn *FuncExtension, args ...FuncExprArg) *FuncExpr {
	return &FuncExpr{args: args, fn: fn}
}

// writeTo writes the string representation of fe to buf.
func (fe *FuncExpr) writeTo(buf *strings.Builder) {
	buf.WriteString(fe.fn.name + "(")
	for i, arg := range fe.args {
		arg.writeTo(buf)
		if i < len(fe.args)-1 {
			buf.WriteString(", ")
		}
	}
	buf.WriteRune(')')
}

// String returns a string representation of fe.
func (fe *FuncExpr) String() string {
	var buf strings.Builder
	fe.writeTo(&buf)
	return buf.String()
}

// execute evaluates each argument in fe.args and returns the result of
// evaluating fe.fn against them. Defined by the [FuncExprArg] interface.
func (fe *FuncExpr) execute(current, root any) JSONPathValue {
	res := make([]JSONPathValue, len(fe.args))
	for i, a := range fe.args {
		res[i] = a.execute(current, root)
	}

	return fe.fn.Evaluate(res)
}

// ResultType returns the result type of fe.fn. Defined by the [FuncExprArg]
// interface.
func (fe *FuncExpr) ResultType() FuncType {
	return fe.fn.ReturnType()
}

// asValue returns the result of executing fe.execute against current and
// root. Defined by the [comparableVal] interface.
func (fe *FuncExpr) asValue(current, root any) JSONPathValue {
	return fe.execute(current, root)
}

// testFilter executes fe and returns true if the function returns a truthy
// value:
//
//   - If the result is [NodesType], returns true if it is not empty.
//   - If the result is [*ValueType], returns true if its underlying value
//     is truthy.
//   - If the result is [LogicalType], returns the underlying boolean.
//
// Returns false in all other cases.
func (fe *FuncExpr) testFilter(current, root any) bool {
	switch res := fe.execute(current, root).(type) {
	case NodesType:
		return len(res) > 0
	case *ValueType:
		return res.testFilter(current, root)
	case LogicalType:
		return res.Bool()
	default:
		return false
	}
}

// NotFuncExpr represents a "!func()" expression. It reverses the result of
// the return value of a function expression.
type NotFuncExpr struct {
	*FuncExpr
}

// NotFunction creates and returns a NotFuncExpr that negates fe.
func NotFunction(fe *FuncExpr) *NotFuncExpr {
	return &NotFuncExpr{fe}
}

// testFilter returns the inverse of nf.FuncExpr.testFilter().
func (nf *NotFuncExpr) testFilter(current, root any) bool {
	return !nf.FuncExpr.testFilter(current, root)
}

// writeTo writes a string representation of nf to buf.
func (nf *NotFuncExpr) writeTo(buf *strings.Builder) {
	buf.WriteRune('!')
	nf.FuncExpr.writeTo(buf)
}

// String returns a string representation of nf.
func (nf *NotFuncExpr) String() string {
	var buf strings.Builder
	nf.writeTo(&buf)
	return buf.String()
}
