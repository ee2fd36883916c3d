package spec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theory/jsonpath/internal/boundedint"
)

// stringWriter defines the interface for JSONPath objects to write string
// representations of themselves to a string buffer.
type stringWriter interface {
	fmt.Stringer
	// writeTo writes a string to buf.
	writeTo(buf *strings.Builder)
}

// Selector represents a single Selector in an RFC 9535 JSONPath query.
type Selector interface {
	stringWriter

	// Select selects values from current and/or root and returns them.
	Select(current, root any) []any

	// SelectLocated selects values from current and/or root and returns them
	// in [LocatedNode] values with their located normalized paths
	SelectLocated(current, root any, parent NormalizedPath) []*LocatedNode

	// isSingular returns true for selectors that can only return a single
	// value.
	isSingular() bool
}

// Name is a key name selector, e.g., .name or ["name"], as defined by [RFC
// 9535 Section 2.3.1]. Interfaces implemented:
//   - [Selector]
//   - [fmt.Stringer]
//   - [NormalSelector]
//
// [RFC 9535 Section 2.3.1]: https://www.rfc-editor.org/rfc/rfc9535.html#name-name-selector
type Name string

// isSingular returns true because Name selects a single value from an object.
// Defined by the [Selector] interface.
func (Name) isSingular() bool { return true }

// String returns the quoted string representation of n.
func (n Name) String() string {
	return strconv.Quote(string(n))
}

// writeTo writes a quoted string representation of i to buf. Defined by
// [stringWriter].
func (n Name) writeTo(buf *strings.Builder) {
	buf.WriteString(n.String())
}

// Select selects n from input and returns it as a single value in a slice.
// Returns an empty slice if input is not a JSON object or if it does not
// contain n. Defined by the [Selector] interface.
func (n Name) Select(input, _ any) []any {
	val, ok := nameLookup(input, string(n))
	return singleOrEmpty(val, ok)
}

// SelectLocated selects n from input and returns it with its normalized path
// as a single [LocatedNode] in a slice. Returns an empty slice if input is
// not a JSON object or if it does not contain n. Defined by the [Selector]
// interface.
func (n Name) SelectLocated(input, _ any, parent NormalizedPath) []*LocatedNode {
	val, ok := nameLookup(input, string(n))
	return singleLocatedOrEmpty(n, val, ok, parent)
}

// singleOrEmpty returns []any{val} when ok is true, or an empty, non-nil
// slice otherwise. Shared by the singular selectors (Name, Index).
func singleOrEmpty(val any, ok bool) []any {
	if ok {
		return []any{val}
	}
	return make([]any, 0)
}

// singleLocatedOrEmpty returns val as a single [LocatedNode] located at
// parent+sel when ok is true, or an empty, non-nil slice otherwise. Shared by
// the singular selectors (Name, Index).
func singleLocatedOrEmpty(sel NormalSelector, val any, ok bool, parent NormalizedPath) []*LocatedNode {
	if ok {
		return []*LocatedNode{newLocatedNode(append(parent, sel), val)}
	}
	return make([]*LocatedNode, 0)
}

// nameLookup returns the value stored under key in input and whether it was
// found, supporting both a bare map[string]any and an [OrderedObject].
func nameLookup(input any, key string) (any, bool) {
	switch obj := input.(type) {
	case map[string]any:
		val, ok := obj[key]
		return val, ok
	case OrderedObject:
		return obj.Value(key)
	default:
		return nil, false
	}
}

// normalizedEscapes maps the runes [RFC 9535 Section 2.7] requires a
// shorthand backslash escape for in a normalized-path name selector.
//
// [RFC 9535 Section 2.7]: https://www.rfc-editor.org/rfc/rfc9535#section-2.7
var normalizedEscapes = map[rune]string{
	'\b': `\b`, '\f': `\f`, '\n': `\n`, '\r': `\r`,
	'\t': `\t`, '\'': `\'`, '\\': `\\`,
}

// writeNormalizedTo writes n to buf formatted as a [normalized path] element.
// Defined by [NormalSelector].
//
// [normalized path]: https://www.rfc-editor.org/rfc/rfc9535#section-2.7
func (n Name) writeNormalizedTo(buf *strings.Builder) {
	buf.WriteString("['")
	for _, r := range string(n) {
		if esc, ok := normalizedEscapes[r]; ok {
			buf.WriteString(esc)
			continue
		}
		if r <= 0x0f {
			// Remaining C0 controls not already escaped above:
			// "00"-"07", "0b", "0e"-"0f".
			fmt.Fprintf(buf, `\u000%x`, r)
			continue
		}
		buf.WriteRune(r)
	}
	buf.WriteString("']")
}

// writePointerTo writes n to buf formatted as a [JSON Pointer] reference
// token. Defined by [NormalSelector].
//
// [JSON Pointer]: https://www.rfc-editor.org/rfc/rfc6901
func (n Name) writePointerTo(buf *strings.Builder) {
	buf.WriteString(strings.ReplaceAll(
		strings.ReplaceAll(string(n), "~", "~0"),
		"/", "~1",
	))
}

// WildcardSelector is a wildcard selector, e.g., * or [*], as defined by [RFC
// 9535 Section 2.3.2]. Interfaces implemented:
//   - [Selector]
//   - [fmt.Stringer]
//
// [RFC 9535 Section 2.3.2]: https://www.rfc-editor.org/rfc/rfc9535.html#name-wildcard-selector
type WildcardSelector struct{}

// Wildcard is the [WildcardSelector] singleton.
//
//nolint:gochecknoglobals
var Wildcard = WildcardSelector{}

// writeTo writes "*" to buf. Defined by [stringWriter].
func (WildcardSelector) writeTo(buf *strings.Builder) { buf.WriteByte('*') }

// String returns "*".
func (WildcardSelector) String() string { return "*" }

// isSingular returns false because a wild card can select more than one value
// from an object or array. Defined by the [Selector] interface.
func (WildcardSelector) isSingular() bool { return false }

// Select selects the values from input and returns them in a slice. Returns
// an empty slice if input is not a JSON array or object. Object members are
// returned in the deterministic order reported by [objectEntries]. Defined by
// the [Selector] interface.
func (WildcardSelector) Select(input, _ any) []any {
	if val, ok := input.([]any); ok {
		return val
	}
	if _, vals, ok := objectEntries(input); ok {
		return vals
	}
	return make([]any, 0)
}

// SelectLocated selects the values from input and returns them with their
// normalized paths in a slice of [LocatedNode] values. Returns an empty
// slice if input is not a JSON array or object. Object members are returned
// in the deterministic order reported by [objectEntries]. Defined by the
// [Selector] interface.
func (WildcardSelector) SelectLocated(input, _ any, parent NormalizedPath) []*LocatedNode {
	if val, ok := input.([]any); ok {
		vals := make([]*LocatedNode, len(val))
		for i, v := range val {
			vals[i] = newLocatedNode(append(parent, Index(i)), v)
		}
		return vals
	}
	if keys, vals, ok := objectEntries(input); ok {
		nodes := make([]*LocatedNode, len(keys))
		for i, k := range keys {
			nodes[i] = newLocatedNode(append(parent, Name(k)), vals[i])
		}
		return nodes
	}
	return make([]*LocatedNode, 0)
}

// Index is an array index selector, e.g., [3], as defined by [RFC
// 9535 Section 2.3.3]. Interfaces
// implemented:
//   - [Selector]
//   - [fmt.Stringer]
//   - [NormalSelector]
//
// [RFC 9535 Section 2.3.3]: https://www.rfc-editor.org/rfc/rfc9535.html#name-index-selector
type Index int

// isSingular returns true because Index selects a single value from an array.
// Defined by the [Selector] interface.
func (Index) isSingular() bool { return true }

// writeTo writes a string representation of i to buf. Defined by
// [stringWriter].
func (i Index) writeTo(buf *strings.Builder) {
	buf.WriteString(i.String())
}

// String returns a string representation of i.
func (i Index) String() string { return strconv.FormatInt(int64(i), 10) }

// resolve returns the value at i in val and the normalized non-negative
// index it resolved to, along with whether i is in bounds of val.
func (i Index) resolve(val []any) (any, Index, bool) {
	idx := int(i)
	if idx < 0 {
		if idx += len(val); idx < 0 {
			return nil, 0, false
		}
	} else if idx >= len(val) {
		return nil, 0, false
	}
	return val[idx], Index(idx), true
}

// Select selects i from input and returns it as a single value in a slice.
// Returns an empty slice if input is not a slice or if i it outside the
// bounds of input. Defined by the [Selector] interface.
func (i Index) Select(input, _ any) []any {
	val, ok := input.([]any)
	if !ok {
		return make([]any, 0)
	}
	v, _, ok := i.resolve(val)
	return singleOrEmpty(v, ok)
}

// SelectLocated selects i from input and returns it with its normalized path
// as a single [LocatedNode] in a slice. Returns an empty slice if input is
// not a slice or if i it outside the bounds of input. Defined by the
// [Selector] interface.
func (i Index) SelectLocated(input, _ any, parent NormalizedPath) []*LocatedNode {
	val, ok := input.([]any)
	if !ok {
		return make([]*LocatedNode, 0)
	}
	v, idx, ok := i.resolve(val)
	return singleLocatedOrEmpty(idx, v, ok, parent)
}

// writeNormalizedTo writes n to buf formatted as a [normalized path] element.
// Implements [NormalSelector].
//
// [normalized path]: https://www.rfc-editor.org/rfc/rfc9535#section-2.7
func (i Index) writeNormalizedTo(buf *strings.Builder) {
	buf.WriteRune('[')
	buf.WriteString(strconv.FormatInt(int64(i), 10))
	buf.WriteRune(']')
}

// writePointerTo writes n to buf formatted as a [JSON Pointer] reference
// token. Defined by [NormalSelector].
//
// [JSON Pointer]: https://www.rfc-editor.org/rfc/rfc6901
func (i Index) writePointerTo(buf *strings.Builder) {
	buf.WriteString(strconv.FormatInt(int64(i), 10))
}

// SliceSelector is a slice selector, e.g., [0:100:5], as defined by [RFC
// 9535 Section 2.3.4]. Interfaces implemented:
//   - [Selector]
//   - [fmt.Stringer]
//
// [RFC 9535 Section 2.3.4]: https://www.rfc-editor.org/rfc/rfc9535.html#name-array-slice-selector
type SliceSelector struct {
	// Start of the slice; defaults to 0.
	start int
	// End of the slice; defaults to math.MaxInt.
	end int
	// Steps between start and end; defaults to 1.
	step int
}

// isSingular returns false because a slice selector can select more than one
// value from an array. Defined by the [Selector] interface.
func (SliceSelector) isSingular() bool { return false }

// Slice creates a new [SliceSelector]. Pass up to three integers or nils for
// the start, end, and step arguments. Subsequent arguments are ignored.
func Slice(args ...any) SliceSelector {
	const (
		startArg = 0
		endArg   = 1
		stepArg  = 2
	)
	// Set defaults.
	s := SliceSelector{0, math.MaxInt, 1}
	switch len(args) - 1 {
	case stepArg:
		//nolint:gosec // disable G602 https://github.com/securego/gosec/issues/1250
		switch step := args[stepArg].(type) {
		case int:
			s.step = step
		case nil:
			// Nothing to do
		default:
			panic("Third value passed to Slice is not an integer")
		}
		fallthrough
	case endArg:
		//nolint:gosec // disable G602 https://github.com/securego/gosec/issues/1250
		switch end := args[endArg].(type) {
		case int:
			s.end = end
		case nil:
			// Negative step: end with minimum int.
			if s.step < 0 {
				s.end = math.MinInt
			}
		default:
			panic("Second value passed to Slice is not an integer")
		}
		fallthrough
	case startArg:
		switch start := args[startArg].(type) {
		case int:
			s.start = start
		case nil:
			// Negative step: start with maximum int.
			if s.step < 0 {
				s.start = math.MaxInt
			}
		default:
			panic("First value passed to Slice is not an integer")
		}
	}
	return s
}

// writeTo writes a string representation of s to buf. Defined by
// [stringWriter].
func (s SliceSelector) writeTo(buf *strings.Builder) {
	if s.start != 0 && (s.step >= 0 || s.start != math.MaxInt) {
		buf.WriteString(strconv.FormatInt(int64(s.start), 10))
	}
	buf.WriteByte(':')
	if s.end != math.MaxInt && (s.step >= 0 || s.end != math.MinInt) {
		buf.WriteString(strconv.FormatInt(int64(s.end), 10))
	}
	if s.step != 1 {
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(int64(s.step), 10))
	}
}

// String returns a string representation of s.
func (s SliceSelector) String() string {
	buf := new(strings.Builder)
	s.writeTo(buf)
	return buf.String()
}

// indexes calls visit with each array index s selects out of a slice of
// length, in RFC 9535 slice-selector order (ascending for a positive step,
// descending for a negative one).
func (s SliceSelector) indexes(length int, visit func(i int)) {
	lower, upper := s.Bounds(length)
	switch {
	case s.step > 0:
		for i := lower; i < upper; i += s.step {
			visit(i)
		}
	case s.step < 0:
		for i := upper; lower < i; i += s.step {
			visit(i)
		}
	}
}

// Select selects and returns the values from input for the indexes specified
// by s. Returns an empty slice if input is not a slice. Indexes outside the
// bounds of input will not be included in the return value. Defined by the
// [Selector] interface.
func (s SliceSelector) Select(input, _ any) []any {
	val, ok := input.([]any)
	if !ok {
		return make([]any, 0)
	}
	res := make([]any, 0, len(val))
	s.indexes(len(val), func(i int) { res = append(res, val[i]) })
	return res
}

// SelectLocated selects values from input for the indexes specified by s and
// returns thm with their normalized paths as [LocatedNode] values. Returns
// an empty slice if input is not a slice. Indexes outside the bounds of input
// will not be included in the return value. Defined by the [Selector]
// interface.
func (s SliceSelector) SelectLocated(input, _ any, parent NormalizedPath) []*LocatedNode {
	val, ok := input.([]any)
	if !ok {
		return make([]*LocatedNode, 0)
	}
	res := make([]*LocatedNode, 0, len(val))
	s.indexes(len(val), func(i int) {
		res = append(res, newLocatedNode(append(parent, Index(i)), val[i]))
	})
	return res
}

// Start returns the start position.
func (s SliceSelector) Start() int {
	return s.start
}

// End returns the end position.
func (s SliceSelector) End() int {
	return s.end
}

// Step returns the step value.
func (s SliceSelector) Step() int {
	return s.step
}

// Bounds returns the lower and upper bounds for selecting from a slice of
// length.
func (s SliceSelector) Bounds(length int) (int, int) {
	start := normalize(s.start, length)
	end := normalize(s.end, length)
	switch {
	case s.step > 0:
		return max(min(start, length), 0), max(min(end, length), 0)
	case s.step < 0:
		return max(min(end, length-1), -1), max(min(start, length-1), -1)
	default:
		return 0, 0
	}
}

// normalize normalizes index i relative to a slice of length.
func normalize(i, length int) int {
	if i >= 0 {
		return i
	}

	// boundedint.Add fails when an operand or the sum falls outside
	// ±(2^53-1), as with the math.MinInt end of a default negative-step
	// slice; fall back to the sentinel bounds that Bounds then clamps.
	if sum, ok := boundedint.Add(int64(length), int64(i)); ok {
		return int(sum)
	}
	if i < 0 {
		return math.MinInt
	}
	return math.MaxInt
}

// FilterSelector is a filter selector, e.g., ?(), as defined by [RFC
// 9535 Section 2.3.5]. Interfaces implemented:
//   - [Selector]
//   - [fmt.Stringer]
//
// [RFC 9535 Section 2.3.5]: https://www.rfc-editor.org/rfc/rfc9535.html#name-filter-selector
type FilterSelector struct {
	LogicalOr
}

// Filter returns a new [FilterSelector] that ORs the evaluation of each expr.
func Filter(expr ...LogicalAnd) *FilterSelector {
	return &FilterSelector{LogicalOr: expr}
}

// String returns a string representation of f.
func (f *FilterSelector) String() string {
	buf := new(strings.Builder)
	f.writeTo(buf)
	return buf.String()
}

// writeTo writes a string representation of f to buf. Defined by
// [stringWriter].
func (f *FilterSelector) writeTo(buf *strings.Builder) {
	buf.WriteRune('?')
	f.LogicalOr.writeTo(buf)
}

// Select selects and returns values that f filters from current. Filter
// expressions may evaluate the current value (@), the root value ($), or any
// path expression. Defined by the [Selector] interface.
func (f *FilterSelector) Select(current, root any) []any {
	ret := []any{}
	if arr, ok := current.([]any); ok {
		for _, v := range arr {
			if f.Eval(v, root) {
				ret = append(ret, v)
			}
		}
		return ret
	}
	if _, vals, ok := objectEntries(current); ok {
		for _, v := range vals {
			if f.Eval(v, root) {
				ret = append(ret, v)
			}
		}
	}

	return ret
}

// SelectLocated selects and returns [LocatedNode] values with values that f
// filters from current. Filter expressions may evaluate the current value
// (@), the root value ($), or any path expression. Defined by the [Selector]
// interface.
func (f *FilterSelector) SelectLocated(current, root any, parent NormalizedPath) []*LocatedNode {
	ret := []*LocatedNode{}
	if arr, ok := current.([]any); ok {
		for i, v := range arr {
			if f.Eval(v, root) {
				ret = append(ret, newLocatedNode(append(parent, Index(i)), v))
			}
		}
		return ret
	}
	if keys, vals, ok := objectEntries(current); ok {
		for i, k := range keys {
			if f.Eval(vals[i], root) {
				ret = append(ret, newLocatedNode(append(parent, Name(k)), vals[i]))
			}
		}
	}

	return ret
}

// Eval evaluates the f's [LogicalOr] expression against node and root. Uses
// [FilterSelector.Select] as it iterates over nodes, and always passes the
// root value($) for filter expressions that reference it.
func (f *FilterSelector) Eval(node, root any) bool {
	return f.testFilter(node, root)
}

// isSingular returns false because Filters can return more than one value.
// Defined by the [Selector] interface.
func (f *FilterSelector) isSingular() bool { return false }
